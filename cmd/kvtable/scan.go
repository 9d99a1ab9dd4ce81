package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/qual"
	"github.com/zhiqiangxu/kvtable/scan"
	"go.mongodb.org/mongo-driver/bson"
)

const (
	formatText = "text"
	formatJSON = "json"
)

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Print every row of the table",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := newTableConfig(cmd.Flags())
			if err != nil {
				return
			}
			key, _ := cmd.Flags().GetString("key")
			format, _ := cmd.Flags().GetString("format")
			return runScan(cmd.Context(), cmd.OutOrStdout(), c, key, format)
		},
	}
	addTableFlags(cmd.Flags())
	cmd.Flags().String("key", "", "only the row with this key")
	cmd.Flags().String("format", formatText, "output format, text or json")
	return cmd
}

func beginOption(key string, explainOnly bool) (bo scan.BeginOption) {
	bo.ExplainOnly = explainOnly
	if key != "" {
		bo.Quals = []qual.Expr{qual.TextEq(1, key)}
	}
	return
}

func runScan(ctx context.Context, w io.Writer, c *tableConfig, key, format string) (err error) {
	if format != formatText && format != formatJSON {
		return fmt.Errorf("unknown format %q, must be %s or %s", format, formatText, formatJSON)
	}

	options, err := c.TableOptions()
	if err != nil {
		return
	}
	dialer, err := c.Dialer()
	if err != nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	s, err := scan.Begin(ctx, dialer, options, beginOption(key, false))
	if err != nil {
		return
	}
	defer s.End()

	for {
		row, ok, err := s.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		// the pushed down predicate is rechecked here
		if key != "" && row.Key != key {
			continue
		}
		if err = writeRow(w, row, format); err != nil {
			return err
		}
	}
}

func writeRow(w io.Writer, row kvtable.Row, format string) (err error) {
	if format == formatText {
		_, err = fmt.Fprintf(w, "%s\t%s\n", strconv.Quote(row.Key), row.Value)
		return
	}

	data, err := bson.MarshalExtJSON(bson.D{{Key: "key", Value: row.Key}, {Key: "value", Value: row.Value}}, false, false)
	if err != nil {
		return
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Print the estimated size of the table",
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			c, err := newTableConfig(cmd.Flags())
			if err != nil {
				return
			}
			key, _ := cmd.Flags().GetString("key")
			return runExplain(cmd.Context(), cmd.OutOrStdout(), c, key)
		},
	}
	addTableFlags(cmd.Flags())
	cmd.Flags().String("key", "", "push down key = this value")
	return cmd
}

func runExplain(ctx context.Context, w io.Writer, c *tableConfig, key string) (err error) {
	options, err := c.TableOptions()
	if err != nil {
		return
	}
	dialer, err := c.Dialer()
	if err != nil {
		return
	}

	if ctx == nil {
		ctx = context.Background()
	}
	pc, err := scan.EstimatePath(ctx, dialer, options)
	if err != nil {
		return
	}

	s, err := scan.Begin(ctx, dialer, options, beginOption(key, true))
	if err != nil {
		return
	}
	defer s.End()

	e, err := s.Explain(ctx)
	if err != nil {
		return
	}

	fmt.Fprintf(w, "Foreign Scan (cost=%.2f..%.2f rows=%d)\n", pc.StartupCost, pc.TotalCost, pc.Rows)
	fmt.Fprintf(w, "  %s\n", e)
	if p := s.Pushdown(); p.OK {
		fmt.Fprintf(w, "  Pushdown: %s = %s\n", p.Column, strconv.Quote(p.Value))
	}
	return
}
