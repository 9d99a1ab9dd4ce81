// Package scan turns a table scan into key-value commands: it enumerates the keys
// of a table once, then fetches and decodes one value per row.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/qual"
	"github.com/zhiqiangxu/util/logger"
	"go.uber.org/zap"
)

var (
	// ErrScanClosed when a scan is used after End
	ErrScanClosed = errors.New("scan already ended")
)

// State of a Scan
type State uint8

const (
	// StateInit before the first row is requested
	StateInit State = iota
	// StateScanning while rows are being produced
	StateScanning
	// StateExhausted when every key has been visited
	StateExhausted
	// StateFailed after a fatal error
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateInit:
		return "init"
	case StateScanning:
		return "scanning"
	case StateExhausted:
		return "exhausted"
	case StateFailed:
		return "failed"
	}
	return fmt.Sprintf("State(%d)", s)
}

// BeginOption for Begin
type BeginOption struct {
	// Quals is the conjunctive predicate list of the query
	Quals []qual.Expr
	// Desc describes the columns, qual.KVTupleDesc when nil
	Desc qual.TupleDesc
	// ExplainOnly connects and analyzes but does not enumerate keys
	ExplainOnly bool
}

// Scan is one execution of a table scan, it is not safe for concurrent use.
type Scan struct {
	options  kvtable.TableOptions
	conn     kvtable.Conn
	pushdown qual.Pushdown
	cursor   *Cursor
	state    State
	err      error
	closed   bool
}

// Begin connects, analyzes quals and enumerates the keys of the table.
// On error the connection is already released and s is nil.
func Begin(ctx context.Context, dialer kvtable.Dialer, options kvtable.TableOptions, bo BeginOption) (s *Scan, err error) {
	logger.Instance().Debug("BeginScan",
		zap.String("addr", options.Server.Addr()),
		zap.Int("db", options.Server.Database),
		zap.Stringer("shape", options.Shape),
		zap.Stringer("constraint", options.Constraint),
		zap.Bool("explainOnly", bo.ExplainOnly))

	conn, err := Connect(ctx, dialer, options.Server)
	if err != nil {
		logger.Instance().Error("Connect", zap.Error(err))
		return
	}

	desc := bo.Desc
	if desc == nil {
		desc = qual.KVTupleDesc
	}

	scan := &Scan{options: options, conn: conn, pushdown: qual.Analyze(bo.Quals, desc)}
	if scan.pushdown.OK {
		logger.Instance().Debug("Pushdown", zap.String("column", scan.pushdown.Column), zap.String("value", scan.pushdown.Value))
	}

	if bo.ExplainOnly {
		s = scan
		return
	}

	ks, err := EnumerateKeys(ctx, conn, options.Constraint, scan.pushdown)
	if err != nil {
		scan.fail(err)
		return
	}
	scan.cursor = NewCursor(ks)
	logger.Instance().Debug("EnumerateKeys", zap.Int("keys", len(ks.Keys)), zap.Bool("excluded", ks.Excluded))

	s = scan
	return
}

// State returns the current state
func (s *Scan) State() State {
	return s.state
}

// Pushdown returns the predicate pushed down to key enumeration
func (s *Scan) Pushdown() qual.Pushdown {
	return s.pushdown
}

// Options returns the table options of the scan
func (s *Scan) Options() kvtable.TableOptions {
	return s.options
}

// Err returns the error that failed the scan
func (s *Scan) Err() error {
	return s.err
}

// Next returns the next row, ok is false once the scan is exhausted.
// Keys whose value cannot be read as the table shape are skipped.
func (s *Scan) Next(ctx context.Context) (row kvtable.Row, ok bool, err error) {
	switch {
	case s.state == StateFailed:
		err = s.err
		return
	case s.closed:
		err = ErrScanClosed
		return
	case s.state == StateExhausted:
		return
	case s.cursor == nil:
		s.state = StateExhausted
		return
	}

	s.state = StateScanning
	for {
		var result StepResult
		row, result, err = s.cursor.Step(ctx, s.conn, s.options.Shape)
		if err != nil {
			s.fail(err)
			return
		}

		switch result {
		case StepRow:
			ok = true
			if s.cursor.Exhausted() {
				s.state = StateExhausted
			}
			return
		case StepExhausted:
			s.state = StateExhausted
			return
		}
	}
}

// All drains the scan
func (s *Scan) All(ctx context.Context) (rows []kvtable.Row, err error) {
	for {
		var (
			row kvtable.Row
			ok  bool
		)
		row, ok, err = s.Next(ctx)
		if err != nil || !ok {
			return
		}
		rows = append(rows, row)
	}
}

// ReScan restarts the scan from the first key without enumerating again.
// A scan whose qualifier excluded every row stays empty.
func (s *Scan) ReScan() {
	if s.closed || s.state == StateFailed || s.cursor == nil {
		return
	}
	s.cursor.Reset()
	s.state = StateInit
	logger.Instance().Debug("ReScan", zap.Bool("excluded", s.cursor.Excluded()))
}

// End releases the connection and the key sequence, it is safe to call more than once.
func (s *Scan) End() (err error) {
	if s.closed {
		return
	}
	s.closed = true
	err = s.release()
	logger.Instance().Debug("EndScan", zap.Stringer("state", s.state))
	return
}

// Explain reports the estimated size of the table
func (s *Scan) Explain(ctx context.Context) (e Explain, err error) {
	if s.closed || s.conn == nil {
		err = ErrScanClosed
		return
	}

	e.Pushdown = s.pushdown
	e.Shape = s.options.Shape
	e.Constraint = s.options.Constraint
	e.TableSize, err = EstimateRelSize(ctx, s.conn, s.options.Constraint)
	if err != nil {
		s.fail(err)
	}
	return
}

func (s *Scan) fail(err error) {
	s.state = StateFailed
	s.err = err
	logger.Instance().Error("Scan", zap.Stringer("constraint", s.options.Constraint), zap.Error(err))
	if rerr := s.release(); rerr != nil {
		logger.Instance().Error("Close", zap.Error(rerr))
	}
}

func (s *Scan) release() (err error) {
	if s.conn != nil {
		err = s.conn.Close()
		s.conn = nil
	}
	s.cursor = nil
	return
}

// Explain is what EXPLAIN shows for a scan
type Explain struct {
	TableSize  int64
	Pushdown   qual.Pushdown
	Shape      kvtable.TableShape
	Constraint kvtable.Constraint
}

func (e Explain) String() string {
	return fmt.Sprintf("Foreign Redis Table Size: %d", e.TableSize)
}
