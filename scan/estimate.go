package scan

import (
	"context"
	"fmt"

	"github.com/zhiqiangxu/kvtable"
)

const (
	// PrefixSizeDivisor scales DBSIZE down for tables restricted by a key prefix
	PrefixSizeDivisor = 20
	// LocalStartupCost when the store is on the loopback address
	LocalStartupCost = 10
	// RemoteStartupCost otherwise
	RemoteStartupCost = 25
)

// EstimateRelSize returns the estimated row count of a table
func EstimateRelSize(ctx context.Context, conn kvtable.Conn, c kvtable.Constraint) (rows int64, err error) {
	cmd, args := "DBSIZE", []string(nil)
	if c.Kind == kvtable.ConstraintMemberSet {
		cmd, args = "SCARD", []string{c.Value}
	}

	r, err := do(ctx, conn, cmd, args...)
	if err != nil {
		return
	}
	rows, err = r.Int64()
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrCommand, cmd, err)
		return
	}

	if c.Kind == kvtable.ConstraintKeyPrefix {
		rows /= PrefixSizeDivisor
	}
	return
}

// PathCost is the planner estimate of a scan
type PathCost struct {
	Rows        int64
	StartupCost float64
	TotalCost   float64
}

// EstimatePath connects, estimates the table size and derives the scan cost
func EstimatePath(ctx context.Context, dialer kvtable.Dialer, options kvtable.TableOptions) (pc PathCost, err error) {
	conn, err := Connect(ctx, dialer, options.Server)
	if err != nil {
		return
	}
	defer conn.Close()

	pc.Rows, err = EstimateRelSize(ctx, conn, options.Constraint)
	if err != nil {
		return
	}

	pc.StartupCost = RemoteStartupCost
	if options.Server.IsLocal() {
		pc.StartupCost = LocalStartupCost
	}
	pc.TotalCost = pc.StartupCost + float64(pc.Rows)
	return
}
