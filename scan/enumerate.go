package scan

import (
	"context"
	"fmt"
	"strings"

	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/qual"
)

// KeySet is the ordered key sequence of one scan.
// Excluded is set when the pushed down predicate can match no key at all.
type KeySet struct {
	Keys     []string
	Excluded bool
}

// EnumerateKeys produces the keys a scan visits, once per scan.
func EnumerateKeys(ctx context.Context, conn kvtable.Conn, c kvtable.Constraint, p qual.Pushdown) (ks KeySet, err error) {
	if p.OK {
		switch c.Kind {
		case kvtable.ConstraintMemberSet:
			var r *kvtable.Reply
			r, err = do(ctx, conn, "SISMEMBER", c.Value, p.Value)
			if err != nil {
				return
			}
			var n int64
			n, err = r.Int64()
			if err != nil {
				err = fmt.Errorf("%w: SISMEMBER: %v", kvtable.ErrCommand, err)
				return
			}
			if n == 1 {
				ks.Keys = []string{p.Value}
			} else {
				ks.Excluded = true
			}
		case kvtable.ConstraintKeyPrefix:
			// only the leading bytes of the value are compared
			if strings.HasPrefix(p.Value, c.Value) {
				ks.Keys = []string{p.Value}
			} else {
				ks.Excluded = true
			}
		default:
			var r *kvtable.Reply
			r, err = do(ctx, conn, "EXISTS", p.Value)
			if err != nil {
				return
			}
			var n int64
			n, err = r.Int64()
			if err != nil {
				err = fmt.Errorf("%w: EXISTS: %v", kvtable.ErrCommand, err)
				return
			}
			ks.Keys = []string{}
			if n > 0 {
				ks.Keys = append(ks.Keys, p.Value)
			}
		}
		return
	}

	var (
		cmd  string
		args []string
	)
	switch c.Kind {
	case kvtable.ConstraintMemberSet:
		cmd, args = "SMEMBERS", []string{c.Value}
	case kvtable.ConstraintKeyPrefix:
		cmd, args = "KEYS", []string{c.Value + "*"}
	default:
		cmd, args = "KEYS", []string{"*"}
	}

	r, err := do(ctx, conn, cmd, args...)
	if err != nil {
		return
	}
	ks.Keys, err = r.Strings()
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrCommand, cmd, err)
	}
	return
}
