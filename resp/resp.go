// Package resp is a kvtable.Dialer speaking the Redis protocol.
package resp

import (
	"context"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/zhiqiangxu/kvtable"
)

// DefaultConnectTimeout for Dialer
const DefaultConnectTimeout = kvtable.DefaultConnectTimeout

// Dialer for a Redis server, the zero value is ready to use
type Dialer struct {
	ConnectTimeout time.Duration
}

// Conn is a kvtable.Conn over one redis.Conn
type Conn struct {
	c redis.Conn
}

var _ kvtable.Dialer = (*Dialer)(nil)
var _ kvtable.Conn = (*Conn)(nil)

// Dial implements kvtable.Dialer
func (d *Dialer) Dial(ctx context.Context, option kvtable.ServerOption) (conn kvtable.Conn, err error) {
	timeout := d.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	c, err := redis.DialContext(ctx, "tcp", option.Addr(), redis.DialConnectTimeout(timeout))
	if err != nil {
		err = fmt.Errorf("%w: failed to connect to %s: %v", kvtable.ErrConnection, option.Addr(), err)
		return
	}

	conn = &Conn{c: c}
	return
}

// Do implements kvtable.Conn
func (c *Conn) Do(ctx context.Context, cmd string, args ...string) (r *kvtable.Reply, err error) {
	iargs := make([]interface{}, len(args))
	for i, arg := range args {
		iargs[i] = arg
	}

	v, err := redis.DoContext(c.c, ctx, cmd, iargs...)
	if err != nil {
		if e, ok := err.(redis.Error); ok {
			r = kvtable.ErrorReply(string(e))
			err = nil
			return
		}
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrConnection, cmd, err)
		return
	}

	r, err = convert(v)
	return
}

// Close implements kvtable.Conn
func (c *Conn) Close() error {
	return c.c.Close()
}

func convert(v interface{}) (r *kvtable.Reply, err error) {
	switch v := v.(type) {
	case nil:
		r = kvtable.NilReply()
	case string:
		r = kvtable.StatusReply(v)
	case redis.Error:
		r = kvtable.ErrorReply(string(v))
	case int64:
		r = kvtable.IntegerReply(v)
	case []byte:
		r = kvtable.StringReply(string(v))
	case []interface{}:
		elements := make([]*kvtable.Reply, len(v))
		for i, e := range v {
			elements[i], err = convert(e)
			if err != nil {
				return
			}
		}
		r = kvtable.ArrayReply(elements...)
	default:
		err = fmt.Errorf("unexpected reply type %T", v)
	}
	return
}
