package scan

import (
	"context"
	"errors"
	"strings"

	"github.com/zhiqiangxu/kvtable"
)

var errReset = errors.New("connection reset by peer")

// fakeConn answers scripted commands, unscripted ones get a nil reply
type fakeConn struct {
	replies map[string]*kvtable.Reply
	broken  map[string]bool
	log     []string
	closed  int
}

func newFakeConn() *fakeConn {
	return &fakeConn{replies: make(map[string]*kvtable.Reply), broken: make(map[string]bool)}
}

func line(cmd string, args ...string) string {
	return strings.Join(append([]string{cmd}, args...), " ")
}

func (c *fakeConn) on(r *kvtable.Reply, cmd string, args ...string) *fakeConn {
	c.replies[line(cmd, args...)] = r
	return c
}

func (c *fakeConn) breakOn(cmd string, args ...string) *fakeConn {
	c.broken[line(cmd, args...)] = true
	return c
}

func (c *fakeConn) Do(ctx context.Context, cmd string, args ...string) (*kvtable.Reply, error) {
	if c.closed > 0 {
		return nil, errors.New("use of closed connection")
	}
	l := line(cmd, args...)
	c.log = append(c.log, l)
	if c.broken[l] {
		return nil, errReset
	}
	if r, ok := c.replies[l]; ok {
		return r, nil
	}
	switch cmd {
	case "AUTH", "SELECT":
		return kvtable.OK, nil
	}
	return kvtable.NilReply(), nil
}

func (c *fakeConn) Close() error {
	c.closed++
	return nil
}

// sent returns the commands after the AUTH/SELECT handshake
func (c *fakeConn) sent() (cmds []string) {
	for _, l := range c.log {
		if strings.HasPrefix(l, "AUTH ") || strings.HasPrefix(l, "SELECT ") {
			continue
		}
		cmds = append(cmds, l)
	}
	return
}

func (c *fakeConn) dialer() kvtable.Dialer {
	return kvtable.DialerFunc(func(ctx context.Context, option kvtable.ServerOption) (kvtable.Conn, error) {
		return c, nil
	})
}
