package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/zhiqiangxu/kvtable"
)

// Connect dials the store, authenticates when a password is set and selects the database.
// The returned Conn is owned by the caller; it is closed here on any failure.
func Connect(ctx context.Context, dialer kvtable.Dialer, option kvtable.ServerOption) (conn kvtable.Conn, err error) {
	conn, err = dialer.Dial(ctx, option)
	if err != nil {
		if !errors.Is(err, kvtable.ErrConnection) {
			err = fmt.Errorf("%w: failed to connect to %s: %v", kvtable.ErrConnection, option.Addr(), err)
		}
		conn = nil
		return
	}

	defer func() {
		if err != nil {
			conn.Close()
			conn = nil
		}
	}()

	if option.Password != "" {
		var r *kvtable.Reply
		r, err = conn.Do(ctx, "AUTH", option.Password)
		if err != nil {
			err = fmt.Errorf("%w: %v", kvtable.ErrAuthentication, err)
			return
		}
		if r.Type == kvtable.ReplyError {
			err = fmt.Errorf("%w: %s", kvtable.ErrAuthentication, r.Str)
			return
		}
	}

	r, err := conn.Do(ctx, "SELECT", strconv.Itoa(option.Database))
	if err != nil {
		err = fmt.Errorf("%w: failed to select database %d: %v", kvtable.ErrConnection, option.Database, err)
		return
	}
	if r.Type == kvtable.ReplyError {
		err = fmt.Errorf("%w: failed to select database %d: %s", kvtable.ErrConnection, option.Database, r.Str)
		return
	}

	return
}

// do runs one command, a transport failure or an error reply are both fatal
func do(ctx context.Context, conn kvtable.Conn, cmd string, args ...string) (r *kvtable.Reply, err error) {
	r, err = conn.Do(ctx, cmd, args...)
	if err != nil {
		if !errors.Is(err, kvtable.ErrConnection) {
			err = fmt.Errorf("%w: %s: %v", kvtable.ErrConnection, cmd, err)
		}
		return
	}

	err = kvtable.CheckReply(cmd, r)
	return
}
