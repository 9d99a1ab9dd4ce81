// Package client is a kvtable.Dialer for the qrpc server in package server.
package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/server"
	"github.com/zhiqiangxu/kvtable/wire"
	"github.com/zhiqiangxu/qrpc"
)

type (
	// Option for Client
	Option struct {
		QrpcConfig qrpc.ConnectionConfig
	}
	// Client implements kvtable.Conn.
	// The server is stateless, the database and password of the session
	// travel with every request.
	Client struct {
		con  *qrpc.Connection
		db   int64
		auth string
	}
	// Dialer implements kvtable.Dialer
	Dialer struct {
		Option Option
	}
)

var _ kvtable.Conn = (*Client)(nil)
var _ kvtable.Dialer = (*Dialer)(nil)

// Dial implements kvtable.Dialer, it fails fast when the server is not reachable
func (d *Dialer) Dial(ctx context.Context, option kvtable.ServerOption) (conn kvtable.Conn, err error) {
	con, err := qrpc.NewConnection(option.Addr(), d.connectionConfig(), nil)
	if err != nil {
		err = fmt.Errorf("%w: failed to connect to %s: %v", kvtable.ErrConnection, option.Addr(), err)
		return
	}

	c := &Client{con: con}
	r, err := c.Do(ctx, "PING")
	if err != nil {
		c.Close()
		return
	}
	if r.Type == kvtable.ReplyError && !strings.HasPrefix(r.Str, "NOAUTH") {
		c.Close()
		err = fmt.Errorf("%w: %s", kvtable.ErrConnection, r.Str)
		return
	}

	conn = c
	return
}

// connectionConfig defaults DialTimeout to kvtable.DefaultConnectTimeout
func (d *Dialer) connectionConfig() qrpc.ConnectionConfig {
	conf := d.Option.QrpcConfig
	if conf.DialTimeout <= 0 {
		conf.DialTimeout = kvtable.DefaultConnectTimeout
	}
	return conf
}

// Do implements kvtable.Conn
func (c *Client) Do(ctx context.Context, cmd string, args ...string) (r *kvtable.Reply, err error) {
	if err = ctx.Err(); err != nil {
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrConnection, cmd, err)
		return
	}

	req := wire.Request{DB: c.db, Auth: c.auth, Cmd: cmd, Args: args}
	_, resp, err := c.con.Request(server.CommandCmd, qrpc.NBFlag, req.Marshal())
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrConnection, cmd, err)
		return
	}

	r, err = parseResp(resp)
	if err != nil {
		err = fmt.Errorf("%w: %s: %v", kvtable.ErrConnection, cmd, err)
		return
	}

	if r.Type != kvtable.ReplyError && len(args) == 1 {
		switch strings.ToUpper(cmd) {
		case "AUTH":
			c.auth = args[0]
		case "SELECT":
			c.db, _ = strconv.ParseInt(args[0], 10, 64)
		}
	}
	return
}

func parseResp(resp qrpc.Response) (r *kvtable.Reply, err error) {
	frame, err := resp.GetFrame()
	if err != nil {
		return
	}

	return parseRespFromFrame(frame)
}

func parseRespFromFrame(respFrame *qrpc.Frame) (r *kvtable.Reply, err error) {
	var resp wire.Response
	err = resp.Unmarshal(respFrame.Payload)
	if err != nil {
		return
	}

	if resp.Code != server.CodeOK {
		err = newPBError(resp.Code, resp.Msg)
		return
	}
	if resp.Reply == nil {
		err = newPBError(resp.Code, "missing reply")
		return
	}

	r = resp.Reply
	return
}

// Close implements kvtable.Conn
func (c *Client) Close() error {
	return c.con.Close()
}
