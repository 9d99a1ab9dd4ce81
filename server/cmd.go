package server

import "github.com/zhiqiangxu/qrpc"

const (
	// CommandCmd carries one wire.Request
	CommandCmd qrpc.Cmd = iota
	// CommandRespCmd is resp for CommandCmd
	CommandRespCmd
)
