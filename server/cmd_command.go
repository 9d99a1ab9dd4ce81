package server

import (
	"github.com/zhiqiangxu/kvtable/wire"
	"github.com/zhiqiangxu/qrpc"
	"github.com/zhiqiangxu/util/logger"
	"go.uber.org/zap"
)

// CmdCommand executes one command
type CmdCommand struct {
	s *Server
}

// ServeQRPC implements qrpc.Handler
func (cmd *CmdCommand) ServeQRPC(writer qrpc.FrameWriter, frame *qrpc.RequestFrame) {
	var (
		req  wire.Request
		resp wire.Response
	)

	err := req.Unmarshal(frame.Payload)
	if err != nil {
		resp.Code = CodeInvalidRequest
		resp.Msg = err.Error()
	} else {
		resp = cmd.s.execute(&req)
	}

	err = writeRespBytes(writer, frame, CommandRespCmd, resp.Marshal())
	if err != nil {
		logger.Instance().Error("writeRespBytes", zap.Error(err))
	}
}

func writeRespBytes(writer qrpc.FrameWriter, frame *qrpc.RequestFrame, respCmd qrpc.Cmd, bytes []byte) (err error) {
	writer.StartWrite(frame.RequestID, respCmd, 0)
	writer.WriteBytes(bytes)

	err = writer.EndWrite()
	return
}
