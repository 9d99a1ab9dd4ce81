// Package wire is the payload codec of the command server.
package wire

import (
	"errors"
	"fmt"

	"github.com/gogo/protobuf/proto"
	"github.com/zhiqiangxu/kvtable"
)

var (
	// ErrTooDeep when a reply nests more than MaxDepth arrays
	ErrTooDeep = errors.New("reply nested too deep")
	// ErrInvalidReplyType when the reply tag is unknown
	ErrInvalidReplyType = errors.New("invalid reply type")
)

// MaxDepth of nested arrays in a Reply
const MaxDepth = 32

type (
	// Request is one command sent by a client session
	Request struct {
		DB   int64
		Auth string
		Cmd  string
		Args []string
	}

	// Response is what the server answers to a Request
	Response struct {
		Code  int32
		Msg   string
		Reply *kvtable.Reply
	}
)

// Marshal encodes the Request
func (req *Request) Marshal() []byte {
	b := proto.NewBuffer(nil)
	b.EncodeZigzag64(uint64(req.DB))
	b.EncodeStringBytes(req.Auth)
	b.EncodeStringBytes(req.Cmd)
	b.EncodeVarint(uint64(len(req.Args)))
	for _, arg := range req.Args {
		b.EncodeStringBytes(arg)
	}
	return b.Bytes()
}

// Unmarshal is reverse for Marshal
func (req *Request) Unmarshal(data []byte) (err error) {
	b := proto.NewBuffer(data)

	db, err := b.DecodeZigzag64()
	if err != nil {
		return
	}
	req.DB = int64(db)
	if req.Auth, err = b.DecodeStringBytes(); err != nil {
		return
	}
	if req.Cmd, err = b.DecodeStringBytes(); err != nil {
		return
	}

	n, err := b.DecodeVarint()
	if err != nil {
		return
	}
	if n > uint64(len(data)) {
		err = fmt.Errorf("invalid argument count %d", n)
		return
	}
	req.Args = make([]string, n)
	for i := range req.Args {
		if req.Args[i], err = b.DecodeStringBytes(); err != nil {
			return
		}
	}
	return
}

// Marshal encodes the Response
func (resp *Response) Marshal() []byte {
	b := proto.NewBuffer(nil)
	b.EncodeVarint(uint64(uint32(resp.Code)))
	b.EncodeStringBytes(resp.Msg)
	reply := resp.Reply
	if reply == nil {
		reply = kvtable.NilReply()
	}
	encodeReply(b, reply)
	return b.Bytes()
}

// Unmarshal is reverse for Marshal
func (resp *Response) Unmarshal(data []byte) (err error) {
	b := proto.NewBuffer(data)

	code, err := b.DecodeVarint()
	if err != nil {
		return
	}
	resp.Code = int32(uint32(code))
	if resp.Msg, err = b.DecodeStringBytes(); err != nil {
		return
	}
	resp.Reply, err = decodeReply(b, len(data), 0)
	return
}

func encodeReply(b *proto.Buffer, r *kvtable.Reply) {
	b.EncodeVarint(uint64(r.Type))
	switch r.Type {
	case kvtable.ReplyStatus, kvtable.ReplyError, kvtable.ReplyString:
		b.EncodeStringBytes(r.Str)
	case kvtable.ReplyInteger:
		b.EncodeZigzag64(uint64(r.Integer))
	case kvtable.ReplyArray:
		b.EncodeVarint(uint64(len(r.Elements)))
		for _, e := range r.Elements {
			encodeReply(b, e)
		}
	}
}

func decodeReply(b *proto.Buffer, size, depth int) (r *kvtable.Reply, err error) {
	if depth > MaxDepth {
		err = ErrTooDeep
		return
	}

	tp, err := b.DecodeVarint()
	if err != nil {
		return
	}
	if tp > uint64(kvtable.ReplyArray) {
		err = fmt.Errorf("%w: %d", ErrInvalidReplyType, tp)
		return
	}

	r = &kvtable.Reply{Type: kvtable.ReplyType(tp)}
	switch r.Type {
	case kvtable.ReplyNil:
	case kvtable.ReplyStatus, kvtable.ReplyError, kvtable.ReplyString:
		r.Str, err = b.DecodeStringBytes()
	case kvtable.ReplyInteger:
		var u uint64
		u, err = b.DecodeZigzag64()
		r.Integer = int64(u)
	case kvtable.ReplyArray:
		var n uint64
		n, err = b.DecodeVarint()
		if err != nil {
			return
		}
		if n > uint64(size) {
			err = fmt.Errorf("invalid array length %d", n)
			return
		}
		r.Elements = make([]*kvtable.Reply, n)
		for i := range r.Elements {
			r.Elements[i], err = decodeReply(b, size, depth+1)
			if err != nil {
				return
			}
		}
	default:
		err = fmt.Errorf("%w: %d", ErrInvalidReplyType, tp)
	}
	return
}
