// Package server exposes an embedded kv.KVDB with the Redis data model over qrpc.
package server

import (
	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/qrpc"
)

// DefaultDatabases when Option.Databases is not set
const DefaultDatabases = 16

type (
	// Option for Server
	Option struct {
		// RequirePass makes every command but AUTH fail until the session authenticates
		RequirePass string
		// Databases is the number of logical databases
		Databases int
	}
	// Server for kvtable
	Server struct {
		option   Option
		kvoption kv.Option
		kvdb     kv.KVDB
		qserver  *qrpc.Server
	}
	// KVServer is implemneted by Server
	KVServer interface {
		Start() error
		Stop() error
	}
)

// New is ctor for Server
func New(addr string, kvdb kv.KVDB, option Option, kvoption kv.Option) KVServer {
	if option.Databases <= 0 {
		option.Databases = DefaultDatabases
	}
	s := &Server{option: option, kvoption: kvoption, kvdb: kvdb}

	mux := qrpc.NewServeMux()
	mux.Handle(CommandCmd, &CmdCommand{s})
	bindings := []qrpc.ServerBinding{qrpc.ServerBinding{Addr: addr, Handler: mux}}
	s.qserver = qrpc.NewServer(bindings)
	return s
}

// Start server
func (s *Server) Start() (err error) {
	err = s.kvdb.Open(s.kvoption)
	if err != nil {
		return
	}
	return s.qserver.ListenAndServe()
}

// Stop server
func (s *Server) Stop() (err error) {
	err = s.qserver.Shutdown()
	if err != nil {
		return
	}

	err = s.kvdb.Close()
	return
}
