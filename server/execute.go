package server

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/kv"
	"github.com/zhiqiangxu/kvtable/structure"
	"github.com/zhiqiangxu/kvtable/wire"
	"github.com/zhiqiangxu/util/logger"
	"go.uber.org/zap"
)

// replyError is answered as an error reply instead of failing the request
type replyError string

func (e replyError) Error() string {
	return string(e)
}

const (
	errNoAuth      replyError = "NOAUTH Authentication required."
	errWrongPass   replyError = "WRONGPASS invalid password"
	errNoPassword  replyError = "ERR AUTH called without any password configured"
	errDBIndex     replyError = "ERR DB index is out of range"
	errNotInteger  replyError = "ERR value is not an integer or out of range"
	errNotFloat    replyError = "ERR value is not a valid float"
	errSyntax      replyError = "ERR syntax error"
	errInvalidDBID replyError = "ERR invalid DB index"
)

type handler func(s *structure.TxStructure, args [][]byte) (*kvtable.Reply, error)

type command struct {
	// arity counts the command name, negative means at least -arity
	arity  int
	update bool
	fn     handler
}

var commands map[string]command

func init() {
	commands = map[string]command{
		"PING":      {-1, false, cmdPing},
		"DBSIZE":    {1, false, cmdDBSize},
		"EXISTS":    {-2, false, cmdExists},
		"KEYS":      {2, false, cmdKeys},
		"TYPE":      {2, false, cmdType},
		"DEL":       {-2, true, cmdDel},
		"GET":       {2, false, cmdGet},
		"SET":       {3, true, cmdSet},
		"INCR":      {2, true, cmdIncr},
		"HSET":      {-4, true, cmdHSet},
		"HGET":      {3, false, cmdHGet},
		"HLEN":      {2, false, cmdHLen},
		"HGETALL":   {2, false, cmdHGetAll},
		"LPUSH":     {-3, true, cmdLPush},
		"RPUSH":     {-3, true, cmdRPush},
		"LLEN":      {2, false, cmdLLen},
		"LRANGE":    {4, false, cmdLRange},
		"SADD":      {-3, true, cmdSAdd},
		"SMEMBERS":  {2, false, cmdSMembers},
		"SISMEMBER": {3, false, cmdSIsMember},
		"SCARD":     {2, false, cmdSCard},
		"ZADD":      {-4, true, cmdZAdd},
		"ZRANGE":    {-4, false, cmdZRange},
		"ZCARD":     {2, false, cmdZCard},
		"ZSCORE":    {3, false, cmdZScore},
	}
}

func (s *Server) execute(req *wire.Request) (resp wire.Response) {
	name := strings.ToUpper(req.Cmd)

	if name == "AUTH" {
		resp.Reply = s.auth(req.Args)
		return
	}

	if s.option.RequirePass != "" && req.Auth != s.option.RequirePass {
		resp.Reply = kvtable.ErrorReply(string(errNoAuth))
		return
	}
	if name == "SELECT" {
		resp.Reply = s.selectDB(req.Args)
		return
	}
	if req.DB < 0 || req.DB >= int64(s.option.Databases) {
		resp.Reply = kvtable.ErrorReply(string(errDBIndex))
		return
	}

	cmd, ok := commands[name]
	if !ok {
		resp.Reply = kvtable.ErrorReply(fmt.Sprintf("ERR unknown command '%s'", req.Cmd))
		return
	}
	n := len(req.Args) + 1
	if (cmd.arity > 0 && n != cmd.arity) || (cmd.arity < 0 && n < -cmd.arity) {
		resp.Reply = kvtable.ErrorReply(fmt.Sprintf("ERR wrong number of arguments for '%s' command", strings.ToLower(name)))
		return
	}

	args := make([][]byte, len(req.Args))
	for i, arg := range req.Args {
		args[i] = []byte(arg)
	}

	f := func(txn kv.Txn) (err error) {
		resp.Reply, err = cmd.fn(structure.New(txn, structure.DBPrefix(int(req.DB))), args)
		return
	}
	var err error
	if cmd.update {
		err = kv.RunInNewUpdateTxn(s.kvdb, f)
	} else {
		err = kv.RunInNewTxn(s.kvdb, f)
	}

	switch e := err.(type) {
	case nil:
	case replyError:
		resp.Reply = kvtable.ErrorReply(string(e))
	default:
		if err == structure.ErrWrongType {
			resp.Reply = kvtable.ErrorReply(err.Error())
			return
		}
		logger.Instance().Error("execute", zap.String("cmd", name), zap.Error(err))
		resp.Reply = nil
		resp.Code = CodeInternalError
		resp.Msg = err.Error()
	}
	return
}

func (s *Server) auth(args []string) *kvtable.Reply {
	if len(args) != 1 {
		return kvtable.ErrorReply("ERR wrong number of arguments for 'auth' command")
	}
	if s.option.RequirePass == "" {
		return kvtable.ErrorReply(string(errNoPassword))
	}
	if args[0] != s.option.RequirePass {
		return kvtable.ErrorReply(string(errWrongPass))
	}
	return kvtable.OK
}

func (s *Server) selectDB(args []string) *kvtable.Reply {
	if len(args) != 1 {
		return kvtable.ErrorReply("ERR wrong number of arguments for 'select' command")
	}
	db, err := strconv.Atoi(args[0])
	if err != nil {
		return kvtable.ErrorReply(string(errInvalidDBID))
	}
	if db < 0 || db >= s.option.Databases {
		return kvtable.ErrorReply(string(errDBIndex))
	}
	return kvtable.OK
}

func bulks(bs [][]byte) *kvtable.Reply {
	elements := make([]*kvtable.Reply, len(bs))
	for i, b := range bs {
		elements[i] = kvtable.StringReply(string(b))
	}
	return kvtable.ArrayReply(elements...)
}

func parseInt(b []byte) (n int64, err error) {
	n, perr := strconv.ParseInt(string(b), 10, 64)
	if perr != nil {
		err = errNotInteger
	}
	return
}

func cmdPing(s *structure.TxStructure, args [][]byte) (*kvtable.Reply, error) {
	switch len(args) {
	case 0:
		return kvtable.StatusReply("PONG"), nil
	case 1:
		return kvtable.StringReply(string(args[0])), nil
	}
	return nil, replyError("ERR wrong number of arguments for 'ping' command")
}

func cmdDBSize(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.DBSize()
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdExists(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.Exists(args...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdKeys(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	keys, err := s.Keys(string(args[0]))
	if err != nil {
		return
	}
	r = bulks(keys)
	return
}

func cmdType(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	kind, err := s.Type(args[0])
	if err != nil {
		return
	}
	r = kvtable.StatusReply(kind.String())
	return
}

func cmdDel(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.Del(args...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdGet(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	v, found, err := s.Get(args[0])
	if err != nil {
		return
	}
	r = kvtable.NilReply()
	if found {
		r = kvtable.StringReply(string(v))
	}
	return
}

func cmdSet(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	if err = s.Set(args[0], args[1]); err != nil {
		return
	}
	r = kvtable.OK
	return
}

func cmdIncr(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	v, found, err := s.Get(args[0])
	if err != nil {
		return
	}
	if found {
		if _, err = parseInt(v); err != nil {
			return
		}
	}

	n, err := s.Inc(args[0], 1)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdHSet(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	if len(args)%2 != 1 {
		err = replyError("ERR wrong number of arguments for 'hset' command")
		return
	}

	var added int64
	for i := 1; i < len(args); i += 2 {
		var isNew bool
		isNew, err = s.HSet(args[0], args[i], args[i+1])
		if err != nil {
			return
		}
		if isNew {
			added++
		}
	}
	r = kvtable.IntegerReply(added)
	return
}

func cmdHGet(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	v, found, err := s.HGet(args[0], args[1])
	if err != nil {
		return
	}
	r = kvtable.NilReply()
	if found {
		r = kvtable.StringReply(string(v))
	}
	return
}

func cmdHLen(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.HLen(args[0])
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdHGetAll(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	pairs, err := s.HGetAll(args[0])
	if err != nil {
		return
	}

	flat := make([][]byte, 0, 2*len(pairs))
	for _, pair := range pairs {
		flat = append(flat, pair.Field, pair.Value)
	}
	r = bulks(flat)
	return
}

func cmdLPush(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.LPush(args[0], args[1:]...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdRPush(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.RPush(args[0], args[1:]...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdLLen(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.LLen(args[0])
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdLRange(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	start, err := parseInt(args[1])
	if err != nil {
		return
	}
	stop, err := parseInt(args[2])
	if err != nil {
		return
	}

	elements, err := s.LRange(args[0], start, stop)
	if err != nil {
		return
	}
	r = bulks(elements)
	return
}

func cmdSAdd(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.SAdd(args[0], args[1:]...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdSMembers(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	members, err := s.SMembers(args[0])
	if err != nil {
		return
	}
	r = bulks(members)
	return
}

func cmdSIsMember(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	ok, err := s.SIsMember(args[0], args[1])
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(0)
	if ok {
		r = kvtable.IntegerReply(1)
	}
	return
}

func cmdSCard(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.SCard(args[0])
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdZAdd(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	if len(args)%2 != 1 {
		err = errSyntax
		return
	}

	members := make([]structure.ZMember, 0, len(args)/2)
	for i := 1; i < len(args); i += 2 {
		score, perr := strconv.ParseFloat(string(args[i]), 64)
		if perr != nil {
			err = errNotFloat
			return
		}
		members = append(members, structure.ZMember{Member: args[i+1], Score: score})
	}

	n, err := s.ZAdd(args[0], members...)
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdZRange(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	var withScores bool
	switch len(args) {
	case 3:
	case 4:
		if !strings.EqualFold(string(args[3]), "WITHSCORES") {
			err = errSyntax
			return
		}
		withScores = true
	default:
		err = errSyntax
		return
	}

	start, err := parseInt(args[1])
	if err != nil {
		return
	}
	stop, err := parseInt(args[2])
	if err != nil {
		return
	}

	members, err := s.ZRange(args[0], start, stop)
	if err != nil {
		return
	}

	flat := make([][]byte, 0, 2*len(members))
	for _, m := range members {
		flat = append(flat, m.Member)
		if withScores {
			flat = append(flat, []byte(formatScore(m.Score)))
		}
	}
	r = bulks(flat)
	return
}

func cmdZCard(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	n, err := s.ZCard(args[0])
	if err != nil {
		return
	}
	r = kvtable.IntegerReply(n)
	return
}

func cmdZScore(s *structure.TxStructure, args [][]byte) (r *kvtable.Reply, err error) {
	score, found, err := s.ZScore(args[0], args[1])
	if err != nil {
		return
	}
	r = kvtable.NilReply()
	if found {
		r = kvtable.StringReply(formatScore(score))
	}
	return
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'g', -1, 64)
}
