package resp

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gomodule/redigo/redis"
	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/qual"
	"github.com/zhiqiangxu/kvtable/scan"
	"gotest.tools/assert"
)

func serverOption(t *testing.T, mr *miniredis.Miniredis) kvtable.ServerOption {
	port, err := strconv.Atoi(mr.Port())
	assert.NilError(t, err)
	return kvtable.ServerOption{Address: mr.Host(), Port: port}
}

func seed(t *testing.T, mr *miniredis.Miniredis, db int, cmds ...[]interface{}) {
	c, err := redis.Dial("tcp", mr.Addr())
	assert.NilError(t, err)
	defer c.Close()

	_, err = c.Do("SELECT", db)
	assert.NilError(t, err)
	for _, cmd := range cmds {
		_, err = c.Do(cmd[0].(string), cmd[1:]...)
		assert.NilError(t, err)
	}
}

func TestConnDo(t *testing.T) {
	mr := miniredis.RunT(t)
	seed(t, mr, 0,
		[]interface{}{"SET", "k1", "v1"},
		[]interface{}{"HSET", "h1", "f1", "v1"},
	)

	ctx := context.Background()
	var d Dialer
	conn, err := d.Dial(ctx, serverOption(t, mr))
	assert.NilError(t, err)
	defer conn.Close()

	r, err := conn.Do(ctx, "GET", "k1")
	assert.Assert(t, err == nil && r.Type == kvtable.ReplyString && r.Str == "v1")

	r, err = conn.Do(ctx, "GET", "missing")
	assert.Assert(t, err == nil && r.Type == kvtable.ReplyNil)

	r, err = conn.Do(ctx, "SET", "k2", "v2")
	assert.Assert(t, err == nil && r.Type == kvtable.ReplyStatus && r.Str == "OK")

	r, err = conn.Do(ctx, "DBSIZE")
	assert.Assert(t, err == nil && r.Type == kvtable.ReplyInteger && r.Integer == 3)

	// error replies are not transport errors
	r, err = conn.Do(ctx, "GET", "h1")
	assert.Assert(t, err == nil && r.Type == kvtable.ReplyError)
	assert.Assert(t, len(r.Str) > 0)

	r, err = conn.Do(ctx, "KEYS", "*")
	assert.NilError(t, err)
	keys, err := r.Strings()
	assert.NilError(t, err)
	assert.DeepEqual(t, keys, []string{"h1", "k1", "k2"})

	mr.Close()
	_, err = conn.Do(ctx, "GET", "k1")
	assert.Assert(t, errors.Is(err, kvtable.ErrConnection))
}

func TestDialFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	option := serverOption(t, mr)
	mr.Close()

	var d Dialer
	_, err := d.Dial(context.Background(), option)
	assert.Assert(t, errors.Is(err, kvtable.ErrConnection))
}

func TestConvert(t *testing.T) {
	r, err := convert([]interface{}{[]byte("a"), int64(5), nil, redis.Error("ERR x"), "OK"})
	assert.NilError(t, err)
	assert.DeepEqual(t, r, kvtable.ArrayReply(
		kvtable.StringReply("a"),
		kvtable.IntegerReply(5),
		kvtable.NilReply(),
		kvtable.ErrorReply("ERR x"),
		kvtable.StatusReply("OK"),
	))

	_, err = convert(3.5)
	assert.ErrorContains(t, err, "unexpected reply type float64")
}

func TestScan(t *testing.T) {
	mr := miniredis.RunT(t)
	seed(t, mr, 2,
		[]interface{}{"SET", "k1", "v1"},
		[]interface{}{"SET", "k2", `say "hi"`},
		[]interface{}{"HSET", "h1", "f1", "v1", "f2", "v2"},
		[]interface{}{"RPUSH", "l1", "x", "y", "z"},
		[]interface{}{"ZADD", "z1", "2", "b", "1", "a"},
		[]interface{}{"SADD", "users", "k1", "k3"},
	)

	ctx := context.Background()
	d := &Dialer{}
	table := func(shape kvtable.TableShape, c kvtable.Constraint) kvtable.TableOptions {
		server := serverOption(t, mr)
		server.Database = 2
		return kvtable.TableOptions{Server: server, Shape: shape, Constraint: c}
	}
	rows := func(options kvtable.TableOptions, bo scan.BeginOption) []kvtable.Row {
		s, err := scan.Begin(ctx, d, options, bo)
		assert.NilError(t, err)
		defer s.End()
		rows, err := s.All(ctx)
		assert.NilError(t, err)
		return rows
	}

	// values of other types are skipped
	assert.DeepEqual(t, rows(table(kvtable.ShapeScalar, kvtable.KeyPrefix("k")), scan.BeginOption{}), []kvtable.Row{
		{Key: "k1", Value: "v1"},
		{Key: "k2", Value: `say "hi"`},
	})
	assert.DeepEqual(t, rows(table(kvtable.ShapeHash, kvtable.Constraint{}), scan.BeginOption{}), []kvtable.Row{
		{Key: "h1", Value: `{"f1","v1","f2","v2"}`},
	})
	assert.DeepEqual(t, rows(table(kvtable.ShapeList, kvtable.KeyPrefix("l")), scan.BeginOption{}), []kvtable.Row{
		{Key: "l1", Value: `{"x","y","z"}`},
	})
	assert.DeepEqual(t, rows(table(kvtable.ShapeOrderedSet, kvtable.KeyPrefix("z")), scan.BeginOption{}), []kvtable.Row{
		{Key: "z1", Value: `{"a","b"}`},
	})

	// k3 is a member without a value
	assert.DeepEqual(t, rows(table(kvtable.ShapeScalar, kvtable.MemberSet("users")), scan.BeginOption{}), []kvtable.Row{
		{Key: "k1", Value: "v1"},
	})

	keyEq := func(v string) scan.BeginOption {
		return scan.BeginOption{Quals: []qual.Expr{qual.TextEq(1, v)}}
	}
	assert.DeepEqual(t, rows(table(kvtable.ShapeScalar, kvtable.MemberSet("users")), keyEq("k1")), []kvtable.Row{
		{Key: "k1", Value: "v1"},
	})
	assert.Equal(t, len(rows(table(kvtable.ShapeScalar, kvtable.MemberSet("users")), keyEq("k2"))), 0)
	assert.DeepEqual(t, rows(table(kvtable.ShapeScalar, kvtable.Constraint{}), keyEq("k2")), []kvtable.Row{
		{Key: "k2", Value: `say "hi"`},
	})
	assert.Equal(t, len(rows(table(kvtable.ShapeScalar, kvtable.Constraint{}), keyEq("nope"))), 0)

	// database 0 is empty
	empty := table(kvtable.ShapeScalar, kvtable.Constraint{})
	empty.Server.Database = 0
	assert.Equal(t, len(rows(empty, scan.BeginOption{})), 0)

	pc, err := scan.EstimatePath(ctx, d, table(kvtable.ShapeScalar, kvtable.MemberSet("users")))
	assert.NilError(t, err)
	assert.Equal(t, pc.Rows, int64(2))
	pc, err = scan.EstimatePath(ctx, d, table(kvtable.ShapeScalar, kvtable.Constraint{}))
	assert.NilError(t, err)
	assert.Equal(t, pc.Rows, int64(6))
}

func TestScanAuth(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.RequireAuth("secret")

	ctx := context.Background()
	options := kvtable.TableOptions{Server: serverOption(t, mr)}

	// SELECT is refused before AUTH
	_, err := scan.Begin(ctx, &Dialer{}, options, scan.BeginOption{})
	assert.Assert(t, errors.Is(err, kvtable.ErrConnection))

	options.Server.Password = "wrong"
	_, err = scan.Begin(ctx, &Dialer{}, options, scan.BeginOption{})
	assert.Assert(t, errors.Is(err, kvtable.ErrAuthentication))

	options.Server.Password = "secret"
	s, err := scan.Begin(ctx, &Dialer{}, options, scan.BeginOption{})
	assert.NilError(t, err)
	assert.NilError(t, s.End())
}
