package kvtable

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"
)

// DefaultConnectTimeout bounds connecting to the store when a Dialer sets none
const DefaultConnectTimeout = 1500 * time.Millisecond

type (
	// Conn is a single synchronous connection to the remote store.
	// Protocol level error replies are returned as a Reply of type ReplyError,
	// err is only non nil when the transport failed.
	Conn interface {
		Do(ctx context.Context, cmd string, args ...string) (*Reply, error)
		Close() error
	}

	// Dialer opens a Conn, it does not authenticate or select a database.
	Dialer interface {
		Dial(ctx context.Context, option ServerOption) (Conn, error)
	}

	// ServerOption for where the store lives and how to log in
	ServerOption struct {
		Address  string
		Port     int
		Password string
		Database int
	}

	// TableOptions is everything a scan needs to know about a table
	TableOptions struct {
		Server     ServerOption
		Shape      TableShape
		Constraint Constraint
	}

	// Row is one (key, value) tuple produced by a scan
	Row struct {
		Key   string
		Value string
	}
)

// DialerFunc adapts a function to Dialer
type DialerFunc func(ctx context.Context, option ServerOption) (Conn, error)

// Dial implements Dialer
func (f DialerFunc) Dial(ctx context.Context, option ServerOption) (Conn, error) {
	return f(ctx, option)
}

// Addr returns host:port
func (o ServerOption) Addr() string {
	return net.JoinHostPort(o.Address, strconv.Itoa(o.Port))
}

// IsLocal reports whether the server is on the loopback address.
func (o ServerOption) IsLocal() bool {
	return o.Address == "127.0.0.1" || o.Address == "localhost"
}

// TableShape is the declared structural kind of every value in a table.
type TableShape uint8

const (
	// ShapeScalar values are fetched with GET
	ShapeScalar TableShape = iota
	// ShapeHash values are fetched with HGETALL
	ShapeHash
	// ShapeList values are fetched with LRANGE
	ShapeList
	// ShapeSet values are fetched with SMEMBERS
	ShapeSet
	// ShapeOrderedSet values are fetched with ZRANGE
	ShapeOrderedSet
)

var shapeNames = [...]string{
	ShapeScalar:     "scalar",
	ShapeHash:       "hash",
	ShapeList:       "list",
	ShapeSet:        "set",
	ShapeOrderedSet: "zset",
}

func (s TableShape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return fmt.Sprintf("TableShape(%d)", s)
}

// ParseTableShape is reverse for TableShape.String
func ParseTableShape(s string) (shape TableShape, err error) {
	for i, name := range shapeNames {
		if name == s {
			shape = TableShape(i)
			return
		}
	}
	err = fmt.Errorf("invalid tabletype (%s) - must be scalar, hash, list, set or zset", s)
	return
}

// ConstraintKind tells how the key namespace of a table is restricted
type ConstraintKind uint8

const (
	// ConstraintNone means every key in the database belongs to the table
	ConstraintNone ConstraintKind = iota
	// ConstraintMemberSet means keys are the members of a named set
	ConstraintMemberSet
	// ConstraintKeyPrefix means keys share a literal leading substring
	ConstraintKeyPrefix
)

// Constraint restricts the keys of a table. The zero value is no constraint.
type Constraint struct {
	Kind  ConstraintKind
	Value string
}

// MemberSet is ctor for a member-set Constraint
func MemberSet(name string) Constraint {
	return Constraint{Kind: ConstraintMemberSet, Value: name}
}

// KeyPrefix is ctor for a key prefix Constraint
func KeyPrefix(prefix string) Constraint {
	return Constraint{Kind: ConstraintKeyPrefix, Value: prefix}
}

func (c Constraint) String() string {
	switch c.Kind {
	case ConstraintMemberSet:
		return "keyset " + c.Value
	case ConstraintKeyPrefix:
		return "keyprefix " + c.Value
	default:
		return "none"
	}
}
