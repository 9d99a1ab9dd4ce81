package scan

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/zhiqiangxu/kvtable"
	"github.com/zhiqiangxu/kvtable/literal"
)

// excluded is the cursor position meaning the qualifier excluded every row
const excluded = -1

// maxRangeIndex is the stop index used by LRANGE and ZRANGE
const maxRangeIndex = "2147483647"

// StepResult is the outcome of one Cursor.Step
type StepResult uint8

const (
	// StepExhausted means there is nothing left to visit
	StepExhausted StepResult = iota
	// StepSkip means the current key had no usable value
	StepSkip
	// StepRow means a row was produced
	StepRow
)

func (r StepResult) String() string {
	switch r {
	case StepExhausted:
		return "exhausted"
	case StepSkip:
		return "skip"
	case StepRow:
		return "row"
	}
	return fmt.Sprintf("StepResult(%d)", r)
}

// Cursor walks a KeySet
type Cursor struct {
	keys []string
	pos  int
}

// NewCursor is ctor for Cursor
func NewCursor(ks KeySet) *Cursor {
	c := &Cursor{keys: ks.Keys}
	if ks.Excluded {
		c.pos = excluded
	}
	return c
}

// Excluded reports whether the qualifier excluded every row
func (c *Cursor) Excluded() bool {
	return c.pos == excluded
}

// Pos returns the index of the next key
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the number of enumerated keys
func (c *Cursor) Len() int {
	return len(c.keys)
}

// Exhausted reports whether every key has been visited
func (c *Cursor) Exhausted() bool {
	return c.pos == excluded || c.pos >= len(c.keys)
}

// Reset rewinds to the first key, the excluded sentinel is kept
func (c *Cursor) Reset() {
	if c.pos != excluded {
		c.pos = 0
	}
}

// FetchCommand returns the command reading the value of key as shape
func FetchCommand(shape kvtable.TableShape, key string) (cmd string, args []string) {
	switch shape {
	case kvtable.ShapeHash:
		return "HGETALL", []string{key}
	case kvtable.ShapeList:
		return "LRANGE", []string{key, "0", maxRangeIndex}
	case kvtable.ShapeSet:
		return "SMEMBERS", []string{key}
	case kvtable.ShapeOrderedSet:
		return "ZRANGE", []string{key, "0", maxRangeIndex}
	default:
		return "GET", []string{key}
	}
}

// Step fetches the value of the key under the cursor.
// The cursor only advances when the fetch got a reply.
func (c *Cursor) Step(ctx context.Context, conn kvtable.Conn, shape kvtable.TableShape) (row kvtable.Row, result StepResult, err error) {
	if c.Exhausted() {
		return
	}

	key := c.keys[c.pos]
	cmd, args := FetchCommand(shape, key)
	r, err := conn.Do(ctx, cmd, args...)
	if err != nil {
		if !errors.Is(err, kvtable.ErrConnection) {
			err = fmt.Errorf("%w: failed to get the value for key %q: %v", kvtable.ErrConnection, key, err)
		}
		return
	}
	c.pos++

	value, ok, err := Decode(r)
	if err != nil {
		err = fmt.Errorf("value for key %q: %w", key, err)
		return
	}
	if !ok {
		result = StepSkip
		return
	}

	row = kvtable.Row{Key: key, Value: value}
	result = StepRow
	return
}

// Decode turns a fetched reply into a column value.
// ok is false for Nil, Status and Error replies, which carry no value.
func Decode(r *kvtable.Reply) (value string, ok bool, err error) {
	switch r.Type {
	case kvtable.ReplyNil, kvtable.ReplyStatus, kvtable.ReplyError:
	case kvtable.ReplyInteger:
		value, ok = strconv.FormatInt(r.Integer, 10), true
	case kvtable.ReplyString:
		value, ok = r.Str, true
	case kvtable.ReplyArray:
		value, err = literal.EncodeArray(r)
		ok = err == nil
	default:
		err = fmt.Errorf("%w: unknown reply type %s", kvtable.ErrUnsupportedValueShape, r.Type)
	}
	return
}
