package kvtable

import (
	"fmt"
	"strconv"
)

// ReplyType tags the variant held by a Reply
type ReplyType uint8

const (
	// ReplyNil is the nil bulk/multi-bulk reply
	ReplyNil ReplyType = iota
	// ReplyStatus is a simple string like OK
	ReplyStatus
	// ReplyError is a protocol level error reply
	ReplyError
	// ReplyInteger is an integer reply
	ReplyInteger
	// ReplyString is a bulk string reply
	ReplyString
	// ReplyArray is a multi-bulk reply
	ReplyArray
)

var replyTypeNames = [...]string{
	ReplyNil:     "nil",
	ReplyStatus:  "status",
	ReplyError:   "error",
	ReplyInteger: "integer",
	ReplyString:  "string",
	ReplyArray:   "array",
}

func (t ReplyType) String() string {
	if int(t) < len(replyTypeNames) {
		return replyTypeNames[t]
	}
	return fmt.Sprintf("ReplyType(%d)", t)
}

// Reply is what the store answers to one command.
// Str is used by Status, Error and String, Integer by Integer, Elements by Array.
type Reply struct {
	Type     ReplyType
	Str      string
	Integer  int64
	Elements []*Reply
}

// NilReply is ctor for a ReplyNil
func NilReply() *Reply {
	return &Reply{Type: ReplyNil}
}

// StatusReply is ctor for a ReplyStatus
func StatusReply(s string) *Reply {
	return &Reply{Type: ReplyStatus, Str: s}
}

// ErrorReply is ctor for a ReplyError
func ErrorReply(msg string) *Reply {
	return &Reply{Type: ReplyError, Str: msg}
}

// IntegerReply is ctor for a ReplyInteger
func IntegerReply(n int64) *Reply {
	return &Reply{Type: ReplyInteger, Integer: n}
}

// StringReply is ctor for a ReplyString
func StringReply(s string) *Reply {
	return &Reply{Type: ReplyString, Str: s}
}

// ArrayReply is ctor for a ReplyArray
func ArrayReply(elements ...*Reply) *Reply {
	if elements == nil {
		elements = []*Reply{}
	}
	return &Reply{Type: ReplyArray, Elements: elements}
}

// StringsReply builds an array of bulk strings
func StringsReply(ss []string) *Reply {
	elements := make([]*Reply, len(ss))
	for i, s := range ss {
		elements[i] = StringReply(s)
	}
	return ArrayReply(elements...)
}

// OK is the usual status reply
var OK = StatusReply("OK")

// Strings returns the elements of an array of bulk strings.
// Nil elements are skipped.
func (r *Reply) Strings() (ss []string, err error) {
	if r.Type != ReplyArray {
		err = fmt.Errorf("expected array reply, got %s", r.Type)
		return
	}
	ss = make([]string, 0, len(r.Elements))
	for _, e := range r.Elements {
		switch e.Type {
		case ReplyString, ReplyStatus:
			ss = append(ss, e.Str)
		case ReplyNil:
		default:
			err = fmt.Errorf("expected string element, got %s", e.Type)
			return
		}
	}
	return
}

// Int64 returns the value of an integer reply
func (r *Reply) Int64() (n int64, err error) {
	switch r.Type {
	case ReplyInteger:
		n = r.Integer
	case ReplyString:
		n, err = strconv.ParseInt(r.Str, 10, 64)
	default:
		err = fmt.Errorf("expected integer reply, got %s", r.Type)
	}
	return
}

func (r *Reply) String() string {
	switch r.Type {
	case ReplyNil:
		return "(nil)"
	case ReplyStatus:
		return r.Str
	case ReplyError:
		return "(error) " + r.Str
	case ReplyInteger:
		return "(integer) " + strconv.FormatInt(r.Integer, 10)
	case ReplyString:
		return strconv.Quote(r.Str)
	case ReplyArray:
		return fmt.Sprintf("%v", r.Elements)
	}
	return r.Type.String()
}
