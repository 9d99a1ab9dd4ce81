package literal

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zhiqiangxu/kvtable"
)

// EncodeArray flattens an array reply into an array literal like {"a","b\"c",5,NULL}.
// Nothing is returned unless every element could be encoded.
func EncodeArray(r *kvtable.Reply) (s string, err error) {
	if r.Type != kvtable.ReplyArray {
		err = fmt.Errorf("%w: expected array reply, got %s", kvtable.ErrUnsupportedValueShape, r.Type)
		return
	}

	var b strings.Builder
	b.Grow(encodedSizeHint(r))
	b.WriteByte('{')
	for i, e := range r.Elements {
		if i > 0 {
			b.WriteByte(',')
		}
		switch e.Type {
		case kvtable.ReplyString, kvtable.ReplyStatus:
			if !utf8.ValidString(e.Str) {
				err = fmt.Errorf("%w: element %d", kvtable.ErrEncodingValidity, i)
				return
			}
			writeQuoted(&b, e.Str)
		case kvtable.ReplyInteger:
			b.WriteString(strconv.FormatInt(e.Integer, 10))
		case kvtable.ReplyNil:
			b.WriteString(nullToken)
		case kvtable.ReplyArray:
			err = kvtable.ErrUnsupportedValueShape
			return
		default:
			err = fmt.Errorf("%w: %s element", kvtable.ErrUnsupportedValueShape, e.Type)
			return
		}
	}
	b.WriteByte('}')

	s = b.String()
	return
}

const nullToken = "NULL"

func writeQuoted(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
}

func encodedSizeHint(r *kvtable.Reply) (n int) {
	n = 2 + len(r.Elements)
	for _, e := range r.Elements {
		n += len(e.Str) + 2
	}
	return
}
