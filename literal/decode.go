package literal

import (
	"errors"
	"fmt"
	"strings"
)

// Element is one decoded array element
type Element struct {
	Value string
	Null  bool
}

var (
	// ErrMalformedArray when the input is not a one dimensional array literal
	ErrMalformedArray = errors.New("malformed array literal")
)

// DecodeArray parses a one dimensional array literal the way the host engine does:
// quoted elements may contain backslash escapes, an unquoted NULL is null and
// unquoted elements have surrounding whitespace trimmed.
func DecodeArray(s string) (elements []Element, err error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 || s[0] != '{' || s[len(s)-1] != '}' {
		err = fmt.Errorf("%w: %q", ErrMalformedArray, s)
		return
	}

	body := s[1 : len(s)-1]
	if strings.TrimSpace(body) == "" {
		elements = []Element{}
		return
	}

	i := 0
	for {
		var e Element
		e, i, err = decodeElement(body, i)
		if err != nil {
			return
		}
		elements = append(elements, e)

		if i == len(body) {
			return
		}
		if body[i] != ',' {
			err = fmt.Errorf("%w: unexpected %q at %d", ErrMalformedArray, body[i], i)
			return
		}
		i++
	}
}

func decodeElement(body string, i int) (e Element, next int, err error) {
	for i < len(body) && isSpace(body[i]) {
		i++
	}
	if i == len(body) {
		err = fmt.Errorf("%w: missing element", ErrMalformedArray)
		return
	}

	var b strings.Builder
	switch body[i] {
	case '{':
		err = fmt.Errorf("%w: nested arrays are not supported", ErrMalformedArray)
		return
	case '"':
		i++
		for {
			if i == len(body) {
				err = fmt.Errorf("%w: unterminated quoted element", ErrMalformedArray)
				return
			}
			c := body[i]
			if c == '"' {
				i++
				break
			}
			if c == '\\' {
				i++
				if i == len(body) {
					err = fmt.Errorf("%w: dangling escape", ErrMalformedArray)
					return
				}
				c = body[i]
			}
			b.WriteByte(c)
			i++
		}
		for i < len(body) && isSpace(body[i]) {
			i++
		}
		e.Value = b.String()
	default:
		escaped := false
		for i < len(body) && body[i] != ',' {
			c := body[i]
			switch c {
			case '"', '{', '}':
				err = fmt.Errorf("%w: unexpected %q in unquoted element", ErrMalformedArray, c)
				return
			case '\\':
				i++
				if i == len(body) {
					err = fmt.Errorf("%w: dangling escape", ErrMalformedArray)
					return
				}
				c = body[i]
				escaped = true
			}
			b.WriteByte(c)
			i++
		}
		e.Value = strings.TrimRight(b.String(), " \t\n\r\v\f")
		if e.Value == "" {
			err = fmt.Errorf("%w: empty unquoted element", ErrMalformedArray)
			return
		}
		if !escaped && strings.EqualFold(e.Value, nullToken) {
			e = Element{Null: true}
		}
	}

	next = i
	return
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
