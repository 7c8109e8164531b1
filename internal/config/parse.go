package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Parser converts a raw value from the file into a typed Value. ok is false
// when raw cannot be represented in the parser's kind.
type Parser func(raw string) (v Value, ok bool)

// ParseBool maps exactly "True" and "1" to true and everything else to
// false. It never fails.
func ParseBool(raw string) (Value, bool) {
	return Bool(raw == "True" || raw == "1"), true
}

// ParsePair parses "a,b" into an integer pair.
func ParsePair(raw string) (Value, bool) {
	p, err := parsePair(raw)
	if err != nil {
		return Value{}, false
	}
	return IntPair(p[0], p[1]), true
}

// ParseText returns raw unchanged.
func ParseText(raw string) (Value, bool) {
	return Text(raw), true
}

// IsPair reports whether raw is a well-formed integer pair.
func IsPair(raw string) bool {
	_, err := parsePair(raw)
	return err == nil
}

func parsePair(raw string) (Pair, error) {
	a, b, found := strings.Cut(strings.TrimSpace(raw), ",")
	if !found {
		return Pair{}, fmt.Errorf("pair %q: missing comma", raw)
	}
	x, err := strconv.Atoi(strings.TrimSpace(a))
	if err != nil {
		return Pair{}, fmt.Errorf("pair %q: %w", raw, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(b))
	if err != nil {
		return Pair{}, fmt.Errorf("pair %q: %w", raw, err)
	}
	return Pair{x, y}, nil
}

func parserFor(k Kind) Parser {
	switch k {
	case KindBool:
		return ParseBool
	case KindPair:
		return ParsePair
	case KindText:
		return ParseText
	default:
		return nil
	}
}

// coerce converts an arbitrary Go value into a Value of kind k. Writes are
// stricter than reads: a string that is not a recognised boolean is rejected
// rather than mapped to false.
func coerce(k Kind, in any) (Value, error) {
	if in == nil {
		return Value{}, fmt.Errorf("nil value")
	}
	if v, ok := in.(Value); ok {
		if v.kind != k {
			return Value{}, fmt.Errorf("value of kind %s, want %s", v.kind, k)
		}
		if v.kind == KindText {
			if err := checkText(v.s); err != nil {
				return Value{}, err
			}
		}
		return v, nil
	}

	switch k {
	case KindBool:
		switch in.(type) {
		case bool, string:
		default:
			return Value{}, fmt.Errorf("%T is not a boolean", in)
		}
		b, err := cast.ToBoolE(in)
		if err != nil {
			return Value{}, err
		}
		return Bool(b), nil

	case KindPair:
		switch p := in.(type) {
		case Pair:
			return IntPair(p[0], p[1]), nil
		case [2]int:
			return IntPair(p[0], p[1]), nil
		case []int:
			if len(p) != 2 {
				return Value{}, fmt.Errorf("pair needs 2 elements, got %d", len(p))
			}
			return IntPair(p[0], p[1]), nil
		case string:
			pp, err := parsePair(p)
			if err != nil {
				return Value{}, err
			}
			return IntPair(pp[0], pp[1]), nil
		default:
			return Value{}, fmt.Errorf("%T is not an integer pair", in)
		}

	case KindText:
		var s string
		if st, ok := in.(fmt.Stringer); ok {
			s = st.String()
		} else {
			var err error
			if s, err = cast.ToStringE(in); err != nil {
				return Value{}, err
			}
		}
		if err := checkText(s); err != nil {
			return Value{}, err
		}
		return Text(s), nil
	}

	return Value{}, fmt.Errorf("unsupported kind %s", k)
}

// checkText rejects text that would spill onto a second line of the file.
func checkText(s string) error {
	if strings.ContainsAny(s, "\r\n") {
		return fmt.Errorf("text value contains a line break")
	}
	return nil
}
