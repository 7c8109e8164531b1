package config

import (
	"fmt"
	"strconv"
)

// Kind is the declared type of a schema key.
type Kind int

const (
	KindInvalid Kind = iota
	KindBool
	KindPair
	KindText
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindPair:
		return "pair"
	case KindText:
		return "string"
	default:
		return "invalid"
	}
}

// Pair is an ordered pair of integers, used for window position and size.
type Pair [2]int

func (p Pair) String() string {
	return strconv.Itoa(p[0]) + "," + strconv.Itoa(p[1])
}

// Value is a typed configuration value. The zero Value is invalid.
type Value struct {
	kind Kind
	b    bool
	p    Pair
	s    string
}

func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

func IntPair(a, b int) Value {
	return Value{kind: KindPair, p: Pair{a, b}}
}

func Text(s string) Value {
	return Value{kind: KindText, s: s}
}

func (v Value) Kind() Kind { return v.kind }

func (v Value) IsValid() bool { return v.kind != KindInvalid }

// AsBool returns the boolean payload; false for other kinds.
func (v Value) AsBool() bool { return v.kind == KindBool && v.b }

// AsPair returns the pair payload; the zero pair for other kinds.
func (v Value) AsPair() Pair {
	if v.kind != KindPair {
		return Pair{}
	}
	return v.p
}

// AsText returns the text payload; empty for other kinds.
func (v Value) AsText() string {
	if v.kind != KindText {
		return ""
	}
	return v.s
}

// String renders v the way it is stored on disk.
func (v Value) String() string {
	switch v.kind {
	case KindBool:
		if v.b {
			return "True"
		}
		return "False"
	case KindPair:
		return v.p.String()
	case KindText:
		return v.s
	default:
		return ""
	}
}

// Interface returns the payload as a plain Go value (bool, [2]int or string).
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindPair:
		return [2]int(v.p)
	case KindText:
		return v.s
	default:
		return nil
	}
}

// Equal reports whether v and o have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindBool:
		return v.b == o.b
	case KindPair:
		return v.p == o.p
	case KindText:
		return v.s == o.s
	default:
		return true
	}
}

// GoString is used by %#v and by test diffs.
func (v Value) GoString() string {
	switch v.kind {
	case KindBool:
		return fmt.Sprintf("config.Bool(%t)", v.b)
	case KindPair:
		return fmt.Sprintf("config.IntPair(%d, %d)", v.p[0], v.p[1])
	case KindText:
		return fmt.Sprintf("config.Text(%q)", v.s)
	default:
		return "config.Value{}"
	}
}
