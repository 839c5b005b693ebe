// Package value implements wisp's runtime Value model: a small tagged
// union of Number, Boolean, Nil and String, used both as the element type
// of the VM's evaluation stack and of a chunk's constant pool.
package value

import (
	"fmt"
	"strconv"

	"github.com/josharian/intern"
)

// Kind identifies which alternative of Value is populated.
type Kind int

const (
	KindNil Kind = iota
	KindBoolean
	KindNumber
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	default:
		return "unknown"
	}
}

// Value is a tagged, immutable runtime value. The zero Value is Nil.
type Value struct {
	kind Kind
	num  float64
	b    bool
	str  string
}

// Nil is the sole Nil value.
var Nil = Value{kind: KindNil}

// Boolean constructs a Boolean value.
func Boolean(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Number constructs a Number value.
func Number(n float64) Value { return Value{kind: KindNumber, num: n} }

// String constructs a String value. The backing string is interned so
// that identifier-like strings repeated across a chunk's constant pool
// (global variable names in particular) share storage and compare cheaply.
func String(s string) Value { return Value{kind: KindString, str: intern.String(s)} }

// Kind reports which alternative is populated.
func (v Value) Kind() Kind { return v.kind }

// IsNil reports whether v is the Nil value.
func (v Value) IsNil() bool { return v.kind == KindNil }

// AsNumber returns the float64 payload and true if v is a Number.
func (v Value) AsNumber() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	return v.num, true
}

// AsBoolean returns the bool payload and true if v is a Boolean.
func (v Value) AsBoolean() (bool, bool) {
	if v.kind != KindBoolean {
		return false, false
	}
	return v.b, true
}

// AsString returns the string payload and true if v is a String.
func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// TypeName returns the short type name used in runtime error messages.
func (v Value) TypeName() string { return v.kind.String() }

// String renders v the way Print displays it.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindNumber:
		return strconv.FormatFloat(v.num, 'g', -1, 64)
	case KindString:
		return v.str
	default:
		return fmt.Sprintf("<invalid value kind %d>", v.kind)
	}
}

// Equal implements wisp's Equal opcode semantics: same-kind structural
// equality; values of different kinds are never equal.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNil:
		return true
	case KindBoolean:
		return a.b == b.b
	case KindNumber:
		return a.num == b.num
	case KindString:
		return a.str == b.str
	default:
		return false
	}
}

// Compare orders two Values. It returns (cmp, true) with cmp negative,
// zero, or positive if a is respectively less than, equal to, or greater
// than b. It returns (0, false) if a and b are not both Numbers — wisp
// restricts ordering comparisons to numeric operands (see DESIGN.md).
func Compare(a, b Value) (int, bool) {
	an, aok := a.AsNumber()
	bn, bok := b.AsNumber()
	if !aok || !bok {
		return 0, false
	}
	switch {
	case an < bn:
		return -1, true
	case an > bn:
		return 1, true
	default:
		return 0, true
	}
}
