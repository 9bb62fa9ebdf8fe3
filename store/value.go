package store

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindStr
)

func (self Kind) String() string {
	switch self {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindStr:
		return "str"
	default:
		return "unknown"
	}
}

// ParseKind maps a type name, as written in schema descriptions, to a Kind.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "null", "any":
		return KindNull, nil
	case "bool", "boolean":
		return KindBool, nil
	case "int", "integer", "number":
		return KindInt, nil
	case "str", "string", "text":
		return KindStr, nil
	default:
		return KindNull, fmt.Errorf("unknown field type %q", name)
	}
}

// Value is the tagged scalar stored in record slots and on the evaluation
// stack. The zero Value is Null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	s    string
}

func Null() Value        { return Value{} }
func Bool(b bool) Value  { return Value{kind: KindBool, b: b} }
func Int(i int64) Value  { return Value{kind: KindInt, i: i} }
func Str(s string) Value { return Value{kind: KindStr, s: s} }

func (self Value) Kind() Kind   { return self.kind }
func (self Value) IsNull() bool { return self.kind == KindNull }

// ValueOf converts a plain Go scalar into a Value.
func ValueOf(x interface{}) (Value, error) {
	switch v := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return v, nil
	case *Value:
		if v == nil {
			return Null(), nil
		}
		return *v, nil
	case bool:
		return Bool(v), nil
	case string:
		return Str(v), nil
	case int:
		return Int(int64(v)), nil
	case int8:
		return Int(int64(v)), nil
	case int16:
		return Int(int64(v)), nil
	case int32:
		return Int(int64(v)), nil
	case int64:
		return Int(v), nil
	case uint:
		return Int(int64(v)), nil
	case uint8:
		return Int(int64(v)), nil
	case uint16:
		return Int(int64(v)), nil
	case uint32:
		return Int(int64(v)), nil
	case uint64:
		return Int(int64(v)), nil
	default:
		return Null(), fmt.Errorf("unsupported value type %T", x)
	}
}

func MustValueOf(x interface{}) Value {
	v, err := ValueOf(x)
	if err != nil {
		panic(err)
	}
	return v
}

// AsBool coerces the value to a boolean. A string is true when its first
// non blank character is one of "TtYy1".
func (self Value) AsBool() bool {
	switch self.kind {
	case KindBool:
		return self.b
	case KindInt:
		return self.i != 0
	case KindStr:
		s := strings.TrimSpace(self.s)
		if s == "" {
			return false
		}
		return strings.ContainsRune("TtYy1", rune(s[0]))
	default:
		return false
	}
}

// AsInt coerces the value to an integer, anything that is not a plain
// decimal number becomes 0.
func (self Value) AsInt() int64 {
	switch self.kind {
	case KindInt:
		return self.i
	case KindBool:
		if self.b {
			return 1
		}
		return 0
	case KindStr:
		s := strings.TrimSpace(self.s)
		if !isDecimal(s) {
			return 0
		}
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0
		}
		return i
	default:
		return 0
	}
}

func isDecimal(s string) bool {
	if s == "" {
		return false
	}
	if s[0] == '-' || s[0] == '+' {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (self Value) String() string {
	switch self.kind {
	case KindBool:
		return strconv.FormatBool(self.b)
	case KindInt:
		return strconv.FormatInt(self.i, 10)
	case KindStr:
		return self.s
	default:
		return ""
	}
}

// Interface returns the value as a plain Go scalar, nil for Null.
func (self Value) Interface() interface{} {
	switch self.kind {
	case KindBool:
		return self.b
	case KindInt:
		return self.i
	case KindStr:
		return self.s
	default:
		return nil
	}
}

// Quote renders the value the way it would be written as a literal.
func (self Value) Quote() string {
	switch self.kind {
	case KindStr:
		return strconv.Quote(self.s)
	case KindNull:
		return "null"
	default:
		return self.String()
	}
}

func (self Value) Equal(that Value) bool {
	if self.kind != that.kind {
		return false
	}
	switch self.kind {
	case KindBool:
		return self.b == that.b
	case KindInt:
		return self.i == that.i
	case KindStr:
		return self.s == that.s
	default:
		return true
	}
}

// Compare orders values: null first, integers numerically, the rest by their
// string form.
func (self Value) Compare(that Value) int {
	if self.kind == KindNull || that.kind == KindNull {
		switch {
		case self.kind == that.kind:
			return 0
		case self.kind == KindNull:
			return -1
		default:
			return 1
		}
	}
	if self.kind == KindInt && that.kind == KindInt {
		switch {
		case self.i < that.i:
			return -1
		case self.i > that.i:
			return 1
		default:
			return 0
		}
	}
	return strings.Compare(self.String(), that.String())
}

// EqualFold is the comparison used by the machine's CompareEqual: integers
// and booleans compare directly, everything else by its upper cased string
// form. Null only equals null.
func (self Value) EqualFold(that Value) bool {
	if self.kind == KindNull || that.kind == KindNull {
		return self.kind == that.kind
	}
	if self.kind == that.kind && self.kind != KindStr {
		return self.Equal(that)
	}
	return upper(self.String()) == upper(that.String())
}

func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// fold is used for case insensitive names.
func fold(s string) string {
	return cases.Fold().String(s)
}
