package store

import (
	"fmt"
	"strings"
)

// DefaultAlias is the source name records are bound to while a where program
// runs.
const DefaultAlias = "R1"

// Clause is one (field, operator, operand, conjunction) entry of a where
// clause. The conjunction joins the clause to everything before it and is
// ignored on the first clause; empty means AND. A conjunction prefixed with
// "(" opens the single group level, one prefixed with ")" closes it, eg
//
//	a = 1 AND (b = 2 OR c = 3)
//
// is written as {a = 1}, {b = 2 "(AND"}, {c = 3 ")OR"}.
type Clause struct {
	Field       string
	Operator    string
	Operand     interface{}
	Conjunction string
}

type ClauseList []Clause

// Where builds a clause, the optional conj defaults to AND.
func Where(field, operator string, operand interface{}, conj ...string) Clause {
	c := Clause{Field: field, Operator: operator, Operand: operand}
	if len(conj) > 0 {
		c.Conjunction = conj[0]
	}
	return c
}

func (self Clause) String() string {
	operand := fmt.Sprintf("%v", self.Operand)
	if v, err := ValueOf(self.Operand); err == nil {
		operand = v.Quote()
	}
	s := fmt.Sprintf("%s %s %s", self.Field, self.Operator, operand)
	if self.Conjunction != "" {
		s += " " + self.Conjunction
	}
	return s
}

func conjunction(idx int, name string) (Opcode, error) {
	switch upper(strings.TrimSpace(name)) {
	case "", "AND", "&&":
		return OpAnd, nil
	case "OR", "||":
		return OpOr, nil
	default:
		return 0, &UnsupportedOperatorError{Clause: idx, Operator: name}
	}
}

func literal(idx int, operand interface{}) (Instruction, error) {
	v, err := ValueOf(operand)
	if err != nil {
		return Instruction{}, &SyntaxError{
			Clause: idx,
			Msg:    fmt.Sprintf("operand %v of type %T is not a literal", operand, operand),
		}
	}
	if v.Kind() == KindInt {
		return PushNumber(v.AsInt()), nil
	}
	return PushString(v.String()), nil
}

// Compile lowers a where clause to a program reading records bound to
// DefaultAlias.
func Compile(where ClauseList) (*Program, error) {
	return CompileAs(DefaultAlias, where)
}

// CompileAs is Compile with a custom source alias.
//
// Each clause becomes push_field, a literal push and compare_equal. From the
// second clause on the conjunction follows; the combinator of a group opener
// is held back and emitted right after the combinator of the closing clause.
// There is no precedence, conjunctions fold left to right.
func CompileAs(alias string, where ClauseList) (*Program, error) {
	code := make([]Instruction, 0, len(where)*4)

	var (
		deferred Opcode
		inGroup  bool
	)

	for idx, c := range where {
		if strings.TrimSpace(c.Operator) != "=" {
			return nil, &UnsupportedOperatorError{Clause: idx, Operator: c.Operator}
		}
		lit, err := literal(idx, c.Operand)
		if err != nil {
			return nil, err
		}
		code = append(code, PushField(alias, c.Field), lit, Op(OpCompareEqual))

		if idx == 0 {
			continue
		}

		conj := strings.TrimSpace(c.Conjunction)
		if conj == "" {
			conj = "AND"
		}

		// "(" and ")" alone default to AND as well
		switch conj[0] {
		case '(':
			if inGroup {
				return nil, &SyntaxError{Clause: idx, Msg: "nested group"}
			}
			op, err := conjunction(idx, conj[1:])
			if err != nil {
				return nil, err
			}
			deferred = op
			inGroup = true

		case ')':
			if !inGroup {
				return nil, &SyntaxError{Clause: idx, Msg: "group closed without being opened"}
			}
			op, err := conjunction(idx, conj[1:])
			if err != nil {
				return nil, err
			}
			code = append(code, Op(op), Op(deferred))
			inGroup = false

		default:
			op, err := conjunction(idx, conj)
			if err != nil {
				return nil, err
			}
			code = append(code, Op(op))
		}
	}

	if inGroup {
		return nil, &SyntaxError{Clause: len(where) - 1, Msg: "group is never closed"}
	}
	return NewProgram(code...), nil
}
