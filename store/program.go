package store

import (
	"fmt"
	"strings"
)

type Opcode int

const (
	OpPushField Opcode = iota
	OpPushNumber
	OpPushString
	OpPushVariable
	OpCompareEqual
	OpAnd
	OpOr
	OpAdd
	OpSubtract
	OpConcat
)

var opcodeName = map[Opcode]string{
	OpPushField:    "push_field",
	OpPushNumber:   "push_number",
	OpPushString:   "push_string",
	OpPushVariable: "push_variable",
	OpCompareEqual: "compare_equal",
	OpAnd:          "and",
	OpOr:           "or",
	OpAdd:          "add",
	OpSubtract:     "subtract",
	OpConcat:       "concat",
}

func (self Opcode) String() string {
	if n, ok := opcodeName[self]; ok {
		return n
	}
	return fmt.Sprintf("opcode(%d)", int(self))
}

// Arity is the number of stack operands the opcode consumes.
func (self Opcode) Arity() int {
	switch self {
	case OpCompareEqual, OpAnd, OpOr, OpAdd, OpSubtract, OpConcat:
		return 2
	default:
		return 0
	}
}

// Instruction is one step of a Program. Only the operand matching Op is
// meaningful: Source/Field for push_field, Literal for push_number and
// push_string, Var for push_variable.
type Instruction struct {
	Op      Opcode
	Source  string
	Field   string
	Literal Value
	Var     string
}

func PushField(source, field string) Instruction {
	return Instruction{Op: OpPushField, Source: source, Field: field}
}

func PushNumber(n int64) Instruction {
	return Instruction{Op: OpPushNumber, Literal: Int(n)}
}

func PushString(s string) Instruction {
	return Instruction{Op: OpPushString, Literal: Str(s)}
}

func PushVariable(name string) Instruction {
	return Instruction{Op: OpPushVariable, Var: name}
}

// Op builds an operand free instruction, ie the binary ones.
func Op(op Opcode) Instruction {
	return Instruction{Op: op}
}

func (self Instruction) String() string {
	switch self.Op {
	case OpPushField:
		return fmt.Sprintf("%s %s.%s", self.Op, self.Source, self.Field)
	case OpPushNumber, OpPushString:
		return fmt.Sprintf("%s %s", self.Op, self.Literal.Quote())
	case OpPushVariable:
		return fmt.Sprintf("%s $%s", self.Op, self.Var)
	default:
		return self.Op.String()
	}
}

// Program is an immutable instruction sequence. It holds no reference to any
// record and can be run any number of times.
type Program struct {
	code []Instruction
}

func NewProgram(code ...Instruction) *Program {
	c := make([]Instruction, len(code))
	copy(c, code)
	return &Program{code: c}
}

func (self *Program) Len() int              { return len(self.code) }
func (self *Program) At(pc int) Instruction { return self.code[pc] }

func (self *Program) Instructions() []Instruction {
	out := make([]Instruction, len(self.code))
	copy(out, self.code)
	return out
}

// Sources lists the source aliases referenced by push_field, in order of
// first use.
func (self *Program) Sources() []string {
	seen := map[string]bool{}
	out := []string{}
	for _, ins := range self.code {
		if ins.Op == OpPushField && !seen[ins.Source] {
			seen[ins.Source] = true
			out = append(out, ins.Source)
		}
	}
	return out
}

func (self *Program) String() string {
	buf := strings.Builder{}
	for pc, ins := range self.code {
		buf.WriteString(fmt.Sprintf("%04d %s\n", pc, ins))
	}
	return buf.String()
}
