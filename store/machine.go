package store

import (
	"context"
	"log/slog"
)

// Source is anything push_field can read a field from; *Record and Fields
// both qualify.
type Source interface {
	Get(name string) (Value, error)
}

// Env binds source aliases and variables for one run of a program.
type Env struct {
	Sources map[string]Source
	Vars    map[string]Value
}

// Bind returns an Env with a single source, the common Select shape.
func Bind(alias string, src Source) Env {
	return Env{Sources: map[string]Source{alias: src}}
}

type stack []Value

func (self *stack) push(v Value) {
	*self = append(*self, v)
}

func (self *stack) pop2() (Value, Value, bool) {
	s := *self
	if len(s) < 2 {
		return Null(), Null(), false
	}
	a, b := s[len(s)-2], s[len(s)-1]
	*self = s[:len(s)-2]
	return a, b, true
}

// Machine executes programs. Default is consulted when a source cannot
// resolve a field; Trace, when set, receives every step at debug level.
//
// A Machine keeps its stack between runs to avoid reallocating, so it must
// not be shared between goroutines.
type Machine struct {
	Default *Schema
	Trace   *slog.Logger

	stack stack
}

func NewMachine(def *Schema) *Machine {
	return &Machine{Default: def}
}

// Run executes p linearly and returns the value left on top of the stack.
func (self *Machine) Run(p *Program, env Env) (Value, error) {
	self.stack = self.stack[:0]

	for pc, ins := range p.code {
		if err := self.step(pc, ins, env); err != nil {
			return Null(), err
		}
		if self.Trace != nil {
			self.trace(pc, ins)
		}
	}

	if len(self.stack) == 0 {
		return Null(), &StackUnderflowError{PC: -1}
	}
	return self.stack[len(self.stack)-1], nil
}

func (self *Machine) trace(pc int, ins Instruction) {
	var top interface{}
	if n := len(self.stack); n > 0 {
		top = self.stack[n-1].Quote()
	}
	self.Trace.Log(
		context.Background(),
		slog.LevelDebug,
		"step",
		"pc", pc,
		"ins", ins.String(),
		"depth", len(self.stack),
		"top", top,
	)
}

func (self *Machine) step(pc int, ins Instruction, env Env) error {
	switch ins.Op {
	case OpPushField:
		v, err := self.field(env, ins.Source, ins.Field)
		if err != nil {
			return err
		}
		self.stack.push(v)

	case OpPushNumber, OpPushString:
		self.stack.push(ins.Literal)

	case OpPushVariable:
		// unbound variables read as null
		self.stack.push(env.Vars[ins.Var])

	default:
		a, b, ok := self.stack.pop2()
		if !ok {
			return &StackUnderflowError{Op: ins.Op, PC: pc}
		}
		self.stack.push(binary(ins.Op, a, b))
	}
	return nil
}

func binary(op Opcode, a, b Value) Value {
	switch op {
	case OpCompareEqual:
		return Bool(a.EqualFold(b))
	case OpAnd:
		return Bool(a.AsBool() && b.AsBool())
	case OpOr:
		return Bool(a.AsBool() || b.AsBool())
	case OpAdd:
		return Int(a.AsInt() + b.AsInt())
	case OpSubtract:
		return Int(a.AsInt() - b.AsInt())
	case OpConcat:
		return Str(a.String() + b.String())
	default:
		panic("unknown opcode " + op.String())
	}
}

// field resolves source.name. The record goes first; failing that the
// fallback schema is asked for the field's formal name, which is retried on
// the record, and then for its default.
func (self *Machine) field(env Env, source, name string) (Value, error) {
	src := env.Sources[source]
	if src != nil {
		if v, err := src.Get(name); err == nil {
			return v, nil
		}
	}
	if self.Default != nil {
		if fd, ok := self.Default.Field(name); ok {
			if src != nil && fd.Name != name {
				if v, err := src.Get(fd.Name); err == nil {
					return v, nil
				}
			}
			if v, ok := self.Default.Default(fd.Name); ok {
				return v, nil
			}
		}
	}
	return Null(), &FieldUnsetError{Source: source, Field: name}
}

// Run executes p on a throwaway machine without fallback schema.
func Run(p *Program, env Env) (Value, error) {
	m := Machine{}
	return m.Run(p, env)
}
