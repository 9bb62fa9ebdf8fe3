package store

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateField = errors.New("duplicate field")
	ErrUnknownField   = errors.New("unknown field")
	ErrDuplicateIndex = errors.New("duplicate index")
	ErrUnknownIndex   = errors.New("unknown index")

	// ErrNotFound is returned by the lookup family when nothing matches.
	ErrNotFound = errors.New("not found")
)

// SchemaError reports a field or index that conflicts with the schema, ie a
// duplicate definition or an unknown name written to a closed schema.
//
// The underlying reason can be tested with errors.Is against the Err*
// sentinels above.
type SchemaError struct {
	Schema string
	Name   string
	cause  error
}

func (self *SchemaError) Error() string {
	return fmt.Sprintf("schema %q: %s %q", self.Schema, self.cause, self.Name)
}

func (self *SchemaError) Unwrap() error { return self.cause }

func newSchemaError(s *Schema, name string, cause error) *SchemaError {
	sn := ""
	if s != nil {
		sn = s.name
	}
	return &SchemaError{Schema: sn, Name: name, cause: cause}
}

// FieldUnsetError is returned when a field is read that was never assigned
// and carries no default.
type FieldUnsetError struct {
	Source string // machine source alias, empty for direct record reads
	Field  string
}

func (self *FieldUnsetError) Error() string {
	if self.Source != "" {
		return fmt.Sprintf("field %s.%s is unset", self.Source, self.Field)
	}
	return fmt.Sprintf("field %q is unset", self.Field)
}

// DuplicateKeyError is returned by Append when a unique index already holds
// the composite key. The record has been appended regardless.
type DuplicateKeyError struct {
	Index    string
	Key      string
	Position int // position of the record that was appended
	Existing int // position already owning the key
}

func (self *DuplicateKeyError) Error() string {
	return fmt.Sprintf(
		"duplicate key %q in unique index %q (record %d, already held by record %d)",
		self.Key,
		self.Index,
		self.Position,
		self.Existing,
	)
}

type StackUnderflowError struct {
	Op Opcode
	PC int
}

func (self *StackUnderflowError) Error() string {
	if self.PC < 0 {
		return "stack underflow: program left no result"
	}
	return fmt.Sprintf("stack underflow at %04d (%s)", self.PC, self.Op)
}

// UnsupportedOperatorError is raised while compiling a where clause that
// uses an operator, or a conjunction, the machine has no instruction for.
type UnsupportedOperatorError struct {
	Clause   int
	Operator string
}

func (self *UnsupportedOperatorError) Error() string {
	return fmt.Sprintf("clause %d: unsupported operator %q", self.Clause, self.Operator)
}

// SyntaxError reports a malformed where clause list, eg unbalanced groups.
type SyntaxError struct {
	Clause int
	Msg    string
}

func (self *SyntaxError) Error() string {
	return fmt.Sprintf("clause %d: %s", self.Clause, self.Msg)
}
