package store

import (
	"strings"
)

// Item is one (name, value) pair of a record, see Record.Items.
type Item struct {
	Name  string
	Value Value
}

type slot struct {
	value    Value
	modified bool
}

// Record holds the values of one tuple in schema slot order. The schema and
// the parent set are borrowed, never owned.
type Record struct {
	schema *Schema
	parent *RecordSet
	slots  []slot
}

// NewRecord creates a detached record. Records normally come out of
// RecordSet.Append or RecordSet.MakeChild.
func NewRecord(schema *Schema) *Record {
	return &Record{
		schema: schema,
		slots:  make([]slot, 0, schema.Len()),
	}
}

func (self *Record) Schema() *Schema    { return self.schema }
func (self *Record) Parent() *RecordSet { return self.parent }
func (self *Record) Len() int           { return len(self.slots) }

func (self *Record) modified(fd *FieldDef) bool {
	return fd.Slot < len(self.slots) && self.slots[fd.Slot].modified
}

// Get returns the stored value, or the field / schema default when the field
// was never written.
func (self *Record) Get(name string) (Value, error) {
	fd, ok := self.schema.Field(name)
	if ok && self.modified(fd) {
		return self.slots[fd.Slot].value, nil
	}
	if v, ok := self.schema.Default(name); ok {
		return v, nil
	}
	return Null(), &FieldUnsetError{Field: name}
}

// GetOr is Get with a substitute for unset fields.
func (self *Record) GetOr(name string, substitute Value) Value {
	if !self.Contains(name) {
		return substitute
	}
	v, _ := self.Get(name)
	return v
}

func (self *Record) Set(name string, value Value) error {
	fd, err := self.schema.ensureField(name, value)
	if err != nil {
		return err
	}
	self.store(fd.Slot, value)
	return nil
}

// Add sets a field that must not hold a value yet.
func (self *Record) Add(name string, value Value) error {
	if self.Contains(name) {
		return newSchemaError(self.schema, name, ErrDuplicateField)
	}
	return self.Set(name, value)
}

func (self *Record) store(idx int, value Value) {
	for idx >= len(self.slots) {
		self.slots = append(self.slots, slot{})
	}
	self.slots[idx] = slot{value: value, modified: true}
}

// Contains reports whether the field is defined and has been written; a
// default does not count.
func (self *Record) Contains(name string) bool {
	fd, ok := self.schema.Field(name)
	return ok && self.modified(fd)
}

func (self *Record) IsModified(name string) bool {
	return self.Contains(name)
}

// Bool reads a field and coerces it with Value.AsBool.
func (self *Record) Bool(name string) (bool, error) {
	v, err := self.Get(name)
	if err != nil {
		return false, err
	}
	return v.AsBool(), nil
}

func (self *Record) ValuesFor(names []string) ([]Value, error) {
	out := make([]Value, 0, len(names))
	for _, n := range names {
		v, err := self.Get(n)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Items lists the written fields in slot order.
func (self *Record) Items() []Item {
	out := []Item{}
	for _, fd := range self.schema.fields {
		if self.modified(fd) {
			out = append(out, Item{Name: fd.Name, Value: self.slots[fd.Slot].value})
		}
	}
	return out
}

func (self *Record) Keys() []string {
	items := self.Items()
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func (self *Record) Values() []Value {
	items := self.Items()
	out := make([]Value, len(items))
	for i, it := range items {
		out[i] = it.Value
	}
	return out
}

// Equal compares the written fields only; defaults play no part.
func (self *Record) Equal(that *Record) bool {
	if self == that {
		return true
	}
	if that == nil {
		return false
	}
	a := self.Items()
	b := that.Items()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Name != b[i].Name || !a[i].Value.Equal(b[i].Value) {
			return false
		}
	}
	return true
}

// Clone copies the written values into a detached record of the same schema.
func (self *Record) Clone() *Record {
	out := &Record{
		schema: self.schema,
		slots:  make([]slot, len(self.slots)),
	}
	copy(out.slots, self.slots)
	return out
}

func (self *Record) String() string {
	buf := strings.Builder{}
	buf.WriteString("{")
	for idx, it := range self.Items() {
		if idx > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(it.Name)
		buf.WriteString(": ")
		buf.WriteString(it.Value.Quote())
	}
	buf.WriteString("}")
	return buf.String()
}
