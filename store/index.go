package store

import (
	"sort"
	"strings"
)

// KeySeparator joins the field values of a composite index key.
const KeySeparator = "."

// Index maps a composite key to positions in the owning RecordSet. It holds
// plain positions, so it stays valid only as long as the set is append only.
type Index struct {
	def       *IndexDef
	positions map[string][]int
}

func newIndex(def *IndexDef) *Index {
	return &Index{
		def:       def,
		positions: make(map[string][]int),
	}
}

func (self *Index) Name() string { return self.def.Name }
func (self *Index) Unique() bool { return self.def.Unique }
func (self *Index) Len() int     { return len(self.positions) }

func (self *Index) Fields() []string {
	out := make([]string, len(self.def.Fields))
	copy(out, self.def.Fields)
	return out
}

// Keys returns every key held by the index, sorted.
func (self *Index) Keys() []string {
	out := make([]string, 0, len(self.positions))
	for k := range self.positions {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (self *Index) first(key string) (int, bool) {
	p, ok := self.positions[key]
	if !ok || len(p) == 0 {
		return -1, false
	}
	return p[0], true
}

// insert records key -> pos. For a unique index an existing key is left
// untouched and its position is returned with false.
func (self *Index) insert(key string, pos int) (int, bool) {
	if self.def.Unique {
		if old, ok := self.first(key); ok {
			return old, false
		}
	}
	self.positions[key] = append(self.positions[key], pos)
	return pos, true
}

// fieldGetter is anything a key can be built from.
type fieldGetter interface {
	Get(name string) (Value, error)
}

// Fields adapts a plain map to the Source / key source interfaces. Lookups
// are exact.
type Fields map[string]Value

func (self Fields) Get(name string) (Value, error) {
	v, ok := self[name]
	if !ok {
		return Null(), &FieldUnsetError{Field: name}
	}
	return v, nil
}

// keyComponent renders one key part; values of case insensitive fields are
// upper cased so that lookups ignore case like the machine's comparisons.
func keyComponent(schema *Schema, field string, v Value) string {
	sensitive := schema.caseSensitive
	if fd, ok := schema.Field(field); ok {
		sensitive = fd.CaseSensitive
	}
	if sensitive {
		return v.String()
	}
	return upper(v.String())
}

func composeKey(schema *Schema, fields []string, values []Value) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = keyComponent(schema, f, values[i])
	}
	return strings.Join(parts, KeySeparator)
}
