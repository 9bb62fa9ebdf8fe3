package store

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// RecordSet is an ordered, append only collection of records sharing one
// schema, plus the named indices maintained on append.
//
// The set owns its records and indices. Indices store positions, the set is
// never reordered in place and records are never removed one by one, Clear
// drops everything at once.
type RecordSet struct {
	id       uuid.UUID
	name     string
	schema   *Schema
	reporter Reporter

	records []*Record

	defs       []*IndexDef       // indices defined on this set only
	indices    map[string]*Index // materialized indices, set and schema ones
	indexOrder []string
}

func NewRecordSet(schema *Schema, opts ...Option) *RecordSet {
	o := newOptions(opts)
	return &RecordSet{
		id:       o.id,
		name:     o.name,
		schema:   schema,
		reporter: o.reporter,
		indices:  make(map[string]*Index),
	}
}

func (self *RecordSet) ID() uuid.UUID      { return self.id }
func (self *RecordSet) Name() string       { return self.name }
func (self *RecordSet) Schema() *Schema    { return self.schema }
func (self *RecordSet) Len() int           { return len(self.records) }
func (self *RecordSet) Reporter() Reporter { return self.reporter }

// At returns the record at position idx, nil when out of range.
func (self *RecordSet) At(idx int) *Record {
	if idx < 0 || idx >= len(self.records) {
		return nil
	}
	return self.records[idx]
}

// Records returns the records in append order. The slice is a copy, the
// records are not.
func (self *RecordSet) Records() []*Record {
	out := make([]*Record, len(self.records))
	copy(out, self.records)
	return out
}

func (self *RecordSet) ColumnHeadings() []string {
	return self.schema.Names()
}

// Rows renders every record as one value per schema slot, unset fields
// without default come out as null.
func (self *RecordSet) Rows() [][]Value {
	fields := self.schema.FieldsBySlot()
	out := make([][]Value, 0, len(self.records))
	for _, rec := range self.records {
		row := make([]Value, len(fields))
		for i, fd := range fields {
			if v, err := rec.Get(fd.Name); err == nil {
				row[i] = v
			}
		}
		out = append(out, row)
	}
	return out
}

func (self *RecordSet) report(severity Severity, err error) {
	label := self.name
	if label == "" {
		label = self.schema.name
	}
	self.reporter.Report(
		severity,
		fmt.Sprintf("recordset %s (%s): %s", label, self.id, err),
	)
}

// Append builds a record from data, appends it and maintains the indices.
//
// data is one of *Record, []Item, map[string]Value, map[string]interface{}
// (named), or []Value, []interface{} (positional, slot order). A non nil
// fields list copies only those names out of named data.
//
// A unique index collision returns *DuplicateKeyError together with the
// record, which stays appended: index maintenance runs after the append and
// nothing is rolled back.
func (self *RecordSet) Append(data interface{}, fields []string) (*Record, error) {
	rec := NewRecord(self.schema)
	if err := fill(rec, data, fields); err != nil {
		return nil, err
	}
	return rec, self.post(rec)
}

// MakeChild appends an empty record for the caller to fill in. Indices see
// the record as it is now, ie without values.
func (self *RecordSet) MakeChild() (*Record, error) {
	rec := NewRecord(self.schema)
	return rec, self.post(rec)
}

func (self *RecordSet) post(rec *Record) error {
	pos := len(self.records)
	rec.parent = self
	self.records = append(self.records, rec)

	var first error
	for _, idx := range self.activeIndices() {
		values, ok := indexValues(rec, idx.def.Fields)
		if !ok {
			continue
		}
		key := composeKey(self.schema, idx.def.Fields, values)
		if old, inserted := idx.insert(key, pos); !inserted {
			err := &DuplicateKeyError{
				Index:    idx.def.Name,
				Key:      key,
				Position: pos,
				Existing: old,
			}
			self.report(SeverityWarning, err)
			if first == nil {
				first = err
			}
		}
	}
	return first
}

// adopt appends without touching indices, used for derived sets.
func (self *RecordSet) adopt(rec *Record) {
	rec.parent = self
	self.records = append(self.records, rec)
}

// indexValues resolves the index fields on rec, false when one of them has
// neither a value nor a default.
func indexValues(rec *Record, fields []string) ([]Value, bool) {
	out := make([]Value, len(fields))
	for i, f := range fields {
		v, err := rec.Get(f)
		if err != nil {
			return nil, false
		}
		out[i] = v
	}
	return out, true
}

// activeIndices materializes schema index definitions lazily, so a
// definition added to the schema only applies to appends made after it.
func (self *RecordSet) activeIndices() []*Index {
	for _, def := range self.schema.indexDefs {
		if _, ok := self.indices[def.Name]; !ok {
			self.addIndex(newIndex(def))
		}
	}
	out := make([]*Index, 0, len(self.indexOrder))
	for _, n := range self.indexOrder {
		out = append(out, self.indices[n])
	}
	return out
}

func (self *RecordSet) addIndex(idx *Index) {
	self.indices[idx.def.Name] = idx
	self.indexOrder = append(self.indexOrder, idx.def.Name)
}

// DefineIndex registers an empty index on this set. Only records appended
// from now on are indexed. An empty name defaults to the dot joined field
// names. A bad definition is reported as developer fatal and returned.
func (self *RecordSet) DefineIndex(
	fields []string,
	name string,
	unique bool,
) (*Index, error) {
	def, err := self.schema.checkIndexDef(name, fields, unique)
	if err != nil {
		self.report(SeverityFatal, err)
		return nil, err
	}
	_, taken := self.indices[def.Name]
	if _, ok := self.schema.IndexDef(def.Name); ok {
		taken = true
	}
	if taken {
		err := newSchemaError(self.schema, def.Name, ErrDuplicateIndex)
		self.report(SeverityFatal, err)
		return nil, err
	}
	self.defs = append(self.defs, def)
	idx := newIndex(def)
	self.addIndex(idx)
	return idx, nil
}

// Index returns a materialized index by name.
func (self *RecordSet) Index(name string) (*Index, bool) {
	idx, ok := self.indices[name]
	return idx, ok
}

func (self *RecordSet) Indices() []*Index {
	out := make([]*Index, 0, len(self.indexOrder))
	for _, n := range self.indexOrder {
		out = append(out, self.indices[n])
	}
	return out
}

func (self *RecordSet) indexDef(name string) (*IndexDef, bool) {
	if idx, ok := self.indices[name]; ok {
		return idx.def, true
	}
	return self.schema.IndexDef(name)
}

// Lookup scans for the first record whose field equals value.
func (self *RecordSet) Lookup(field string, value interface{}) (*Record, error) {
	want, err := ValueOf(value)
	if err != nil {
		return nil, err
	}
	for _, rec := range self.records {
		v, err := rec.Get(field)
		if err != nil {
			continue
		}
		if v.Equal(want) {
			return rec, nil
		}
	}
	return nil, ErrNotFound
}

// LookupByIndex builds the composite key of the named index out of
// keySource and returns the record it maps to.
//
// keySource is a *Record (or any Get(name) source), a map or []Item holding
// the index fields, a []Value / []interface{} in index field order, or a
// single scalar for one field indices.
func (self *RecordSet) LookupByIndex(name string, keySource interface{}) (*Record, error) {
	recs, err := self.lookupIndex(name, keySource)
	if err != nil {
		return nil, err
	}
	return recs[0], nil
}

// LookupAllByIndex is LookupByIndex returning every record holding the key,
// in append order. Unique indices return at most one.
func (self *RecordSet) LookupAllByIndex(name string, keySource interface{}) ([]*Record, error) {
	return self.lookupIndex(name, keySource)
}

func (self *RecordSet) lookupIndex(name string, keySource interface{}) ([]*Record, error) {
	def, ok := self.indexDef(name)
	if !ok {
		return nil, newSchemaError(self.schema, name, ErrUnknownIndex)
	}
	values, err := keyValues(self.schema, def.Fields, keySource)
	if err != nil {
		return nil, err
	}
	idx, ok := self.indices[def.Name]
	if !ok {
		return nil, ErrNotFound
	}
	positions, ok := idx.positions[composeKey(self.schema, def.Fields, values)]
	if !ok || len(positions) == 0 {
		return nil, ErrNotFound
	}
	out := make([]*Record, 0, len(positions))
	for _, p := range positions {
		out = append(out, self.records[p])
	}
	return out, nil
}

// Clear discards every record and every index, including the ones defined
// on this set. Schema level definitions come back on the next append.
func (self *RecordSet) Clear() {
	self.records = nil
	self.defs = nil
	self.indices = make(map[string]*Index)
	self.indexOrder = nil
}

// Sorted returns a new set holding copies of the records ordered by fields.
// The receiver keeps its order and its indices; the new set starts without
// materialized indices.
func (self *RecordSet) Sorted(fields ...string) *RecordSet {
	out := self.derive()
	recs := make([]*Record, len(self.records))
	for i, rec := range self.records {
		recs[i] = rec.Clone()
	}
	sort.SliceStable(recs, func(i, j int) bool {
		for _, f := range fields {
			a, _ := recs[i].Get(f)
			b, _ := recs[j].Get(f)
			if c := a.Compare(b); c != 0 {
				return c < 0
			}
		}
		return false
	})
	for _, rec := range recs {
		out.adopt(rec)
	}
	return out
}

func (self *RecordSet) derive(opts ...Option) *RecordSet {
	base := []Option{
		WithName(self.name),
		WithReporter(self.reporter),
	}
	return NewRecordSet(self.schema, append(base, opts...)...)
}
