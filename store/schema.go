package store

import (
	"strings"
)

// FieldDef describes one slot of a schema. It is owned by the schema and
// must be treated as read only once AddField returned it.
type FieldDef struct {
	Name          string
	Slot          int
	Kind          Kind
	CaseSensitive bool // whether values of this field keep their case in index keys
	Default       Value
	HasDefault    bool
	Unique        bool
}

type IndexDef struct {
	Name   string
	Fields []string
	Unique bool
}

// Schema is the ordered field dictionary shared by every record of one
// shape. Slot numbers are handed out monotonically and never change.
type Schema struct {
	name          string
	open          bool
	caseSensitive bool
	def           Value
	hasDef        bool

	fields []*FieldDef          // slot order
	byName map[string]*FieldDef // keyed by key()

	indexDefs   []*IndexDef
	indexByName map[string]*IndexDef
}

func NewSchema(name string, opts ...SchemaOption) *Schema {
	o := schemaOptions{}
	for _, fn := range opts {
		fn(&o)
	}
	return &Schema{
		name:          name,
		open:          o.open,
		caseSensitive: o.caseSensitive,
		def:           o.def,
		hasDef:        o.hasDef,
		byName:        make(map[string]*FieldDef),
		indexByName:   make(map[string]*IndexDef),
	}
}

func (self *Schema) Name() string          { return self.name }
func (self *Schema) IsOpen() bool          { return self.open }
func (self *Schema) IsCaseSensitive() bool { return self.caseSensitive }
func (self *Schema) Len() int              { return len(self.fields) }

func (self *Schema) key(name string) string {
	if self.caseSensitive {
		return name
	}
	return fold(name)
}

// AddField appends a field at the next slot. sample is either a Kind, used
// as is, or a sample value whose kind becomes the field kind.
func (self *Schema) AddField(
	name string,
	sample interface{},
	opts ...FieldOption,
) (*FieldDef, error) {
	if _, ok := self.byName[self.key(name)]; ok {
		return nil, newSchemaError(self, name, ErrDuplicateField)
	}

	kind := KindNull
	switch v := sample.(type) {
	case Kind:
		kind = v
	default:
		if sv, err := ValueOf(sample); err == nil {
			kind = sv.Kind()
		}
	}

	o := fieldOptions{}
	for _, fn := range opts {
		fn(&o)
	}

	fd := &FieldDef{
		Name:          name,
		Slot:          len(self.fields),
		Kind:          kind,
		CaseSensitive: self.caseSensitive,
		Default:       o.def,
		HasDefault:    o.hasDef,
		Unique:        o.unique,
	}
	if o.caseSensitive != nil {
		fd.CaseSensitive = *o.caseSensitive
	}

	if fd.Unique {
		if _, ok := self.indexByName[name]; ok {
			return nil, newSchemaError(self, name, ErrDuplicateIndex)
		}
	}

	self.fields = append(self.fields, fd)
	self.byName[self.key(name)] = fd

	if fd.Unique {
		self.addIndexDef(&IndexDef{
			Name:   name,
			Fields: []string{name},
			Unique: true,
		})
	}
	return fd, nil
}

// ensureField returns the field for name, registering it when the schema is
// open. Closed schemas reject unknown names.
func (self *Schema) ensureField(name string, sample Value) (*FieldDef, error) {
	if fd, ok := self.Field(name); ok {
		return fd, nil
	}
	if !self.open {
		return nil, newSchemaError(self, name, ErrUnknownField)
	}
	return self.AddField(name, sample.Kind())
}

func (self *Schema) Field(name string) (*FieldDef, bool) {
	fd, ok := self.byName[self.key(name)]
	return fd, ok
}

func (self *Schema) FieldBySlot(slot int) (*FieldDef, bool) {
	if slot < 0 || slot >= len(self.fields) {
		return nil, false
	}
	return self.fields[slot], true
}

func (self *Schema) FieldsBySlot() []*FieldDef {
	out := make([]*FieldDef, len(self.fields))
	copy(out, self.fields)
	return out
}

func (self *Schema) Names() []string {
	out := make([]string, 0, len(self.fields))
	for _, fd := range self.fields {
		out = append(out, fd.Name)
	}
	return out
}

// Default returns the value an unset field reads back as: the field default
// first, then the schema wide default.
func (self *Schema) Default(name string) (Value, bool) {
	if fd, ok := self.Field(name); ok && fd.HasDefault {
		return fd.Default, true
	}
	if self.hasDef {
		return self.def, true
	}
	return Null(), false
}

func defaultIndexName(fields []string) string {
	return strings.Join(fields, ".")
}

// DefineIndex registers an index definition. RecordSets built on this schema
// start maintaining it from their next append on; records appended before
// are never indexed retroactively.
func (self *Schema) DefineIndex(
	name string,
	fields []string,
	unique bool,
) (*IndexDef, error) {
	def, err := self.checkIndexDef(name, fields, unique)
	if err != nil {
		return nil, err
	}
	if _, ok := self.indexByName[def.Name]; ok {
		return nil, newSchemaError(self, def.Name, ErrDuplicateIndex)
	}
	self.addIndexDef(def)
	return def, nil
}

func (self *Schema) checkIndexDef(
	name string,
	fields []string,
	unique bool,
) (*IndexDef, error) {
	if len(fields) == 0 {
		return nil, newSchemaError(self, name, ErrUnknownField)
	}
	if name == "" {
		name = defaultIndexName(fields)
	}
	if !self.open {
		for _, f := range fields {
			if _, ok := self.Field(f); !ok {
				return nil, newSchemaError(self, f, ErrUnknownField)
			}
		}
	}
	fs := make([]string, len(fields))
	copy(fs, fields)
	return &IndexDef{Name: name, Fields: fs, Unique: unique}, nil
}

func (self *Schema) addIndexDef(def *IndexDef) {
	self.indexDefs = append(self.indexDefs, def)
	self.indexByName[def.Name] = def
}

func (self *Schema) IndexDefs() []*IndexDef {
	out := make([]*IndexDef, len(self.indexDefs))
	copy(out, self.indexDefs)
	return out
}

func (self *Schema) IndexDef(name string) (*IndexDef, bool) {
	def, ok := self.indexByName[name]
	return def, ok
}
