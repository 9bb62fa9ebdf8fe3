package store

import (
	"fmt"
	"sort"
)

// fill copies data into rec. The record is not attached to anything yet, so
// an error here leaves the owning set untouched.
func fill(rec *Record, data interface{}, fields []string) error {
	switch d := data.(type) {
	case nil:
		return nil

	case *Record:
		if fields == nil {
			for _, it := range d.Items() {
				if err := rec.Set(it.Name, it.Value); err != nil {
					return err
				}
			}
			return nil
		}
		return fillFrom(rec, d, fields)

	case Fields:
		return fillMap(rec, map[string]Value(d), fields)

	case map[string]Value:
		return fillMap(rec, d, fields)

	case map[string]interface{}:
		m, err := valueMap(d)
		if err != nil {
			return err
		}
		return fillMap(rec, m, fields)

	case []Item:
		if fields == nil {
			for _, it := range d {
				if err := rec.Set(it.Name, it.Value); err != nil {
					return err
				}
			}
			return nil
		}
		return fillFrom(rec, newNamedSource(rec.schema, d), fields)

	case []Value:
		if fields != nil {
			return fmt.Errorf("positional data cannot be combined with a field list")
		}
		return fillSlots(rec, d)

	case []interface{}:
		if fields != nil {
			return fmt.Errorf("positional data cannot be combined with a field list")
		}
		vs := make([]Value, len(d))
		for i, x := range d {
			v, err := ValueOf(x)
			if err != nil {
				return err
			}
			vs[i] = v
		}
		return fillSlots(rec, vs)

	default:
		return fmt.Errorf("unsupported record data %T", data)
	}
}

func fillFrom(rec *Record, src fieldGetter, fields []string) error {
	for _, f := range fields {
		v, err := src.Get(f)
		if err != nil {
			return err
		}
		if err := rec.Set(f, v); err != nil {
			return err
		}
	}
	return nil
}

// fillMap applies map data in sorted key order so that an open schema
// registers new fields deterministically.
func fillMap(rec *Record, m map[string]Value, fields []string) error {
	if fields != nil {
		items := make([]Item, 0, len(m))
		for k, v := range m {
			items = append(items, Item{Name: k, Value: v})
		}
		return fillFrom(rec, newNamedSource(rec.schema, items), fields)
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := rec.Set(k, m[k]); err != nil {
			return err
		}
	}
	return nil
}

func fillSlots(rec *Record, vs []Value) error {
	for i, v := range vs {
		fd, ok := rec.schema.FieldBySlot(i)
		if !ok {
			return newSchemaError(rec.schema, fmt.Sprintf("#%d", i), ErrUnknownField)
		}
		rec.store(fd.Slot, v)
	}
	return nil
}

func valueMap(m map[string]interface{}) (map[string]Value, error) {
	out := make(map[string]Value, len(m))
	for k, x := range m {
		v, err := ValueOf(x)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", k, err)
		}
		out[k] = v
	}
	return out, nil
}

// namedSource resolves names the way the schema does, so a map keyed "NAME"
// serves the field "name" on a case insensitive schema.
type namedSource struct {
	schema *Schema
	values map[string]Value
}

func newNamedSource(schema *Schema, items []Item) *namedSource {
	ns := &namedSource{
		schema: schema,
		values: make(map[string]Value, len(items)),
	}
	for _, it := range items {
		ns.values[schema.key(it.Name)] = it.Value
	}
	return ns
}

func (self *namedSource) Get(name string) (Value, error) {
	if v, ok := self.values[self.schema.key(name)]; ok {
		return v, nil
	}
	return Null(), &FieldUnsetError{Field: name}
}

func mapItems(m map[string]Value) []Item {
	out := make([]Item, 0, len(m))
	for k, v := range m {
		out = append(out, Item{Name: k, Value: v})
	}
	return out
}

// keyValues pulls the index field values out of a lookup key source.
func keyValues(schema *Schema, fields []string, source interface{}) ([]Value, error) {
	var src fieldGetter

	switch s := source.(type) {
	case fieldGetter:
		src = s
	case map[string]Value:
		src = newNamedSource(schema, mapItems(s))
	case map[string]interface{}:
		m, err := valueMap(s)
		if err != nil {
			return nil, err
		}
		src = newNamedSource(schema, mapItems(m))
	case []Item:
		src = newNamedSource(schema, s)

	case []Value:
		if len(s) != len(fields) {
			return nil, fmt.Errorf("index key wants %d values, got %d", len(fields), len(s))
		}
		return s, nil
	case []interface{}:
		if len(s) != len(fields) {
			return nil, fmt.Errorf("index key wants %d values, got %d", len(fields), len(s))
		}
		out := make([]Value, len(s))
		for i, x := range s {
			v, err := ValueOf(x)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil

	default:
		if len(fields) != 1 {
			return nil, fmt.Errorf("a scalar key only serves single field indices, index has %d", len(fields))
		}
		v, err := ValueOf(source)
		if err != nil {
			return nil, err
		}
		return []Value{v}, nil
	}

	out := make([]Value, len(fields))
	for i, f := range fields {
		v, err := src.Get(f)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
