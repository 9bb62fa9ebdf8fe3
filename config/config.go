// Package config loads a YAML document describing a schema, the records to
// seed a set with and the query to run over it.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dianpeng/recset/sql"
	"github.com/dianpeng/recset/store"
)

// Scalar is a YAML scalar decoded into a store value by its resolved tag.
type Scalar struct {
	Value store.Value
}

func scalarValue(node *yaml.Node) (store.Value, error) {
	if node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	if node.Kind != yaml.ScalarNode {
		return store.Null(), fmt.Errorf("line %d: expect a scalar", node.Line)
	}
	switch node.ShortTag() {
	case "!!null":
		return store.Null(), nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return store.Null(), err
		}
		return store.Bool(b), nil
	case "!!int":
		var i int64
		if err := node.Decode(&i); err != nil {
			return store.Null(), err
		}
		return store.Int(i), nil
	case "!!str":
		return store.Str(node.Value), nil
	default:
		return store.Null(), fmt.Errorf("line %d: unsupported scalar %s %q", node.Line, node.ShortTag(), node.Value)
	}
}

func (self *Scalar) UnmarshalYAML(node *yaml.Node) error {
	v, err := scalarValue(node)
	if err != nil {
		return err
	}
	self.Value = v
	return nil
}

type Field struct {
	Name          string  `yaml:"name"`
	Type          string  `yaml:"type"`
	Unique        bool    `yaml:"unique"`
	CaseSensitive *bool   `yaml:"case_sensitive"`
	Default       *Scalar `yaml:"default"`
}

type Index struct {
	Name   string   `yaml:"name"`
	Fields []string `yaml:"fields"`
	Unique bool     `yaml:"unique"`
}

type Schema struct {
	Name          string  `yaml:"name"`
	Open          bool    `yaml:"open"`
	CaseSensitive bool    `yaml:"case_sensitive"`
	Default       *Scalar `yaml:"default"`
	Fields        []Field `yaml:"fields"`
	Indices       []Index `yaml:"indices"`
}

// Record keeps the document's key order, which decides slot order on open
// schemas.
type Record []store.Item

func (self *Record) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: a record must be a mapping", node.Line)
	}
	out := make(Record, 0, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		v, err := scalarValue(node.Content[i+1])
		if err != nil {
			return fmt.Errorf("field %q: %w", node.Content[i].Value, err)
		}
		out = append(out, store.Item{Name: node.Content[i].Value, Value: v})
	}
	*self = out
	return nil
}

// Clause is written as a flow sequence: [field, operator, operand] with an
// optional fourth conjunction.
type Clause store.Clause

func (self *Clause) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) < 3 || len(node.Content) > 4 {
		return fmt.Errorf("line %d: a clause is [field, operator, operand, conjunction?]", node.Line)
	}
	v, err := scalarValue(node.Content[2])
	if err != nil {
		return err
	}
	c := Clause{
		Field:    node.Content[0].Value,
		Operator: node.Content[1].Value,
		Operand:  v,
	}
	if len(node.Content) == 4 {
		c.Conjunction = node.Content[3].Value
	}
	*self = c
	return nil
}

type Query struct {
	Fields  []string `yaml:"fields"`
	Where   string   `yaml:"where"`
	Clauses []Clause `yaml:"clauses"`
}

type Document struct {
	Schema  Schema   `yaml:"schema"`
	Records []Record `yaml:"records"`
	Query   Query    `yaml:"query"`
}

// Load reads and parses the document at path.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Document, error) {
	doc := &Document{}
	if err := yaml.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Schema.Name == "" {
		doc.Schema.Name = "document"
	}
	return doc, nil
}

// BuildSchema turns the schema section into a store schema, fields first,
// then the declared indices.
func (self *Document) BuildSchema() (*store.Schema, error) {
	sd := self.Schema

	opts := []store.SchemaOption{}
	if sd.Open {
		opts = append(opts, store.WithOpenFields())
	}
	if sd.CaseSensitive {
		opts = append(opts, store.WithCaseSensitive())
	}
	if sd.Default != nil {
		opts = append(opts, store.WithSchemaDefault(sd.Default.Value))
	}
	schema := store.NewSchema(sd.Name, opts...)

	for _, f := range sd.Fields {
		kind, err := store.ParseKind(f.Type)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", f.Name, err)
		}
		fopts := []store.FieldOption{}
		if f.Unique {
			fopts = append(fopts, store.WithUnique())
		}
		if f.CaseSensitive != nil {
			fopts = append(fopts, store.WithFieldCaseSensitive(*f.CaseSensitive))
		}
		if f.Default != nil {
			fopts = append(fopts, store.WithDefault(f.Default.Value))
		}
		if _, err := schema.AddField(f.Name, kind, fopts...); err != nil {
			return nil, err
		}
	}

	for _, idx := range sd.Indices {
		if _, err := schema.DefineIndex(idx.Name, idx.Fields, idx.Unique); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

// Build creates the record set and appends every record in document order.
// The first failing append aborts the build.
func (self *Document) Build(opts ...store.Option) (*store.RecordSet, error) {
	schema, err := self.BuildSchema()
	if err != nil {
		return nil, err
	}
	rs := store.NewRecordSet(schema, append([]store.Option{store.WithName(schema.Name())}, opts...)...)
	for idx, r := range self.Records {
		if _, err := rs.Append([]store.Item(r), nil); err != nil {
			return nil, fmt.Errorf("record %d: %w", idx, err)
		}
	}
	return rs, nil
}

// Where returns the query's where clause, from either the text form or the
// clause list; setting both is an error.
func (self *Document) Where() (store.ClauseList, error) {
	q := self.Query
	if q.Where != "" && len(q.Clauses) > 0 {
		return nil, fmt.Errorf("query: where and clauses are mutually exclusive")
	}
	if q.Where != "" {
		return sql.ParseWhere(q.Where)
	}
	out := make(store.ClauseList, 0, len(q.Clauses))
	for _, c := range q.Clauses {
		out = append(out, store.Clause(c))
	}
	return out, nil
}
