package config

import (
	"errors"
	"github.com/dianpeng/recset/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"os"
	"path/filepath"
	"testing"
)

const peopleDoc = `
schema:
  name: people
  fields:
    - {name: id, type: int, unique: true}
    - {name: name, type: str}
    - {name: active, type: bool, default: yes}
  indices:
    - {name: by_name, fields: [name]}
records:
  - {id: 1, name: Alice}
  - {id: 2, name: Bob, active: false}
  - {name: Alice, id: 3}
query:
  fields: [name]
  where: "name = 'alice' or id = 2"
`

func TestParseBuild(t *testing.T) {
	assert := assert.New(t)
	doc, err := Parse([]byte(peopleDoc))
	require.Nil(t, err)

	rs, err := doc.Build()
	require.Nil(t, err)
	assert.Equal("people", rs.Name())
	assert.Equal(3, rs.Len())
	assert.Equal([]string{"id", "name", "active"}, rs.ColumnHeadings())

	{
		v, err := rs.At(0).Get("active")
		assert.Nil(err)
		assert.Equal(store.Str("yes"), v)
		v, err = rs.At(1).Get("active")
		assert.Nil(err)
		assert.Equal(store.Bool(false), v)
	}
	{
		all, err := rs.LookupAllByIndex("by_name", "ALICE")
		assert.Nil(err)
		assert.Equal(2, len(all))
		r, err := rs.LookupByIndex("id", 3)
		assert.Nil(err)
		assert.True(r == rs.At(2))
	}
	{
		where, err := doc.Where()
		assert.Nil(err)
		out, err := rs.Select(doc.Query.Fields, where)
		assert.Nil(err)
		assert.Equal(3, out.Len())
		assert.Equal([]string{"name"}, out.At(1).Keys())
	}
}

func TestClauses(t *testing.T) {
	assert := assert.New(t)
	doc, err := Parse([]byte(`
query:
  clauses:
    - [name, "=", Alice]
    - [id, "=", 2, "(OR"]
    - [active, "=", true, ")AND"]
`))
	require.Nil(t, err)
	where, err := doc.Where()
	assert.Nil(err)
	assert.Equal(
		store.ClauseList{
			{Field: "name", Operator: "=", Operand: store.Str("Alice")},
			{Field: "id", Operator: "=", Operand: store.Int(2), Conjunction: "(OR"},
			{Field: "active", Operator: "=", Operand: store.Bool(true), Conjunction: ")AND"},
		},
		where,
	)
	_, err = store.Compile(where)
	assert.Nil(err)
}

func TestOpenSchemaKeepsOrder(t *testing.T) {
	assert := assert.New(t)
	doc, err := Parse([]byte(`
schema: {open: true}
records:
  - {zeta: 1, alpha: 2}
  - {beta: x}
`))
	require.Nil(t, err)
	rs, err := doc.Build()
	require.Nil(t, err)
	assert.Equal("document", rs.Name())
	assert.Equal([]string{"zeta", "alpha", "beta"}, rs.ColumnHeadings())
}

func TestErrors(t *testing.T) {
	assert := assert.New(t)
	{
		_, err := Parse([]byte("records: [{a: 1.5}]"))
		assert.NotNil(err)
	}
	{
		_, err := Parse([]byte("query: {clauses: [[a, b]]}"))
		assert.NotNil(err)
	}
	{
		doc, err := Parse([]byte("schema: {fields: [{name: a, type: float}]}"))
		require.Nil(t, err)
		_, err = doc.Build()
		assert.NotNil(err)
	}
	{
		doc, err := Parse([]byte("schema: {fields: [{name: a}]}\nrecords: [{b: 1}]"))
		require.Nil(t, err)
		_, err = doc.Build()
		assert.True(errors.Is(err, store.ErrUnknownField))
	}
	{
		doc, err := Parse([]byte(`
schema: {fields: [{name: id, type: int, unique: true}]}
records: [{id: 1}, {id: 1}]
`))
		require.Nil(t, err)
		_, err = doc.Build()
		var de *store.DuplicateKeyError
		assert.True(errors.As(err, &de))
	}
	{
		doc, err := Parse([]byte(`query: {where: "a = 1", clauses: [[a, "=", 1]]}`))
		require.Nil(t, err)
		_, err = doc.Where()
		assert.NotNil(err)
	}
}

func TestLoad(t *testing.T) {
	assert := assert.New(t)
	path := filepath.Join(t.TempDir(), "doc.yaml")
	require.Nil(t, os.WriteFile(path, []byte(peopleDoc), 0644))

	doc, err := Load(path)
	assert.Nil(err)
	assert.Equal(3, len(doc.Records))

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.NotNil(err)
}
