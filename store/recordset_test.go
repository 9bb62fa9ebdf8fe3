package store

import (
	"errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"testing"
)

type captured struct {
	severity Severity
	message  string
}

func capture(out *[]captured) Reporter {
	return ReporterFunc(func(s Severity, m string) {
		*out = append(*out, captured{s, m})
	})
}

func TestRecordSetAppend(t *testing.T) {
	assert := assert.New(t)
	rs := NewRecordSet(peopleSchema(), WithName("people"))
	{
		r, err := rs.Append(map[string]interface{}{"id": 1, "name": "Alice"}, nil)
		assert.Nil(err)
		assert.True(r.Parent() == rs)
	}
	{
		_, err := rs.Append([]interface{}{2, "Bob"}, nil)
		assert.Nil(err)
	}
	{
		_, err := rs.Append([]Item{{"name", Str("Carol")}, {"id", Int(3)}}, nil)
		assert.Nil(err)
	}
	{
		// only name is copied
		src := rs.At(0)
		r, err := rs.Append(src, []string{"name"})
		assert.Nil(err)
		assert.False(r.Contains("id"))
		assert.True(r != src)
	}
	{
		_, err := rs.Append(map[string]interface{}{"nope": 1}, nil)
		assert.True(errors.Is(err, ErrUnknownField))
		_, err = rs.Append([]interface{}{1, "x", "extra"}, nil)
		assert.True(errors.Is(err, ErrUnknownField))
		_, err = rs.Append([]Value{Int(1)}, []string{"id"})
		assert.NotNil(err)
		_, err = rs.Append(3.5, nil)
		assert.NotNil(err)
	}
	assert.Equal(4, rs.Len())
	assert.Nil(rs.At(4))
	assert.Equal([]string{"id", "name"}, rs.ColumnHeadings())

	rows := rs.Rows()
	assert.Equal(4, len(rows))
	assert.Equal([]Value{Int(2), Str("Bob")}, rows[1])
	assert.True(rows[3][0].IsNull())
}

func TestRecordSetDuplicateKey(t *testing.T) {
	assert := assert.New(t)
	var reports []captured

	s := NewSchema("t")
	s.AddField("id", KindInt, WithUnique())
	s.AddField("name", KindStr)

	rs := NewRecordSet(s, WithReporter(capture(&reports)))
	_, err := rs.Append([]interface{}{1, "a"}, nil)
	assert.Nil(err)

	dup, err := rs.Append([]interface{}{1, "b"}, nil)
	var de *DuplicateKeyError
	assert.True(errors.As(err, &de))
	assert.Equal("id", de.Index)
	assert.Equal(1, de.Position)
	assert.Equal(0, de.Existing)

	// the record stays appended, the index keeps the first one
	assert.Equal(2, rs.Len())
	assert.True(rs.At(1) == dup)

	r, err := rs.LookupByIndex("id", 1)
	assert.Nil(err)
	assert.True(r == rs.At(0))

	assert.Equal(1, len(reports))
	assert.Equal(SeverityWarning, reports[0].severity)
}

func TestRecordSetLookup(t *testing.T) {
	assert := assert.New(t)
	rs := NewRecordSet(peopleSchema())
	rs.Append([]interface{}{1, "Alice"}, nil)
	rs.Append([]interface{}{2, "Bob"}, nil)
	{
		r, err := rs.Lookup("name", "Bob")
		assert.Nil(err)
		assert.True(r == rs.At(1))
	}
	{
		_, err := rs.Lookup("name", "bob")
		assert.True(errors.Is(err, ErrNotFound))
	}
	{
		_, err := rs.LookupByIndex("nope", 1)
		assert.True(errors.Is(err, ErrUnknownIndex))
	}
}

func TestRecordSetDefineIndex(t *testing.T) {
	assert := assert.New(t)
	var reports []captured
	rs := NewRecordSet(peopleSchema(), WithReporter(capture(&reports)))

	rs.Append([]interface{}{1, "Alice"}, nil)

	idx, err := rs.DefineIndex([]string{"id", "name"}, "", true)
	require.Nil(t, err)
	assert.Equal("id.name", idx.Name())
	assert.Equal(0, idx.Len())

	rs.Append([]interface{}{2, "Bob"}, nil)
	assert.Equal(1, idx.Len())
	assert.Equal([]string{"2.BOB"}, idx.Keys())
	{
		// not indexed retroactively
		_, err := rs.LookupByIndex("id.name", []interface{}{1, "Alice"})
		assert.True(errors.Is(err, ErrNotFound))
	}
	{
		r, err := rs.LookupByIndex("id.name", map[string]interface{}{"ID": 2, "name": "bob"})
		assert.Nil(err)
		assert.True(r == rs.At(1))

		again, err := rs.LookupByIndex("id.name", r)
		assert.Nil(err)
		assert.True(again == r)
	}
	{
		_, err := rs.DefineIndex([]string{"id", "name"}, "", false)
		assert.True(errors.Is(err, ErrDuplicateIndex))
		_, err = rs.DefineIndex([]string{"age"}, "by_age", false)
		assert.True(errors.Is(err, ErrUnknownField))

		assert.Equal(2, len(reports))
		assert.Equal(SeverityFatal, reports[0].severity)
		assert.Contains(reports[0].message, rs.ID().String())
	}
	{
		_, err := rs.LookupByIndex("id.name", 2)
		assert.NotNil(err)
	}
}

func TestRecordSetNonUniqueIndex(t *testing.T) {
	assert := assert.New(t)
	rs := NewRecordSet(peopleSchema())
	_, err := rs.DefineIndex([]string{"name"}, "by_name", false)
	require.Nil(t, err)

	rs.Append([]interface{}{1, "Alice"}, nil)
	rs.Append([]interface{}{2, "Bob"}, nil)
	_, err = rs.Append([]interface{}{3, "ALICE"}, nil)
	assert.Nil(err)

	all, err := rs.LookupAllByIndex("by_name", "alice")
	assert.Nil(err)
	assert.Equal(2, len(all))
	assert.True(all[0] == rs.At(0))
	assert.True(all[1] == rs.At(2))

	first, err := rs.LookupByIndex("by_name", Str("alice"))
	assert.Nil(err)
	assert.True(first == rs.At(0))
}

func TestRecordSetSchemaIndexIsLazy(t *testing.T) {
	assert := assert.New(t)
	s := peopleSchema()
	rs := NewRecordSet(s)
	rs.Append([]interface{}{1, "Alice"}, nil)

	_, err := s.DefineIndex("by_id", []string{"id"}, true)
	require.Nil(t, err)

	_, err = rs.LookupByIndex("by_id", 1)
	assert.True(errors.Is(err, ErrNotFound))

	rs.Append([]interface{}{2, "Bob"}, nil)
	r, err := rs.LookupByIndex("by_id", 2)
	assert.Nil(err)
	assert.True(r == rs.At(1))

	_, ok := rs.Index("by_id")
	assert.True(ok)
	assert.Equal(1, len(rs.Indices()))
}

func TestRecordSetMakeChildClear(t *testing.T) {
	assert := assert.New(t)
	id := uuid.New()
	rs := NewRecordSet(peopleSchema(), WithID(id))
	assert.Equal(id, rs.ID())

	r, err := rs.MakeChild()
	assert.Nil(err)
	assert.Equal(1, rs.Len())
	assert.True(r.Parent() == rs)
	r.Set("name", Str("later"))

	rs.DefineIndex([]string{"id"}, "", true)
	rs.Clear()
	assert.Equal(0, rs.Len())
	assert.Equal(0, len(rs.Indices()))
	assert.Equal(0, len(rs.Records()))
}

func TestRecordSetSorted(t *testing.T) {
	assert := assert.New(t)
	rs := NewRecordSet(peopleSchema())
	rs.DefineIndex([]string{"id"}, "by_id", true)
	rs.Append([]interface{}{3, "c"}, nil)
	rs.Append([]interface{}{1, "a"}, nil)
	rs.Append([]interface{}{2, "b"}, nil)

	sorted := rs.Sorted("id")
	assert.Equal(3, sorted.Len())
	for i, want := range []int64{1, 2, 3} {
		v, _ := sorted.At(i).Get("id")
		assert.Equal(want, v.AsInt())
		assert.True(sorted.At(i).Parent() == sorted)
	}

	// receiver untouched
	v, _ := rs.At(0).Get("id")
	assert.Equal(int64(3), v.AsInt())
	r, err := rs.LookupByIndex("by_id", 3)
	assert.Nil(err)
	assert.True(r == rs.At(0))
}
