package store

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func TestRecordGetSet(t *testing.T) {
	assert := assert.New(t)
	s := peopleSchema()
	r := NewRecord(s)
	{
		assert.False(r.Contains("name"))
		_, err := r.Get("name")
		var fe *FieldUnsetError
		assert.True(errors.As(err, &fe))
		assert.Equal("name", fe.Field)
	}
	{
		assert.Nil(r.Set("name", Str("Alice")))
		v, err := r.Get("NAME")
		assert.Nil(err)
		assert.True(v.Equal(Str("Alice")))
		assert.True(r.Contains("name"))
		assert.True(r.IsModified("name"))
	}
	{
		err := r.Set("age", Int(3))
		assert.True(errors.Is(err, ErrUnknownField))
	}
	{
		err := r.Add("name", Str("Bob"))
		assert.True(errors.Is(err, ErrDuplicateField))
		assert.Nil(r.Add("id", Int(1)))
	}
	{
		// slot order, not write order
		assert.Equal([]string{"id", "name"}, r.Keys())
		assert.Equal("{id: 1, name: \"Alice\"}", r.String())
	}
}

func TestRecordOpenSchema(t *testing.T) {
	assert := assert.New(t)
	s := NewSchema("open", WithOpenFields())
	r := NewRecord(s)

	assert.Nil(r.Set("b", Int(2)))
	assert.Nil(r.Set("a", Str("x")))
	assert.Equal([]string{"b", "a"}, s.Names())

	fd, ok := s.Field("a")
	assert.True(ok)
	assert.Equal(KindStr, fd.Kind)
	assert.Equal(2, r.Len())
}

func TestRecordDefaults(t *testing.T) {
	assert := assert.New(t)
	s := NewSchema("t")
	s.AddField("flag", KindStr, WithDefault(Str("yes")))
	s.AddField("n", KindInt)
	r := NewRecord(s)

	v, err := r.Get("flag")
	assert.Nil(err)
	assert.Equal("yes", v.String())
	assert.False(r.Contains("flag"))

	b, err := r.Bool("flag")
	assert.Nil(err)
	assert.True(b)

	assert.True(r.GetOr("n", Int(9)).Equal(Int(9)))
	assert.True(r.GetOr("flag", Str("no")).Equal(Str("no")))
	assert.Equal(0, len(r.Items()))

	_, err = r.ValuesFor([]string{"flag", "n"})
	assert.NotNil(err)
}

func TestRecordEqualClone(t *testing.T) {
	assert := assert.New(t)
	s := peopleSchema()
	a := NewRecord(s)
	a.Set("id", Int(1))
	a.Set("name", Str("Alice"))

	b := a.Clone()
	assert.True(a.Equal(b))
	assert.True(b.Parent() == nil)

	b.Set("name", Str("Bob"))
	assert.False(a.Equal(b))
	v, _ := a.Get("name")
	assert.Equal("Alice", v.String())

	vs, err := a.ValuesFor([]string{"name", "id"})
	assert.Nil(err)
	assert.Equal([]Value{Str("Alice"), Int(1)}, vs)
}
