package store

import (
	"errors"
	"github.com/stretchr/testify/assert"
	"testing"
)

func aliceBob() *RecordSet {
	rs := NewRecordSet(peopleSchema(), WithName("people"))
	rs.Append([]interface{}{1, "Alice"}, nil)
	rs.Append([]interface{}{2, "Bob"}, nil)
	rs.Append([]interface{}{3, "Alice"}, nil)
	return rs
}

func ids(rs *RecordSet) []int64 {
	out := []int64{}
	for _, r := range rs.Records() {
		v, _ := r.Get("id")
		out = append(out, v.AsInt())
	}
	return out
}

func TestSelectWhere(t *testing.T) {
	assert := assert.New(t)
	rs := aliceBob()
	{
		out, err := rs.Select(nil, ClauseList{
			Where("name", "=", "Alice"),
			Where("name", "=", "Bob", "OR"),
		})
		assert.Nil(err)
		assert.Equal([]int64{1, 2, 3}, ids(out))
	}
	{
		out, err := rs.Select(nil, ClauseList{Where("name", "=", "Alice")})
		assert.Nil(err)
		assert.Equal([]int64{1, 3}, ids(out))
	}
	{
		out, err := rs.Select(nil, ClauseList{
			Where("name", "=", "alice"),
			Where("id", "=", 3),
		})
		assert.Nil(err)
		assert.Equal([]int64{3}, ids(out))
	}
	{
		// a = Bob or (id = 1 and name = Alice), left folded
		out, err := rs.Select(nil, ClauseList{
			Where("name", "=", "Bob"),
			Where("id", "=", 1, "(OR"),
			Where("name", "=", "Alice", ")AND"),
		})
		assert.Nil(err)
		assert.Equal([]int64{1, 2}, ids(out))
	}
}

func TestSelectProject(t *testing.T) {
	assert := assert.New(t)
	rs := aliceBob()
	out, err := Select(rs, []string{"name"}, ClauseList{Where("id", "=", "2")})
	assert.Nil(err)
	assert.Equal(1, out.Len())
	assert.Equal([]string{"name"}, out.At(0).Keys())
	assert.True(out.Schema() == rs.Schema())

	_, err = Select(rs, []string{"age"}, nil)
	assert.True(errors.Is(err, ErrUnknownField))
}

func TestSelectNoWhere(t *testing.T) {
	assert := assert.New(t)
	rs := aliceBob()
	out, err := rs.Select(nil, nil, WithResultOptions(WithName("copy")))
	assert.Nil(err)
	assert.Equal("copy", out.Name())
	assert.Equal(rs.Len(), out.Len())
	assert.NotEqual(rs.ID(), out.ID())
	for i := 0; i < rs.Len(); i++ {
		assert.True(rs.At(i).Equal(out.At(i)))
		assert.True(rs.At(i) != out.At(i))
	}

	out.At(0).Set("name", Str("Zed"))
	v, _ := rs.At(0).Get("name")
	assert.Equal("Alice", v.String())
}

func TestSelectErrors(t *testing.T) {
	assert := assert.New(t)
	rs := aliceBob()
	{
		_, err := rs.Select(nil, ClauseList{Where("name", "like", "A%")})
		var ue *UnsupportedOperatorError
		assert.True(errors.As(err, &ue))
	}
	{
		_, err := rs.Select(nil, ClauseList{Where("age", "=", 1)})
		var fe *FieldUnsetError
		assert.True(errors.As(err, &fe))
	}
	{
		out, err := rs.Select(nil, ClauseList{Where("name", "=", "Bob")}, WithAlias("P"))
		assert.Nil(err)
		assert.Equal([]int64{2}, ids(out))
	}
}
