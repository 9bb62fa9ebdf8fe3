package cg

import (
	"bytes"
	"errors"
	"github.com/dianpeng/recset/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func people(t *testing.T) *store.RecordSet {
	s := store.NewSchema("people")
	s.AddField("id", store.KindInt)
	s.AddField("name", store.KindStr)
	s.AddField("note", store.KindStr)

	rs := store.NewRecordSet(s)
	for _, row := range [][]interface{}{
		{1, "Alice", "first"},
		{2, "Bob", "tab\there"},
		{3, "ALICE", "third"},
		{4, "Carol"},
	} {
		_, err := rs.Append(row, nil)
		require.Nil(t, err)
	}
	return rs
}

func TestWriteTSV(t *testing.T) {
	assert := assert.New(t)
	buf := &bytes.Buffer{}
	assert.Nil(WriteTSV(buf, people(t)))
	assert.Equal(
		"id\tname\tnote\n"+
			"1\tAlice\tfirst\n"+
			"2\tBob\ttab here\n"+
			"3\tALICE\tthird\n"+
			"4\tCarol\t\n",
		buf.String(),
	)
}

func TestGenerate(t *testing.T) {
	assert := assert.New(t)
	{
		p, err := store.Compile(store.ClauseList{
			store.Where("name", "=", "Alice"),
			store.Where("id", "=", 2, "OR"),
		})
		assert.Nil(err)
		code, err := Generate(p, &Config{Fields: []string{"id"}})
		assert.Nil(err)
		assert.Contains(code, `as_bool((as_bool(eq_fold(field("name"), "Alice")) || as_bool(eq_fold(field("id"), 2))))`)
		assert.Contains(code, `print field("id");`)
	}
	{
		_, err := Generate(store.NewProgram(store.PushNumber(1), store.Op(store.OpOr)), nil)
		var se *store.StackUnderflowError
		assert.True(errors.As(err, &se))
		assert.Equal(1, se.PC)

		_, err = Generate(store.NewProgram(), nil)
		assert.True(errors.As(err, &se))
		assert.Equal(-1, se.PC)
	}
	{
		_, err := Generate(store.NewProgram(store.PushVariable("a-b")), nil)
		assert.NotNil(err)
	}
	{
		code, err := Generate(nil, nil)
		assert.Nil(err)
		assert.Contains(code, "as_bool(1)")
	}
}

func TestFilterMatchesSelect(t *testing.T) {
	assert := assert.New(t)
	rs := people(t)

	for _, where := range []store.ClauseList{
		{store.Where("name", "=", "alice")},
		{store.Where("name", "=", "Alice"), store.Where("name", "=", "Bob", "OR")},
		{store.Where("id", "=", "2")},
		{
			store.Where("name", "=", "Bob"),
			store.Where("id", "=", 1, "(OR"),
			store.Where("name", "=", "Alice", ")AND"),
		},
		nil,
	} {
		selected, err := rs.Select(nil, where)
		require.Nil(t, err)
		want := &bytes.Buffer{}
		require.Nil(t, WriteTSV(want, selected))

		got := &bytes.Buffer{}
		err = Filter(rs, where, &Config{Header: true}, got)
		assert.Nil(err)
		assert.Equal(want.String(), got.String(), store.ClauseList(where))
	}
}

func TestFilterProject(t *testing.T) {
	assert := assert.New(t)
	out := &bytes.Buffer{}
	err := Filter(
		people(t),
		store.ClauseList{store.Where("name", "=", "alice")},
		&Config{Fields: []string{"NAME", "id"}, OutputSeparator: ","},
		out,
	)
	assert.Nil(err)
	assert.Equal("Alice,1\nALICE,3\n", out.String())
}

func TestRun(t *testing.T) {
	assert := assert.New(t)
	{
		out := &strings.Builder{}
		err := Run(
			`BEGIN { print v_x, v_y }`,
			strings.NewReader(""),
			out,
			map[string]store.Value{"x": store.Int(1), "y": store.Str("two")},
		)
		assert.Nil(err)
		assert.Equal("1 two\n", out.String())
	}
	{
		code, err := Generate(
			store.NewProgram(
				store.PushField("R1", "id"),
				store.PushVariable("base"),
				store.Op(store.OpAdd),
				store.PushNumber(12),
				store.Op(store.OpCompareEqual),
			),
			&Config{Fields: []string{"name"}},
		)
		assert.Nil(err)

		in := &bytes.Buffer{}
		assert.Nil(WriteTSV(in, people(t)))
		out := &strings.Builder{}
		assert.Nil(Run(code, in, out, map[string]store.Value{"base": store.Int(10)}))
		assert.Equal("Bob\n", out.String())
	}
	{
		err := Run("BEGIN {", strings.NewReader(""), &strings.Builder{}, nil)
		assert.NotNil(err)
	}
}
