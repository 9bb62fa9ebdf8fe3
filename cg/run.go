package cg

import (
	"bytes"
	"fmt"
	"io"
	"sort"

	gawki "github.com/benhoyt/goawk/interp"
	gawkp "github.com/benhoyt/goawk/parser"

	"github.com/dianpeng/recset/store"
)

// Run executes an awk program in process with goawk, reading in and writing
// to out. vars are bound with VarName, the way push_variable reads them.
func Run(
	src string,
	in io.Reader,
	out io.Writer,
	vars map[string]store.Value,
) error {
	prog, err := gawkp.ParseProgram(
		[]byte(src),
		nil,
	)
	if err != nil {
		return fmt.Errorf("[awk]: %s", err)
	}

	interp, err := gawki.New(prog)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(vars))
	for n := range vars {
		names = append(names, n)
	}
	sort.Strings(names)

	assign := []string{}
	for _, n := range names {
		assign = append(assign, VarName(n), vars[n].String())
	}

	config := &gawki.Config{
		Stdin:  in,
		Output: out,
		Vars:   assign,
	}
	status, err := interp.Execute(config)
	if err != nil {
		return err
	}
	if status != 0 {
		return fmt.Errorf("[awk]: exit status %d", status)
	}
	return nil
}

// Filter evaluates where over rs through the awk engine: compile, dump the
// set as TSV, lower and run. With an empty where every row is printed.
func Filter(
	rs *store.RecordSet,
	where store.ClauseList,
	config *Config,
	out io.Writer,
) error {
	var p *store.Program
	if len(where) > 0 {
		prog, err := store.Compile(where)
		if err != nil {
			return err
		}
		p = prog
	}

	code, err := Generate(p, config)
	if err != nil {
		return err
	}

	in := &bytes.Buffer{}
	if err := WriteTSV(in, rs); err != nil {
		return err
	}
	return Run(code, in, out, nil)
}
