package main

import (
	"bytes"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/dianpeng/recset/cg"
	"github.com/dianpeng/recset/config"
	"github.com/dianpeng/recset/format"
	"github.com/dianpeng/recset/sql"
	"github.com/dianpeng/recset/store"
)

var fInput = flag.String(
	"input",
	"",
	"path of the YAML document to load, default read from STDIN",
)

var fWhere = flag.String(
	"where",
	"",
	"where clause, overrides the query of the document",
)

var fFields = flag.String(
	"fields",
	"",
	"comma separated projected fields, overrides the query of the document",
)

var fOutput = flag.String(
	"output",
	"",
	"specify path to save output file, default write to STDOUT",
)

var fEmit = flag.String(
	"emit",
	"table",
	"what to write: table, tsv, awk or program",
)

var fEngine = flag.String(
	"engine",
	"store",
	"how to run the query: store (in memory machine) or awk (goawk over a TSV dump)",
)

var fColor = flag.Bool(
	"color",
	false,
	"colorize table and program output",
)

var fDebug = flag.Bool(
	"debug",
	false,
	"log every machine step and dump the compiled program to STDERR",
)

func oops(stage string, err error) {
	fmt.Fprintf(os.Stderr, "ERROR [%s]]] %s\n", stage, err)
	os.Exit(-1)
}

func readInput() []byte {
	if *fInput != "" {
		data, err := os.ReadFile(*fInput)
		if err != nil {
			oops("read", err)
		}
		return data
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		oops("read", err)
	}
	return data
}

func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if *fDebug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

func splitFields(s string) []string {
	out := []string{}
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func formatConfig() *format.Config {
	if *fColor {
		return format.Colored()
	}
	return format.Plain()
}

func run(logger *slog.Logger) []byte {
	doc, err := config.Parse(readInput())
	if err != nil {
		oops("load", err)
	}

	rs, err := doc.Build(store.WithReporter(store.NewSlogReporter(logger)))
	if err != nil {
		oops("build", err)
	}

	var where store.ClauseList
	if *fWhere != "" {
		where, err = sql.ParseWhere(*fWhere)
	} else {
		where, err = doc.Where()
	}
	if err != nil {
		oops("where", err)
	}

	fields := doc.Query.Fields
	if *fFields != "" {
		fields = splitFields(*fFields)
	}

	var p *store.Program
	if len(where) > 0 {
		p, err = store.Compile(where)
		if err != nil {
			oops("compile", err)
		}
		if *fDebug {
			logger.Debug("compiled", "where", sql.PrintWhere(where))
			spew.Fdump(os.Stderr, p.Instructions())
		}
	}

	out := &bytes.Buffer{}

	switch *fEmit {
	case "program":
		if p == nil {
			p = store.NewProgram()
		}
		if err := format.Program(out, p, formatConfig()); err != nil {
			oops("output", err)
		}
		return out.Bytes()

	case "awk":
		code, err := cg.Generate(p, &cg.Config{Fields: fields, Header: true})
		if err != nil {
			oops("awk", err)
		}
		out.WriteString(code)
		return out.Bytes()

	case "table", "tsv":
		break

	default:
		oops("output", fmt.Errorf("unknown emit %q", *fEmit))
	}

	switch *fEngine {
	case "awk":
		if *fEmit != "tsv" {
			oops("awk", fmt.Errorf("the awk engine only emits tsv"))
		}
		if err := cg.Filter(rs, where, &cg.Config{Fields: fields, Header: true}, out); err != nil {
			oops("awk", err)
		}
		return out.Bytes()

	case "store":
		opts := []store.SelectOption{}
		if *fDebug {
			opts = append(opts, store.WithTrace(logger))
		}
		result, err := rs.Select(fields, where, opts...)
		if err != nil {
			oops("select", err)
		}
		if *fEmit == "tsv" {
			err = cg.WriteTSV(out, result)
		} else {
			err = format.Table(out, result, formatConfig())
		}
		if err != nil {
			oops("output", err)
		}
		return out.Bytes()

	default:
		oops("select", fmt.Errorf("unknown engine %q", *fEngine))
	}
	return nil
}

func main() {
	flag.Parse()
	logger := newLogger()

	data := run(logger)

	if *fOutput == "" {
		os.Stdout.Write(data)
	} else {
		if err := os.WriteFile(
			*fOutput,
			data,
			0644,
		); err != nil {
			oops("output", err)
		}
	}
	os.Exit(0)
}
