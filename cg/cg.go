package cg

import (
	"fmt"
	"regexp"
	"strings"
	"text/template"

	"github.com/dianpeng/recset/store"
)

// Config controls the shape of the generated awk program.
type Config struct {
	Fields          []string // projected columns, empty prints the whole row
	OutputSeparator string   // defaults to a tab
	Header          bool     // print a header row first
}

const programTemplate = `
# -----------------------------------------------------------------
# Globals
# -----------------------------------------------------------------
BEGIN {
  FS = "\t";
  OFS = {{.OFS}};
}

# -----------------------------------------------------------------
# Header, maps column names to positions
# -----------------------------------------------------------------
NR == 1 {
  for (i = 1; i <= NF; i++) {
    col[toupper($i)] = i;
  }
{{- if .Header}}
  {{.HeaderPrint}}
{{- end}}
  next;
}

# -----------------------------------------------------------------
# Table Scan
# -----------------------------------------------------------------
{
  if (as_bool({{.Filter}})) {
    {{.RowPrint}}
  }
}

# -----------------------------------------------------------------
# builtins
# -----------------------------------------------------------------
{{.Builtin}}
`

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// VarName is the awk variable a program variable is bound to, see Run.
func VarName(name string) string {
	return "v_" + name
}

func awkString(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\t", `\t`,
		"\r", `\r`,
	)
	return `"` + r.Replace(s) + `"`
}

// lower walks the program symbolically, the stack holds awk expressions
// instead of values.
func lower(p *store.Program) (string, error) {
	stack := []string{}

	for pc, ins := range p.Instructions() {
		switch ins.Op {
		case store.OpPushField:
			stack = append(stack, fmt.Sprintf("field(%s)", awkString(ins.Field)))

		case store.OpPushNumber:
			stack = append(stack, fmt.Sprintf("%d", ins.Literal.AsInt()))

		case store.OpPushString:
			stack = append(stack, awkString(ins.Literal.String()))

		case store.OpPushVariable:
			if !identPattern.MatchString(ins.Var) {
				return "", fmt.Errorf("variable %q can not be named in awk", ins.Var)
			}
			stack = append(stack, VarName(ins.Var))

		default:
			if len(stack) < 2 {
				return "", &store.StackUnderflowError{Op: ins.Op, PC: pc}
			}
			a, b := stack[len(stack)-2], stack[len(stack)-1]
			stack = stack[:len(stack)-2]

			expr := ""
			switch ins.Op {
			case store.OpCompareEqual:
				expr = fmt.Sprintf("eq_fold(%s, %s)", a, b)
			case store.OpAnd:
				expr = fmt.Sprintf("(as_bool(%s) && as_bool(%s))", a, b)
			case store.OpOr:
				expr = fmt.Sprintf("(as_bool(%s) || as_bool(%s))", a, b)
			case store.OpAdd:
				expr = fmt.Sprintf("(as_int(%s) + as_int(%s))", a, b)
			case store.OpSubtract:
				expr = fmt.Sprintf("(as_int(%s) - as_int(%s))", a, b)
			case store.OpConcat:
				expr = fmt.Sprintf("(%s \"\" %s)", a, b)
			default:
				return "", fmt.Errorf("opcode %s has no awk lowering", ins.Op)
			}
			stack = append(stack, expr)
		}
	}

	if len(stack) == 0 {
		return "", &store.StackUnderflowError{PC: -1}
	}
	return stack[len(stack)-1], nil
}

// Generate lowers p into an awk program filtering the TSV dump written by
// WriteTSV. A nil program keeps every row.
func Generate(p *store.Program, config *Config) (string, error) {
	if config == nil {
		config = &Config{}
	}

	filter := "1"
	if p != nil {
		f, err := lower(p)
		if err != nil {
			return "", err
		}
		filter = f
	}

	ofs := config.OutputSeparator
	if ofs == "" {
		ofs = "\t"
	}

	rowPrint := "print $0;"
	headerPrint := "print $0;"
	if len(config.Fields) > 0 {
		cols := []string{}
		names := []string{}
		for _, f := range config.Fields {
			cols = append(cols, fmt.Sprintf("field(%s)", awkString(f)))
			names = append(names, awkString(f))
		}
		rowPrint = fmt.Sprintf("print %s;", strings.Join(cols, ", "))
		headerPrint = fmt.Sprintf("print %s;", strings.Join(names, ", "))
	}

	t, err := template.New("[awk]").Parse(programTemplate)
	if err != nil {
		panic("codegen: invalid template?")
	}

	out := &strings.Builder{}
	if err := t.Execute(out, map[string]interface{}{
		"OFS":         awkString(ofs),
		"Header":      config.Header,
		"HeaderPrint": headerPrint,
		"Filter":      filter,
		"RowPrint":    rowPrint,
		"Builtin":     builtinAWK,
	}); err != nil {
		return "", err
	}
	return out.String(), nil
}
