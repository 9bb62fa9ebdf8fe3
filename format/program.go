package format

import (
	"fmt"
	"io"
	"strings"

	"github.com/dianpeng/recset/store"
)

// Program writes a numbered disassembly of p, one instruction per line.
func Program(out io.Writer, p *store.Program, cfg *Config) error {
	cfg = orPlain(cfg)
	buf := &strings.Builder{}

	for pc, ins := range p.Instructions() {
		buf.WriteString(cfg.stylish(cfg.Rest, fmt.Sprintf("%04d", pc)))
		buf.WriteString(" ")
		buf.WriteString(cfg.stylish(cfg.Title, ins.Op.String()))

		switch ins.Op {
		case store.OpPushField:
			buf.WriteString(" ")
			buf.WriteString(ins.Source)
			buf.WriteString(".")
			buf.WriteString(cfg.stylish(cfg.String, ins.Field))
		case store.OpPushNumber:
			buf.WriteString(" ")
			buf.WriteString(cfg.stylish(cfg.Number, ins.Literal.Quote()))
		case store.OpPushString:
			buf.WriteString(" ")
			buf.WriteString(cfg.stylish(cfg.String, ins.Literal.Quote()))
		case store.OpPushVariable:
			buf.WriteString(" $")
			buf.WriteString(ins.Var)
		}
		buf.WriteString("\n")
	}

	if _, err := io.WriteString(out, buf.String()); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}
