package format

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/dianpeng/recset/store"
)

func cellText(v store.Value) string {
	if v.IsNull() {
		return "null"
	}
	return v.String()
}

func pad(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

// Table writes rs as an aligned table: a title row and a rule, unless the
// title is ignored, then one line per record. Cells are padded before being
// styled so escape sequences never break the alignment.
func Table(out io.Writer, rs *store.RecordSet, cfg *Config) error {
	cfg = orPlain(cfg)

	headings := rs.ColumnHeadings()
	keep := []int{}
	for idx, h := range headings {
		if c, ok := cfg.Column[h]; ok && c.Ignore {
			continue
		}
		keep = append(keep, idx)
	}

	rows := rs.Rows()
	width := make([]int, len(headings))
	for _, idx := range keep {
		width[idx] = cfg.minWidth()
		if n := utf8.RuneCountInString(headings[idx]); n > width[idx] {
			width[idx] = n
		}
		for _, row := range rows {
			if n := utf8.RuneCountInString(cellText(row[idx])); n > width[idx] {
				width[idx] = n
			}
		}
	}

	sep := cfg.border()
	styledSep := cfg.stylish(cfg.Border, sep)
	buf := &strings.Builder{}

	if cfg.Title == nil || !cfg.Title.Ignore {
		total := len(sep)
		for _, idx := range keep {
			buf.WriteString(styledSep)
			buf.WriteString(cfg.stylish(cfg.Title, pad(headings[idx], width[idx])))
			total += width[idx] + len(sep)
		}
		buf.WriteString(styledSep)
		buf.WriteString("\n")
		buf.WriteString(strings.Repeat("-", total))
		buf.WriteString("\n")
	}

	for _, row := range rows {
		for _, idx := range keep {
			buf.WriteString(styledSep)
			buf.WriteString(cfg.stylish(
				cfg.instruction(headings[idx], row[idx]),
				pad(cellText(row[idx]), width[idx]),
			))
		}
		buf.WriteString(styledSep)
		buf.WriteString("\n")
	}

	if _, err := io.WriteString(out, buf.String()); err != nil {
		return fmt.Errorf("format: %w", err)
	}
	return nil
}
