package cg

import (
	"bufio"
	"io"
	"strings"

	"github.com/dianpeng/recset/store"
)

var tsvEscaper = strings.NewReplacer(
	"\t", " ",
	"\n", " ",
	"\r", " ",
)

func writeTSVRow(w *bufio.Writer, cells []string) error {
	for idx, c := range cells {
		if idx > 0 {
			if err := w.WriteByte('\t'); err != nil {
				return err
			}
		}
		if _, err := w.WriteString(tsvEscaper.Replace(c)); err != nil {
			return err
		}
	}
	return w.WriteByte('\n')
}

// WriteTSV dumps rs as tab separated text: a header row with the column
// headings, then one row per record. Unset values are written empty.
func WriteTSV(out io.Writer, rs *store.RecordSet) error {
	w := bufio.NewWriter(out)

	if err := writeTSVRow(w, rs.ColumnHeadings()); err != nil {
		return err
	}
	for _, row := range rs.Rows() {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = v.String()
		}
		if err := writeTSVRow(w, cells); err != nil {
			return err
		}
	}
	return w.Flush()
}
