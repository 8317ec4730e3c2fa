package output

import (
	"encoding/json"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// RenderTable prints a pretty table to w. Columns named in rightAlign
// (amounts) are right-aligned.
func RenderTable(w io.Writer, headers []string, rows [][]interface{}, rightAlign ...string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	headerRow := table.Row{}
	for _, h := range headers {
		headerRow = append(headerRow, h)
	}
	t.AppendHeader(headerRow)

	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	if len(rightAlign) > 0 {
		cfgs := make([]table.ColumnConfig, 0, len(rightAlign))
		for _, name := range rightAlign {
			cfgs = append(cfgs, table.ColumnConfig{Name: name, Align: text.AlignRight, AlignHeader: text.AlignRight})
		}
		t.SetColumnConfigs(cfgs)
	}

	t.Render()
}

// JSON prints v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
