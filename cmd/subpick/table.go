package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// tableOptions controls optional highlighting. Highlight is the row number
// (0-based) to paint, or -1.
type tableOptions struct {
	Highlight int
	Colorize  bool
}

func renderTable(headers []string, rows [][]string, aligns []columnAlignment, opts tableOptions) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := range columns {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := range columns {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := range columns {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	if opts.Colorize && opts.Highlight >= 0 && opts.Highlight < len(rows) {
		target := rows[opts.Highlight]
		tw.SetRowPainter(table.RowPainter(func(row table.Row) text.Colors {
			if len(target) > 0 && len(row) > 0 && row[0] == target[0] {
				return text.Colors{text.FgGreen, text.Bold}
			}
			return nil
		}))
	}

	return tw.Render()
}
