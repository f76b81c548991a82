package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/pbanos/canopy/feature"
	"github.com/pbanos/canopy/forest"
)

// renderConfusion writes the confusion matrix as a table with a row per
// actual label and a column per predicted label. With ratios set, cells hold
// the share of the row instead of the count.
func renderConfusion(w io.Writer, c *forest.Confusion, ratios bool) {
	labels := append(feature.Labels(), feature.Unknown)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	header := table.Row{"actual \\ predicted"}
	configs := []table.ColumnConfig{{Number: 1, Align: text.AlignLeft}}
	for i, l := range labels {
		header = append(header, l.String())
		configs = append(configs, table.ColumnConfig{Number: i + 2, Align: text.AlignRight})
	}
	header = append(header, "total")
	configs = append(configs, table.ColumnConfig{Number: len(labels) + 2, Align: text.AlignRight})
	t.AppendHeader(header)
	t.SetColumnConfigs(configs)
	for _, actual := range labels {
		row := table.Row{actual.String()}
		var total int
		for _, predicted := range labels {
			n := c[actual][predicted]
			total += n
			if ratios {
				row = append(row, fmt.Sprintf("%.3f", c.RowRatio(actual, predicted)))
			} else {
				row = append(row, n)
			}
		}
		row = append(row, total)
		t.AppendRow(row)
	}
	t.AppendFooter(table.Row{"accuracy", fmt.Sprintf("%.4f", c.Accuracy())})
	t.Render()
}
