package main

import (
	"encoding/csv"
	"os"
	"strconv"
	"strings"

	zonelib "github.com/wgdzlh/zonelib"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

// NewExportCommand creates the export command.
func NewExportCommand() *cobra.Command {
	var (
		fields string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export <shapefile>",
		Short: "Export attribute fields as a numeric table",
		Long: `Export the identifier plus selected attribute fields, coercing values
to numeric. Without --out the table is rendered to the terminal;
with --out it is written as CSV. Empty cells are values that failed
numeric coercion.`,
		Args: cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			g := zonelib.NewZonalToolbox(tmpDir)
			tbl, err := g.OpenShapefile(args[0], false)
			if err != nil {
				return err
			}
			defer tbl.Release()
			var sel []string
			if fields != "" {
				sel = strings.Split(fields, ",")
			}
			ds, err := g.ExportTable(tbl, sel)
			if err != nil {
				return err
			}
			if out != "" {
				return writeCsv(out, ds)
			}
			renderTable(ds)
			return nil
		},
	}
	cmd.Flags().StringVar(&fields, "fields", "", "comma-separated fields to export (default: all non-geometry fields)")
	cmd.Flags().StringVar(&out, "out", "", "write CSV to this path instead of the terminal")
	return cmd
}

func renderTable(ds *zonelib.PlotDataset) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	header := table.Row{zonelib.FID_COLUMN}
	for _, f := range ds.Fields {
		header = append(header, f)
	}
	t.AppendHeader(header)
	for i, id := range ds.Ids {
		row := table.Row{id}
		for _, f := range ds.Fields {
			col, _ := ds.Column(f)
			if col[i].Valid {
				row = append(row, col[i].Float64)
			} else {
				row = append(row, "")
			}
		}
		t.AppendRow(row)
	}
	t.Render()
}

func writeCsv(path string, ds *zonelib.PlotDataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	w := csv.NewWriter(f)
	defer w.Flush()
	if err = w.Write(append([]string{zonelib.FID_COLUMN}, ds.Fields...)); err != nil {
		return err
	}
	rec := make([]string, len(ds.Fields)+1)
	for i, id := range ds.Ids {
		rec[0] = strconv.FormatInt(id, 10)
		for j, field := range ds.Fields {
			col, _ := ds.Column(field)
			if col[i].Valid {
				rec[j+1] = strconv.FormatFloat(col[i].Float64, 'g', -1, 64)
			} else {
				rec[j+1] = ""
			}
		}
		if err = w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
