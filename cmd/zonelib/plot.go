package main

import (
	"fmt"

	zonelib "github.com/wgdzlh/zonelib"

	"github.com/spf13/cobra"
)

// NewPlotCommand creates the plot command.
func NewPlotCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot <shapefile> <paramfile>",
		Short: "Render a scatterplot driven by a CSV control file",
		Long: `The control file has two columns, Param and Value. Required params:
x_field, y_field, outfile. Optional: x_min, x_max, y_min, y_max
(blank or unparseable values leave the axis unconstrained).`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			g := zonelib.NewZonalToolbox(tmpDir)
			tbl, err := g.OpenShapefile(args[0], false)
			if err != nil {
				return err
			}
			defer tbl.Release()
			ds, err := g.ExportTable(tbl, nil)
			if err != nil {
				return err
			}
			if err = ds.PlotFromFile(args[1]); err != nil {
				return err
			}
			fmt.Println("done plotting")
			return nil
		},
	}
	return cmd
}
