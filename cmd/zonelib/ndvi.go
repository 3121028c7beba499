package main

import (
	"fmt"

	zonelib "github.com/wgdzlh/zonelib"

	"github.com/spf13/cobra"
)

// NewNdviCommand creates the ndvi command.
func NewNdviCommand() *cobra.Command {
	var nir, red int
	cmd := &cobra.Command{
		Use:   "ndvi <raster> <out>",
		Short: "Derive an NDVI raster from NIR and red bands",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			g := zonelib.NewZonalToolbox(tmpDir)
			r, err := g.OpenRaster(args[0])
			if err != nil {
				return err
			}
			defer r.Close()
			ndvi, err := r.CalculateNDVI(nir, red)
			if err != nil {
				return err
			}
			if err = r.SaveNDVI(args[1], ndvi); err != nil {
				return err
			}
			fmt.Printf("ndvi written to %s\n", args[1])
			return nil
		},
	}
	cmd.Flags().IntVar(&nir, "nir", 4, "NIR band index (1-based)")
	cmd.Flags().IntVar(&red, "red", 3, "red band index (1-based)")
	return cmd
}
