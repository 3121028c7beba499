package main

import (
	"fmt"

	zonelib "github.com/wgdzlh/zonelib"

	"github.com/spf13/cobra"
)

// NewAttachCommand creates the attach command.
func NewAttachCommand() *cobra.Command {
	var (
		stat     string
		field    string
		keyField string
	)
	cmd := &cobra.Command{
		Use:   "attach <shapefile> <raster>",
		Short: "Join a per-zone raster statistic into a new attribute field",
		Example: `  # mean NDVI per parcel
  zonelib attach parcels.shp ndvi.tif --stat MEAN --field NDVI_mean`,
		Args: cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			kind, err := zonelib.ParseStatKind(stat)
			if err != nil {
				return err
			}
			g := zonelib.NewZonalToolbox(tmpDir)
			table, err := g.OpenShapefile(args[0], true)
			if err != nil {
				return err
			}
			defer table.Release()
			report, err := g.AttachZonalStatistic(table, g.NewRasterAggregator(), args[1], kind, field, keyField)
			if err != nil {
				return err
			}
			fmt.Printf("processed %d zones, updated %d rows (%d stale) into field %s\n",
				report.Zones, report.Updated, report.Stale, report.OutputField)
			return nil
		},
	}
	cmd.Flags().StringVar(&stat, "stat", string(zonelib.StatMean), "statistic kind (MEAN|SUM|MIN|MAX|STD|COUNT|MEDIAN)")
	cmd.Flags().StringVar(&field, "field", "ZonalStat", "output field to create")
	cmd.Flags().StringVar(&keyField, "key", zonelib.FID_COLUMN, "zoning key field")
	return cmd
}
