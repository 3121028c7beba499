package main

import (
	"github.com/wgdzlh/zonelib/log"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	tmpDir  string
	verbose bool
)

// NewRootCommand creates the zonelib CLI.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zonelib",
		Short: "Zonal statistics toolkit for OGR attribute tables",
		Long: `Join per-zone raster statistics into vector attribute tables,
export attribute data for analysis, and render scatterplots driven
by CSV control files.`,
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			if verbose {
				log.SetDevLogger()
			}
		},
	}
	bindCommonFlags(cmd.PersistentFlags())
	cmd.AddCommand(
		NewAttachCommand(),
		NewExportCommand(),
		NewPlotCommand(),
		NewNdviCommand(),
	)
	return cmd
}

func bindCommonFlags(fs *pflag.FlagSet) {
	fs.StringVar(&tmpDir, "tmp-dir", "", "directory for temporary rasters and tables")
	fs.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}
