package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ssv/viewer/lines"
)

func newLinesCmd(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lines",
		Short: "List the built-in spectral lines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "Name\tRest (nm)\tDrawn at (Å)")
			fmt.Fprintln(tw, "----\t---------\t------------")

			for _, l := range lines.Default() {
				fmt.Fprintf(tw, "%s\t%.4f\t%.3f\n", l.Name, l.Wavelength, l.Wavelength*10)
			}

			return tw.Flush()
		},
	}
}
