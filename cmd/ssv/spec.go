package main

import (
	"github.com/spf13/cobra"
)

func newSpecCmd(a *app) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:       "spec main|callout|xcorr spectrum.json",
		Short:     "Write the chart specification of one view",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{viewMain, viewCallout, viewXCorr},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &renderer{app: a, flags: flags, cmd: cmd}

			data, err := r.render(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}

			return r.write(data)
		},
	}

	flags.register(cmd)

	return cmd
}
