package main

import (
	"context"
	"errors"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/cwbudde/ssv/internal/watch"
)

var errWatchOut = errors.New("watch needs an output file (--out)")

func newWatchCmd(a *app) *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "watch main|callout|xcorr spectrum.json",
		Short: "Rewrite the chart specification whenever the inputs change",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.out == "" {
				return errWatchOut
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			r := &renderer{app: a, flags: flags, cmd: cmd}

			return r.watch(ctx, args[0], args[1])
		},
	}

	flags.register(cmd)

	return cmd
}

// watch renders once and then again after every debounced change of the
// spectrum or template file, until ctx is done. Render errors are logged and
// the previous output is kept.
func (r *renderer) watch(ctx context.Context, view, spectrumPath string) error {
	paths := []string{spectrumPath}
	if r.flags.templatePath != "" {
		paths = append(paths, r.flags.templatePath)
	}

	cfg := watch.DefaultConfig(paths...)
	cfg.Logger = r.app.logger

	w, err := watch.New(cfg)
	if err != nil {
		return err
	}
	defer func() { _ = w.Stop() }()

	onChange, err := w.Start()
	if err != nil {
		return err
	}

	r.rebuild(ctx, view, spectrumPath)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-onChange:
			r.rebuild(ctx, view, spectrumPath)
		}
	}
}

func (r *renderer) rebuild(ctx context.Context, view, spectrumPath string) {
	data, err := r.render(ctx, view, spectrumPath)
	if err == nil {
		err = r.write(data)
	}

	if err != nil {
		r.app.logger.Error("render failed", "view", view, "err", err)
		return
	}

	r.app.logger.Info("wrote chart", "view", view, "out", r.flags.out, "bytes", len(data))
}
