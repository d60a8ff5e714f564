package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/ssv/internal/config"
	"github.com/cwbudde/ssv/vegalite/compile"
)

// app carries the state shared by all subcommands once the root pre-run has
// resolved configuration.
type app struct {
	cfgFile string
	trace   bool
	stderr  io.Writer

	v        *viper.Viper
	cfg      config.Config
	logger   *slog.Logger
	tracing  *tracing
	compiler compile.Compiler
}

func newRootCmd() *cobra.Command {
	a := &app{v: config.New(), stderr: os.Stderr}

	root := &cobra.Command{
		Use:           "ssv",
		Short:         "Render spectra as Vega chart specifications",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.shutdown(cmd.Context())
		},
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default: ./ssv.yaml or ~/.config/ssv/ssv.yaml)")
	flags.BoolVar(&a.trace, "trace", false, "print OpenTelemetry spans to stderr")
	flags.Int("width", 0, "chart width in pixels")
	flags.Int("height", 0, "chart height in pixels")
	flags.String("log-level", "", "log level: debug, info, warn, error")

	_ = a.v.BindPFlag("width", flags.Lookup("width"))
	_ = a.v.BindPFlag("height", flags.Lookup("height"))
	_ = a.v.BindPFlag("log.level", flags.Lookup("log-level"))

	root.AddCommand(
		newSpecCmd(a),
		newWatchCmd(a),
		newLinesCmd(a),
		newConfigCmd(a),
	)

	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	a.stderr = cmd.ErrOrStderr()

	cfg, err := config.Load(a.v, a.cfgFile)
	if err != nil {
		return err
	}
	a.cfg = cfg

	level, _ := cfg.Log.SlogLevel()
	a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	a.tracing, err = newTracing(a.trace, a.stderr)
	if err != nil {
		return err
	}

	a.compiler, err = a.newCompiler()
	if err != nil {
		return err
	}

	a.logger.Debug("configured",
		"config", a.v.ConfigFileUsed(),
		"compiler", cfg.Compiler.Mode,
		"size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height))

	return nil
}

func (a *app) newCompiler() (compile.Compiler, error) {
	var next compile.Compiler = compile.Builtin{}

	if a.cfg.Compiler.Mode == config.ModeExec {
		next = compile.NewExec(a.cfg.Compiler.Binary,
			compile.WithTracer(a.tracing.Tracer()),
			compile.WithExecLogger(a.logger))
	}

	cached, err := compile.NewCached(next, a.cfg.Compiler.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating compiler: %w", err)
	}

	return cached, nil
}

func (a *app) shutdown(ctx context.Context) error {
	if a.tracing == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return a.tracing.Shutdown(ctx)
}
