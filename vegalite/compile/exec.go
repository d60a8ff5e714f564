package compile

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/cwbudde/ssv/vegalite"
)

// DefaultBinary is the vega-lite command line compiler looked up on PATH.
const DefaultBinary = "vl2vg"

const tracerName = "github.com/cwbudde/ssv/vegalite/compile"

// Exec compiles by running the external vega-lite compiler. The spec is
// written to a temporary file and the compiled Vega is read from stdout.
type Exec struct {
	binary string
	tracer trace.Tracer
	logger *slog.Logger
}

// ExecOption configures an [Exec] compiler.
type ExecOption func(*Exec)

// WithTracer sets the tracer used for compile spans.
func WithTracer(t trace.Tracer) ExecOption {
	return func(e *Exec) {
		if t != nil {
			e.tracer = t
		}
	}
}

// WithExecLogger sets the logger for compiler diagnostics.
func WithExecLogger(l *slog.Logger) ExecOption {
	return func(e *Exec) {
		if l != nil {
			e.logger = l
		}
	}
}

// NewExec returns a compiler running binary. An empty binary selects
// [DefaultBinary].
func NewExec(binary string, opts ...ExecOption) *Exec {
	if binary == "" {
		binary = DefaultBinary
	}

	e := &Exec{
		binary: binary,
		tracer: otel.Tracer(tracerName),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Binary returns the configured executable.
func (e *Exec) Binary() string { return e.binary }

// Compile implements [Compiler].
func (e *Exec) Compile(ctx context.Context, spec *vegalite.Spec) (_ Vega, err error) {
	ctx, span := e.tracer.Start(ctx, "vegalite.compile",
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			span.SetStatus(codes.Ok, "")
		}

		span.End()
	}()

	if err := spec.Validate(); err != nil {
		return nil, err
	}

	input, err := json.Marshal(spec)
	if err != nil {
		return nil, fmt.Errorf("compile: encode spec: %w", err)
	}

	span.SetAttributes(
		attribute.String("compile.binary", e.binary),
		attribute.Int("compile.layers", len(spec.Layer)),
		attribute.Int("compile.input_bytes", len(input)),
	)

	dir, err := os.MkdirTemp("", "ssv-vl-*")
	if err != nil {
		return nil, fmt.Errorf("compile: create work dir: %w", err)
	}
	defer os.RemoveAll(dir)

	inputPath := filepath.Join(dir, "spec.vl.json")
	if err := os.WriteFile(inputPath, input, 0o600); err != nil {
		return nil, fmt.Errorf("compile: write spec: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.binary, inputPath)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.Dir = dir

	start := time.Now()
	runErr := cmd.Run()
	elapsed := time.Since(start)

	span.SetAttributes(attribute.Int64("compile.duration_ms", elapsed.Milliseconds()))

	if runErr != nil {
		msg := strings.TrimSpace(stderr.String())
		e.logger.Warn("vega-lite compiler failed", "binary", e.binary, "error", runErr, "stderr", msg)

		if msg == "" {
			return nil, fmt.Errorf("%w: %s: %w", ErrCompile, e.binary, runErr)
		}

		return nil, fmt.Errorf("%w: %s: %w: %s", ErrCompile, e.binary, runErr, msg)
	}

	if msg := strings.TrimSpace(stderr.String()); msg != "" {
		e.logger.Debug("vega-lite compiler output", "stderr", msg)
	}

	var out Vega
	if err := json.Unmarshal(stdout.Bytes(), &out); err != nil {
		return nil, fmt.Errorf("%w: decode output: %w", ErrCompile, err)
	}

	e.logger.Debug("compiled spec", "binary", e.binary, "layers", len(spec.Layer), "elapsed", elapsed)

	return out, nil
}
