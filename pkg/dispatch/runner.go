// Package dispatch hands a resolved target to the external cross-compiler.
// The invocation runs through an in-process POSIX shell so the fail-fast
// semantics are the same on every platform.
package dispatch

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"

	"github.com/domagalski/mpu-6050-test/pkg/target"
)

// DefaultTool is the build collaborator used when a target doesn't name its
// own.
const DefaultTool = "cross"

// StatusError reports a build statement that exited non-zero. The status is
// surfaced unchanged as the process exit code.
type StatusError struct {
	Status uint8
}

func (e StatusError) Error() string {
	return fmt.Sprintf("build failed with status %d", e.Status)
}

type logKey struct{}

func log(ctx context.Context) *zerolog.Logger {
	logger := ctx.Value(logKey{})
	if logger == nil {
		panic("Logger is missing in context!")
	}

	return logger.(*zerolog.Logger)
}

// WithLogger attaches the given logger to the context
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	return context.WithValue(ctx, logKey{}, logger)
}

// Runner dispatches builds for resolved targets.
type Runner struct {
	// Exec overrides the shell's exec handler. Tests use this to stub the
	// build tool; when nil, commands run for real.
	Exec interp.ExecHandlerFunc
	// Stdout and Stderr default to the process streams.
	Stdout io.Writer
	Stderr io.Writer
	// Dir is the working directory for the build. Empty means the current one.
	Dir string
	// DryRun prints each command without executing anything.
	DryRun bool
}

// Run executes the target's setup lines followed by the build invocation,
// stopping at the first statement that fails. The first failure is final:
// nothing after it runs, and a non-zero exit status is reported verbatim
// through StatusError.
func (r *Runner) Run(ctx context.Context, tgt target.Target) error {
	tool := tgt.Tool
	if tool == "" {
		tool = DefaultTool
	}

	lines := make([]string, 0, len(tgt.Setup)+1)
	lines = append(lines, tgt.Setup...)
	lines = append(lines, fmt.Sprintf("%s build --release --target %s", tool, tgt.Triple))

	parser := syntax.NewParser()
	prog, err := parser.Parse(strings.NewReader(strings.Join(lines, "\n")), tgt.Triple)
	if err != nil {
		return eris.Wrapf(err, "failed to parse the build commands for %s", tgt.Triple)
	}

	execHandler := r.Exec
	if execHandler == nil {
		execHandler = interp.DefaultExecHandler(2)
	}

	stdout := r.Stdout
	if stdout == nil {
		stdout = os.Stdout
	}

	stderr := r.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	runner, err := interp.New(
		interp.Dir(r.Dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.ExecHandler(execHandler),
		interp.StdIO(nil, stdout, stderr),
		interp.Params("-e"),
	)
	if err != nil {
		return eris.Wrap(err, "Failed to initialize runner")
	}

	printer := syntax.NewPrinter(
		syntax.Minify(true),
	)
	strBuffer := strings.Builder{}

	for _, stmt := range prog.Stmts {
		strBuffer.Reset()
		printer.Print(&strBuffer, stmt)
		log(ctx).Info().
			Str("target", tgt.Triple).
			Bool("command", true).
			Msg(strBuffer.String())

		if r.DryRun {
			continue
		}

		err = runner.Run(ctx, stmt)
		if err != nil {
			if status, ok := interp.IsExitStatus(err); ok {
				return StatusError{Status: status}
			}

			return err
		}

		if runner.Exited() {
			break
		}
	}

	return nil
}
