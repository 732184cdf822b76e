package dispatch

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"mvdan.cc/sh/v3/interp"

	"github.com/domagalski/mpu-6050-test/pkg/target"
)

// stubExec records every command the shell tries to run and answers with a
// canned exit status per command name.
type stubExec struct {
	calls    [][]string
	statuses map[string]uint8
}

func (s *stubExec) handler(ctx context.Context, args []string) error {
	s.calls = append(s.calls, args)

	if status, found := s.statuses[args[0]]; found && status != 0 {
		return interp.NewExitStatus(status)
	}

	return nil
}

func testCtx() context.Context {
	logger := zerolog.Nop()
	return WithLogger(context.Background(), &logger)
}

func TestRunInvokesCross(t *testing.T) {
	stub := &stubExec{}
	runner := Runner{Exec: stub.handler}

	err := runner.Run(testCtx(), target.Target{Triple: "armv7-unknown-linux-gnueabihf"})
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)
	require.Equal(t,
		[]string{"cross", "build", "--release", "--target", "armv7-unknown-linux-gnueabihf"},
		stub.calls[0])
}

func TestRunToolOverride(t *testing.T) {
	stub := &stubExec{}
	runner := Runner{Exec: stub.handler}

	err := runner.Run(testCtx(), target.Target{Triple: "arm-unknown-linux-gnueabi", Tool: "cargo"})
	require.NoError(t, err)
	require.Len(t, stub.calls, 1)
	require.Equal(t, "cargo", stub.calls[0][0])
}

func TestRunPropagatesExitStatus(t *testing.T) {
	stub := &stubExec{statuses: map[string]uint8{"cross": 3}}
	runner := Runner{Exec: stub.handler}

	err := runner.Run(testCtx(), target.Target{Triple: "arm-unknown-linux-gnueabi"})
	require.Error(t, err)

	status, ok := err.(StatusError)
	require.True(t, ok)
	require.Equal(t, uint8(3), status.Status)
}

func TestRunSetupBeforeBuild(t *testing.T) {
	stub := &stubExec{}
	runner := Runner{Exec: stub.handler}

	err := runner.Run(testCtx(), target.Target{
		Triple: "arm-unknown-linux-gnueabi",
		Setup:  []string{"first-step", "second-step"},
	})
	require.NoError(t, err)
	require.Len(t, stub.calls, 3)
	require.Equal(t, "first-step", stub.calls[0][0])
	require.Equal(t, "second-step", stub.calls[1][0])
	require.Equal(t, "cross", stub.calls[2][0])
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	stub := &stubExec{statuses: map[string]uint8{"first-step": 2}}
	runner := Runner{Exec: stub.handler}

	err := runner.Run(testCtx(), target.Target{
		Triple: "arm-unknown-linux-gnueabi",
		Setup:  []string{"first-step", "second-step"},
	})
	require.Error(t, err)

	status, ok := err.(StatusError)
	require.True(t, ok)
	require.Equal(t, uint8(2), status.Status)

	// second-step and the build itself never ran
	require.Len(t, stub.calls, 1)
}

func TestRunDryRunExecutesNothing(t *testing.T) {
	stub := &stubExec{}
	runner := Runner{Exec: stub.handler, DryRun: true}

	err := runner.Run(testCtx(), target.Target{
		Triple: "armv7-unknown-linux-gnueabihf",
		Setup:  []string{"first-step"},
	})
	require.NoError(t, err)
	require.Empty(t, stub.calls)
}

func TestRunIsRepeatable(t *testing.T) {
	stub := &stubExec{}
	runner := Runner{Exec: stub.handler}
	tgt := target.Target{Triple: "armv7-unknown-linux-gnueabihf"}

	require.NoError(t, runner.Run(testCtx(), tgt))
	require.NoError(t, runner.Run(testCtx(), tgt))
	require.Len(t, stub.calls, 2)
	require.Equal(t, stub.calls[0], stub.calls[1])
}
