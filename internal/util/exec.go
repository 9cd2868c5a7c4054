package util

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/coolerd/coolerd/internal/ui"
)

// SafeCmdExecution runs the given executable with a hard timeout and returns
// its trimmed stdout. A timeout is reported as a regular error so callers can
// treat it like any other failed invocation.
func SafeCmdExecution(executable string, args []string, timeout time.Duration) (string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, executable, args...)
	out, err := cmd.Output()

	if ctx.Err() == context.DeadlineExceeded {
		ui.Warning("Command timed out: %s", executable)
		return "", ctx.Err()
	}

	if err != nil {
		ui.Debug("Command failed to execute: %s %s: %v", executable, strings.Join(args, " "), err)
		return "", err
	}

	strout := string(out)
	strout = strings.Trim(strout, "\n")

	return strout, nil
}
