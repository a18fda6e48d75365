package shell

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	logger "github.com/sirupsen/logrus"
)

// Runner executes an external program and waits for it to exit.
type Runner interface {
	Run(ctx context.Context, dir, name string, args ...string) (string, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

// NewExecRunner creates an ExecRunner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run returns standard output only, so callers can parse it. A non-zero exit
// is an error carrying the trimmed stderr and stdout.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	logger.Debugf("$ %s %s", name, strings.Join(args, " "))
	output, err := cmd.Output()
	outputStr := string(output)
	if err != nil {
		details := strings.TrimSpace(strings.Join([]string{stderr.String(), outputStr}, "\n"))
		return outputStr, fmt.Errorf(
			"%s %s: %w\nOutput:\n%s", name, strings.Join(args, " "), err, details,
		)
	}
	if stderr.Len() > 0 {
		logger.Debugf("%s stderr: %s", name, strings.TrimSpace(stderr.String()))
	}
	return outputStr, nil
}
