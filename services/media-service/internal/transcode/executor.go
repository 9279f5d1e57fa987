// Package transcode drives ffmpeg and ffprobe to produce and inspect video tiers
package transcode

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Executor runs an external tool and returns its standard output
type Executor interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecExecutor runs tools as subprocesses
type ExecExecutor struct{}

// maxStderr bounds the amount of tool output kept in errors
const maxStderr = 2048

// Run starts name with args and waits for it. The process is killed when ctx is done.
func (ExecExecutor) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return out, fmt.Errorf("%s: %w", name, ctxErr)
		}
		return out, fmt.Errorf("%s: %w: %s", name, err, tail(stderr.String(), maxStderr))
	}
	return out, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
