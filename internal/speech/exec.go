package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

// maxOutput bounds what a subprocess may write to stdout.
const maxOutput = 64 << 20

// RunCommand runs name with args, feeding stdin and returning stdout. A
// missing binary is reported as ErrUnavailable; cancellation of ctx kills the
// process and is returned as ctx.Err(). A process that writes more than
// maxOutput bytes is killed and reported as ErrOutputTooLarge.
func RunCommand(ctx context.Context, name string, args []string, stdin io.Reader) ([]byte, error) {
	return runCommand(ctx, maxOutput, name, args, stdin)
}

func runCommand(ctx context.Context, limit int, name string, args []string, stdin io.Reader) ([]byte, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s not found in PATH", ErrUnavailable, name)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	cmd := exec.CommandContext(runCtx, path, args...)
	if stdin == nil {
		stdin = strings.NewReader("")
	}
	cmd.Stdin = stdin

	stdout := &limitedBuffer{limit: limit, onOverflow: cancel}
	var stderr bytes.Buffer
	cmd.Stdout = stdout
	cmd.Stderr = &stderr

	err = cmd.Run()
	if stdout.overflow {
		return nil, fmt.Errorf("%s: %w (max %d bytes)", name, ErrOutputTooLarge, limit)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%s failed: %w, stderr: %s", name, err, strings.TrimSpace(stderr.String()))
		}
		return nil, fmt.Errorf("%s failed: %w", name, err)
	}
	return stdout.buf.Bytes(), nil
}

// limitedBuffer keeps at most limit bytes. Past the limit it drops its
// contents and calls onOverflow once. Writes never fail.
type limitedBuffer struct {
	buf        bytes.Buffer
	limit      int
	overflow   bool
	onOverflow func()
}

func (b *limitedBuffer) Write(p []byte) (int, error) {
	if b.overflow {
		return len(p), nil
	}
	if b.buf.Len()+len(p) > b.limit {
		b.overflow = true
		b.buf.Reset()
		b.onOverflow()
		return len(p), nil
	}
	return b.buf.Write(p)
}
