// Package runner wraps invocation of the external media tool (ffmpeg and
// ffprobe binaries), providing binary resolution, context-based timeouts,
// and a Windows-safe exec path.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"time"

	"golang.org/x/time/rate"
)

// ErrTimedOut is returned when the subprocess did not finish within its
// allotted timeout and was killed.
var ErrTimedOut = errors.New("runner: timed out")

// ErrSpawn is returned when the binary could not be started at all (not
// found, not executable, permission denied).
var ErrSpawn = errors.New("runner: failed to spawn")

// Result is the outcome of a single subprocess invocation.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner resolves and invokes the media tool binaries. A Runner is safe
// for concurrent use by multiple clip workers.
type Runner struct {
	ffmpegConfigured  string
	ffprobeConfigured string

	// probeLimiter throttles the short-lived probe invocations made through
	// RunProbe (ffprobe metadata reads) so a large clip-worker pool doesn't
	// fork-bomb the host with simultaneous subprocess spawns. Capability
	// detection runs its own subprocesses and does not pass through it.
	probeLimiter *rate.Limiter
}

// New builds a Runner. configuredFFmpeg/configuredFFprobe may be empty to
// defer to environment/PATH resolution.
func New(configuredFFmpeg, configuredFFprobe string) *Runner {
	return &Runner{
		ffmpegConfigured:  configuredFFmpeg,
		ffprobeConfigured: configuredFFprobe,
		probeLimiter:      rate.NewLimiter(rate.Limit(16), 4),
	}
}

// ResolveFFmpeg returns the ffmpeg binary to invoke, checking in order: a
// configured path, the VIDEOPIPELINE_FFMPEG environment override, then the
// system search path.
func (r *Runner) ResolveFFmpeg() (string, error) {
	return resolveBinary(r.ffmpegConfigured, "VIDEOPIPELINE_FFMPEG", "ffmpeg")
}

// ResolveFFprobe returns the ffprobe binary to invoke, same resolution
// order as ResolveFFmpeg.
func (r *Runner) ResolveFFprobe() (string, error) {
	return resolveBinary(r.ffprobeConfigured, "VIDEOPIPELINE_FFPROBE", "ffprobe")
}

func resolveBinary(configured, envVar, fallback string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	if v := os.Getenv(envVar); v != "" {
		return v, nil
	}
	path, err := exec.LookPath(fallback)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found on PATH: %v", ErrSpawn, fallback, err)
	}
	return path, nil
}

// Run invokes binary with args, killing it if it runs past timeout.
func (r *Runner) Run(ctx context.Context, binary string, args []string, timeout time.Duration) (*Result, error) {
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, binary, args...)
	hideWindow(cmd)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if runCtx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w: %s after %s", ErrTimedOut, binary, timeout)
	}
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &Result{ExitCode: exitErr.ExitCode(), Stdout: stdout.String(), Stderr: stderr.String()}, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSpawn, binary, err)
	}

	return &Result{ExitCode: 0, Stdout: stdout.String(), Stderr: stderr.String()}, nil
}

// RunProbe is Run rate-limited for short, frequent metadata invocations
// (ffprobe reads). It blocks until the limiter admits the call or ctx is
// done. The capability package's -encoders/-filters listings do not go
// through it.
func (r *Runner) RunProbe(ctx context.Context, binary string, args []string, timeout time.Duration) (*Result, error) {
	if err := r.probeLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limiter: %v", ErrSpawn, err)
	}
	return r.Run(ctx, binary, args, timeout)
}
