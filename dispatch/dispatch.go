// Package dispatch implements the Process Dispatcher: it binds an on-disk
// index path into the environment, spawns an external indexer or searcher
// binary against it, and streams back its stdout/stderr with optional
// line-count bounds and cooperative cancellation.
//
// The concurrent drain-and-wait shape is grounded on
// rybkr-gitvista/internal/repomanager/clone.go's exec.CommandContext +
// pipe-draining goroutines, generalized from a single hardcoded "git
// clone" to arbitrary argv and from stderr-only progress parsing to
// bounded line counting on both streams.
package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"sync/atomic"
)

// EnvVar is the environment variable name the indexer and searcher
// binaries read the target index file path from.
const EnvVar = "CSEARCHINDEX"

// SpawnError reports failure to launch the external tool.
type SpawnError struct {
	Argv []string
	Err  error
}

func (e *SpawnError) Error() string {
	return fmt.Sprintf("dispatch: spawn %v: %v", e.Argv, e.Err)
}

func (e *SpawnError) Unwrap() error { return e.Err }

// Result is the outcome of a single Dispatcher.Run invocation.
type Result struct {
	// Success is true on a zero exit status, or on a nonzero exit that
	// was caused by our own line-count cancellation.
	Success bool
	// Stdout and Stderr hold the captured output as line-terminated byte
	// sequences (every element but possibly the last ends in '\n').
	Stdout [][]byte
	Stderr [][]byte
}

// Dispatcher serializes the environment-binding-plus-spawn critical
// section across concurrent invocations. CSEARCHINDEX is set only in each
// child's own environment; the parent process environment is not modified.
type Dispatcher struct {
	mu sync.Mutex
}

// New returns a ready-to-use Dispatcher.
func New() *Dispatcher {
	return &Dispatcher{}
}

// Run executes argv with CSEARCHINDEX bound to indexPath, capturing its
// stdout and stderr. A maxStdoutLines or maxStderrLines of 0 means
// unbounded. If either bound is reached, the process is killed and the
// invocation is still reported as successful.
func (d *Dispatcher) Run(ctx context.Context, argv []string, indexPath string, maxStdoutLines, maxStderrLines int) (Result, error) {
	if len(argv) == 0 {
		return Result{}, fmt.Errorf("dispatch: empty argv")
	}

	d.mu.Lock()
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = append(os.Environ(), EnvVar+"="+indexPath)

	stdoutPipe, err := cmd.StdoutPipe()
	if err != nil {
		d.mu.Unlock()
		return Result{}, &SpawnError{Argv: argv, Err: err}
	}
	stderrPipe, err := cmd.StderrPipe()
	if err != nil {
		d.mu.Unlock()
		return Result{}, &SpawnError{Argv: argv, Err: err}
	}
	if err := cmd.Start(); err != nil {
		d.mu.Unlock()
		return Result{}, &SpawnError{Argv: argv, Err: err}
	}
	d.mu.Unlock()

	var cancelled int32
	var waitErr error
	var stdoutLines, stderrLines [][]byte

	var wg, drained sync.WaitGroup
	wg.Add(3)
	drained.Add(2)

	// cmd.Wait closes both pipes once the process exits, so it only runs
	// after both drains have reached EOF; otherwise unread output is lost.
	go func() {
		defer wg.Done()
		drained.Wait()
		waitErr = cmd.Wait()
	}()
	go func() {
		defer wg.Done()
		defer drained.Done()
		stdoutLines = drain(stdoutPipe, maxStdoutLines, &cancelled, cmd)
	}()
	go func() {
		defer wg.Done()
		defer drained.Done()
		stderrLines = drain(stderrPipe, maxStderrLines, &cancelled, cmd)
	}()
	wg.Wait()

	success := waitErr == nil
	if !success {
		if atomic.LoadInt32(&cancelled) != 0 {
			success = true
		} else if _, ok := waitErr.(*exec.ExitError); !ok {
			return Result{}, fmt.Errorf("dispatch: wait for %v: %w", argv, waitErr)
		}
	}

	return Result{Success: success, Stdout: stdoutLines, Stderr: stderrLines}, nil
}

// drain reads r to EOF, counting newlines (plus a final unterminated line
// on EOF) against maxLines if set, killing cmd's process the first time
// the bound is reached.
func drain(r io.Reader, maxLines int, cancelled *int32, cmd *exec.Cmd) [][]byte {
	var buf bytes.Buffer
	var lineCount int
	chunk := make([]byte, 4096)

	checkBound := func() {
		if maxLines > 0 && lineCount >= maxLines {
			if atomic.CompareAndSwapInt32(cancelled, 0, 1) {
				_ = cmd.Process.Kill()
			}
		}
	}

	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf.Write(chunk[:n])
			lineCount += bytes.Count(chunk[:n], []byte{'\n'})
			checkBound()
		}
		if err != nil {
			if err == io.EOF {
				b := buf.Bytes()
				if len(b) > 0 && b[len(b)-1] != '\n' {
					lineCount++
					checkBound()
				}
			}
			break
		}
	}
	return splitLines(buf.Bytes())
}

func splitLines(b []byte) [][]byte {
	var lines [][]byte
	start := 0
	for i, c := range b {
		if c == '\n' {
			lines = append(lines, b[start:i+1])
			start = i + 1
		}
	}
	if start < len(b) {
		lines = append(lines, b[start:])
	}
	return lines
}
