package exec

/*
  Post-encode hook: run an external command once the payload is written,
  e.g. to copy inject.bin onto the device's SD card.
*/

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"syscall"
	"time"

	"github.com/kballard/go-shellquote"
)

// Placeholder replaced by the payload path in every hook argument.
const Placeholder = "{}"

type Command struct {
	ID       string        // Shown in logs only
	Line     string        // Shell-like command line, split with shellquote (no shell involved)
	Payload  string        // Substituted for Placeholder
	Dir      string
	Env      []string      // Appended to the current environment
	Timeout  time.Duration // 0 = no limit
	MaxReply int64         // Cap for captured stdout/stderr, 0 = 64 KiB
	StdIn    []byte
}

type Result struct {
	ID        string   `json:"id"`
	Processed bool     `json:"processed"` // Was the process ever started?
	Command   string   `json:"command"`
	Args      []string `json:"args,omitempty"`
	Status    int      `json:"status"`
	StdOut    []byte   `json:"stdout,omitempty"`
	StdErr    []byte   `json:"stderr,omitempty"`
}

const defaultMaxReply = 64 << 10

// Split turns a hook line into argv, replacing the placeholder in each word.
func Split(line, payload string) ([]string, error) {
	words, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("hook %q: %w", line, err)
	}
	if len(words) == 0 {
		return nil, fmt.Errorf("hook %q: empty command", line)
	}
	for i, w := range words {
		words[i] = strings.ReplaceAll(w, Placeholder, payload)
	}
	return words, nil
}

// Run executes c and waits for it. The process group is killed when the
// timeout expires or ctx is cancelled. A non-zero exit is reported through
// Result.Status together with a non-nil error.
func Run(ctx context.Context, c *Command) (*Result, error) {
	argv, err := Split(c.Line, c.Payload)
	if err != nil {
		return &Result{ID: c.ID, Command: c.Line, Status: -1}, err
	}
	r := &Result{ID: c.ID, Command: argv[0], Args: argv[1:]}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	// https://medium.com/@felixge/killing-a-child-process-and-all-of-its-children-in-go-54079af94773
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error { // SIGTERM the whole group, not only the leader
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGTERM)
	}
	cmd.WaitDelay = time.Second / 2 // Then SIGKILL
	cmd.Dir = c.Dir
	if len(c.Env) > 0 {
		cmd.Env = append(cmd.Environ(), c.Env...)
	}
	cmd.Stdin = bytes.NewReader(c.StdIn)

	limit := c.MaxReply
	if limit <= 0 {
		limit = defaultMaxReply
	}
	stdout := &capped{max: limit}
	stderr := &capped{max: limit}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	err = cmd.Run()
	r.Processed = cmd.Process != nil
	r.StdOut = stdout.Bytes()
	r.StdErr = stderr.Bytes()
	if err == nil {
		return r, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		r.Status = exitErr.ExitCode()
	} else {
		r.Status = -1 // No such command at all?
	}
	if ctx.Err() != nil {
		err = fmt.Errorf("%w: %w", err, ctx.Err())
	}
	return r, err
}

// capped keeps the first max bytes and silently drops the rest.
type capped struct {
	bytes.Buffer
	max int64
}

func (c *capped) Write(p []byte) (int, error) {
	if room := c.max - int64(c.Len()); room > 0 {
		if int64(len(p)) > room {
			c.Buffer.Write(p[:room])
		} else {
			c.Buffer.Write(p)
		}
	}
	return len(p), nil
}
