package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/simonhull/hatch/internal/logger"
)

const tailSize = 4 << 10

// Options configures an ExecRunner.
type Options struct {
	Dir     string        // base working directory
	Stdout  io.Writer     // live output when Stream is set
	Stderr  io.Writer     // live errors, and the spinner
	Stream  bool          // copy process output line by line, prefixed with the spec ID
	Spinner bool          // show a spinner while a command runs
	Timeout time.Duration // default per-command timeout
	Logger  logger.Logger
}

// ExecRunner runs specs as child processes.
type ExecRunner struct {
	dir     string
	stdout  io.Writer
	stderr  io.Writer
	stream  bool
	spinner bool
	timeout time.Duration
	log     logger.Logger

	// For mocking in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// NewExecRunner creates a runner with sensible defaults.
func NewExecRunner(opts *Options) *ExecRunner {
	if opts == nil {
		opts = &Options{}
	}

	r := &ExecRunner{
		dir:         opts.Dir,
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		stream:      opts.Stream,
		spinner:     opts.Spinner,
		timeout:     opts.Timeout,
		log:         opts.Logger,
		commandFunc: exec.CommandContext,
	}
	if r.stdout == nil {
		r.stdout = os.Stdout
	}
	if r.stderr == nil {
		r.stderr = os.Stderr
	}
	if r.timeout <= 0 {
		r.timeout = DefaultTimeout
	}
	if r.log == nil {
		r.log = logger.Nop()
	}
	return r
}

// Run executes every spec in order and returns one result per spec.
func (r *ExecRunner) Run(ctx context.Context, specs []Spec) []Result {
	results := make([]Result, 0, len(specs))
	for _, spec := range specs {
		results = append(results, r.runOne(ctx, spec))
	}
	return results
}

func (r *ExecRunner) runOne(ctx context.Context, spec Spec) Result {
	res := Result{
		ID:       spec.ID,
		PluginID: spec.PluginID,
		Command:  spec.String(),
		Critical: spec.Critical,
	}

	if spec.Command == "" {
		res.ExitCode = -1
		res.Err = fmt.Errorf("command %s has nothing to run", spec.ID)
		return res
	}

	timeout := spec.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	stdoutTail := newTail(tailSize)
	stderrTail := newTail(tailSize)

	var stdout io.Writer = stdoutTail
	var stderr io.Writer = stderrTail
	var flush []*PrefixWriter
	if r.stream {
		prefix := lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render("[" + spec.ID + "] ")
		out := NewPrefixWriter(r.stdout, prefix)
		errOut := NewPrefixWriter(r.stderr, prefix)
		flush = append(flush, out, errOut)
		stdout = io.MultiWriter(stdoutTail, out)
		stderr = io.MultiWriter(stderrTail, errOut)
	}

	cmd := r.commandFunc(ctx, spec.Command, spec.Args...)
	cmd.Dir = r.workDir(spec.Dir)
	if len(spec.Env) > 0 {
		env := cmd.Env
		if env == nil {
			env = os.Environ()
		}
		cmd.Env = append(env, spec.Env...)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	r.log.Debug("running command",
		logger.F("id", spec.ID),
		logger.F("command", res.Command),
		logger.F("dir", cmd.Dir),
	)

	start := time.Now()
	var err error
	if r.spinner && !r.stream {
		err = runWithSpinner(r.stderr, describe(spec), cmd.Run)
	} else {
		err = cmd.Run()
	}
	res.Duration = time.Since(start)

	for _, w := range flush {
		_ = w.Flush()
	}

	res.Stdout = stdoutTail.String()
	res.Stderr = stderrTail.String()

	if err != nil {
		res.ExitCode, res.Err = classify(ctx, spec, err)
		r.log.Debug("command failed",
			logger.F("id", spec.ID),
			logger.F("exit", res.ExitCode),
			logger.F("error", res.Err),
		)
		return res
	}

	res.Success = true
	return res
}

func (r *ExecRunner) workDir(dir string) string {
	switch {
	case dir == "":
		return r.dir
	case filepath.IsAbs(dir):
		return dir
	default:
		return filepath.Join(r.dir, dir)
	}
}

func describe(spec Spec) string {
	if spec.Description != "" {
		return spec.Description
	}
	return spec.String()
}

// classify converts a process error into an exit code and a readable error.
func classify(ctx context.Context, spec Spec, err error) (int, error) {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return -1, fmt.Errorf("%s timed out: %w", spec.Command, ctx.Err())
	}
	if ctx.Err() != nil {
		return -1, fmt.Errorf("%s cancelled: %w", spec.Command, ctx.Err())
	}
	if isCommandNotFound(err) {
		return 127, fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, spec.Command)
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), fmt.Errorf("%s failed: %w", spec.Command, err)
	}
	return -1, fmt.Errorf("failed to start %s: %w", spec.Command, err)
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found")
}

// tail keeps the last max bytes written to it.
type tail struct {
	max int
	buf []byte
}

func newTail(max int) *tail {
	return &tail{max: max}
}

func (t *tail) Write(p []byte) (int, error) {
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tail) String() string {
	return string(t.buf)
}
