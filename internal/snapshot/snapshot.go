// Package snapshot captures one-shot textual views of the process
// environment and of external reporting tools.
package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/mattn/go-shellwords"
)

// Default commands for the built-in runners.
const (
	DefaultDiskCommand = "df -h"
	DefaultDepsCommand = "pip freeze"
)

// Environment renders every variable visible to the process as KEY=VALUE
// lines sorted by key. Nothing is filtered.
func Environment() string {
	return FormatEnv(os.Environ())
}

// FormatEnv sorts KEY=VALUE pairs by key and joins them with newlines.
func FormatEnv(environ []string) string {
	type kv struct{ key, value string }
	pairs := make([]kv, 0, len(environ))
	for _, e := range environ {
		k, v, _ := strings.Cut(e, "=")
		pairs = append(pairs, kv{k, v})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].key < pairs[j].key })

	lines := make([]string, len(pairs))
	for i, p := range pairs {
		lines[i] = p.key + "=" + p.value
	}
	return strings.Join(lines, "\n")
}

// CommandError describes a failed external command.
type CommandError struct {
	Command  string
	ExitCode int
	Stderr   string
	Cause    error
}

func (e *CommandError) Error() string {
	if e.ExitCode != 0 {
		msg := fmt.Sprintf("exit status %d", e.ExitCode)
		if e.Stderr != "" {
			msg += ": " + e.Stderr
		}
		return msg
	}
	if errors.Is(e.Cause, exec.ErrNotFound) {
		return "executable not found"
	}
	return e.Cause.Error()
}

// Unwrap returns the underlying exec error.
func (e *CommandError) Unwrap() error {
	return e.Cause
}

// Runner runs one fixed command and reports its stdout.
type Runner struct {
	Name    string
	command string
	argv    []string
	err     error
}

// NewRunner parses command into argv. A command that cannot be parsed
// yields a Runner whose every Run reports the parse error.
func NewRunner(name, command string) *Runner {
	r := &Runner{Name: name, command: command}
	argv, err := shellwords.Parse(command)
	switch {
	case err != nil:
		r.err = fmt.Errorf("parse command: %w", err)
	case len(argv) == 0:
		r.err = errors.New("command is empty")
	default:
		r.argv = argv
	}
	return r
}

// Command returns the configured command line.
func (r *Runner) Command() string {
	return r.command
}

// Output runs the command and returns its stdout verbatim.
func (r *Runner) Output(ctx context.Context) (string, error) {
	if r.err != nil {
		return "", r.err
	}
	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		ce := &CommandError{
			Command: r.command,
			Stderr:  strings.TrimSpace(stderr.String()),
			Cause:   err,
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			ce.ExitCode = exitErr.ExitCode()
		}
		return "", ce
	}
	return string(out), nil
}

// Capture runs the command and returns the text to display: stdout on
// success, an error line otherwise. err is returned for logging only.
func (r *Runner) Capture(ctx context.Context) (string, error) {
	out, err := r.Output(ctx)
	if err != nil {
		return fmt.Sprintf("Error running '%s': %v", r.command, err), err
	}
	return out, nil
}

// Run is Capture without the error.
func (r *Runner) Run(ctx context.Context) string {
	text, _ := r.Capture(ctx)
	return text
}

// DiskUsage returns a runner for the disk usage report.
func DiskUsage(command string) *Runner {
	if command == "" {
		command = DefaultDiskCommand
	}
	return NewRunner("disk", command)
}

// Dependencies returns a runner for the installed dependency list.
func Dependencies(command string) *Runner {
	if command == "" {
		command = DefaultDepsCommand
	}
	return NewRunner("deps", command)
}
