// Package sniff detects the MIME type of files, preferring the host's
// file(1) utility and falling back to in-process detection.
package sniff

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/mattn/go-shellwords"
)

// DefaultCommand is the sniffing command used when none is configured.
const DefaultCommand = "file --mime-type -b"

// Sniffer reports the MIME type of the file at path.
type Sniffer interface {
	Sniff(ctx context.Context, path string) (string, error)
}

// CommandSniffer runs an external command with the file path appended and
// returns its trimmed stdout.
type CommandSniffer struct {
	argv []string
}

// NewCommandSniffer parses command into argv. The command comes from
// configuration, never from a request.
func NewCommandSniffer(command string) (*CommandSniffer, error) {
	argv, err := shellwords.Parse(command)
	if err != nil {
		return nil, fmt.Errorf("parse sniff command %q: %w", command, err)
	}
	if len(argv) == 0 {
		return nil, errors.New("sniff command is empty")
	}
	return &CommandSniffer{argv: argv}, nil
}

// Sniff runs the command for path.
func (s *CommandSniffer) Sniff(ctx context.Context, path string) (string, error) {
	args := append(append([]string{}, s.argv[1:]...), path)
	cmd := exec.CommandContext(ctx, s.argv[0], args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("%s: %s", s.argv[0], strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	mime := strings.TrimSpace(string(out))
	if mime == "" {
		return "", fmt.Errorf("%s: empty output", s.argv[0])
	}
	return mime, nil
}

// BuiltinSniffer detects MIME types from file content without leaving the
// process.
type BuiltinSniffer struct{}

// Sniff inspects the leading bytes of the file at path.
func (BuiltinSniffer) Sniff(_ context.Context, path string) (string, error) {
	m, err := mimetype.DetectFile(path)
	if err != nil {
		return "", err
	}
	return m.String(), nil
}

// Chain tries each sniffer in order and returns the first answer.
type Chain []Sniffer

// Sniff returns the first successful result, or the joined errors of every
// sniffer when all of them fail.
func (c Chain) Sniff(ctx context.Context, path string) (string, error) {
	var errs []error
	for _, s := range c {
		mime, err := s.Sniff(ctx, path)
		if err == nil {
			return mime, nil
		}
		errs = append(errs, err)
	}
	if len(errs) == 0 {
		return "", errors.New("no sniffer configured")
	}
	return "", errors.Join(errs...)
}

// New builds the default chain: the configured command first, then the
// builtin detector. An unparsable command leaves only the builtin.
func New(command string) Sniffer {
	cs, err := NewCommandSniffer(command)
	if err != nil {
		return Chain{BuiltinSniffer{}}
	}
	return Chain{cs, BuiltinSniffer{}}
}

// IsText reports whether a sniffed type may be shown as text. Empty files
// are reported by file(1) as inode/x-empty and are displayable.
func IsText(mime string) bool {
	return strings.Contains(mime, "text") ||
		strings.Contains(mime, "json") ||
		strings.Contains(mime, "x-empty")
}
