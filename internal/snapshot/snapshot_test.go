package snapshot

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatEnv_SortedByKey(t *testing.T) {
	out := FormatEnv([]string{"B=2", "A=1", "C=x=y", "EMPTY="})
	assert.Equal(t, "A=1\nB=2\nC=x=y\nEMPTY=", out)
}

func TestEnvironment_RoundTrip(t *testing.T) {
	t.Setenv("SPACEINSPECT_TEST_VAR", "value=with=equals")

	got := make(map[string]string)
	for _, line := range strings.Split(Environment(), "\n") {
		k, v, _ := strings.Cut(line, "=")
		got[k] = v
	}

	want := make(map[string]string)
	for _, e := range os.Environ() {
		k, v, _ := strings.Cut(e, "=")
		if strings.Contains(v, "\n") {
			delete(got, k)
			continue
		}
		want[k] = v
	}
	for k := range got {
		if _, ok := want[k]; !ok {
			delete(got, k)
		}
	}
	assert.Equal(t, want, got)
	assert.Equal(t, "value=with=equals", got["SPACEINSPECT_TEST_VAR"])
}

func TestRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	r := NewRunner("echo", "echo 'hello world'")
	assert.Equal(t, "hello world\n", r.Run(context.Background()))
}

func TestRunner_MissingExecutable(t *testing.T) {
	r := NewRunner("missing", "definitely-not-installed-tool --flag")
	out := r.Run(context.Background())
	assert.Equal(t, "Error running 'definitely-not-installed-tool --flag': executable not found", out)

	_, err := r.Output(context.Background())
	var ce *CommandError
	require.True(t, errors.As(err, &ce))
	assert.ErrorIs(t, err, exec.ErrNotFound)
}

func TestRunner_NonZeroExit(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	r := NewRunner("fail", `sh -c "echo oops >&2; exit 3"`)
	out := r.Run(context.Background())
	assert.True(t, strings.HasPrefix(out, "Error running 'sh -c"), out)
	assert.Contains(t, out, "exit status 3: oops")
}

func TestRunner_BadCommand(t *testing.T) {
	assert.Contains(t, NewRunner("empty", "").Run(context.Background()), "command is empty")
	assert.Contains(t, NewRunner("quote", `echo "unterminated`).Run(context.Background()), "parse command")
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, DefaultDiskCommand, DiskUsage("").Command())
	assert.Equal(t, DefaultDepsCommand, Dependencies("").Command())
	assert.Equal(t, "uv pip freeze", Dependencies("uv pip freeze").Command())
}

func TestRunner_Capture(t *testing.T) {
	text, err := NewRunner("missing", "definitely-not-installed-tool").Capture(context.Background())
	assert.Error(t, err)
	assert.True(t, strings.HasPrefix(text, "Error running 'definitely-not-installed-tool'"), text)
}
