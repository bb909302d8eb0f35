package sniff

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSniffer struct {
	mime string
	err  error
}

func (f fakeSniffer) Sniff(context.Context, string) (string, error) {
	return f.mime, f.err
}

func TestChain_FirstSuccessWins(t *testing.T) {
	c := Chain{
		fakeSniffer{err: errors.New("missing")},
		fakeSniffer{mime: "text/plain"},
		fakeSniffer{mime: "image/png"},
	}
	mime, err := c.Sniff(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, "text/plain", mime)
}

func TestChain_AllFail(t *testing.T) {
	c := Chain{
		fakeSniffer{err: errors.New("first")},
		fakeSniffer{err: errors.New("second")},
	}
	_, err := c.Sniff(context.Background(), "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "first")
	assert.Contains(t, err.Error(), "second")

	_, err = Chain{}.Sniff(context.Background(), "x")
	assert.Error(t, err)
}

func TestCommandSniffer_MissingExecutable(t *testing.T) {
	s, err := NewCommandSniffer("definitely-not-a-real-sniffer-binary --mime")
	require.NoError(t, err)

	_, err = s.Sniff(context.Background(), "/etc/hostname")
	assert.Error(t, err)
}

func TestNewCommandSniffer_Empty(t *testing.T) {
	_, err := NewCommandSniffer("   ")
	assert.Error(t, err)
}

func TestBuiltinSniffer(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello world\n"), 0o644))
	bin := filepath.Join(dir, "a.png")
	png := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0x0d, 'I', 'H', 'D', 'R'}
	require.NoError(t, os.WriteFile(bin, png, 0o644))

	mime, err := BuiltinSniffer{}.Sniff(context.Background(), text)
	require.NoError(t, err)
	assert.True(t, IsText(mime), "got %s", mime)

	mime, err = BuiltinSniffer{}.Sniff(context.Background(), bin)
	require.NoError(t, err)
	assert.Equal(t, "image/png", mime)
	assert.False(t, IsText(mime))
}

func TestIsText(t *testing.T) {
	tests := []struct {
		mime string
		want bool
	}{
		{"text/plain", true},
		{"text/x-python", true},
		{"application/json", true},
		{"inode/x-empty", true},
		{"application/octet-stream", false},
		{"image/png", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsText(tt.mime), tt.mime)
	}
}
