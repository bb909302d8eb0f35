package session

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/CageChen/spaceinspect/internal/explorer"
	mfs "github.com/CageChen/spaceinspect/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type textSniffer struct{}

func (textSniffer) Sniff(context.Context, string) (string, error) { return "text/plain", nil }

func setup(t *testing.T) (string, *Controller) {
	t.Helper()

	root, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, os.Mkdir(filepath.Join(root, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.txt"), []byte("hi"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "sub", "b.txt"), []byte("bee"), 0o644))

	e, err := explorer.New(mfs.NewLocalFS(), textSniffer{}, explorer.Options{})
	require.NoError(t, err)
	return root, NewController(e, "*")
}

func names(v View) []string {
	var out []string
	for _, e := range v.Listing.Entries {
		out = append(out, e.Name)
	}
	return out
}

func TestScenario(t *testing.T) {
	root, c := setup(t)
	ctx := context.Background()

	s, v := c.Dispatch(ctx, NewState(root, root), Event{Type: EventLoad})
	require.NotNil(t, v.Listing)
	assert.Equal(t, root, s.Current)
	assert.Equal(t, []string{"sub", "a.txt"}, names(v))
	first := v.Listing.Entries

	s2, v := c.Dispatch(ctx, s, Event{Type: EventSelect, Path: filepath.Join(root, "a.txt"), Kind: explorer.KindFile})
	assert.Equal(t, s, s2, "selecting a file keeps the state")
	assert.Nil(t, v.Listing)
	require.NotNil(t, v.Content)
	assert.Equal(t, "hi", v.Content.Text)
	assert.Equal(t, filepath.Join(root, "a.txt"), v.Selected)

	s, v = c.Dispatch(ctx, s, Event{Type: EventSelect, Path: filepath.Join(root, "sub"), Kind: explorer.KindDirectory})
	assert.Equal(t, filepath.Join(root, "sub"), s.Current)
	assert.Equal(t, []string{"b.txt"}, names(v))
	require.NotNil(t, v.Content)
	assert.Equal(t, explorer.DirectoryMessage, v.Content.Text)
	assert.Empty(t, v.Selected)

	s, v = c.Dispatch(ctx, s, Event{Type: EventUp})
	assert.Equal(t, root, s.Current)
	assert.Equal(t, first, v.Listing.Entries)
}

func TestUpAtRootIsNoop(t *testing.T) {
	root, c := setup(t)
	s := NewState(root, root)

	next, v := c.Dispatch(context.Background(), s, Event{Type: EventUp})
	assert.Equal(t, s, next)
	require.NotNil(t, v.Listing)
	assert.Len(t, v.Listing.Entries, 2)

	// Trailing separators do not defeat the guard.
	s.Current = root + string(filepath.Separator)
	next, _ = c.Dispatch(context.Background(), s, Event{Type: EventUp})
	assert.Equal(t, s, next)
}

func TestUpFromChild(t *testing.T) {
	root, c := setup(t)
	s := State{Current: filepath.Join(root, "sub"), Root: root, Home: root}

	next, _ := c.Dispatch(context.Background(), s, Event{Type: EventUp})
	assert.Equal(t, root, next.Current)
}

func TestHomeAndRoot(t *testing.T) {
	root, c := setup(t)
	home := filepath.Join(root, "sub")
	s := State{Current: "/", Root: root, Home: home}

	s, v := c.Dispatch(context.Background(), s, Event{Type: EventHome})
	assert.Equal(t, home, s.Current)
	assert.Equal(t, []string{"b.txt"}, names(v))

	s, v = c.Dispatch(context.Background(), s, Event{Type: EventRoot})
	assert.Equal(t, root, s.Current)
	assert.Len(t, v.Listing.Entries, 2)
}

func TestSubmit(t *testing.T) {
	root, c := setup(t)
	s := NewState(root, root)

	bad := filepath.Join(root, "nope")
	next, v := c.Dispatch(context.Background(), s, Event{Type: EventSubmit, Path: bad})
	assert.Equal(t, bad, next.Current)
	require.NotNil(t, v.Listing)
	assert.Empty(t, v.Listing.Entries)
	assert.Contains(t, v.Status, bad)

	next, v = c.Dispatch(context.Background(), s, Event{Type: EventSubmit})
	assert.Equal(t, s, next)
	assert.Nil(t, v.Listing)
	assert.Contains(t, v.Status, "empty")
}

func TestUnknownEvent(t *testing.T) {
	root, c := setup(t)
	s := NewState(root, root)

	next, v := c.Dispatch(context.Background(), s, Event{Type: "jump"})
	assert.Equal(t, s, next)
	assert.Contains(t, v.Status, "unknown event")
}

func TestEventJSON(t *testing.T) {
	var ev Event
	require.NoError(t, json.Unmarshal([]byte(`{"type":"select","path":"/etc","kind":"directory"}`), &ev))
	assert.Equal(t, EventSelect, ev.Type)
	assert.Equal(t, explorer.KindDirectory, ev.Kind)
}
