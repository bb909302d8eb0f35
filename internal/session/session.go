// Package session implements the navigation state machine behind the
// dashboard. State is a plain value: every dispatch takes the current state
// and returns the next one, so the caller decides where it lives.
package session

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/CageChen/spaceinspect/internal/explorer"
)

// EventType names a UI event.
type EventType string

// Navigation events.
const (
	EventLoad   EventType = "load"
	EventSubmit EventType = "submit"
	EventSelect EventType = "select"
	EventUp     EventType = "up"
	EventHome   EventType = "home"
	EventRoot   EventType = "root"
)

// State is the per-session navigation state.
type State struct {
	Current string `json:"current"`
	Root    string `json:"root"`
	Home    string `json:"home"`
}

// NewState returns the initial state, positioned at root.
func NewState(root, home string) State {
	return State{Current: root, Root: root, Home: home}
}

// Event is one UI interaction. Path carries the submitted path or the
// selected row's path; Kind carries the selected row's kind.
type Event struct {
	Type EventType     `json:"type"`
	Path string        `json:"path,omitempty"`
	Kind explorer.Kind `json:"kind,omitempty"`
}

// View is what the UI re-renders after an event. Nil fields mean "leave
// that part of the screen as it is".
type View struct {
	Listing *explorer.Listing
	Content *explorer.Content
	// Selected is the viewer's file path; only meaningful when Content is set.
	Selected string
	Status   string
}

// Lister and Reader are the explorer operations the controller dispatches to.
type Lister interface {
	List(ctx context.Context, path, glob string) explorer.Listing
}

// Reader reads file previews.
type Reader interface {
	Read(ctx context.Context, path string) explorer.Content
}

// Explorer combines Lister and Reader.
type Explorer interface {
	Lister
	Reader
}

// Controller dispatches events to the explorer.
type Controller struct {
	explorer Explorer
	glob     string
}

// NewController creates a Controller listing with glob.
func NewController(e Explorer, glob string) *Controller {
	return &Controller{explorer: e, glob: glob}
}

// Dispatch applies ev to s and returns the next state and the view to render.
func (c *Controller) Dispatch(ctx context.Context, s State, ev Event) (State, View) {
	switch ev.Type {
	case EventLoad, EventRoot:
		return c.navigate(ctx, s, s.Root)
	case EventHome:
		return c.navigate(ctx, s, s.Home)
	case EventSubmit:
		if ev.Path == "" {
			return s, View{Status: "Error: path is empty"}
		}
		return c.navigate(ctx, s, ev.Path)
	case EventSelect:
		return c.selectRow(ctx, s, ev)
	case EventUp:
		return c.navigate(ctx, s, parent(s))
	default:
		return s, View{Status: fmt.Sprintf("Error: unknown event %q", ev.Type)}
	}
}

func (c *Controller) navigate(ctx context.Context, s State, path string) (State, View) {
	l := c.explorer.List(ctx, path, c.glob)
	s.Current = path
	return s, View{Listing: &l, Status: l.Status}
}

func (c *Controller) selectRow(ctx context.Context, s State, ev Event) (State, View) {
	if ev.Path == "" {
		return s, View{Status: "Error: no row selected"}
	}
	if ev.Kind == explorer.KindDirectory {
		next, v := c.navigate(ctx, s, ev.Path)
		v.Content = &explorer.Content{Text: explorer.DirectoryMessage}
		v.Selected = ""
		return next, v
	}
	content := c.explorer.Read(ctx, ev.Path)
	return s, View{Content: &content, Selected: content.Path}
}

// parent returns where "up" leads from s. At the root it stays put.
func parent(s State) string {
	cur := filepath.Clean(s.Current)
	if s.Root != "" && cur == filepath.Clean(s.Root) {
		return s.Current
	}
	return filepath.Dir(cur)
}
