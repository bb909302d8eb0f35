// Package explorer lists directories and reads file previews for the
// dashboard. Every operation reads the filesystem synchronously and turns
// failures into user-visible text instead of returning errors.
package explorer

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kind classifies a directory entry.
type Kind int

// Entry kinds.
const (
	KindFile Kind = iota
	KindDirectory
	KindUnknown
)

// Unavailable is shown in place of metadata that could not be read.
const Unavailable = "unavailable"

// TimeLayout formats modification times.
const TimeLayout = "2006-01-02 15:04:05"

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// ParseKind is the inverse of Kind.String. Unrecognized values map to KindUnknown.
func ParseKind(s string) Kind {
	switch s {
	case "file":
		return KindFile
	case "directory":
		return KindDirectory
	default:
		return KindUnknown
	}
}

// MarshalJSON encodes the kind as its string form.
func (k Kind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// UnmarshalJSON decodes the string form of a kind.
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("kind: %w", err)
	}
	*k = ParseKind(s)
	return nil
}

// Entry is one row of a directory listing.
type Entry struct {
	Name string
	Kind Kind
	// Size is nil for directories and for entries whose metadata failed.
	Size    *int64
	ModTime time.Time
	// Perm holds three octal digits, or Unavailable.
	Perm string
	Path string
}

// Degraded reports whether the entry's metadata could not be read.
func (e Entry) Degraded() bool {
	return e.Kind == KindUnknown
}

// ModifiedText renders ModTime for display.
func (e Entry) ModifiedText() string {
	if e.Degraded() || e.ModTime.IsZero() {
		return Unavailable
	}
	return e.ModTime.Local().Format(TimeLayout)
}

// Listing is the result of List.
type Listing struct {
	// Path is the directory as resolved, or as submitted when resolution failed.
	Path    string
	Entries []Entry
	Status  string
	// Err is set when the listing failed; Status already describes it.
	Err error
}

// OK reports whether the listing succeeded.
func (l Listing) OK() bool {
	return l.Err == nil
}

// Content is the result of Read.
type Content struct {
	Text string
	// Path is empty when a directory was requested.
	Path      string
	MIME      string
	Binary    bool
	Truncated bool
	Err       error
}
