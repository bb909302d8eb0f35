package explorer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	mfs "github.com/CageChen/spaceinspect/internal/fs"
	"github.com/CageChen/spaceinspect/internal/sniff"
	"github.com/moby/patternmatcher"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultReadLimit caps how much of a file Read returns.
const DefaultReadLimit = 1 << 20

// DirectoryMessage is returned by Read for directories.
const DirectoryMessage = "# This is a directory. Please select a file to view its content."

// ErrNotDirectory is reported when List is given something other than a directory.
var ErrNotDirectory = errors.New("not a directory")

// Options configures an Explorer.
type Options struct {
	// ReadLimit is the maximum number of bytes Read returns. Zero means DefaultReadLimit.
	ReadLimit int64
	// Hide lists dockerignore-style patterns for names to omit from listings.
	Hide []string
}

// Explorer lists directories and reads files through a FileSystem.
type Explorer struct {
	fs        mfs.FileSystem
	sniffer   sniff.Sniffer
	readLimit int64
	hide      *patternmatcher.PatternMatcher
}

// New creates an Explorer. sniffer may be nil, in which case every regular
// file is treated as text.
func New(fsys mfs.FileSystem, sniffer sniff.Sniffer, opts Options) (*Explorer, error) {
	e := &Explorer{
		fs:        fsys,
		sniffer:   sniffer,
		readLimit: opts.ReadLimit,
	}
	if e.readLimit <= 0 {
		e.readLimit = DefaultReadLimit
	}
	if len(opts.Hide) > 0 {
		pm, err := patternmatcher.New(opts.Hide)
		if err != nil {
			return nil, fmt.Errorf("hide patterns: %w", err)
		}
		e.hide = pm
	}
	return e, nil
}

// ReadLimit returns the configured read cap in bytes.
func (e *Explorer) ReadLimit() int64 {
	return e.readLimit
}

// List returns the immediate children of path whose names match glob.
// An empty glob matches everything.
func (e *Explorer) List(_ context.Context, path, glob string) Listing {
	if glob == "" {
		glob = "*"
	}
	if _, err := filepath.Match(glob, ""); err != nil {
		return Listing{
			Path:   path,
			Status: fmt.Sprintf("Error: invalid glob pattern '%s'.", glob),
			Err:    err,
		}
	}

	dir, err := e.fs.Resolve(path)
	if err == nil {
		var info mfs.FileInfo
		info, err = e.fs.Stat(dir)
		if err == nil && !info.IsDir {
			err = ErrNotDirectory
		}
	}
	if err != nil {
		return Listing{
			Path:   path,
			Status: fmt.Sprintf("Error: '%s' is not a valid directory.", path),
			Err:    err,
		}
	}

	children, err := e.fs.ReadDir(dir)
	if err != nil {
		return Listing{
			Path:   dir,
			Status: fmt.Sprintf("Error: %v", err),
			Err:    err,
		}
	}

	entries := make([]Entry, 0, len(children))
	for _, child := range children {
		if ok, _ := filepath.Match(glob, child.Name); !ok {
			continue
		}
		if e.hidden(child.Name) {
			continue
		}
		entries = append(entries, e.entry(dir, child.Name))
	}
	SortEntries(entries)

	return Listing{
		Path:    dir,
		Entries: entries,
		Status:  "Currently viewing: " + dir,
	}
}

func (e *Explorer) hidden(name string) bool {
	if e.hide == nil {
		return false
	}
	matched, err := e.hide.MatchesOrParentMatches(name)
	return err == nil && matched
}

// entry builds the row for name inside dir. A failed stat yields a
// degraded entry rather than an error.
func (e *Explorer) entry(dir, name string) Entry {
	full := filepath.Join(dir, name)
	info, err := e.fs.Stat(full)
	if err != nil {
		return Entry{
			Name: name,
			Kind: KindUnknown,
			Perm: Unavailable,
			Path: full,
		}
	}

	resolved := full
	if r, err := e.fs.Resolve(full); err == nil {
		resolved = r
	}

	ent := Entry{
		Name:    name,
		Kind:    KindFile,
		ModTime: info.ModTime,
		Perm:    fmt.Sprintf("%03o", info.Mode.Perm()),
		Path:    resolved,
	}
	if info.IsDir {
		ent.Kind = KindDirectory
	} else {
		size := info.Size
		ent.Size = &size
	}
	return ent
}

// SortEntries orders entries folders first, then files, then unknown
// entries, each group by case-insensitive name.
func SortEntries(entries []Entry) {
	rank := func(k Kind) int {
		switch k {
		case KindDirectory:
			return 0
		case KindFile:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ri, rj := rank(entries[i].Kind), rank(entries[j].Kind)
		if ri != rj {
			return ri < rj
		}
		li, lj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if li != lj {
			return li < lj
		}
		return entries[i].Name < entries[j].Name
	})
}

// Read returns a text preview of the file at path.
func (e *Explorer) Read(ctx context.Context, path string) Content {
	info, err := e.fs.Stat(path)
	if err != nil {
		return errorContent(path, err)
	}
	if info.IsDir {
		return Content{Text: DirectoryMessage}
	}

	var mime string
	if e.sniffer != nil {
		// A failing sniffer falls through to a text read.
		if m, err := e.sniffer.Sniff(ctx, path); err == nil {
			mime = m
			if !sniff.IsText(m) {
				return Content{
					Text: fmt.Sprintf("# File '%s' appears to be a binary file (%s).\n# Cannot display content.",
						filepath.Base(path), m),
					Path:   path,
					MIME:   m,
					Binary: true,
				}
			}
		}
	}

	text, truncated, err := e.readText(path)
	if err != nil {
		c := errorContent(path, err)
		c.MIME = mime
		return c
	}
	return Content{
		Text:      text,
		Path:      path,
		MIME:      mime,
		Truncated: truncated,
	}
}

// readText reads up to readLimit bytes, replacing invalid UTF-8 sequences.
func (e *Explorer) readText(path string) (string, bool, error) {
	f, err := e.fs.Open(path)
	if err != nil {
		return "", false, err
	}
	defer func() { _ = f.Close() }()

	// One extra byte tells whether the file was longer than the cap.
	raw, err := io.ReadAll(io.LimitReader(f, e.readLimit+1))
	if err != nil {
		return "", false, err
	}
	truncated := int64(len(raw)) > e.readLimit
	if truncated {
		raw = raw[:e.readLimit]
	}

	decoded, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return "", false, fmt.Errorf("decode: %w", err)
	}
	return string(decoded), truncated, nil
}

func errorContent(path string, err error) Content {
	return Content{
		Text: fmt.Sprintf("# Error reading file: %v", err),
		Path: path,
		Err:  err,
	}
}
