package handler

import (
	"github.com/CageChen/spaceinspect/internal/explorer"
	"github.com/CageChen/spaceinspect/internal/render"
	"github.com/CageChen/spaceinspect/internal/session"
	"github.com/docker/go-units"
)

// Row is one listing row as the UI shows it.
type Row struct {
	Name      string        `json:"name"`
	Kind      explorer.Kind `json:"kind"`
	Size      *int64        `json:"size,omitempty"`
	SizeHuman string        `json:"sizeHuman"`
	Modified  string        `json:"modified"`
	Perm      string        `json:"perm"`
	Path      string        `json:"path"`
}

// ListingResponse is the JSON form of a listing.
type ListingResponse struct {
	Path    string `json:"path"`
	Status  string `json:"status"`
	OK      bool   `json:"ok"`
	Entries []Row  `json:"entries"`
}

// ContentResponse is the JSON form of a file preview.
type ContentResponse struct {
	Text      string           `json:"text"`
	Path      string           `json:"path"`
	MIME      string           `json:"mime,omitempty"`
	Binary    bool             `json:"binary"`
	Truncated bool             `json:"truncated"`
	Rendered  *render.Rendered `json:"rendered,omitempty"`
}

// ViewResponse is the JSON form of a session view.
type ViewResponse struct {
	Listing  *ListingResponse `json:"listing,omitempty"`
	Content  *ContentResponse `json:"content,omitempty"`
	Selected string           `json:"selected"`
	Status   string           `json:"status,omitempty"`
}

// NavResponse pairs the next state with the view to render.
type NavResponse struct {
	State session.State `json:"state"`
	View  ViewResponse  `json:"view"`
}

func toRow(e explorer.Entry) Row {
	r := Row{
		Name:     e.Name,
		Kind:     e.Kind,
		Size:     e.Size,
		Modified: e.ModifiedText(),
		Perm:     e.Perm,
		Path:     e.Path,
	}
	switch {
	case e.Size != nil:
		r.SizeHuman = units.HumanSize(float64(*e.Size))
	case e.Degraded():
		r.SizeHuman = explorer.Unavailable
	}
	return r
}

func toListingResponse(l explorer.Listing) *ListingResponse {
	rows := make([]Row, len(l.Entries))
	for i, e := range l.Entries {
		rows[i] = toRow(e)
	}
	return &ListingResponse{
		Path:    l.Path,
		Status:  l.Status,
		OK:      l.OK(),
		Entries: rows,
	}
}

// renderable reports whether a preview holds file text worth highlighting.
func renderable(c explorer.Content) bool {
	return c.Path != "" && !c.Binary && c.Err == nil
}
