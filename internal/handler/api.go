// Package handler exposes the explorer, snapshots and navigation controller
// over HTTP and WebSocket.
package handler

import (
	"context"
	"net/http"

	"github.com/CageChen/spaceinspect/internal/config"
	"github.com/CageChen/spaceinspect/internal/explorer"
	"github.com/CageChen/spaceinspect/internal/logging"
	"github.com/CageChen/spaceinspect/internal/metrics"
	"github.com/CageChen/spaceinspect/internal/render"
	"github.com/CageChen/spaceinspect/internal/session"
	"github.com/CageChen/spaceinspect/internal/snapshot"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Warning is shown by the UI and returned with the configuration.
const Warning = "This dashboard exposes every environment variable and the entire file system " +
	"to anyone who can reach it. Only run it in private deployments."

// Snapshot kinds.
const (
	SnapshotEnv  = "env"
	SnapshotDisk = "disk"
	SnapshotDeps = "deps"
)

// Explorer is what the handlers need from the explorer package.
type Explorer interface {
	session.Explorer
}

// Deps bundles the components the API dispatches to.
type Deps struct {
	Config     *config.Config
	Explorer   Explorer
	Controller *session.Controller
	Renderer   *render.Renderer
	Disk       *snapshot.Runner
	Packages   *snapshot.Runner
	Log        *zap.Logger
}

// APIHandler handles the REST API.
type APIHandler struct {
	Deps
}

// NewAPIHandler creates an APIHandler.
func NewAPIHandler(d Deps) *APIHandler {
	if d.Log == nil {
		d.Log = zap.NewNop()
	}
	return &APIHandler{Deps: d}
}

// GetConfig returns the settings the UI needs to draw itself.
func (h *APIHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"root":    h.Config.Root,
		"home":    h.Config.Home,
		"glob":    h.Config.Glob,
		"watch":   h.Config.Watch,
		"warning": Warning,
	})
}

// List returns the listing of ?path= filtered by ?glob= (default: configured glob).
func (h *APIHandler) List(c *gin.Context) {
	path := c.DefaultQuery("path", h.Config.Root)
	glob := c.DefaultQuery("glob", h.Config.Glob)

	l := h.Explorer.List(c.Request.Context(), path, glob)
	metrics.RecordListing(l.OK())
	c.JSON(http.StatusOK, toListingResponse(l))
}

// File returns the preview of ?path=.
func (h *APIHandler) File(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "path is required",
		})
		return
	}
	content := h.Explorer.Read(c.Request.Context(), path)
	c.JSON(http.StatusOK, h.contentResponse(c, content))
}

// HighlightCSS serves the stylesheet for rendered previews.
func (h *APIHandler) HighlightCSS(c *gin.Context) {
	css, err := h.Renderer.CSS()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "failed to build stylesheet: " + err.Error(),
		})
		return
	}
	c.Data(http.StatusOK, "text/css; charset=utf-8", []byte(css))
}

// NavRequest carries the caller's state and the event to apply.
type NavRequest struct {
	State session.State `json:"state"`
	Event session.Event `json:"event"`
}

// Navigate applies one event to the caller-held state. Root and Home always
// come from configuration so callers cannot redefine them.
func (h *APIHandler) Navigate(c *gin.Context) {
	var req NavRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: " + err.Error(),
		})
		return
	}

	state := req.State
	state.Root = h.Config.Root
	state.Home = h.Config.Home
	if state.Current == "" {
		state.Current = state.Root
	}

	next, view := h.Controller.Dispatch(c.Request.Context(), state, req.Event)
	c.JSON(http.StatusOK, NavResponse{
		State: next,
		View:  h.viewResponse(c, view),
	})
}

// Snapshot returns the snapshot named by :kind.
func (h *APIHandler) Snapshot(c *gin.Context) {
	kind := c.Param("kind")
	text, ok := h.takeSnapshot(c.Request.Context(), kind)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown snapshot: " + kind,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"kind": kind,
		"text": text,
	})
}

func (h *APIHandler) takeSnapshot(ctx context.Context, kind string) (string, bool) {
	var runner *snapshot.Runner
	switch kind {
	case SnapshotEnv:
		metrics.RecordSnapshot(kind, true)
		return snapshot.Environment(), true
	case SnapshotDisk:
		runner = h.Disk
	case SnapshotDeps:
		runner = h.Packages
	default:
		return "", false
	}

	text, err := runner.Capture(ctx)
	metrics.RecordSnapshot(kind, err == nil)
	if err != nil {
		h.Log.Warn("snapshot command failed",
			zap.String("kind", kind),
			zap.String("command", runner.Command()),
			zap.Error(err))
	}
	return text, true
}

func (h *APIHandler) viewResponse(c *gin.Context, v session.View) ViewResponse {
	resp := ViewResponse{
		Selected: v.Selected,
		Status:   v.Status,
	}
	if v.Listing != nil {
		metrics.RecordListing(v.Listing.OK())
		resp.Listing = toListingResponse(*v.Listing)
	}
	if v.Content != nil {
		resp.Content = h.contentResponse(c, *v.Content)
	}
	return resp
}

func (h *APIHandler) contentResponse(c *gin.Context, content explorer.Content) *ContentResponse {
	resp := &ContentResponse{
		Text:      content.Text,
		Path:      content.Path,
		MIME:      content.MIME,
		Binary:    content.Binary,
		Truncated: content.Truncated,
	}

	switch {
	case content.Err != nil:
		metrics.RecordFileRead(metrics.OutcomeError)
	case content.Binary:
		metrics.RecordFileRead(metrics.OutcomeBinary)
	case content.Path == "":
		metrics.RecordFileRead(metrics.OutcomeDirectory)
	default:
		metrics.RecordFileRead(metrics.OutcomeOK)
	}

	if renderable(content) && h.Renderer != nil {
		rendered, err := h.Renderer.Render(content.Path, content.Text)
		if err != nil {
			logging.FromContext(c, h.Log).Warn("render failed",
				zap.String("path", content.Path), zap.Error(err))
		} else {
			resp.Rendered = &rendered
		}
	}
	return resp
}
