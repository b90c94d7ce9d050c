package main

import (
	"log/slog"
	"net/http"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/orchestrator"
	"github.com/archcanvas/archcanvas/internal/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrorResponse is the JSON body returned for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// Handlers wires the HTTP surface to a live orchestrator.Core plus the
// persistence layer used by the snapshot endpoints.
type Handlers struct {
	core   *orchestrator.Core
	store  *persistence.Store
	logger *slog.Logger
}

// NewHandlers constructs a Handlers bound to core and store.
func NewHandlers(core *orchestrator.Core, store *persistence.Store, logger *slog.Logger) *Handlers {
	return &Handlers{core: core, store: store, logger: logger}
}

func (h *Handlers) fail(c *gin.Context, status int, code, msg string) {
	c.JSON(status, ErrorResponse{Error: msg, Code: code})
}

// applyRequest is the wire envelope every POST /v1/apply call carries:
// Type names one of the EditIntent verbs, and the remaining flat fields
// are shared by all verbs; toIntent picks out the ones Type uses and
// ignores the rest.
type applyRequest struct {
	Type       string   `json:"type" binding:"required"`
	ID         string   `json:"id"`
	Parent     string   `json:"parentId"`
	IDs        []string `json:"ids"`
	Source     string   `json:"source"`
	Target     string   `json:"target"`
	ScopeID    string   `json:"scopeId"`
	NewID      string   `json:"newId"`
	IsGroup    bool     `json:"isGroup"`
	DuringDrag bool     `json:"duringDrag"`
	X          *float64 `json:"x,omitempty"`
	Y          *float64 `json:"y,omitempty"`
	W          float64  `json:"w,omitempty"`
	H          float64  `json:"h,omitempty"`
	Label      string   `json:"label,omitempty"`
}

func (r applyRequest) toIntent() (orchestrator.EditIntent, bool) {
	var x, y float64
	if r.X != nil {
		x = *r.X
	}
	if r.Y != nil {
		y = *r.Y
	}
	rect := geometry.Rect{X: x, Y: y, W: r.W, H: r.H}
	switch r.Type {
	case "geoOnly":
		return orchestrator.GeoOnly{ID: r.ID, Rect: rect, IsGroup: r.IsGroup}, true
	case "addNode":
		return orchestrator.AddNode{ID: r.ID, ParentID: r.Parent, Position: geometry.Point{X: x, Y: y}, PositionSet: r.X != nil && r.Y != nil, Size: geometry.Size{W: r.W, H: r.H}, IsGroup: r.IsGroup}, true
	case "deleteNode":
		return orchestrator.DeleteNode{ID: r.ID}, true
	case "deleteEdge":
		return orchestrator.DeleteEdge{ID: r.ID}, true
	case "moveNode":
		return orchestrator.MoveNode{ID: r.ID, NewParentID: r.Parent}, true
	case "addEdge":
		return orchestrator.AddEdge{ID: r.ID, Source: r.Source, Target: r.Target, Data: domain.EdgeData{}}, true
	case "groupNodes":
		return orchestrator.GroupNodes{IDs: r.IDs, ParentID: r.Parent, NewGroupID: r.NewID, Data: domain.NodeData{Label: r.Label}}, true
	case "ungroupNodes":
		return orchestrator.UngroupNodes{GroupID: r.ID}, true
	case "select":
		return orchestrator.Select{IDs: r.IDs}, true
	case "deselect":
		return orchestrator.Deselect{IDs: r.IDs}, true
	case "unlockScopeToFree":
		return orchestrator.UnlockScopeToFree{ScopeGroupID: r.ScopeID, DuringDrag: r.DuringDrag}, true
	case "lockScopeAndDescendants":
		return orchestrator.LockScopeAndDescendants{ScopeGroupID: r.ScopeID}, true
	case "arrange":
		return orchestrator.Arrange{ScopeID: r.ScopeID}, true
	default:
		return nil, false
	}
}

// HandleApply handles POST /v1/apply: decode one EditIntent, run it
// through Core.Apply, and return 204 on success. The render that
// results is pushed to every connected websocket client, not returned
// in this response body.
func (h *Handlers) HandleApply(c *gin.Context) {
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, http.StatusBadRequest, "MALFORMED_REQUEST", err.Error())
		return
	}
	intent, ok := req.toIntent()
	if !ok {
		h.fail(c, http.StatusBadRequest, "UNKNOWN_INTENT_TYPE", "unrecognized intent type: "+req.Type)
		return
	}
	if err := h.core.Apply(c.Request.Context(), intent); err != nil {
		h.logger.Warn("apply failed", "type", req.Type, "error", err)
		h.fail(c, http.StatusUnprocessableEntity, "APPLY_FAILED", err.Error())
		return
	}
	c.Status(http.StatusNoContent)
}

// HandleSnapshotSave handles POST /v1/snapshot, writing the live canvas
// to the primary BadgerDB store under its fixed key, tagged with the
// scopeId query parameter (or a fresh uuid when none is given).
func (h *Handlers) HandleSnapshotSave(c *gin.Context) {
	scopeID := c.Query("scopeId")
	if scopeID == "" {
		scopeID = uuid.NewString()
	}
	snap := h.core.Capture(scopeID, nowUnix)
	if err := h.store.Save(c.Request.Context(), snap); err != nil {
		h.fail(c, http.StatusInternalServerError, "SNAPSHOT_SAVE_FAILED", err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"scopeId": scopeID, "timestamp": snap.TimestampUnix})
}

// HandleSnapshotRestore handles POST /v1/snapshot/restore: loads the
// current snapshot and restores it into the live Core, skipping the
// hierarchical layout engine entirely per the restoration render rule.
func (h *Handlers) HandleSnapshotRestore(c *gin.Context) {
	snap, found, err := h.store.Load(c.Request.Context(), nowTime(), snapshotTTL)
	if err != nil {
		h.fail(c, http.StatusInternalServerError, "SNAPSHOT_LOAD_FAILED", err.Error())
		return
	}
	if !found {
		h.fail(c, http.StatusNotFound, "NO_SNAPSHOT", "no usable snapshot found")
		return
	}
	h.core.Restore(snap)
	c.Status(http.StatusNoContent)
}

// HandleRender handles GET /v1/render, returning the current full
// projection synchronously — used by a client reconnecting mid-session
// before it subscribes to the websocket feed.
func (h *Handlers) HandleRender(c *gin.Context) {
	c.JSON(http.StatusOK, currentProjection(h.core))
}

// HandleHealth handles GET /healthz.
func (h *Handlers) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
