// Package orchestrator implements Core, the single facade every edit
// to the canvas passes through: it owns the Domain graph and ViewState,
// dispatches each EditIntent to the right combination of Domain
// mutation, ViewState write and hierarchical layout run, and re-projects
// a render after every committed intent.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/archcanvas/archcanvas/internal/domain"
	"github.com/archcanvas/archcanvas/internal/geometry"
	"github.com/archcanvas/archcanvas/internal/layout"
	"github.com/archcanvas/archcanvas/internal/modehandlers"
	"github.com/archcanvas/archcanvas/internal/persistence"
	"github.com/archcanvas/archcanvas/internal/policy"
	"github.com/archcanvas/archcanvas/internal/render"
	"github.com/archcanvas/archcanvas/internal/viewstate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	oteltrace "go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("archcanvas.orchestrator")
var meter = otel.Meter("archcanvas.orchestrator")

var applyCount, _ = meter.Int64Counter(
	"archcanvas.orchestrator.apply.count",
	metric.WithDescription("Number of EditIntents dispatched through Core.Apply, by intent type and outcome."),
)

var applyDuration, _ = meter.Float64Histogram(
	"archcanvas.orchestrator.apply.duration_ms",
	metric.WithDescription("Wall-clock duration of Core.Apply, including the reprojection at the end of a successful commit."),
	metric.WithUnit("ms"),
)

// RenderFunc receives the projected render output after every committed
// intent — the Go analogue of the source's paired setNodes/setEdges
// renderer callbacks collapsed into one sink.
type RenderFunc func(render.Projection)

// Core is the Orchestrator: the sole owner of the live Domain graph and
// ViewState, reachable through Apply for every edit and through
// Domain/ViewState for the small set of direct writers the design
// permits (drag, router callbacks, restoration).
type Core struct {
	mu sync.Mutex

	g  *domain.Graph
	vs *viewstate.ViewState

	selected map[string]bool

	engine     layout.Engine
	layoutCfg  layout.Config
	layoutOpts layout.Options

	logger *slog.Logger
	render RenderFunc
	bus    *signalBus
}

// New constructs a Core over an initial graph and view state. engine may
// be nil only if the caller never issues an Arrange intent, the only
// intent that runs the layout engine.
func New(g *domain.Graph, vs *viewstate.ViewState, engine layout.Engine, layoutCfg layout.Config, layoutOpts layout.Options, logger *slog.Logger, renderFn RenderFunc) *Core {
	if logger == nil {
		logger = slog.Default()
	}
	return &Core{
		g:          g,
		vs:         vs,
		selected:   map[string]bool{},
		engine:     engine,
		layoutCfg:  layoutCfg,
		layoutOpts: layoutOpts,
		logger:     logger,
		render:     renderFn,
		bus:        newSignalBus(),
	}
}

// Domain returns the live Domain graph. Domain is immutable, so the
// returned pointer is safe to read without holding Core's lock, but it
// may be swapped out from under a caller by the next committed Apply.
func (c *Core) Domain() *domain.Graph {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.g
}

// ViewState returns the live ViewState store, exposed by mutable
// reference for the drag subsystem and router callbacks per the
// design's shared-resource rules — all other writers must go through
// Apply.
func (c *Core) ViewState() *viewstate.ViewState {
	return c.vs
}

// Subscribe registers fn for every signal Core emits and returns an
// unsubscribe function.
func (c *Core) Subscribe(fn SignalFunc) func() {
	return c.bus.Subscribe(fn)
}

// Selected reports the current selection set.
func (c *Core) Selected() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	ids := make([]string, 0, len(c.selected))
	for id := range c.selected {
		ids = append(ids, id)
	}
	return ids
}

// Apply dispatches intent to completion: Domain mutation, then
// ViewState adjust/merge/clean, then exactly one render projection,
// observable on Core's shared refs once Apply returns. Concurrent Apply
// calls are serialized by c.mu, the Go translation of the design's
// single-threaded cooperative scheduling model into a host language
// with real goroutines.
func (c *Core) Apply(ctx context.Context, intent EditIntent) error {
	intentType := fmt.Sprintf("%T", intent)
	ctx, span := tracer.Start(ctx, "orchestrator.apply", oteltrace.WithAttributes(
		attribute.String("intent.type", intentType),
	))
	defer span.End()

	start := time.Now()
	outcome := "ok"
	defer func() {
		attrs := metric.WithAttributes(
			attribute.String("intent.type", intentType),
			attribute.String("outcome", outcome),
		)
		applyCount.Add(ctx, 1, attrs)
		applyDuration.Record(ctx, float64(time.Since(start).Microseconds())/1000, attrs)
	}()

	c.mu.Lock()
	defer c.mu.Unlock()

	var err error
	switch it := intent.(type) {
	case GeoOnly:
		c.applyGeoOnly(it)
	case AddNode:
		err = c.applyAddNode(it)
	case DeleteNode:
		err = c.applyDeleteNode(it)
	case DeleteEdge:
		err = c.applyDeleteEdge(it)
	case MoveNode:
		err = c.applyMoveNode(it)
	case AddEdge:
		err = c.applyAddEdge(it)
	case GroupNodes:
		err = c.applyGroupNodes(it)
	case UngroupNodes:
		err = c.applyUngroupNodes(it)
	case Select:
		c.applySelect(it, true)
	case Deselect:
		c.applySelect(Select(it), false)
	case UnlockScopeToFree:
		c.applyUnlockScopeToFree(it)
	case LockScopeAndDescendants:
		c.applyLockScopeAndDescendants(it)
	case Arrange:
		err = c.applyArrange(ctx, it)
	default:
		err = &InvalidIntentError{Reason: fmt.Sprintf("unknown intent type %T", intent)}
	}

	if err != nil && !isHarmless(err) {
		span.SetStatus(codes.Error, err.Error())
		outcome = "error"
		return err
	}
	if err != nil {
		c.logger.Warn("swallowed harmless error", "error", err)
		outcome = "harmless_error"
	}

	c.reproject()
	return nil
}

func (c *Core) applyGeoOnly(it GeoOnly) {
	if it.IsGroup {
		c.vs.SetGroup(it.ID, viewstate.GroupGeometry{X: it.Rect.X, Y: it.Rect.Y, W: it.Rect.W, H: it.Rect.H})
		return
	}
	geo, _ := c.vs.GetNode(it.ID)
	geo.X, geo.Y, geo.W, geo.H = it.Rect.X, it.Rect.Y, it.Rect.W, it.Rect.H
	c.vs.SetNode(it.ID, geo)
}

func (c *Core) applyAddNode(it AddNode) error {
	if it.ID == "" {
		return &InvalidIntentError{Reason: "add-node: empty id"}
	}
	if !it.PositionSet {
		return &InvalidIntentError{Reason: "add-node: missing position"}
	}
	w, h := it.Size.W, it.Size.H
	if w == 0 {
		w = c.layoutCfg.DefaultNodeW
	}
	if h == 0 {
		h = c.layoutCfg.DefaultNodeH
	}
	if it.IsGroup {
		if w == c.layoutCfg.DefaultNodeW {
			w = c.layoutCfg.DefaultGroupW
		}
		if h == c.layoutCfg.DefaultNodeH {
			h = c.layoutCfg.DefaultGroupH
		}
		c.vs.SetGroup(it.ID, viewstate.GroupGeometry{X: it.Position.X, Y: it.Position.Y, W: w, H: h})
	}
	c.vs.SetNode(it.ID, viewstate.NodeGeometry{X: it.Position.X, Y: it.Position.Y, W: w, H: h})

	next, err := domain.AddNode(c.g, it.ID, it.ParentID, domain.NodeData{IsGroup: it.IsGroup})
	if err != nil {
		c.vs.DeleteNode(it.ID)
		c.vs.DeleteGroup(it.ID)
		return err
	}
	c.g = next
	c.vs = viewstate.Clean(c.g, c.vs)
	return nil
}

func (c *Core) applyDeleteNode(it DeleteNode) error {
	next, err := domain.DeleteNode(c.g, it.ID)
	if err != nil {
		return err
	}
	c.g = next
	c.vs = viewstate.Clean(c.g, c.vs)
	return nil
}

func (c *Core) applyDeleteEdge(it DeleteEdge) error {
	next, err := domain.DeleteEdge(c.g, it.ID)
	c.g = next
	c.vs.DeleteEdge(it.ID)
	return err
}

func (c *Core) applyMoveNode(it MoveNode) error {
	next, err := domain.MoveNode(c.g, it.ID, it.NewParentID)
	if err != nil && !isHarmless(err) {
		return err
	}
	if err == nil {
		c.g = next
	}
	c.vs = viewstate.AdjustForReparent(c.vs, it.ID, "", it.NewParentID, c.groupWorld)
	return err
}

func (c *Core) applyAddEdge(it AddEdge) error {
	next, err := domain.AddEdge(c.g, it.ID, it.Source, it.Target, it.Data)
	if err != nil {
		return err
	}
	c.g = next
	c.vs.SetEdge(it.ID, viewstate.EdgeGeometry{SourceHandle: it.Data.SourceHandle, TargetHandle: it.Data.TargetHandle})
	return nil
}

func (c *Core) applyGroupNodes(it GroupNodes) error {
	next, err := domain.GroupNodes(c.g, it.IDs, it.ParentID, it.NewGroupID, it.Data)
	if err != nil {
		return err
	}
	c.g = next
	c.vs.SetGroup(it.NewGroupID, autoFitGroup(c.vs, it.IDs, c.layoutCfg))
	c.vs = viewstate.Clean(c.g, c.vs)
	return nil
}

func (c *Core) applyUngroupNodes(it UngroupNodes) error {
	next, err := domain.UngroupNodes(c.g, it.GroupID)
	if err != nil {
		return err
	}
	c.g = next
	c.vs = viewstate.Clean(c.g, c.vs)
	return nil
}

func (c *Core) applySelect(it Select, selected bool) {
	for _, id := range it.IDs {
		if selected {
			c.selected[id] = true
		} else {
			delete(c.selected, id)
		}
	}
}

func (c *Core) applyUnlockScopeToFree(it UnlockScopeToFree) {
	modehandlers.UnlockScopeToFree(it.ScopeGroupID, c.g, c.vs)
	c.bus.emit(Signal{Name: "routing-update"})
	c.bus.emit(Signal{Name: "viewstate-updated", NodeIDs: []string{it.ScopeGroupID}})
}

func (c *Core) applyLockScopeAndDescendants(it LockScopeAndDescendants) {
	modehandlers.LockScopeAndDescendants(it.ScopeGroupID, c.g, c.vs)
	c.bus.emit(Signal{Name: "routing-update"})
	c.bus.emit(Signal{Name: "viewstate-updated", NodeIDs: []string{it.ScopeGroupID}})
}

func (c *Core) applyArrange(ctx context.Context, it Arrange) error {
	cls := policy.ClassifyEdit(policy.OriginAgent, it.ScopeID, c.modeOf, c.parentOf)
	delta, err := layout.RunScopeLayout(ctx, cls.ResolvedScope, c.g, c.vs, c.engine, c.layoutOpts, c.layoutCfg)
	if err != nil {
		return err
	}
	delta.Merge(c.vs)
	// A hierarchically arranged scope becomes LOCK (a freshly created
	// scope starts FREE) — otherwise a later structural edit inside it never
	// re-triggers layout, since DecideLayout only fires under a LOCK
	// ancestor.
	modehandlers.LockScopeAndDescendants(cls.ResolvedScope, c.g, c.vs)
	c.vs = viewstate.Clean(c.g, c.vs)
	return nil
}

// Restore atomically replaces Domain and ViewState from snap, cleans
// ViewState against the restored graph, and projects one render with
// no hierarchical layout run — the restoration path never invokes the
// layout engine.
func (c *Core) Restore(snap persistence.Snapshot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	g, vs := persistence.Restore(snap)
	c.g = g
	c.vs = viewstate.Clean(c.g, vs)
	c.reproject()
}

// Capture builds a persistence.Snapshot of the live Domain and
// ViewState under scopeID, stamped with now.
func (c *Core) Capture(scopeID string, now func() int64) persistence.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return persistence.Snapshot{
		SchemaVersion: persistence.SnapshotSchemaVersion,
		Domain:        c.g.ToSerializable(),
		ViewState:     c.vs.ToSnapshot(),
		ScopeID:       scopeID,
		TimestampUnix: now(),
	}
}

func (c *Core) reproject() {
	if c.render == nil {
		return
	}
	c.render(render.Project(c.g, c.vs))
}

func (c *Core) modeOf(groupID string) bool {
	return c.vs.GetMode(groupID) == viewstate.ModeLock
}

func (c *Core) parentOf(groupID string) (string, bool) {
	return domain.FindParent(c.g, groupID)
}

func (c *Core) groupWorld(groupID string) geometry.Point {
	if groupID == "" {
		return geometry.Point{}
	}
	if geo, ok := c.vs.GetGroup(groupID); ok {
		return geometry.Point{X: geo.X, Y: geo.Y}
	}
	return geometry.Point{}
}

// autoFitGroup computes a bounding-box frame around memberIDs' current
// node geometry, padded by the configured container padding, for a
// freshly created Group that has no prior size of its own.
func autoFitGroup(vs *viewstate.ViewState, memberIDs []string, cfg layout.Config) viewstate.GroupGeometry {
	first := true
	var minX, minY, maxX, maxY float64
	for _, id := range memberIDs {
		geo, ok := vs.GetNode(id)
		if !ok {
			continue
		}
		if first {
			minX, minY, maxX, maxY = geo.X, geo.Y, geo.X+geo.W, geo.Y+geo.H
			first = false
			continue
		}
		if geo.X < minX {
			minX = geo.X
		}
		if geo.Y < minY {
			minY = geo.Y
		}
		if geo.X+geo.W > maxX {
			maxX = geo.X + geo.W
		}
		if geo.Y+geo.H > maxY {
			maxY = geo.Y + geo.H
		}
	}
	if first {
		return viewstate.GroupGeometry{W: cfg.DefaultGroupW, H: cfg.DefaultGroupH}
	}
	pad := cfg.ContainerPadding
	return viewstate.GroupGeometry{
		X: minX - pad,
		Y: minY - pad,
		W: (maxX - minX) + 2*pad,
		H: (maxY - minY) + 2*pad,
	}
}
