// ABOUTME: MCP tool handler implementations for the roadblock server
// ABOUTME: Wraps the search engine and assembler and tracks placed roadblocks
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"

	"github.com/harper/roadblock/internal/core"
	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/roadblock"
)

// Registry tracks the roadblocks placed through the server
type Registry struct {
	mu    sync.Mutex
	items map[string]*roadblock.Roadblock
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{items: make(map[string]*roadblock.Roadblock)}
}

// Add registers rb
func (r *Registry) Add(rb *roadblock.Roadblock) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[rb.ID()] = rb
}

// Get finds a roadblock by ID or unique ID prefix
func (r *Registry) Get(id string) (*roadblock.Roadblock, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rb, ok := r.items[id]; ok {
		return rb, nil
	}
	var found *roadblock.Roadblock
	for key, rb := range r.items {
		if id != "" && strings.HasPrefix(key, id) {
			if found != nil {
				return nil, fmt.Errorf("roadblock id %q is ambiguous", id)
			}
			found = rb
		}
	}
	if found == nil {
		return nil, fmt.Errorf("roadblock %q not found", id)
	}
	return found, nil
}

// All returns every roadblock ordered by creation time
func (r *Registry) All() []*roadblock.Roadblock {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*roadblock.Roadblock, 0, len(r.items))
	for _, rb := range r.items {
		out = append(out, rb)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Summary(), out[j].Summary()
		if a.CreatedAt.Equal(b.CreatedAt) {
			return a.ID < b.ID
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})
	return out
}

// Remove drops a roadblock from the registry
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, id)
}

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	engine      *core.Engine
	assembler   *roadblock.Assembler
	tiersMu     sync.RWMutex
	tiers       roadblock.Catalog
	defaultTier string
	registry    *Registry
	logger      *log.Logger
}

// NewHandlers creates the tool handlers
func NewHandlers(engine *core.Engine, assembler *roadblock.Assembler, tiers roadblock.Catalog, defaultTier string, logger *log.Logger) *Handlers {
	if defaultTier == "" {
		defaultTier = "local"
	}
	return &Handlers{
		engine:      engine,
		assembler:   assembler,
		tiers:       tiers,
		defaultTier: defaultTier,
		registry:    NewRegistry(),
		logger:      logging.Component(logger, "mcp"),
	}
}

// Registry exposes the placed roadblocks
func (h *Handlers) Registry() *Registry {
	return h.registry
}

func position(request mcp.CallToolRequest) (models.Vector3, error) {
	x, err := request.RequireFloat("x")
	if err != nil {
		return models.Vector3{}, err
	}
	y, err := request.RequireFloat("y")
	if err != nil {
		return models.Vector3{}, err
	}
	return models.Vector3{X: x, Y: y, Z: request.GetFloat("z", 0)}, nil
}

func nodeType(request mcp.CallToolRequest) (models.NodeType, error) {
	return models.ParseNodeType(request.GetString("node_type", string(roadblock.DefaultNodeType)))
}

func blacklist(request mcp.CallToolRequest) (models.NodeFlags, error) {
	args, ok := request.Params.Arguments.(map[string]any)
	if !ok {
		return models.FlagNone, nil
	}
	raw, exists := args["blacklist"]
	if !exists {
		return models.FlagNone, nil
	}
	switch v := raw.(type) {
	case string:
		return models.ParseNodeFlags(strings.Split(v, ",")...)
	case []interface{}:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return models.ParseNodeFlags(names...)
	}
	return models.FlagNone, fmt.Errorf("blacklist must be a list of flag names")
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// LocateNodes handles the locate_nodes tool
func (h *Handlers) LocateNodes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	center, err := position(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nt, err := nodeType(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	radius := request.GetFloat("radius", core.DefaultMatchRadius)
	if radius <= 0 {
		return mcp.NewToolResultError("radius must be positive"), nil
	}

	nodes := h.engine.Locate(center, nt, radius)
	return jsonResult(map[string]any{
		"center": center,
		"radius": radius,
		"count":  len(nodes),
		"nodes":  nodes,
	})
}

// TraverseRoad handles the traverse_road tool
func (h *Handlers) TraverseRoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	start, err := position(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nt, err := nodeType(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flags, err := blacklist(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	path := h.engine.Traverse(core.TraverseRequest{
		Start:               start,
		Heading:             request.GetFloat("heading", 0),
		Distance:            request.GetFloat("distance", 50),
		NodeType:            nt,
		Blacklist:           flags,
		StopAtFirstJunction: request.GetBool("stop_at_junction", false),
	})
	return jsonResult(path)
}

func (h *Handlers) tier(name string) (roadblock.Tier, error) {
	if name == "" {
		name = h.defaultTier
	}
	h.tiersMu.RLock()
	defer h.tiersMu.RUnlock()
	return h.tiers.Lookup(name)
}

// SetTiers swaps the tier catalog used by later placements
func (h *Handlers) SetTiers(tiers roadblock.Catalog) {
	h.tiersMu.Lock()
	h.tiers = tiers
	h.tiersMu.Unlock()
	h.logger.Info("tier catalog replaced", "tiers", len(tiers))
}

// spawnAndRegister spawns rb and keeps it even when spawning failed so the
// caller can inspect and dispose it.
func (h *Handlers) spawnAndRegister(rb *roadblock.Roadblock) (*mcp.CallToolResult, error) {
	spawned := rb.Spawn()
	h.registry.Add(rb)
	if !spawned {
		h.logger.Warn("roadblock failed to spawn", "id", rb.ID())
	}
	return jsonResult(map[string]any{
		"spawned":   spawned,
		"roadblock": rb.Summary(),
	})
}

// PlaceRoadblock handles the place_roadblock tool
func (h *Handlers) PlaceRoadblock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := position(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	tier, err := h.tier(request.GetString("tier", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	nt, err := nodeType(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	flags, err := blacklist(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	rb, err := h.assembler.Assemble(roadblock.Request{
		Position:  pos,
		Heading:   request.GetFloat("heading", 0),
		Distance:  request.GetFloat("distance", 100),
		Tier:      tier,
		NodeType:  nt,
		Blacklist: flags,
	})
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to place roadblock: %v", err)), nil
	}
	return h.spawnAndRegister(rb)
}

// CloseRoad handles the close_road tool
func (h *Handlers) CloseRoad(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pos, err := position(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rb, err := h.assembler.CloseRoad(pos, request.GetFloat("heading", 0))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to close road: %v", err)), nil
	}
	return h.spawnAndRegister(rb)
}

// ListRoadblocks handles the list_roadblocks tool
func (h *Handlers) ListRoadblocks(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	all := h.registry.All()
	summaries := make([]roadblock.Summary, 0, len(all))
	for _, rb := range all {
		summaries = append(summaries, rb.Summary())
	}
	return jsonResult(map[string]any{
		"count":      len(summaries),
		"roadblocks": summaries,
	})
}

// ReportRoadblock handles the report_roadblock tool
func (h *Handlers) ReportRoadblock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	outcome, err := request.RequireString("outcome")
	if err != nil {
		return mcp.NewToolResultError("outcome argument is required and must be a string"), nil
	}
	rb, err := h.registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var accepted bool
	switch outcome {
	case "bypassed":
		accepted = rb.MarkBypassed()
	case "hit":
		accepted = rb.MarkHit()
	case "cop_killed":
		handle := request.GetString("handle", "")
		if handle == "" {
			return mcp.NewToolResultError("handle is required for cop_killed"), nil
		}
		accepted = rb.ReportCopKilled(roadblock.EntityHandle(handle))
	default:
		return mcp.NewToolResultError(fmt.Sprintf("unknown outcome %q (want bypassed, hit or cop_killed)", outcome)), nil
	}

	return jsonResult(map[string]any{
		"accepted":  accepted,
		"roadblock": rb.Summary(),
	})
}

// ReleaseRoadblock handles the release_roadblock tool
func (h *Handlers) ReleaseRoadblock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	rb, err := h.registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	released := rb.Release(request.GetBool("release_all", false))
	return jsonResult(map[string]any{
		"released":  released,
		"roadblock": rb.Summary(),
	})
}

// DisposeRoadblock handles the dispose_roadblock tool
func (h *Handlers) DisposeRoadblock(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}
	rb, err := h.registry.Get(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rb.Dispose()
	h.registry.Remove(rb.ID())
	return jsonResult(map[string]any{
		"disposed":  true,
		"roadblock": rb.Summary(),
	})
}

// Shutdown disposes every roadblock still registered
func (h *Handlers) Shutdown() {
	all := h.registry.All()
	if len(all) > 0 {
		h.logger.Info("disposing roadblocks", "count", len(all))
	}
	for _, rb := range all {
		rb.Dispose()
		h.registry.Remove(rb.ID())
	}
}
