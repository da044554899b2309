// ABOUTME: MCP tool definitions and registration for the roadblock server
// ABOUTME: Defines JSON schemas for the search, placement and lifecycle tools
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func pointProperties(extra map[string]interface{}) map[string]interface{} {
	props := map[string]interface{}{
		"x": map[string]interface{}{
			"type":        "number",
			"description": "World X coordinate",
		},
		"y": map[string]interface{}{
			"type":        "number",
			"description": "World Y coordinate",
		},
		"z": map[string]interface{}{
			"type":        "number",
			"description": "World Z coordinate (default: 0)",
			"default":     0,
		},
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

var (
	headingProperty = map[string]interface{}{
		"type":        "number",
		"description": "Heading in degrees, 0 = +Y, counter-clockwise",
		"default":     0,
	}
	nodeTypeProperty = map[string]interface{}{
		"type":        "string",
		"description": "Node classification to search (all, road, road-junctions, main, main-junctions)",
		"default":     "road-junctions",
	}
	blacklistProperty = map[string]interface{}{
		"type":        "array",
		"items":       map[string]interface{}{"type": "string"},
		"description": "Node flags to skip (junction, alley, gravel, backroad, water)",
	}
	idProperty = map[string]interface{}{
		"type":        "string",
		"description": "Roadblock ID or unique ID prefix",
	}
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, handlers *Handlers) {
	// 1. locate_nodes - spiral search around a point
	server.AddTool(mcp.Tool{
		Name:        "locate_nodes",
		Description: "Find every road node within a radius of a point using an expanding ring search.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: pointProperties(map[string]interface{}{
				"radius": map[string]interface{}{
					"type":        "number",
					"description": "Search radius in world units (default: 10)",
					"default":     10,
				},
				"node_type": nodeTypeProperty,
			}),
			Required: []string{"x", "y"},
		},
	}, handlers.LocateNodes)

	// 2. traverse_road - walk the road graph along a heading
	server.AddTool(mcp.Tool{
		Name:        "traverse_road",
		Description: "Walk the road network from a point along a heading and return the ordered path of nodes.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: pointProperties(map[string]interface{}{
				"heading": headingProperty,
				"distance": map[string]interface{}{
					"type":        "number",
					"description": "Distance to cover (default: 50)",
					"default":     50,
				},
				"node_type": nodeTypeProperty,
				"blacklist": blacklistProperty,
				"stop_at_junction": map[string]interface{}{
					"type":        "boolean",
					"description": "Stop at the first junction reached",
					"default":     false,
				},
			}),
			Required: []string{"x", "y"},
		},
	}, handlers.TraverseRoad)

	// 3. place_roadblock - assemble and spawn a roadblock ahead
	server.AddTool(mcp.Tool{
		Name:        "place_roadblock",
		Description: "Place a roadblock on the road a given distance ahead of a point. The tier selects vehicles, barriers and lights.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: pointProperties(map[string]interface{}{
				"heading": headingProperty,
				"distance": map[string]interface{}{
					"type":        "number",
					"description": "Distance ahead to place the roadblock (default: 100)",
					"default":     100,
				},
				"tier": map[string]interface{}{
					"type":        "string",
					"description": "Tier name (local, state, federal, swat, closure or a catalog tier)",
				},
				"node_type": nodeTypeProperty,
				"blacklist": blacklistProperty,
			}),
			Required: []string{"x", "y"},
		},
	}, handlers.PlaceRoadblock)

	// 4. close_road - close the road under a point
	server.AddTool(mcp.Tool{
		Name:        "close_road",
		Description: "Close the road at a point with cones and lights across every lane.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: pointProperties(map[string]interface{}{
				"heading": headingProperty,
			}),
			Required: []string{"x", "y"},
		},
	}, handlers.CloseRoad)

	// 5. list_roadblocks
	server.AddTool(mcp.Tool{
		Name:        "list_roadblocks",
		Description: "List every roadblock placed through this server with its state and slots.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListRoadblocks)

	// 6. report_roadblock - external outcome
	server.AddTool(mcp.Tool{
		Name:        "report_roadblock",
		Description: "Report what happened at an active roadblock: bypassed, hit, or cop_killed for one of its occupants.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": idProperty,
				"outcome": map[string]interface{}{
					"type":        "string",
					"enum":        []string{"bypassed", "hit", "cop_killed"},
					"description": "What happened",
				},
				"handle": map[string]interface{}{
					"type":        "string",
					"description": "Occupant handle, required for cop_killed",
				},
			},
			Required: []string{"id", "outcome"},
		},
	}, handlers.ReportRoadblock)

	// 7. release_roadblock
	server.AddTool(mcp.Tool{
		Name:        "release_roadblock",
		Description: "Hand an active roadblock's vehicles and occupants back to the host, and its props too with release_all.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": idProperty,
				"release_all": map[string]interface{}{
					"type":        "boolean",
					"description": "Also release barriers and lights",
					"default":     false,
				},
			},
			Required: []string{"id"},
		},
	}, handlers.ReleaseRoadblock)

	// 8. dispose_roadblock
	server.AddTool(mcp.Tool{
		Name:        "dispose_roadblock",
		Description: "Dispose a roadblock, deleting every entity it still owns.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": idProperty,
			},
			Required: []string{"id"},
		},
	}, handlers.DisposeRoadblock)
}
