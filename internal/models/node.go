// ABOUTME: NodeInfo is a sampled point on the road graph returned by the host oracle
// ABOUTME: Also defines the node flag and node type vocabularies used for filtering
package models

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// NodeFlags is a bit set describing a road node
type NodeFlags uint32

const (
	FlagNone       NodeFlags = 0
	FlagJunction   NodeFlags = 1 << 0
	FlagAlley      NodeFlags = 1 << 1
	FlagGravelRoad NodeFlags = 1 << 2
	FlagBackroad   NodeFlags = 1 << 3
	FlagOnWater    NodeFlags = 1 << 4
	// FlagMainRoad is set by oracles on nodes that belong to the main road
	// network; the main-road node types filter on it.
	FlagMainRoad NodeFlags = 1 << 5
)

var flagNames = []struct {
	flag NodeFlags
	name string
}{
	{FlagJunction, "junction"},
	{FlagAlley, "alley"},
	{FlagGravelRoad, "gravel"},
	{FlagBackroad, "backroad"},
	{FlagOnWater, "water"},
	{FlagMainRoad, "main"},
}

// Has reports whether every bit of f is set
func (n NodeFlags) Has(f NodeFlags) bool {
	return f != FlagNone && n&f == f
}

// Intersects reports whether any bit of f is set
func (n NodeFlags) Intersects(f NodeFlags) bool {
	return n&f != 0
}

func (n NodeFlags) String() string {
	if n == FlagNone {
		return "none"
	}
	var names []string
	for _, fn := range flagNames {
		if n&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return strings.Join(names, "|")
}

// Names returns the flag names set on n, in declaration order
func (n NodeFlags) Names() []string {
	names := []string{}
	for _, fn := range flagNames {
		if n&fn.flag != 0 {
			names = append(names, fn.name)
		}
	}
	return names
}

// ParseNodeFlags composes a flag set from names such as "junction" or "gravel".
// Unknown names are an error; "none" and empty strings are ignored.
func ParseNodeFlags(names ...string) (NodeFlags, error) {
	var flags NodeFlags
	for _, raw := range names {
		name := strings.ToLower(strings.TrimSpace(raw))
		if name == "" || name == "none" {
			continue
		}
		found := false
		for _, fn := range flagNames {
			if fn.name == name {
				flags |= fn.flag
				found = true
				break
			}
		}
		if !found {
			return FlagNone, fmt.Errorf("unknown node flag %q", raw)
		}
	}
	return flags, nil
}

// NodeType selects which road classification a node query is restricted to
type NodeType string

const (
	AllNodes               NodeType = "all"
	AllRoadNoJunctions     NodeType = "road"
	AllRoadWithJunctions   NodeType = "road-junctions"
	MainRoadsNoJunctions   NodeType = "main"
	MainRoadsWithJunctions NodeType = "main-junctions"
)

var nodeTypes = []NodeType{
	AllNodes,
	AllRoadNoJunctions,
	AllRoadWithJunctions,
	MainRoadsNoJunctions,
	MainRoadsWithJunctions,
}

// ParseNodeType resolves a node type name
func ParseNodeType(s string) (NodeType, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, t := range nodeTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown node type %q", s)
}

// Accepts reports whether a node carrying flags belongs to this node type.
// Oracles use it to restrict their nearest-node search.
func (t NodeType) Accepts(flags NodeFlags) bool {
	switch t {
	case AllNodes:
		return true
	case AllRoadWithJunctions:
		return !flags.Intersects(FlagOnWater)
	case AllRoadNoJunctions:
		return !flags.Intersects(FlagOnWater | FlagJunction)
	case MainRoadsWithJunctions:
		return flags.Has(FlagMainRoad) && !flags.Intersects(FlagOnWater)
	case MainRoadsNoJunctions:
		return flags.Has(FlagMainRoad) && !flags.Intersects(FlagOnWater|FlagJunction)
	}
	return false
}

// IncludesJunctions is true for the two with-junction variants
func (t NodeType) IncludesJunctions() bool {
	return t == AllRoadWithJunctions || t == MainRoadsWithJunctions
}

// WithoutJunctions maps a with-junction variant onto its junction-free
// counterpart. Other types are returned unchanged.
func (t NodeType) WithoutJunctions() NodeType {
	switch t {
	case AllRoadWithJunctions:
		return AllRoadNoJunctions
	case MainRoadsWithJunctions:
		return MainRoadsNoJunctions
	}
	return t
}

// NodeInfo is an immutable road node. Construct it with NewNodeInfo so the
// heading is normalized.
type NodeInfo struct {
	Position               Vector3   `json:"position"`
	Heading                float64   `json:"heading"`
	LanesSameDirection     int       `json:"lanes_same_direction"`
	LanesOppositeDirection int       `json:"lanes_opposite_direction"`
	Density                int       `json:"density"`
	Flags                  NodeFlags `json:"flags"`
}

// NewNodeInfo builds a node with a normalized heading
func NewNodeInfo(position Vector3, heading float64, lanesSame, lanesOpposite, density int, flags NodeFlags) NodeInfo {
	return NodeInfo{
		Position:               position,
		Heading:                NormalizeHeading(heading),
		LanesSameDirection:     lanesSame,
		LanesOppositeDirection: lanesOpposite,
		Density:                density,
		Flags:                  flags,
	}
}

// IsJunction reports whether the node is an intersection
func (n NodeInfo) IsJunction() bool {
	return n.Flags.Has(FlagJunction)
}

// NoNode is the answer of an oracle that holds no node of the requested
// type. It sits infinitely far away so any distance filter drops it; the
// zero NodeInfo stays a legitimate node at the origin.
func NoNode() NodeInfo {
	inf := math.Inf(1)
	return NodeInfo{Position: Vector3{X: inf, Y: inf, Z: inf}}
}

// Found is false for NoNode
func (n NodeInfo) Found() bool {
	p := n.Position
	return !math.IsInf(p.X, 0) && !math.IsInf(p.Y, 0) && !math.IsInf(p.Z, 0)
}

// TotalLanes returns the lane count in both directions
func (n NodeInfo) TotalLanes() int {
	return n.LanesSameDirection + n.LanesOppositeDirection
}

// WithHeading returns a copy facing heading; lanes and flags are preserved.
func (n NodeInfo) WithHeading(heading float64) NodeInfo {
	n.Heading = NormalizeHeading(heading)
	return n
}

// Reversed returns the node seen from the other direction of travel: the
// heading is turned around and the lane direction counts are swapped.
func (n NodeInfo) Reversed() NodeInfo {
	n.Heading = NormalizeHeading(n.Heading + 180)
	n.LanesSameDirection, n.LanesOppositeDirection = n.LanesOppositeDirection, n.LanesSameDirection
	return n
}

// Validate checks the node invariants
func (n NodeInfo) Validate() error {
	if n.Heading < 0 || n.Heading >= 360 {
		return fmt.Errorf("heading %.2f is not normalized", n.Heading)
	}
	if n.LanesSameDirection < 0 || n.LanesOppositeDirection < 0 {
		return errors.New("lane counts cannot be negative")
	}
	return nil
}

func (n NodeInfo) String() string {
	return fmt.Sprintf("node%s h=%.1f lanes=%d/%d flags=%s",
		n.Position, n.Heading, n.LanesSameDirection, n.LanesOppositeDirection, n.Flags)
}
