// ABOUTME: PathResult is the ordered node sequence produced by a road traversal
// ABOUTME: Carries distance covered and how the walk ended
package models

// PathResult is the outcome of walking the road graph along a heading.
// The last node is never a junction unless the walk was asked to stop at
// the first junction. Nodes may be empty when nothing was ever found.
type PathResult struct {
	Nodes          []NodeInfo `json:"nodes"`
	Distance       float64    `json:"distance"`
	FailedAttempts int        `json:"failed_attempts"`
	Aborted        bool       `json:"aborted"`
}

// Len returns the number of nodes on the path
func (p PathResult) Len() int {
	return len(p.Nodes)
}

// Empty is true when the traversal never accepted a node
func (p PathResult) Empty() bool {
	return len(p.Nodes) == 0
}

// Last returns the terminal node
func (p PathResult) Last() (NodeInfo, bool) {
	if len(p.Nodes) == 0 {
		return NodeInfo{}, false
	}
	return p.Nodes[len(p.Nodes)-1], true
}

// Contains reports whether a node at position was accepted on the path
func (p PathResult) Contains(position Vector3) bool {
	for _, n := range p.Nodes {
		if n.Position == position {
			return true
		}
	}
	return false
}
