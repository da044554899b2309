// ABOUTME: NodeOracle is the host capability the search engine is built on
// ABOUTME: "Find the nearest node of type T near point P", always answering with a node
package core

import (
	"github.com/harper/roadblock/internal/metrics"
	"github.com/harper/roadblock/internal/models"
)

// NodeOracle answers nearest-node queries. It is total: it always returns a
// node, possibly a duplicate or one far from position when the area is
// sparse, so callers must distance-filter what they get back. An oracle with
// nothing of the requested type answers models.NoNode().
type NodeOracle interface {
	FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo
}

// OracleFunc adapts a function to NodeOracle
type OracleFunc func(position models.Vector3, nodeType models.NodeType) models.NodeInfo

// FindNearestNode calls f
func (f OracleFunc) FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo {
	return f(position, nodeType)
}

// countingOracle records every query in the oracle metrics
type countingOracle struct {
	inner NodeOracle
}

func (c countingOracle) FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo {
	metrics.OracleQueries.Inc()
	return c.inner.FindNearestNode(position, nodeType)
}
