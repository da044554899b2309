// ABOUTME: Node storage operations for SQLite
// ABOUTME: Inserts, windowed lookups and the nearest-node query behind the oracle
package sqlite

import (
	"database/sql"
	"fmt"
	"math"

	"github.com/harper/roadblock/internal/models"
)

// searchWindows are the half-widths tried, in order, by Nearest
var searchWindows = []float64{25, 100, 400}

// NodeStore handles node persistence
type NodeStore struct {
	db *DB
}

// NewNodeStore creates a new NodeStore
func NewNodeStore(db *DB) *NodeStore {
	return &NodeStore{db: db}
}

// Save inserts a node, replacing any node at the same position
func (s *NodeStore) Save(node models.NodeInfo) error {
	return saveNode(s.db.conn, node)
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func saveNode(e execer, node models.NodeInfo) error {
	_, err := e.Exec(`
		INSERT INTO nodes (x, y, z, heading, lanes_same, lanes_opposite, density, flags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(x, y, z) DO UPDATE SET
			heading = excluded.heading,
			lanes_same = excluded.lanes_same,
			lanes_opposite = excluded.lanes_opposite,
			density = excluded.density,
			flags = excluded.flags
	`, node.Position.X, node.Position.Y, node.Position.Z, node.Heading,
		node.LanesSameDirection, node.LanesOppositeDirection, node.Density, int64(node.Flags))
	return err
}

// SaveAll inserts nodes in one transaction
func (s *NodeStore) SaveAll(nodes []models.NodeInfo) error {
	tx, err := s.db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for i, n := range nodes {
		if err := saveNode(tx, n); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to save node %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit nodes: %w", err)
	}
	return nil
}

// Count returns the number of stored nodes
func (s *NodeStore) Count() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM nodes`).Scan(&n)
	return n, err
}

// DeleteAll removes every node
func (s *NodeStore) DeleteAll() error {
	_, err := s.db.conn.Exec(`DELETE FROM nodes`)
	return err
}

// All returns every node in insertion order
func (s *NodeStore) All() ([]models.NodeInfo, error) {
	return s.query(`
		SELECT x, y, z, heading, lanes_same, lanes_opposite, density, flags
		FROM nodes
		ORDER BY id
	`)
}

// Window returns nodes whose ground position lies within halfWidth of center
func (s *NodeStore) Window(center models.Vector3, halfWidth float64) ([]models.NodeInfo, error) {
	return s.query(`
		SELECT x, y, z, heading, lanes_same, lanes_opposite, density, flags
		FROM nodes
		WHERE x BETWEEN ? AND ? AND y BETWEEN ? AND ?
		ORDER BY id
	`, center.X-halfWidth, center.X+halfWidth, center.Y-halfWidth, center.Y+halfWidth)
}

func (s *NodeStore) query(q string, args ...any) ([]models.NodeInfo, error) {
	rows, err := s.db.conn.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var nodes []models.NodeInfo
	for rows.Next() {
		var (
			pos                   models.Vector3
			heading               float64
			same, opposite, dense int
			flags                 int64
		)
		if err := rows.Scan(&pos.X, &pos.Y, &pos.Z, &heading, &same, &opposite, &dense, &flags); err != nil {
			return nil, err
		}
		nodes = append(nodes, models.NewNodeInfo(pos, heading, same, opposite, dense, models.NodeFlags(flags)))
	}
	return nodes, rows.Err()
}

// Nearest returns the closest node of nodeType to position. ok is false
// when the store holds no such node.
func (s *NodeStore) Nearest(position models.Vector3, nodeType models.NodeType) (models.NodeInfo, bool, error) {
	for _, w := range searchWindows {
		nodes, err := s.Window(position, w)
		if err != nil {
			return models.NodeInfo{}, false, err
		}
		// anything outside the window is further than w on the ground
		if best, d, ok := nearest(nodes, position, nodeType); ok && d <= w {
			return best, true, nil
		}
	}

	nodes, err := s.All()
	if err != nil {
		return models.NodeInfo{}, false, err
	}
	best, _, ok := nearest(nodes, position, nodeType)
	return best, ok, nil
}

func nearest(nodes []models.NodeInfo, position models.Vector3, nodeType models.NodeType) (models.NodeInfo, float64, bool) {
	var (
		best     models.NodeInfo
		bestDist = math.Inf(1)
		found    bool
	)
	for _, n := range nodes {
		if !nodeType.Accepts(n.Flags) {
			continue
		}
		if d := n.Position.Distance(position); d < bestDist {
			best, bestDist, found = n, d, true
		}
	}
	return best, bestDist, found
}
