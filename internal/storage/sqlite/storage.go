// ABOUTME: Storage wraps the SQLite node store as a NodeOracle
// ABOUTME: Also imports and exports YAML road networks
package sqlite

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/roadblock/internal/logging"
	"github.com/harper/roadblock/internal/models"
	"github.com/harper/roadblock/internal/storage"
)

const metaNetworkName = "network_name"

// Storage is a SQLite-backed road network
type Storage struct {
	db     *DB
	nodes  *NodeStore
	logger *log.Logger
}

// NewStorage opens the network database at the default path
func NewStorage(logger *log.Logger) (*Storage, error) {
	return NewStorageWithPath(DefaultDBPath(), logger)
}

// NewStorageWithPath opens the network database at dbPath
func NewStorageWithPath(dbPath string, logger *log.Logger) (*Storage, error) {
	db, err := Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return newStorage(db, logger), nil
}

// NewStorageInMemory creates an in-memory network (for testing)
func NewStorageInMemory(logger *log.Logger) (*Storage, error) {
	db, err := OpenInMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	return newStorage(db, logger), nil
}

func newStorage(db *DB, logger *log.Logger) *Storage {
	return &Storage{db: db, nodes: NewNodeStore(db), logger: logging.Component(logger, "sqlite")}
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Nodes exposes the node store
func (s *Storage) Nodes() *NodeStore {
	return s.nodes
}

// FindNearestNode implements core.NodeOracle. Query errors are logged and
// reported as models.NoNode, which the locator treats as "nothing here".
func (s *Storage) FindNearestNode(position models.Vector3, nodeType models.NodeType) models.NodeInfo {
	node, ok, err := s.nodes.Nearest(position, nodeType)
	if err != nil {
		s.logger.Error("nearest node query failed", "position", position, "type", nodeType, "error", err)
		return models.NoNode()
	}
	if !ok {
		return models.NoNode()
	}
	return node
}

// Import replaces the stored network with n
func (s *Storage) Import(n *storage.Network) (int, error) {
	if err := n.Validate(); err != nil {
		return 0, fmt.Errorf("invalid network: %w", err)
	}
	nodes, err := n.NodeInfos()
	if err != nil {
		return 0, err
	}
	if err := s.nodes.DeleteAll(); err != nil {
		return 0, fmt.Errorf("failed to clear nodes: %w", err)
	}
	if err := s.nodes.SaveAll(nodes); err != nil {
		return 0, err
	}
	if err := s.db.SetMeta(metaNetworkName, n.Name); err != nil {
		return 0, err
	}
	count, err := s.nodes.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count nodes: %w", err)
	}
	s.logger.Info("network imported", "name", n.Name, "nodes", count)
	return count, nil
}

// Export reads the stored network back into the YAML model
func (s *Storage) Export() (*storage.Network, error) {
	name, err := s.db.Meta(metaNetworkName)
	if err != nil {
		return nil, err
	}
	if name == "" {
		name = "unnamed"
	}
	nodes, err := s.nodes.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list nodes: %w", err)
	}
	n := storage.NewNetwork(name, nodes)
	n.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	return n, nil
}

// Info summarizes what a network database holds
type Info struct {
	Path          string `json:"path"`
	SchemaVersion int    `json:"schema_version"`
	Network       string `json:"network"`
	Nodes         int    `json:"nodes"`
}

// Info reads the schema version, network name and node count
func (s *Storage) Info() (Info, error) {
	raw, err := s.db.Meta("schema_version")
	if err != nil {
		return Info{}, err
	}
	version, err := strconv.Atoi(raw)
	if err != nil {
		return Info{}, fmt.Errorf("invalid schema version %q: %w", raw, err)
	}
	name, err := s.db.Meta(metaNetworkName)
	if err != nil {
		return Info{}, err
	}
	count, err := s.nodes.Count()
	if err != nil {
		return Info{}, fmt.Errorf("failed to count nodes: %w", err)
	}
	return Info{Path: s.db.Path(), SchemaVersion: version, Network: name, Nodes: count}, nil
}
