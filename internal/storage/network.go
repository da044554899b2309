// ABOUTME: YAML road network files: the portable format for node graphs
// ABOUTME: Converts between file records and NodeInfo values
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/harper/roadblock/internal/models"
)

// NetworkVersion is the current network file format version
const NetworkVersion = "1.0"

// NodeRecord is one node as stored in a network file
type NodeRecord struct {
	X             float64  `yaml:"x" json:"x"`
	Y             float64  `yaml:"y" json:"y"`
	Z             float64  `yaml:"z" json:"z"`
	Heading       float64  `yaml:"heading" json:"heading"`
	LanesSame     int      `yaml:"lanes_same" json:"lanes_same"`
	LanesOpposite int      `yaml:"lanes_opposite" json:"lanes_opposite"`
	Density       int      `yaml:"density,omitempty" json:"density,omitempty"`
	Flags         []string `yaml:"flags,omitempty" json:"flags,omitempty"`
}

// Network is a named set of road nodes
type Network struct {
	Name       string       `yaml:"name" json:"name"`
	Version    string       `yaml:"version" json:"version"`
	ExportedAt string       `yaml:"exported_at,omitempty" json:"exported_at,omitempty"`
	Nodes      []NodeRecord `yaml:"nodes" json:"nodes"`
}

// RecordFromNode converts a node to its file record
func RecordFromNode(n models.NodeInfo) NodeRecord {
	r := NodeRecord{
		X:             n.Position.X,
		Y:             n.Position.Y,
		Z:             n.Position.Z,
		Heading:       n.Heading,
		LanesSame:     n.LanesSameDirection,
		LanesOpposite: n.LanesOppositeDirection,
		Density:       n.Density,
	}
	if n.Flags != models.FlagNone {
		r.Flags = n.Flags.Names()
	}
	return r
}

// Node converts the record to a NodeInfo
func (r NodeRecord) Node() (models.NodeInfo, error) {
	flags, err := models.ParseNodeFlags(r.Flags...)
	if err != nil {
		return models.NodeInfo{}, err
	}
	n := models.NewNodeInfo(models.Vector3{X: r.X, Y: r.Y, Z: r.Z}, r.Heading, r.LanesSame, r.LanesOpposite, r.Density, flags)
	if err := n.Validate(); err != nil {
		return models.NodeInfo{}, err
	}
	return n, nil
}

// NewNetwork builds a network from nodes
func NewNetwork(name string, nodes []models.NodeInfo) *Network {
	records := make([]NodeRecord, 0, len(nodes))
	for _, n := range nodes {
		records = append(records, RecordFromNode(n))
	}
	return &Network{Name: name, Version: NetworkVersion, Nodes: records}
}

// NodeInfos converts every record. The first invalid record aborts.
func (n *Network) NodeInfos() ([]models.NodeInfo, error) {
	nodes := make([]models.NodeInfo, 0, len(n.Nodes))
	for i, r := range n.Nodes {
		node, err := r.Node()
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", i, err)
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// Validate checks the network header and every node
func (n *Network) Validate() error {
	if n.Name == "" {
		return errors.New("network name cannot be empty")
	}
	if n.Version != "" && n.Version != NetworkVersion {
		return fmt.Errorf("unsupported network version %q", n.Version)
	}
	_, err := n.NodeInfos()
	return err
}

// ParseNetwork decodes and validates a YAML network
func ParseNetwork(data []byte) (*Network, error) {
	var n Network
	if err := yaml.Unmarshal(data, &n); err != nil {
		return nil, fmt.Errorf("failed to parse network: %w", err)
	}
	if err := n.Validate(); err != nil {
		return nil, fmt.Errorf("invalid network: %w", err)
	}
	if n.Version == "" {
		n.Version = NetworkVersion
	}
	return &n, nil
}

// LoadNetwork reads a YAML network file
func LoadNetwork(path string) (*Network, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read network file: %w", err)
	}
	return ParseNetwork(data)
}

// SaveNetwork writes a YAML network file, creating parent directories
func SaveNetwork(path string, n *Network) error {
	if n.ExportedAt == "" {
		n.ExportedAt = time.Now().UTC().Format(time.RFC3339)
	}
	data, err := yaml.Marshal(n)
	if err != nil {
		return fmt.Errorf("failed to marshal network: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write network file: %w", err)
	}
	return nil
}
