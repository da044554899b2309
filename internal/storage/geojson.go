// ABOUTME: GeoJSON and bounding-box views of a road network
// ABOUTME: Nodes become point features on the world X/Y plane for map tooling
package storage

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Bounds returns the X/Y box covering every node
func (n *Network) Bounds() orb.Bound {
	points := make(orb.MultiPoint, 0, len(n.Nodes))
	for _, r := range n.Nodes {
		points = append(points, orb.Point{r.X, r.Y})
	}
	return points.Bound()
}

// FeatureCollection converts the nodes to point features carrying the
// remaining node fields as properties
func (n *Network) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range n.Nodes {
		f := geojson.NewFeature(orb.Point{r.X, r.Y})
		f.Properties["z"] = r.Z
		f.Properties["heading"] = r.Heading
		f.Properties["lanes_same"] = r.LanesSame
		f.Properties["lanes_opposite"] = r.LanesOpposite
		if r.Density != 0 {
			f.Properties["density"] = r.Density
		}
		if len(r.Flags) > 0 {
			f.Properties["flags"] = r.Flags
		}
		fc.Append(f)
	}
	return fc
}

// GeoJSON marshals FeatureCollection
func (n *Network) GeoJSON() ([]byte, error) {
	data, err := n.FeatureCollection().MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geojson: %w", err)
	}
	return data, nil
}
