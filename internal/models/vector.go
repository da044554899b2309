// ABOUTME: Vector3 is the world-space coordinate used by nodes, lanes and slots
// ABOUTME: Value type with the handful of operations placement math needs
package models

import (
	"fmt"
	"math"
)

// Vector3 is a point or offset in world space. It is comparable and is used
// as the identity key for road nodes.
type Vector3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

// Add returns v + o
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Scale returns v * f
func (v Vector3) Scale(f float64) Vector3 {
	return Vector3{X: v.X * f, Y: v.Y * f, Z: v.Z * f}
}

// Distance returns the euclidean distance between v and o
func (v Vector3) Distance(o Vector3) float64 {
	d := v.Sub(o)
	return math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
}

// Distance2D ignores elevation
func (v Vector3) Distance2D(o Vector3) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// Raise returns v lifted by dz on the Z axis
func (v Vector3) Raise(dz float64) Vector3 {
	return Vector3{X: v.X, Y: v.Y, Z: v.Z + dz}
}

func (v Vector3) String() string {
	return fmt.Sprintf("(%.2f, %.2f, %.2f)", v.X, v.Y, v.Z)
}
