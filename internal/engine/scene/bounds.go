package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box in whatever space it was computed in.
type AABB struct {
	Min   mgl32.Vec3
	Max   mgl32.Vec3
	Valid bool
}

// Union expands the box to include another box.
func (b AABB) Union(other AABB) AABB {
	if !other.Valid {
		return b
	}
	if !b.Valid {
		return other
	}
	for i := 0; i < 3; i++ {
		if other.Min[i] < b.Min[i] {
			b.Min[i] = other.Min[i]
		}
		if other.Max[i] > b.Max[i] {
			b.Max[i] = other.Max[i]
		}
	}
	return b
}

// AddPoint expands the box to include a point.
func (b AABB) AddPoint(p mgl32.Vec3) AABB {
	if !b.Valid {
		return AABB{Min: p, Max: p, Valid: true}
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] {
			b.Min[i] = p[i]
		}
		if p[i] > b.Max[i] {
			b.Max[i] = p[i]
		}
	}
	return b
}

// Center returns the box midpoint.
func (b AABB) Center() mgl32.Vec3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// Size returns the box extent on each axis.
func (b AABB) Size() mgl32.Vec3 {
	return b.Max.Sub(b.Min)
}

// MaxExtent returns the largest extent over the three axes.
func (b AABB) MaxExtent() float32 {
	size := b.Size()
	return float32(math.Max(float64(size.X()), math.Max(float64(size.Y()), float64(size.Z()))))
}

// Contains reports whether a point lies inside the box (inclusive).
func (b AABB) Contains(p mgl32.Vec3) bool {
	if !b.Valid {
		return false
	}
	for i := 0; i < 3; i++ {
		if p[i] < b.Min[i] || p[i] > b.Max[i] {
			return false
		}
	}
	return true
}

// WorldBounds returns the axis-aligned bounds of all renderable geometry in
// the subtree rooted at n, in world space.
func WorldBounds(n *Node) AABB {
	var box AABB
	n.Walk(func(node *Node) {
		if !node.Renderable() {
			return
		}
		box = box.Union(NodeBounds(node))
	})
	return box
}

// NodeBounds returns the world-space bounds of a single node's mesh by
// transforming its local bounding box corners.
func NodeBounds(n *Node) AABB {
	if n.Mesh == nil || n.Mesh.Empty() {
		return AABB{}
	}
	world := n.WorldMatrix()
	local := n.Mesh.Bounds

	var box AABB
	for i := 0; i < 8; i++ {
		corner := mgl32.Vec3{local.Min[0], local.Min[1], local.Min[2]}
		if i&1 != 0 {
			corner[0] = local.Max[0]
		}
		if i&2 != 0 {
			corner[1] = local.Max[1]
		}
		if i&4 != 0 {
			corner[2] = local.Max[2]
		}
		box = box.AddPoint(mgl32.TransformCoordinate(corner, world))
	}
	return box
}
