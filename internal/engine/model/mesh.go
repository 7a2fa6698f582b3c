// Package model provides the triangle mesh representation used by the scene
// graph and renderer, plus builders for decoded STL data and URDF primitive
// shapes.
package model

import (
	gomath "math"

	"github.com/armlab/robotview/pkg/stl"
)

// Vertex is a mesh vertex with position, normal, and texture coordinates.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	TexCoord [2]float32
}

// Group is a contiguous index range drawn with one material. Meshes with a
// single group use a scene node's scalar material; multi-group meshes pair
// one material per group.
type Group struct {
	StartIndex int32
	IndexCount int32
}

// Bounds is the local-space axis-aligned bounding box of a mesh.
type Bounds struct {
	Min [3]float32
	Max [3]float32
}

// Mesh holds geometry ready for GPU upload.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
	Groups   []Group
	Bounds   Bounds
}

// Empty reports whether the mesh has no geometry. Empty meshes act as
// placeholders for assets that failed to resolve; they occupy the graph but
// draw nothing.
func (m *Mesh) Empty() bool {
	return m == nil || len(m.Indices) == 0
}

// NewEmpty returns a placeholder mesh with no geometry.
func NewEmpty() *Mesh {
	return &Mesh{}
}

// FromTriangles builds a mesh from decoded STL facets. Facets with a zero
// normal get a face normal computed from their winding.
func FromTriangles(triangles []stl.Triangle) *Mesh {
	m := &Mesh{
		Vertices: make([]Vertex, 0, len(triangles)*3),
		Indices:  make([]uint32, 0, len(triangles)*3),
	}

	for _, tri := range triangles {
		normal := tri.Normal
		if normal == ([3]float32{}) {
			normal = faceNormal(tri.Vertices)
		}
		for _, pos := range tri.Vertices {
			m.Indices = append(m.Indices, uint32(len(m.Vertices)))
			m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: normal})
		}
	}

	m.Groups = []Group{{StartIndex: 0, IndexCount: int32(len(m.Indices))}}
	m.computeBounds()
	return m
}

func faceNormal(v [3][3]float32) [3]float32 {
	ax := v[1][0] - v[0][0]
	ay := v[1][1] - v[0][1]
	az := v[1][2] - v[0][2]
	bx := v[2][0] - v[0][0]
	by := v[2][1] - v[0][1]
	bz := v[2][2] - v[0][2]

	nx := ay*bz - az*by
	ny := az*bx - ax*bz
	nz := ax*by - ay*bx

	length := float32(gomath.Sqrt(float64(nx*nx + ny*ny + nz*nz)))
	if length == 0 {
		return [3]float32{0, 0, 1}
	}
	return [3]float32{nx / length, ny / length, nz / length}
}

func (m *Mesh) computeBounds() {
	if len(m.Vertices) == 0 {
		m.Bounds = Bounds{}
		return
	}
	b := Bounds{Min: m.Vertices[0].Position, Max: m.Vertices[0].Position}
	for _, v := range m.Vertices[1:] {
		for i := 0; i < 3; i++ {
			if v.Position[i] < b.Min[i] {
				b.Min[i] = v.Position[i]
			}
			if v.Position[i] > b.Max[i] {
				b.Max[i] = v.Position[i]
			}
		}
	}
	m.Bounds = b
}
