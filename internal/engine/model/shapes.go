package model

import (
	gomath "math"
)

// Segment counts for curved primitives. Coarse enough to stay cheap, fine
// enough that silhouettes read as round.
const (
	cylinderSegments = 24
	sphereSegments   = 24
	sphereRings      = 16
)

// NewBox builds a box centered at the origin with the given full extents.
func NewBox(sx, sy, sz float32) *Mesh {
	hx, hy, hz := sx/2, sy/2, sz/2

	// Six faces, four vertices each, so every face keeps a flat normal.
	faces := [6]struct {
		normal [3]float32
		quad   [4][3]float32
	}{
		{[3]float32{1, 0, 0}, [4][3]float32{{hx, -hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {hx, -hy, hz}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-hx, -hy, hz}, {-hx, hy, hz}, {-hx, hy, -hz}, {-hx, -hy, -hz}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-hx, hy, -hz}, {-hx, hy, hz}, {hx, hy, hz}, {hx, hy, -hz}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-hx, -hy, hz}, {-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}}},
		{[3]float32{0, 0, 1}, [4][3]float32{{-hx, -hy, hz}, {hx, -hy, hz}, {hx, hy, hz}, {-hx, hy, hz}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{hx, -hy, -hz}, {-hx, -hy, -hz}, {-hx, hy, -hz}, {hx, hy, -hz}}},
	}

	m := &Mesh{}
	for _, face := range faces {
		base := uint32(len(m.Vertices))
		for _, pos := range face.quad {
			m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: face.normal})
		}
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}

	m.Groups = []Group{{StartIndex: 0, IndexCount: int32(len(m.Indices))}}
	m.computeBounds()
	return m
}

// NewCylinder builds a cylinder centered at the origin along the Z axis,
// matching the URDF cylinder convention.
func NewCylinder(radius, length float32) *Mesh {
	m := &Mesh{}
	hz := length / 2

	// Side wall: two rings of vertices with outward normals.
	for i := 0; i <= cylinderSegments; i++ {
		angle := 2 * gomath.Pi * float64(i) / cylinderSegments
		c := float32(gomath.Cos(angle))
		s := float32(gomath.Sin(angle))
		normal := [3]float32{c, s, 0}
		m.Vertices = append(m.Vertices,
			Vertex{Position: [3]float32{radius * c, radius * s, -hz}, Normal: normal},
			Vertex{Position: [3]float32{radius * c, radius * s, hz}, Normal: normal},
		)
	}
	for i := 0; i < cylinderSegments; i++ {
		base := uint32(i * 2)
		m.Indices = append(m.Indices,
			base, base+2, base+3,
			base, base+3, base+1,
		)
	}

	// Caps: a center vertex plus the ring, repeated with cap normals.
	for _, cap := range []struct {
		z      float32
		normal [3]float32
	}{{-hz, [3]float32{0, 0, -1}}, {hz, [3]float32{0, 0, 1}}} {
		center := uint32(len(m.Vertices))
		m.Vertices = append(m.Vertices, Vertex{Position: [3]float32{0, 0, cap.z}, Normal: cap.normal})
		for i := 0; i <= cylinderSegments; i++ {
			angle := 2 * gomath.Pi * float64(i) / cylinderSegments
			pos := [3]float32{radius * float32(gomath.Cos(angle)), radius * float32(gomath.Sin(angle)), cap.z}
			m.Vertices = append(m.Vertices, Vertex{Position: pos, Normal: cap.normal})
		}
		for i := 0; i < cylinderSegments; i++ {
			a := center + 1 + uint32(i)
			b := center + 2 + uint32(i)
			if cap.normal[2] > 0 {
				m.Indices = append(m.Indices, center, a, b)
			} else {
				m.Indices = append(m.Indices, center, b, a)
			}
		}
	}

	m.Groups = []Group{{StartIndex: 0, IndexCount: int32(len(m.Indices))}}
	m.computeBounds()
	return m
}

// NewSphere builds a latitude/longitude sphere centered at the origin.
func NewSphere(radius float32) *Mesh {
	m := &Mesh{}

	for ring := 0; ring <= sphereRings; ring++ {
		phi := gomath.Pi * float64(ring) / sphereRings
		z := float32(gomath.Cos(phi))
		r := float32(gomath.Sin(phi))
		for seg := 0; seg <= sphereSegments; seg++ {
			theta := 2 * gomath.Pi * float64(seg) / sphereSegments
			normal := [3]float32{r * float32(gomath.Cos(theta)), r * float32(gomath.Sin(theta)), z}
			m.Vertices = append(m.Vertices, Vertex{
				Position: [3]float32{radius * normal[0], radius * normal[1], radius * normal[2]},
				Normal:   normal,
			})
		}
	}

	stride := uint32(sphereSegments + 1)
	for ring := 0; ring < sphereRings; ring++ {
		for seg := 0; seg < sphereSegments; seg++ {
			a := uint32(ring)*stride + uint32(seg)
			b := a + stride
			m.Indices = append(m.Indices,
				a, b, a+1,
				a+1, b, b+1,
			)
		}
	}

	m.Groups = []Group{{StartIndex: 0, IndexCount: int32(len(m.Indices))}}
	m.computeBounds()
	return m
}
