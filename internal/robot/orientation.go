package robot

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// UpAxis selects which world axis the model treats as "up" for display.
type UpAxis int

// Up-axis conventions.
const (
	ZUp UpAxis = iota
	XUp
	YUp
)

// String returns the axis name.
func (a UpAxis) String() string {
	switch a {
	case ZUp:
		return "Z"
	case XUp:
		return "X"
	case YUp:
		return "Y"
	default:
		return "unknown"
	}
}

// SetUpAxis resets the root rotation to identity and applies the single
// rigid rotation for the chosen convention. Joint values, normalization,
// and materials are untouched, so reapplying any axis is idempotent.
func (m *Model) SetUpAxis(a UpAxis) {
	m.Root.Rotation = mgl32.QuatIdent()
	switch a {
	case YUp:
		m.Root.Rotation = mgl32.QuatRotate(-gomath.Pi/2, mgl32.Vec3{1, 0, 0})
	case XUp:
		m.Root.Rotation = mgl32.QuatRotate(gomath.Pi/2, mgl32.Vec3{0, 0, 1})
	}
	m.upAxis = a
}

// UpAxis returns the currently applied convention.
func (m *Model) UpAxis() UpAxis {
	return m.upAxis
}
