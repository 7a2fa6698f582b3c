// Package camera provides the orbit camera the viewer renders and picks
// through.
package camera

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// Orbit orbits around a center point, sized for the normalized model volume.
type Orbit struct {
	Center mgl32.Vec3

	// Spherical coordinates
	Distance float32
	Pitch    float32 // vertical angle, radians
	Yaw      float32 // horizontal angle, radians

	// Constraints
	MinDistance float32
	MaxDistance float32
	MinPitch    float32
	MaxPitch    float32

	// Sensitivity
	DragSensitivity float32
	ZoomSensitivity float32

	// Projection
	FOV  float32
	Near float32
	Far  float32

	aspect float32
}

// NewOrbit creates an orbit camera framing the canonical viewing volume.
func NewOrbit(aspect float32) *Orbit {
	return &Orbit{
		Distance:        20,
		Pitch:           0.5,
		MinDistance:     2,
		MaxDistance:     200,
		MinPitch:        -1.5,
		MaxPitch:        1.5,
		DragSensitivity: 0.005,
		ZoomSensitivity: 0.1,
		FOV:             gomath.Pi / 4,
		Near:            0.1,
		Far:             1000,
		aspect:          aspect,
	}
}

// SetAspect updates the projection aspect ratio on resize.
func (c *Orbit) SetAspect(aspect float32) {
	c.aspect = aspect
}

// Position returns the camera position in world space.
func (c *Orbit) Position() mgl32.Vec3 {
	cosP := float32(gomath.Cos(float64(c.Pitch)))
	offset := mgl32.Vec3{
		c.Distance * cosP * float32(gomath.Sin(float64(c.Yaw))),
		c.Distance * float32(gomath.Sin(float64(c.Pitch))),
		c.Distance * cosP * float32(gomath.Cos(float64(c.Yaw))),
	}
	return c.Center.Add(offset)
}

// ViewMatrix returns the view matrix.
func (c *Orbit) ViewMatrix() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Center, mgl32.Vec3{0, 1, 0})
}

// ProjectionMatrix returns the perspective projection matrix.
func (c *Orbit) ProjectionMatrix() mgl32.Mat4 {
	return mgl32.Perspective(c.FOV, c.aspect, c.Near, c.Far)
}

// ViewProjection returns projection * view.
func (c *Orbit) ViewProjection() mgl32.Mat4 {
	return c.ProjectionMatrix().Mul4(c.ViewMatrix())
}

// InverseViewProjection returns the inverse used to unproject pointer
// positions into world-space rays.
func (c *Orbit) InverseViewProjection() mgl32.Mat4 {
	return c.ViewProjection().Inv()
}

// HandleDrag updates yaw and pitch from a pointer drag delta.
func (c *Orbit) HandleDrag(deltaX, deltaY float32) {
	c.Yaw -= deltaX * c.DragSensitivity
	c.Pitch += deltaY * c.DragSensitivity

	if c.Pitch < c.MinPitch {
		c.Pitch = c.MinPitch
	}
	if c.Pitch > c.MaxPitch {
		c.Pitch = c.MaxPitch
	}
}

// HandleZoom updates distance from a scroll wheel delta.
func (c *Orbit) HandleZoom(delta float32) {
	c.Distance -= delta * c.Distance * c.ZoomSensitivity
	if c.Distance < c.MinDistance {
		c.Distance = c.MinDistance
	}
	if c.Distance > c.MaxDistance {
		c.Distance = c.MaxDistance
	}
}
