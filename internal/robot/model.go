// Package robot loads URDF robot descriptions into the scene graph and
// manages their kinematic state: joint values, the presentation-facing
// control list, and the model's up-axis orientation.
package robot

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/scene"
)

// JointControl is the UI-facing snapshot of one movable joint. The list is
// sorted by name at load time and keeps that order; only Value changes.
type JointControl struct {
	Name  string
	Min   float64
	Max   float64
	Value float64
}

// Model is a loaded robot: the scene graph plus the kinematic state built
// over it. A Model belongs to the session that loaded it and is discarded,
// never rebuilt, when a new description loads.
type Model struct {
	// Root carries only the up-axis rotation. Scale and centering live on a
	// child group so orientation changes never disturb normalization.
	Root *scene.Node

	name      string
	normalize *scene.Node
	joints    map[string]*scene.Node
	controls  []JointControl
	links     []*scene.Node
	upAxis    UpAxis
	startPose bool
}

// Name returns the robot name from the description.
func (m *Model) Name() string {
	return m.name
}

// Controls returns the joint control list, sorted by joint name. The slice
// is owned by the model; entries update in place as values change.
func (m *Model) Controls() []JointControl {
	return m.controls
}

// AtStartPosition reports whether every joint still holds its initial
// midpoint value.
func (m *Model) AtStartPosition() bool {
	return m.startPose
}

// ControlFor returns the control entry for a joint name.
func (m *Model) ControlFor(name string) (JointControl, bool) {
	for _, c := range m.controls {
		if c.Name == name {
			return c, true
		}
	}
	return JointControl{}, false
}

// SetJointValue drives one joint. Out-of-range values are silently clamped
// to the joint's limits; the pose transform and the control entry update
// together and the model leaves its start position.
func (m *Model) SetJointValue(name string, value float64) error {
	node, ok := m.joints[name]
	if !ok {
		return fmt.Errorf("unknown joint %q", name)
	}

	for i := range m.controls {
		if m.controls[i].Name != name {
			continue
		}
		if value < m.controls[i].Min {
			value = m.controls[i].Min
		}
		if value > m.controls[i].Max {
			value = m.controls[i].Max
		}
		m.controls[i].Value = value
		break
	}

	applyJointPose(node, value)
	m.startPose = false
	return nil
}

// ResetAll returns every joint to its midpoint value, the same pose the
// model loaded in, and restores the start-position flag.
func (m *Model) ResetAll() {
	for i := range m.controls {
		midpoint := (m.controls[i].Min + m.controls[i].Max) / 2
		m.controls[i].Value = midpoint
		applyJointPose(m.joints[m.controls[i].Name], midpoint)
	}
	m.startPose = true
}

// applyJointPose composes the joint's fixed origin transform with the driven
// value: a rotation about the joint axis for revolute joints, a translation
// along it for prismatic ones.
func applyJointPose(n *scene.Node, value float64) {
	j := n.Joint
	switch j.Type {
	case scene.JointRevolute, scene.JointContinuous:
		n.Position = j.OriginPos
		n.Rotation = j.OriginRot.Mul(mgl32.QuatRotate(float32(value), j.Axis))
	case scene.JointPrismatic:
		n.Position = j.OriginPos.Add(j.OriginRot.Rotate(j.Axis.Mul(float32(value))))
		n.Rotation = j.OriginRot
	default:
		n.Position = j.OriginPos
		n.Rotation = j.OriginRot
	}
}
