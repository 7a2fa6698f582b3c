// Package scene provides the typed scene graph the robot model is built
// into: links, joints, and collision shapes as an explicit tree with local
// transforms and materials.
package scene

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/model"
)

// Kind classifies a node. The set is closed; traversal rules switch on it
// instead of probing node capabilities at runtime.
type Kind int

// Node kinds.
const (
	KindGeneric Kind = iota
	KindLink
	KindJoint
	KindCollider
)

// String returns a human-readable kind name.
func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindLink:
		return "link"
	case KindJoint:
		return "joint"
	case KindCollider:
		return "collider"
	default:
		return "unknown"
	}
}

// JointType is the articulation type of a joint node.
type JointType int

// Joint types.
const (
	JointFixed JointType = iota
	JointRevolute
	JointContinuous
	JointPrismatic
)

// Movable reports whether the joint type has a drivable degree of freedom.
func (t JointType) Movable() bool {
	return t != JointFixed
}

// Joint holds the articulation data of a KindJoint node. The origin
// transform is the joint's fixed placement in its parent link; the driven
// value composes on top of it.
type Joint struct {
	Type      JointType
	Axis      mgl32.Vec3
	Lower     float64
	Upper     float64
	OriginPos mgl32.Vec3
	OriginRot mgl32.Quat
}

// Node is one element of the scene graph.
type Node struct {
	Name     string
	Kind     Kind
	Parent   *Node
	Children []*Node

	Position mgl32.Vec3
	Rotation mgl32.Quat
	Scale    mgl32.Vec3

	// Mesh and materials are set on renderable geometry nodes. A mesh with
	// texture groups carries one material per group in MaterialGroup;
	// single-group meshes use the scalar Material.
	Mesh          *model.Mesh
	Material      *Material
	MaterialGroup []*Material

	// Joint is set when Kind is KindJoint.
	Joint *Joint
}

// NewNode creates a node with identity transform.
func NewNode(name string, kind Kind) *Node {
	return &Node{
		Name:     name,
		Kind:     kind,
		Rotation: mgl32.QuatIdent(),
		Scale:    mgl32.Vec3{1, 1, 1},
	}
}

// AddChild attaches a child node, reparenting it if needed.
func (n *Node) AddChild(child *Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = n
	n.Children = append(n.Children, child)
}

// RemoveChild detaches a direct child.
func (n *Node) RemoveChild(child *Node) {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// LocalMatrix returns the node's transform relative to its parent,
// composed as translate * rotate * scale.
func (n *Node) LocalMatrix() mgl32.Mat4 {
	m := mgl32.Translate3D(n.Position.X(), n.Position.Y(), n.Position.Z())
	m = m.Mul4(n.Rotation.Mat4())
	m = m.Mul4(mgl32.Scale3D(n.Scale.X(), n.Scale.Y(), n.Scale.Z()))
	return m
}

// WorldMatrix returns the node's transform relative to the scene root.
func (n *Node) WorldMatrix() mgl32.Mat4 {
	if n.Parent == nil {
		return n.LocalMatrix()
	}
	return n.Parent.WorldMatrix().Mul4(n.LocalMatrix())
}

// Renderable reports whether the node contributes visible geometry.
// Collision shapes carry meshes but are never drawn or picked.
func (n *Node) Renderable() bool {
	return n.Mesh != nil && !n.Mesh.Empty() && n.Kind != KindCollider
}

// Walk visits the node and all descendants depth-first, pre-order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}

// Find returns the first descendant (including n) with the given name and
// kind, or nil.
func (n *Node) Find(name string, kind Kind) *Node {
	var found *Node
	n.Walk(func(node *Node) {
		if found == nil && node.Name == name && node.Kind == kind {
			found = node
		}
	})
	return found
}
