package robot

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/armlab/robotview/internal/assets"
	"github.com/armlab/robotview/internal/engine/model"
	"github.com/armlab/robotview/internal/engine/scene"
	"github.com/armlab/robotview/pkg/stl"
	"github.com/armlab/robotview/pkg/urdf"
)

// DefaultTargetSize is the canonical viewing volume extent models are scaled
// to fit.
const DefaultTargetSize = 10.0

// Options tunes model loading.
type Options struct {
	// TargetSize is the largest extent of the normalized model on any axis.
	TargetSize float32
	// Logger receives recoverable asset warnings. Defaults to a no-op.
	Logger *zap.Logger
}

// Load builds a posed, normalized Model from a robot description and the
// asset bundle its mesh references resolve against. A malformed description
// is fatal; an unresolvable or undecodable mesh degrades to an empty
// placeholder node.
func Load(doc []byte, bundle *assets.Bundle, opts Options) (*Model, error) {
	if opts.TargetSize <= 0 {
		opts.TargetSize = DefaultTargetSize
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if bundle == nil {
		bundle = assets.NewBundle()
	}

	desc, err := urdf.Parse(doc)
	if err != nil {
		return nil, fmt.Errorf("parsing robot description: %w", err)
	}

	b := &builder{
		bundle: bundle,
		log:    opts.Logger,
		named:  make(map[string]*scene.Material, len(desc.Materials)),
	}
	for i := range desc.Materials {
		mat := desc.Materials[i]
		b.named[mat.Name] = b.material(&mat)
	}

	// One node per link, visuals and collisions as children.
	linkNodes := make(map[string]*scene.Node, len(desc.Links))
	for _, link := range desc.Links {
		linkNodes[link.Name] = b.link(&link)
	}

	// One node per joint, spliced between its parent and child links.
	m := &Model{
		name:   desc.Name,
		joints: make(map[string]*scene.Node),
	}
	for _, joint := range desc.Joints {
		node := b.joint(&joint)
		linkNodes[joint.Parent.Link].AddChild(node)
		node.AddChild(linkNodes[joint.Child.Link])
		if joint.Movable() {
			m.joints[joint.Name] = node
		}
	}

	m.Root = scene.NewNode(desc.Name, scene.KindGeneric)
	m.normalize = scene.NewNode("normalize", scene.KindGeneric)
	m.Root.AddChild(m.normalize)
	m.normalize.AddChild(linkNodes[desc.RootLink()])

	// Pose the joints before measuring: normalization must fit the pose the
	// model is actually displayed in.
	m.initControls()
	m.fitToViewingVolume(opts.TargetSize)
	m.collectLinks()
	normalizeMaterials(m.Root)

	opts.Logger.Info("robot model loaded",
		zap.String("name", m.name),
		zap.Int("links", len(m.links)),
		zap.Int("joints", len(m.controls)),
	)
	return m, nil
}

// fitToViewingVolume uniformly scales the model so its largest extent equals
// targetSize, then recenters the scaled bounds on the origin. Both land on
// the normalize group so the root stays free for orientation.
func (m *Model) fitToViewingVolume(targetSize float32) {
	box := scene.WorldBounds(m.Root)
	if box.Valid && box.MaxExtent() > 0 {
		s := targetSize / box.MaxExtent()
		m.normalize.Scale = mgl32.Vec3{s, s, s}
	}

	box = scene.WorldBounds(m.Root)
	if box.Valid {
		m.normalize.Position = m.normalize.Position.Sub(box.Center())
	}
}

// initControls enumerates the movable joints, poses each at the midpoint of
// its limits, and fixes the name-sorted control list the UI consumes.
func (m *Model) initControls() {
	m.controls = make([]JointControl, 0, len(m.joints))
	for name, node := range m.joints {
		m.controls = append(m.controls, JointControl{
			Name: name,
			Min:  node.Joint.Lower,
			Max:  node.Joint.Upper,
		})
	}
	sort.Slice(m.controls, func(i, j int) bool {
		return m.controls[i].Name < m.controls[j].Name
	})

	for i := range m.controls {
		midpoint := (m.controls[i].Min + m.controls[i].Max) / 2
		m.controls[i].Value = midpoint
		applyJointPose(m.joints[m.controls[i].Name], midpoint)
	}
	m.startPose = true
}

func (m *Model) collectLinks() {
	m.Root.Walk(func(n *scene.Node) {
		if n.Kind == scene.KindLink {
			m.links = append(m.links, n)
		}
	})
}

// normalizeMaterials upgrades flat materials to lit shading and tags
// textures as sRGB so lighting and color reproduction behave uniformly.
// Multi-group material lists keep their multiplicity.
func normalizeMaterials(root *scene.Node) {
	upgrade := func(mat *scene.Material) {
		if mat.Shading == scene.ShadingUnlit {
			mat.Shading = scene.ShadingLit
		}
		if mat.Texture != nil {
			mat.Texture.ColorSpace = scene.ColorSpaceSRGB
		}
	}
	root.Walk(func(n *scene.Node) {
		if !n.Renderable() {
			return
		}
		if n.Material == nil && len(n.MaterialGroup) == 0 {
			n.Material = scene.DefaultMaterial()
		}
		if n.Material != nil {
			upgrade(n.Material)
		}
		for _, mat := range n.MaterialGroup {
			upgrade(mat)
		}
	})
}

// builder carries the shared state of one load.
type builder struct {
	bundle *assets.Bundle
	log    *zap.Logger
	named  map[string]*scene.Material
}

func (b *builder) link(link *urdf.Link) *scene.Node {
	node := scene.NewNode(link.Name, scene.KindLink)

	for i, visual := range link.Visuals {
		name := visual.Name
		if name == "" {
			name = fmt.Sprintf("%s_visual_%d", link.Name, i)
		}
		child := scene.NewNode(name, scene.KindGeneric)
		b.placeGeometry(child, visual.Origin, &visual.Geometry)
		child.Material = b.visualMaterial(&visual)
		if groups := len(child.Mesh.Groups); groups > 1 {
			child.MaterialGroup = make([]*scene.Material, groups)
			for g := range child.MaterialGroup {
				mat := *child.Material
				child.MaterialGroup[g] = &mat
			}
			child.Material = nil
		}
		node.AddChild(child)
	}

	// Collision shapes stay in the graph as typed markers but carry no
	// renderable mesh.
	for i, collision := range link.Collisions {
		name := collision.Name
		if name == "" {
			name = fmt.Sprintf("%s_collision_%d", link.Name, i)
		}
		node.AddChild(scene.NewNode(name, scene.KindCollider))
	}

	return node
}

func (b *builder) joint(joint *urdf.Joint) *scene.Node {
	node := scene.NewNode(joint.Name, scene.KindJoint)

	axis := joint.Axis.Vector()
	if axis.Norm() == 0 {
		axis.X = 1
	}
	origin := joint.Origin.Translation()
	roll, pitch, yaw := joint.Origin.RPY()

	j := &scene.Joint{
		Axis:      mgl32.Vec3{float32(axis.X), float32(axis.Y), float32(axis.Z)}.Normalize(),
		OriginPos: mgl32.Vec3{float32(origin.X), float32(origin.Y), float32(origin.Z)},
		OriginRot: rpyToQuat(roll, pitch, yaw),
	}
	switch joint.Type {
	case urdf.JointRevolute:
		j.Type = scene.JointRevolute
		j.Lower, j.Upper = joint.Limit.Lower, joint.Limit.Upper
	case urdf.JointContinuous:
		// Continuous joints have no limits; present a full turn centered
		// on zero so the midpoint pose is the neutral one.
		j.Type = scene.JointContinuous
		j.Lower, j.Upper = -gomath.Pi, gomath.Pi
	case urdf.JointPrismatic:
		j.Type = scene.JointPrismatic
		j.Lower, j.Upper = joint.Limit.Lower, joint.Limit.Upper
	default:
		j.Type = scene.JointFixed
	}
	node.Joint = j

	// Fixed and not-yet-posed joints still need their origin applied.
	node.Position = j.OriginPos
	node.Rotation = j.OriginRot
	return node
}

// placeGeometry resolves a geometry element to a mesh and applies the
// element's origin transform and scale to the node.
func (b *builder) placeGeometry(node *scene.Node, origin *urdf.Pose, geo *urdf.Geometry) {
	pos := origin.Translation()
	roll, pitch, yaw := origin.RPY()
	node.Position = mgl32.Vec3{float32(pos.X), float32(pos.Y), float32(pos.Z)}
	node.Rotation = rpyToQuat(roll, pitch, yaw)

	switch {
	case geo.Mesh != nil:
		node.Mesh = b.meshFromBundle(geo.Mesh)
		s := geo.Mesh.ScaleVector()
		node.Scale = mgl32.Vec3{float32(s.X), float32(s.Y), float32(s.Z)}
	case geo.Box != nil:
		size := (&urdf.Pose{XYZ: geo.Box.Size}).Translation()
		node.Mesh = model.NewBox(float32(size.X), float32(size.Y), float32(size.Z))
	case geo.Cylinder != nil:
		node.Mesh = model.NewCylinder(float32(geo.Cylinder.Radius), float32(geo.Cylinder.Length))
	case geo.Sphere != nil:
		node.Mesh = model.NewSphere(float32(geo.Sphere.Radius))
	default:
		node.Mesh = model.NewEmpty()
	}
}

// meshFromBundle resolves and decodes a referenced mesh. Both failure modes
// are recoverable: the node gets an empty placeholder and the load goes on.
func (b *builder) meshFromBundle(ref *urdf.MeshRef) *model.Mesh {
	data, err := b.bundle.Resolve(ref.Filename)
	if err != nil {
		b.log.Warn("mesh asset not found, substituting placeholder",
			zap.String("filename", ref.Filename))
		return model.NewEmpty()
	}
	triangles, err := stl.Decode(data)
	if err != nil {
		b.log.Warn("mesh asset failed to decode, substituting placeholder",
			zap.String("filename", ref.Filename),
			zap.Error(err))
		return model.NewEmpty()
	}
	return model.FromTriangles(triangles)
}

func (b *builder) visualMaterial(visual *urdf.Visual) *scene.Material {
	mat := visual.Material
	if mat == nil {
		return scene.DefaultMaterial()
	}
	// A name-only material element references a robot-level definition.
	if mat.Color == nil && mat.Texture == nil && mat.Name != "" {
		if named, ok := b.named[mat.Name]; ok {
			dup := *named
			return &dup
		}
		return scene.DefaultMaterial()
	}
	return b.material(mat)
}

func (b *builder) material(mat *urdf.Material) *scene.Material {
	c := mat.Color.Values()
	out := &scene.Material{
		Name:      mat.Name,
		Color:     [4]float32{float32(c[0]), float32(c[1]), float32(c[2]), float32(c[3])},
		Shininess: 16,
		Shading:   scene.ShadingUnlit,
	}
	if mat.Texture != nil && mat.Texture.Filename != "" {
		data, err := b.bundle.Resolve(mat.Texture.Filename)
		if err != nil {
			b.log.Warn("texture asset not found",
				zap.String("filename", mat.Texture.Filename))
		} else {
			out.Texture = &scene.Texture{Name: mat.Texture.Filename, Data: data}
		}
	}
	return out
}

// rpyToQuat converts URDF roll/pitch/yaw (extrinsic X, Y, Z rotations) to a
// quaternion: Rz(yaw) * Ry(pitch) * Rx(roll).
func rpyToQuat(roll, pitch, yaw float64) mgl32.Quat {
	qz := mgl32.QuatRotate(float32(yaw), mgl32.Vec3{0, 0, 1})
	qy := mgl32.QuatRotate(float32(pitch), mgl32.Vec3{0, 1, 0})
	qx := mgl32.QuatRotate(float32(roll), mgl32.Vec3{1, 0, 0})
	return qz.Mul(qy).Mul(qx)
}
