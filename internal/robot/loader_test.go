package robot

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/assets"
	"github.com/armlab/robotview/internal/engine/scene"
)

const armURDF = `<?xml version="1.0"?>
<robot name="testarm">
  <material name="steel">
    <color rgba="0.6 0.6 0.65 1"/>
    <texture filename="textures/steel.png"/>
  </material>
  <link name="base">
    <visual>
      <geometry><box size="1 2 4"/></geometry>
      <material name="steel"/>
    </visual>
    <collision>
      <geometry><box size="100 100 100"/></geometry>
    </collision>
  </link>
  <link name="upper">
    <visual>
      <geometry><mesh filename="package://testarm/meshes/upper.stl"/></geometry>
    </visual>
  </link>
  <link name="hand">
    <visual>
      <geometry><sphere radius="0.1"/></geometry>
    </visual>
  </link>
  <joint name="wrist" type="revolute">
    <origin xyz="0 0 1"/>
    <parent link="upper"/>
    <child link="hand"/>
    <axis xyz="1 0 0"/>
    <limit lower="-1" upper="1"/>
  </joint>
  <joint name="elbow" type="revolute">
    <origin xyz="0 0 2"/>
    <parent link="base"/>
    <child link="upper"/>
    <axis xyz="0 1 0"/>
    <limit lower="0" upper="2"/>
  </joint>
</robot>`

const upperSTL = `solid upper
facet normal 0 0 1
  outer loop
    vertex 0 0 0
    vertex 1 0 0
    vertex 0 1 0
  endloop
endfacet
endsolid upper
`

func testBundle() *assets.Bundle {
	b := assets.NewBundle()
	b.Add("meshes/upper.stl", []byte(upperSTL))
	b.Add("textures/steel.png", []byte("not-a-real-png"))
	return b
}

func loadArm(t *testing.T) *Model {
	t.Helper()
	m, err := Load([]byte(armURDF), testBundle(), Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func TestLoad_ControlsSortedAtMidpoint(t *testing.T) {
	m := loadArm(t)

	controls := m.Controls()
	if len(controls) != 2 {
		t.Fatalf("expected 2 controls, got %d", len(controls))
	}

	// Sorted by name regardless of declaration order: elbow before wrist.
	if controls[0].Name != "elbow" || controls[1].Name != "wrist" {
		t.Fatalf("control order: got [%s, %s], want [elbow, wrist]", controls[0].Name, controls[1].Name)
	}
	if controls[0].Value != 1 {
		t.Errorf("elbow [0,2] should start at midpoint 1, got %v", controls[0].Value)
	}
	if controls[1].Value != 0 {
		t.Errorf("wrist [-1,1] should start at midpoint 0, got %v", controls[1].Value)
	}
	if !m.AtStartPosition() {
		t.Error("freshly loaded model should be at start position")
	}
}

func TestLoad_FitsViewingVolume(t *testing.T) {
	m := loadArm(t)

	box := scene.WorldBounds(m.Root)
	if !box.Valid {
		t.Fatal("expected valid world bounds")
	}
	if math.Abs(float64(box.MaxExtent())-DefaultTargetSize) > 0.01 {
		t.Errorf("max extent %v, want %v", box.MaxExtent(), DefaultTargetSize)
	}
	center := box.Center()
	if center.Len() > 0.01 {
		t.Errorf("bounds center %v, want origin", center)
	}
}

func TestLoad_ColliderExcludedFromBounds(t *testing.T) {
	// The 100-unit collision box must not influence normalization: if it did,
	// the visible geometry would be scaled far below the target size.
	m := loadArm(t)

	var colliders int
	m.Root.Walk(func(n *scene.Node) {
		if n.Kind == scene.KindCollider {
			colliders++
			if n.Renderable() {
				t.Errorf("collider %s must not be renderable", n.Name)
			}
		}
	})
	if colliders != 1 {
		t.Errorf("expected 1 collider node, got %d", colliders)
	}
}

func TestLoad_MeshFromBundle(t *testing.T) {
	m := loadArm(t)

	upper := m.Root.Find("upper", scene.KindLink)
	if upper == nil {
		t.Fatal("upper link missing from graph")
	}
	var meshed bool
	upper.Walk(func(n *scene.Node) {
		if n.Kind == scene.KindGeneric && n.Renderable() {
			meshed = true
		}
	})
	if !meshed {
		t.Error("upper link visual should carry the decoded STL mesh")
	}
}

func TestLoad_MissingMeshDegradesToPlaceholder(t *testing.T) {
	m, err := Load([]byte(armURDF), assets.NewBundle(), Options{})
	if err != nil {
		t.Fatalf("missing mesh must not fail the load: %v", err)
	}
	upper := m.Root.Find("upper", scene.KindLink)
	if upper == nil {
		t.Fatal("upper link missing from graph")
	}
	// The visual node exists but draws nothing.
	for _, child := range upper.Children {
		if child.Kind == scene.KindGeneric && child.Renderable() {
			t.Error("unresolvable mesh should leave an empty placeholder")
		}
	}
}

func TestLoad_MalformedDescriptionFails(t *testing.T) {
	if _, err := Load([]byte("<robot"), assets.NewBundle(), Options{}); err == nil {
		t.Error("malformed description must fail the load")
	}
	if _, err := Load(nil, assets.NewBundle(), Options{}); err == nil {
		t.Error("empty description must fail the load")
	}
}

func TestLoad_MaterialNormalization(t *testing.T) {
	m := loadArm(t)

	base := m.Root.Find("base", scene.KindLink)
	if base == nil {
		t.Fatal("base link missing from graph")
	}
	var mat *scene.Material
	base.Walk(func(n *scene.Node) {
		if mat == nil && n.Material != nil {
			mat = n.Material
		}
	})
	if mat == nil {
		t.Fatal("base visual has no material")
	}
	if mat.Shading != scene.ShadingLit {
		t.Error("loaded materials should be upgraded to lit shading")
	}
	if mat.Color[0] != 0.6 || mat.Color[3] != 1 {
		t.Errorf("unexpected material color: %v", mat.Color)
	}
	if mat.Texture == nil {
		t.Fatal("named material should carry its texture reference")
	}
	if mat.Texture.ColorSpace != scene.ColorSpaceSRGB {
		t.Error("loaded textures should be tagged sRGB")
	}
}

func TestLoad_DefaultMaterialWhenUnspecified(t *testing.T) {
	m := loadArm(t)

	hand := m.Root.Find("hand", scene.KindLink)
	if hand == nil {
		t.Fatal("hand link missing from graph")
	}
	var mat *scene.Material
	hand.Walk(func(n *scene.Node) {
		if mat == nil && n.Material != nil {
			mat = n.Material
		}
	})
	if mat == nil {
		t.Fatal("hand visual should fall back to the default material")
	}
	if mat.Shading != scene.ShadingLit {
		t.Error("default material should be lit")
	}
}

func TestLoad_ContinuousJointRange(t *testing.T) {
	doc := `<robot name="spinner">
		<link name="base"><visual><geometry><box size="1 1 1"/></geometry></visual></link>
		<link name="rotor"><visual><geometry><sphere radius="0.2"/></geometry></visual></link>
		<joint name="spin" type="continuous">
			<parent link="base"/><child link="rotor"/><axis xyz="0 0 1"/>
		</joint>
	</robot>`

	m, err := Load([]byte(doc), assets.NewBundle(), Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	c, ok := m.ControlFor("spin")
	if !ok {
		t.Fatal("continuous joint should have a control")
	}
	if c.Min != -math.Pi || c.Max != math.Pi {
		t.Errorf("continuous joint range: [%v, %v], want [-pi, pi]", c.Min, c.Max)
	}
	if c.Value != 0 {
		t.Errorf("continuous joint should start at 0, got %v", c.Value)
	}
}

func TestLoad_FixedJointNotControllable(t *testing.T) {
	doc := `<robot name="rigid">
		<link name="base"><visual><geometry><box size="1 1 1"/></geometry></visual></link>
		<link name="mount"/>
		<joint name="weld" type="fixed">
			<origin xyz="0 0 1" rpy="0 0 1.5707963"/>
			<parent link="base"/><child link="mount"/>
		</joint>
	</robot>`

	m, err := Load([]byte(doc), assets.NewBundle(), Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(m.Controls()) != 0 {
		t.Errorf("fixed joints must not appear in controls, got %d", len(m.Controls()))
	}
	if err := m.SetJointValue("weld", 1); err == nil {
		t.Error("driving a fixed joint should fail")
	}

	// The fixed origin still places the child.
	weld := m.Root.Find("weld", scene.KindJoint)
	if weld == nil {
		t.Fatal("fixed joint missing from graph")
	}
	if weld.Position != (mgl32.Vec3{0, 0, 1}) {
		t.Errorf("fixed joint origin not applied: %v", weld.Position)
	}
}

func TestRPYToQuat(t *testing.T) {
	// Yaw of pi/2 takes +X to +Y.
	q := rpyToQuat(0, 0, math.Pi/2)
	got := q.Rotate(mgl32.Vec3{1, 0, 0})
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 1, 0}, 1e-5) {
		t.Errorf("yaw rotation: got %v, want (0,1,0)", got)
	}

	// Roll of pi/2 takes +Y to +Z.
	q = rpyToQuat(math.Pi/2, 0, 0)
	got = q.Rotate(mgl32.Vec3{0, 1, 0})
	if !got.ApproxEqualThreshold(mgl32.Vec3{0, 0, 1}, 1e-5) {
		t.Errorf("roll rotation: got %v, want (0,0,1)", got)
	}
}
