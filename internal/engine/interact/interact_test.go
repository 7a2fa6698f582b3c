package interact

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/scene"
	"github.com/armlab/robotview/internal/robot"
)

// The whole arm hangs off one revolute joint, so any pick resolves to it.
const armURDF = `<robot name="arm">
  <link name="base"/>
  <link name="arm">
    <visual><geometry><box size="1 1 1"/></geometry></visual>
  </link>
  <joint name="elbow" type="revolute">
    <parent link="base"/><child link="arm"/>
    <axis xyz="0 1 0"/>
    <limit lower="0" upper="2"/>
  </joint>
</robot>`

func testModel(t *testing.T) *robot.Model {
	t.Helper()
	m, err := robot.Load([]byte(armURDF), nil, robot.Options{})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	return m
}

func testInvViewProj() mgl32.Mat4 {
	view := mgl32.LookAtV(mgl32.Vec3{0, 0, 30}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 1, 0.1, 100)
	return proj.Mul4(view).Inv()
}

func TestPointerMove_HoverFiresOnce(t *testing.T) {
	m := testModel(t)

	var hovers, unhovers, renders int
	var hovered *scene.Node
	c := New(m, Callbacks{
		OnHover:       func(n *scene.Node) { hovers++; hovered = n },
		OnUnhover:     func(*scene.Node) { unhovers++ },
		RequestRender: func() { renders++ },
	})
	c.SetViewport(1000, 1000)
	inv := testInvViewProj()

	c.PointerMove(500, 500, inv)
	if hovers != 1 {
		t.Fatalf("expected 1 hover event, got %d", hovers)
	}
	if hovered == nil || hovered.Kind != scene.KindJoint || hovered.Name != "elbow" {
		t.Fatalf("hover should resolve to the elbow joint, got %v", hovered)
	}
	if renders != 1 {
		t.Errorf("hover change should request a render, got %d", renders)
	}

	// Moving within the same assembly changes nothing.
	c.PointerMove(505, 505, inv)
	if hovers != 1 || unhovers != 0 {
		t.Errorf("redundant hover events: %d hovers, %d unhovers", hovers, unhovers)
	}

	// Moving into empty space unhighlights.
	c.PointerMove(10, 10, inv)
	if unhovers != 1 {
		t.Errorf("expected 1 unhover event, got %d", unhovers)
	}
	if c.Hovered() != nil {
		t.Error("hover state should clear over empty space")
	}
}

func TestDrag_DrivesJoint(t *testing.T) {
	m := testModel(t)

	var lastName string
	var lastValue float64
	c := New(m, Callbacks{
		OnJointChange: func(name string, value float64) { lastName, lastValue = name, value },
	})
	c.SetViewport(1000, 1000)
	inv := testInvViewProj()

	c.PointerMove(500, 500, inv)
	c.PointerDown(500, 500)
	if !c.Dragging() {
		t.Fatal("drag should start on a hovered movable joint")
	}

	// 50 pixels upward sweep a quarter of the [0,2] range: 1.0 -> 1.5.
	c.PointerMove(500, 450, inv)
	if lastName != "elbow" {
		t.Fatalf("joint change for %q, want elbow", lastName)
	}
	if lastValue != 1.5 {
		t.Errorf("value %v, want 1.5", lastValue)
	}

	// Dragging far past the range clamps at the limit.
	c.PointerMove(500, -2000, inv)
	if lastValue != 2 {
		t.Errorf("value %v, want clamp at 2", lastValue)
	}

	c.PointerUp()
	if c.Dragging() {
		t.Error("drag should end on pointer up")
	}
}

func TestDrag_KeepsHoverLocked(t *testing.T) {
	m := testModel(t)

	var unhovers int
	c := New(m, Callbacks{
		OnUnhover: func(*scene.Node) { unhovers++ },
	})
	c.SetViewport(1000, 1000)
	inv := testInvViewProj()

	c.PointerMove(500, 500, inv)
	c.PointerDown(500, 500)

	// During a drag the cursor can leave the geometry without dropping the
	// hover; motion drives the joint instead of re-picking.
	c.PointerMove(10, 10, inv)
	if unhovers != 0 {
		t.Errorf("drag must not re-pick, got %d unhovers", unhovers)
	}
	if c.Hovered() == nil {
		t.Error("hover stays locked to the dragged joint")
	}
}

func TestPointerDown_NeedsMovableJoint(t *testing.T) {
	m := testModel(t)
	c := New(m, Callbacks{})
	c.SetViewport(1000, 1000)

	// Nothing hovered.
	c.PointerDown(500, 500)
	if c.Dragging() {
		t.Error("drag must not start with no hover")
	}
}

func TestPointerLeave_ClearsState(t *testing.T) {
	m := testModel(t)

	var unhovers int
	c := New(m, Callbacks{
		OnUnhover: func(*scene.Node) { unhovers++ },
	})
	c.SetViewport(1000, 1000)
	inv := testInvViewProj()

	c.PointerMove(500, 500, inv)
	c.PointerDown(500, 500)
	c.PointerLeave()

	if c.Hovered() != nil || c.Dragging() {
		t.Error("pointer leave should clear hover and drag state")
	}
	if unhovers != 1 {
		t.Errorf("expected 1 unhover event, got %d", unhovers)
	}
}

func TestOwner(t *testing.T) {
	link := scene.NewNode("L", scene.KindLink)
	joint := scene.NewNode("J", scene.KindJoint)
	child := scene.NewNode("L2", scene.KindLink)
	vis := scene.NewNode("vis", scene.KindGeneric)
	link.AddChild(joint)
	joint.AddChild(child)
	child.AddChild(vis)

	if got := owner(vis); got != joint {
		t.Errorf("owner(vis) = %v, want the enclosing joint", got)
	}

	rootVis := scene.NewNode("rootvis", scene.KindGeneric)
	link.AddChild(rootVis)
	if got := owner(rootVis); got != link {
		t.Errorf("owner(rootvis) = %v, want the root link", got)
	}

	orphan := scene.NewNode("orphan", scene.KindGeneric)
	if got := owner(orphan); got != nil {
		t.Errorf("owner(orphan) = %v, want nil", got)
	}
}
