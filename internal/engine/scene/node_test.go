package scene

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/model"
)

func TestLocalMatrix_Composition(t *testing.T) {
	n := NewNode("n", KindGeneric)
	n.Position = mgl32.Vec3{1, 2, 3}
	n.Rotation = mgl32.QuatRotate(math.Pi/2, mgl32.Vec3{0, 0, 1})
	n.Scale = mgl32.Vec3{2, 2, 2}

	// Scale applies first, then rotation, then translation:
	// (1,0,0) -> (2,0,0) -> (0,2,0) -> (1,4,3).
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 0, 0}, n.LocalMatrix())
	want := mgl32.Vec3{1, 4, 3}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("transformed point: got %v, want %v", got, want)
	}
}

func TestWorldMatrix_Chains(t *testing.T) {
	parent := NewNode("parent", KindGeneric)
	parent.Position = mgl32.Vec3{10, 0, 0}
	child := NewNode("child", KindGeneric)
	child.Position = mgl32.Vec3{0, 5, 0}
	parent.AddChild(child)

	got := mgl32.TransformCoordinate(mgl32.Vec3{}, child.WorldMatrix())
	want := mgl32.Vec3{10, 5, 0}
	if !got.ApproxEqualThreshold(want, 1e-5) {
		t.Errorf("world origin of child: got %v, want %v", got, want)
	}
}

func TestAddChild_Reparents(t *testing.T) {
	a := NewNode("a", KindGeneric)
	b := NewNode("b", KindGeneric)
	c := NewNode("c", KindGeneric)
	a.AddChild(c)
	b.AddChild(c)

	if len(a.Children) != 0 {
		t.Errorf("old parent still has %d children", len(a.Children))
	}
	if c.Parent != b {
		t.Error("child not reparented")
	}
}

func TestRenderable(t *testing.T) {
	mesh := model.NewBox(1, 1, 1)

	tests := []struct {
		name string
		node *Node
		want bool
	}{
		{"geometry with mesh", &Node{Kind: KindGeneric, Mesh: mesh}, true},
		{"no mesh", &Node{Kind: KindGeneric}, false},
		{"empty mesh", &Node{Kind: KindGeneric, Mesh: model.NewEmpty()}, false},
		{"collider with mesh", &Node{Kind: KindCollider, Mesh: mesh}, false},
	}
	for _, tt := range tests {
		if got := tt.node.Renderable(); got != tt.want {
			t.Errorf("%s: Renderable() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestWalk_PreOrder(t *testing.T) {
	root := NewNode("root", KindGeneric)
	a := NewNode("a", KindLink)
	b := NewNode("b", KindLink)
	a2 := NewNode("a2", KindJoint)
	root.AddChild(a)
	root.AddChild(b)
	a.AddChild(a2)

	var order []string
	root.Walk(func(n *Node) { order = append(order, n.Name) })

	want := []string{"root", "a", "a2", "b"}
	if len(order) != len(want) {
		t.Fatalf("visited %d nodes, want %d", len(order), len(want))
	}
	for i := range want {
		if order[i] != want[i] {
			t.Errorf("visit %d: got %s, want %s", i, order[i], want[i])
		}
	}
}

func TestFind_MatchesNameAndKind(t *testing.T) {
	root := NewNode("root", KindGeneric)
	link := NewNode("elbow", KindLink)
	joint := NewNode("elbow", KindJoint)
	root.AddChild(link)
	root.AddChild(joint)

	if got := root.Find("elbow", KindJoint); got != joint {
		t.Error("Find should match on kind, not just name")
	}
	if got := root.Find("missing", KindLink); got != nil {
		t.Errorf("Find of absent node should return nil, got %v", got)
	}
}

func TestAABB(t *testing.T) {
	var box AABB
	if box.Contains(mgl32.Vec3{}) {
		t.Error("invalid box must not contain anything")
	}

	box = box.AddPoint(mgl32.Vec3{-1, 0, 2})
	box = box.AddPoint(mgl32.Vec3{3, -2, 4})

	if got := box.Center(); !got.ApproxEqualThreshold(mgl32.Vec3{1, -1, 3}, 1e-5) {
		t.Errorf("Center() = %v", got)
	}
	if got := box.MaxExtent(); got != 4 {
		t.Errorf("MaxExtent() = %v, want 4", got)
	}
	if !box.Contains(mgl32.Vec3{0, 0, 3}) {
		t.Error("box should contain interior point")
	}

	other := AABB{Min: mgl32.Vec3{5, 5, 5}, Max: mgl32.Vec3{6, 6, 6}, Valid: true}
	merged := box.Union(other)
	if merged.Max != (mgl32.Vec3{6, 6, 6}) || merged.Min != (mgl32.Vec3{-1, -2, 2}) {
		t.Errorf("Union() = %+v", merged)
	}
}

func TestWorldBounds_SkipsColliders(t *testing.T) {
	root := NewNode("root", KindGeneric)

	vis := NewNode("vis", KindGeneric)
	vis.Mesh = model.NewBox(2, 2, 2)
	root.AddChild(vis)

	col := NewNode("col", KindCollider)
	col.Mesh = model.NewBox(100, 100, 100)
	root.AddChild(col)

	box := WorldBounds(root)
	if !box.Valid {
		t.Fatal("expected valid bounds")
	}
	if box.MaxExtent() != 2 {
		t.Errorf("collider geometry leaked into bounds: extent %v", box.MaxExtent())
	}
}

func TestNodeBounds_AppliesTransform(t *testing.T) {
	n := NewNode("n", KindGeneric)
	n.Mesh = model.NewBox(2, 2, 2)
	n.Position = mgl32.Vec3{10, 0, 0}
	n.Scale = mgl32.Vec3{3, 3, 3}

	box := NodeBounds(n)
	if !box.Valid {
		t.Fatal("expected valid bounds")
	}
	if got := box.Center(); !got.ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, 1e-4) {
		t.Errorf("Center() = %v, want (10,0,0)", got)
	}
	if got := box.MaxExtent(); mgl32.Abs(got-6) > 1e-4 {
		t.Errorf("MaxExtent() = %v, want 6", got)
	}
}
