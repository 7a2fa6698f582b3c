package highlight

import (
	"testing"

	"github.com/armlab/robotview/internal/engine/scene"
)

// chain builds the articulated chain L1 -> J1 -> L2 -> J2 -> L3 with one
// renderable visual under each link.
func chain() (l1, j1, l2, j2, l3 *scene.Node, visuals map[string]*scene.Node) {
	l1 = scene.NewNode("L1", scene.KindLink)
	j1 = scene.NewNode("J1", scene.KindJoint)
	l2 = scene.NewNode("L2", scene.KindLink)
	j2 = scene.NewNode("J2", scene.KindJoint)
	l3 = scene.NewNode("L3", scene.KindLink)

	l1.AddChild(j1)
	j1.AddChild(l2)
	l2.AddChild(j2)
	j2.AddChild(l3)

	visuals = make(map[string]*scene.Node)
	for _, link := range []*scene.Node{l1, l2, l3} {
		v := scene.NewNode(link.Name+"_visual", scene.KindGeneric)
		v.Material = &scene.Material{Name: link.Name + "_mat"}
		link.AddChild(v)
		visuals[link.Name] = v
	}
	return
}

func TestHighlight_StopsAtJointBelowTarget(t *testing.T) {
	_, j1, _, _, _, visuals := chain()
	h := New()

	// Highlighting J1 covers the rigid assembly that moves with it: L2 and
	// its visual, but not L3 beyond the next articulation.
	h.Highlight(j1)

	if visuals["L2"].Material != h.Material() {
		t.Error("L2 visual should carry the highlight material")
	}
	if visuals["L3"].Material == h.Material() {
		t.Error("highlight must stop at the joint below the target")
	}
	if visuals["L1"].Material == h.Material() {
		t.Error("highlight must not spread to the parent link")
	}
}

func TestHighlight_LinkTargetEntersDirectJoint(t *testing.T) {
	l1, _, _, _, _, visuals := chain()
	h := New()

	// Highlighting L1 enters J1 because it hangs directly off the target,
	// then stops at J2.
	h.Highlight(l1)

	if visuals["L1"].Material != h.Material() {
		t.Error("target link visual should be highlighted")
	}
	if visuals["L2"].Material != h.Material() {
		t.Error("link reached through the target's direct joint should be highlighted")
	}
	if visuals["L3"].Material == h.Material() {
		t.Error("highlight must stop at the second joint")
	}
}

func TestUnhighlight_RestoresByIdentity(t *testing.T) {
	_, j1, _, _, _, visuals := chain()
	h := New()

	original := visuals["L2"].Material
	h.Highlight(j1)
	h.Unhighlight(j1)

	if visuals["L2"].Material != original {
		t.Error("original material pointer must be restored, not a copy")
	}
	if h.ActiveOverrides() != 0 {
		t.Errorf("%d overrides leaked after unhighlight", h.ActiveOverrides())
	}
}

func TestHighlight_Reentrant(t *testing.T) {
	_, j1, _, _, _, visuals := chain()
	h := New()

	original := visuals["L2"].Material
	h.Highlight(j1)
	h.Highlight(j1)
	h.Unhighlight(j1)

	// The second Highlight must not overwrite the save slot with the
	// highlight material itself.
	if visuals["L2"].Material != original {
		t.Errorf("double highlight lost the original material: %v", visuals["L2"].Material)
	}
	if h.ActiveOverrides() != 0 {
		t.Errorf("%d overrides leaked", h.ActiveOverrides())
	}
}

func TestHighlight_SkipsColliders(t *testing.T) {
	_, j1, l2, _, _, _ := chain()
	h := New()

	col := scene.NewNode("L2_collision", scene.KindCollider)
	col.Material = &scene.Material{Name: "col_mat"}
	l2.AddChild(col)

	h.Highlight(j1)

	if col.Material.Name != "col_mat" {
		t.Error("collision subtree must not be highlighted")
	}
}

func TestHighlight_GroupMultiplicity(t *testing.T) {
	_, j1, l2, _, _, _ := chain()
	h := New()

	multi := scene.NewNode("L2_multi", scene.KindGeneric)
	a := &scene.Material{Name: "a"}
	b := &scene.Material{Name: "b"}
	multi.MaterialGroup = []*scene.Material{a, b}
	l2.AddChild(multi)

	h.Highlight(j1)
	if len(multi.MaterialGroup) != 2 {
		t.Fatalf("group multiplicity changed: %d", len(multi.MaterialGroup))
	}
	for i, mat := range multi.MaterialGroup {
		if mat != h.Material() {
			t.Errorf("group %d not highlighted", i)
		}
	}

	h.Unhighlight(j1)
	if multi.MaterialGroup[0] != a || multi.MaterialGroup[1] != b {
		t.Error("group materials must be restored by identity")
	}
}

func TestHighlight_BareNodesIgnored(t *testing.T) {
	_, j1, _, _, _, _ := chain()
	h := New()

	// Joint and link nodes carry no materials themselves; only the visuals
	// get save slots.
	h.Highlight(j1)
	if h.ActiveOverrides() != 1 {
		t.Errorf("expected 1 override (the L2 visual), got %d", h.ActiveOverrides())
	}
	h.Unhighlight(j1)
}
