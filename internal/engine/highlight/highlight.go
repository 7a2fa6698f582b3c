// Package highlight swaps a hovered sub-chain's materials for a shared
// highlight material and restores them exactly when the hover ends.
package highlight

import (
	"github.com/armlab/robotview/internal/engine/scene"
)

// savedMaterials is the original material state of one node, kept outside
// the node itself so scene nodes carry no transient UI state.
type savedMaterials struct {
	material *scene.Material
	group    []*scene.Material
}

// Highlighter owns the shared highlight material and the side map of saved
// originals. Every Highlight must be paired with an Unhighlight on the same
// node; the map being empty again is the audit that no override leaked.
type Highlighter struct {
	material *scene.Material
	saved    map[*scene.Node]savedMaterials
}

// New creates a highlighter with the standard emissive highlight material.
func New() *Highlighter {
	return &Highlighter{
		material: &scene.Material{
			Name:      "highlight",
			Color:     [4]float32{1, 0.77, 0.05, 1},
			Emissive:  [3]float32{0.25, 0.18, 0.02},
			Shininess: 10,
			Shading:   scene.ShadingLit,
		},
		saved: make(map[*scene.Node]savedMaterials),
	}
}

// Material returns the shared highlight material.
func (h *Highlighter) Material() *scene.Material {
	return h.material
}

// ActiveOverrides returns how many nodes currently carry the highlight
// material in place of their own.
func (h *Highlighter) ActiveOverrides() int {
	return len(h.saved)
}

// Highlight replaces the materials of the target's rigid sub-assembly with
// the highlight material, saving the originals. A node already highlighted
// keeps its first saved state, so re-highlighting cannot lose it.
func (h *Highlighter) Highlight(target *scene.Node) {
	h.traverse(target, target, h.apply)
}

// Unhighlight restores the saved materials of the target's rigid
// sub-assembly and clears their save slots.
func (h *Highlighter) Unhighlight(target *scene.Node) {
	h.traverse(target, target, h.restore)
}

// traverse visits the target and its descendants, stopping at the first
// joint below the target: a joint child is entered only when the current
// node is the original target, so the highlight covers exactly the rigid
// assembly that moves with the target and nothing past the next
// articulation. Collision subtrees are skipped entirely.
func (h *Highlighter) traverse(n, target *scene.Node, fn func(*scene.Node)) {
	if n.Kind == scene.KindCollider {
		return
	}
	fn(n)
	for _, child := range n.Children {
		if child.Kind == scene.KindJoint && n != target {
			continue
		}
		h.traverse(child, target, fn)
	}
}

func (h *Highlighter) apply(n *scene.Node) {
	if n.Material == nil && len(n.MaterialGroup) == 0 {
		return
	}
	if _, ok := h.saved[n]; !ok {
		h.saved[n] = savedMaterials{material: n.Material, group: n.MaterialGroup}
	}
	if len(n.MaterialGroup) > 0 {
		group := make([]*scene.Material, len(n.MaterialGroup))
		for i := range group {
			group[i] = h.material
		}
		n.MaterialGroup = group
		n.Material = nil
	} else {
		n.Material = h.material
	}
}

func (h *Highlighter) restore(n *scene.Node) {
	s, ok := h.saved[n]
	if !ok {
		return
	}
	n.Material = s.material
	n.MaterialGroup = s.group
	delete(h.saved, n)
}
