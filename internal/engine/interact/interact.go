// Package interact turns pointer gestures over the rendered scene into
// hover and drag semantics: hovering highlights a joint's sub-chain,
// dragging drives the joint's value.
package interact

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/picking"
	"github.com/armlab/robotview/internal/engine/scene"
	"github.com/armlab/robotview/internal/robot"
)

// dragPixels is how many pixels of vertical pointer travel sweep a joint
// across its full range.
const dragPixels = 200

// Callbacks are invoked synchronously as gestures resolve. All fields are
// optional.
type Callbacks struct {
	OnHover       func(*scene.Node)
	OnUnhover     func(*scene.Node)
	OnJointChange func(name string, value float64)
	// RequestRender asks the host for an immediate redraw so highlight and
	// pose changes are visible before the next scheduled frame.
	RequestRender func()
}

// Controller resolves pointer events against one loaded model. It is bound
// to the model for its lifetime; a new load gets a new controller.
type Controller struct {
	model *robot.Model
	cb    Callbacks

	viewportW float32
	viewportH float32

	hovered   *scene.Node
	dragging  bool
	dragJoint string
	lastY     float32
}

// New creates a controller for the given model.
func New(m *robot.Model, cb Callbacks) *Controller {
	return &Controller{model: m, cb: cb}
}

// SetViewport updates the pixel dimensions used for unprojection.
func (c *Controller) SetViewport(w, h int) {
	c.viewportW = float32(w)
	c.viewportH = float32(h)
}

// Hovered returns the currently hovered joint or link node, nil when none.
func (c *Controller) Hovered() *scene.Node {
	return c.hovered
}

// Dragging reports whether a joint drag is in progress.
func (c *Controller) Dragging() bool {
	return c.dragging
}

// PointerMove handles cursor motion. During a drag it converts vertical
// travel into a joint-value delta; otherwise it re-picks and updates the
// hover state.
func (c *Controller) PointerMove(x, y float32, invViewProj mgl32.Mat4) {
	if c.dragging {
		c.dragBy(c.lastY - y)
		c.lastY = y
		return
	}

	ray := picking.ScreenToRay(x, y, c.viewportW, c.viewportH, invViewProj)
	var target *scene.Node
	if hit, ok := picking.PickScene(c.model.Root, ray); ok {
		target = owner(hit.Node)
	}
	c.setHovered(target)
}

// PointerDown starts a drag when the hovered node is a movable joint.
func (c *Controller) PointerDown(x, y float32) {
	if c.hovered == nil || c.hovered.Kind != scene.KindJoint {
		return
	}
	if c.hovered.Joint == nil || !c.hovered.Joint.Type.Movable() {
		return
	}
	c.dragging = true
	c.dragJoint = c.hovered.Name
	c.lastY = y
}

// PointerUp ends any drag in progress.
func (c *Controller) PointerUp() {
	c.dragging = false
	c.dragJoint = ""
}

// PointerLeave clears the hover state when the cursor leaves the surface.
func (c *Controller) PointerLeave() {
	c.dragging = false
	c.dragJoint = ""
	c.setHovered(nil)
}

func (c *Controller) setHovered(target *scene.Node) {
	if target == c.hovered {
		return
	}
	if c.hovered != nil && c.cb.OnUnhover != nil {
		c.cb.OnUnhover(c.hovered)
	}
	if target != nil && c.cb.OnHover != nil {
		c.cb.OnHover(target)
	}
	c.hovered = target
	c.requestRender()
}

func (c *Controller) dragBy(pixels float32) {
	control, ok := c.model.ControlFor(c.dragJoint)
	if !ok {
		return
	}
	delta := float64(pixels) * (control.Max - control.Min) / dragPixels
	if delta == 0 {
		return
	}
	value := control.Value + delta
	// SetJointValue clamps against the control's bounds.
	if err := c.model.SetJointValue(c.dragJoint, value); err != nil {
		return
	}
	if c.cb.OnJointChange != nil {
		updated, _ := c.model.ControlFor(c.dragJoint)
		c.cb.OnJointChange(c.dragJoint, updated.Value)
	}
	c.requestRender()
}

func (c *Controller) requestRender() {
	if c.cb.RequestRender != nil {
		c.cb.RequestRender()
	}
}

// owner walks up from picked geometry to the node gestures act on: the
// nearest enclosing joint, or the enclosing link when no joint is above it
// (the root link's rigid assembly).
func owner(n *scene.Node) *scene.Node {
	var link *scene.Node
	for cur := n; cur != nil; cur = cur.Parent {
		switch cur.Kind {
		case scene.KindJoint:
			return cur
		case scene.KindLink:
			if link == nil {
				link = cur
			}
		}
	}
	return link
}
