// Package picking provides ray casting and scene-graph picking.
package picking

import (
	gomath "math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/armlab/robotview/internal/engine/scene"
)

// Ray is a ray in world space with a normalized direction.
type Ray struct {
	Origin    mgl32.Vec3
	Direction mgl32.Vec3
}

// ScreenToRay converts pixel coordinates to a world-space ray by
// unprojecting the near and far plane points under the cursor.
func ScreenToRay(screenX, screenY, viewportW, viewportH float32, invViewProj mgl32.Mat4) Ray {
	ndcX := 2*screenX/viewportW - 1
	ndcY := 1 - 2*screenY/viewportH // screen Y grows downward

	near := unproject(mgl32.Vec4{ndcX, ndcY, -1, 1}, invViewProj)
	far := unproject(mgl32.Vec4{ndcX, ndcY, 1, 1}, invViewProj)

	dir := far.Sub(near)
	if dir.Len() > 0 {
		dir = dir.Normalize()
	}
	return Ray{Origin: near, Direction: dir}
}

func unproject(p mgl32.Vec4, invViewProj mgl32.Mat4) mgl32.Vec3 {
	world := invViewProj.Mul4x1(p)
	if world.W() != 0 {
		return mgl32.Vec3{world.X() / world.W(), world.Y() / world.W(), world.Z() / world.W()}
	}
	return world.Vec3()
}

// IntersectAABB runs the slab test against a bounding box. It returns the
// entry distance, or the exit distance when the ray starts inside the box.
func (r Ray) IntersectAABB(box scene.AABB) (t float32, hit bool) {
	if !box.Valid {
		return 0, false
	}

	tmin := float32(-gomath.MaxFloat32)
	tmax := float32(gomath.MaxFloat32)

	for axis := 0; axis < 3; axis++ {
		if r.Direction[axis] != 0 {
			t1 := (box.Min[axis] - r.Origin[axis]) / r.Direction[axis]
			t2 := (box.Max[axis] - r.Origin[axis]) / r.Direction[axis]
			if t1 > t2 {
				t1, t2 = t2, t1
			}
			if t1 > tmin {
				tmin = t1
			}
			if t2 < tmax {
				tmax = t2
			}
		} else if r.Origin[axis] < box.Min[axis] || r.Origin[axis] > box.Max[axis] {
			return 0, false
		}
	}

	if tmax < tmin || tmax < 0 {
		return 0, false
	}
	if tmin < 0 {
		return tmax, true
	}
	return tmin, true
}

// Hit is a picked renderable node and its distance along the ray.
type Hit struct {
	Node     *scene.Node
	Distance float32
}

// PickScene tests the ray against the world-space bounds of every
// renderable node under root and returns the nearest hit. Collision-only
// geometry never participates.
func PickScene(root *scene.Node, r Ray) (Hit, bool) {
	best := Hit{Distance: float32(gomath.MaxFloat32)}
	found := false

	root.Walk(func(n *scene.Node) {
		if !n.Renderable() {
			return
		}
		t, hit := r.IntersectAABB(scene.NodeBounds(n))
		if hit && t < best.Distance {
			best = Hit{Node: n, Distance: t}
			found = true
		}
	})

	return best, found
}
