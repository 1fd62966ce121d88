package scene

import "github.com/go-gl/mathgl/mgl32"

// Node is a named position in world space.
type Node struct {
	name     string
	position mgl32.Vec3
}

func (n *Node) Name() string {
	return n.name
}

func (n *Node) Position() mgl32.Vec3 {
	return n.position
}

func (n *Node) SetPosition(p mgl32.Vec3) {
	n.position = p
}

// Translate moves the node by delta.
func (n *Node) Translate(delta mgl32.Vec3) {
	n.position = n.position.Add(delta)
}

// Camera looks from its eye position towards a target.
type Camera struct {
	eye    mgl32.Vec3
	target mgl32.Vec3
	up     mgl32.Vec3
}

// NewCamera returns a camera at eye looking down -Z.
func NewCamera(eye mgl32.Vec3) *Camera {
	return &Camera{
		eye:    eye,
		target: eye.Sub(mgl32.Vec3{0, 0, 1}),
		up:     mgl32.Vec3{0, 1, 0},
	}
}

func (c *Camera) Eye() mgl32.Vec3 {
	return c.eye
}

func (c *Camera) SetEye(eye mgl32.Vec3) {
	c.eye = eye
}

// LookAt turns the camera towards target. A target at the eye position is
// ignored since it has no direction.
func (c *Camera) LookAt(target mgl32.Vec3) {
	if target.ApproxEqual(c.eye) {
		return
	}
	c.target = target
}

func (c *Camera) Target() mgl32.Vec3 {
	return c.target
}

// Direction returns the unit vector from the eye to the target.
func (c *Camera) Direction() mgl32.Vec3 {
	return c.target.Sub(c.eye).Normalize()
}

// View returns the world-to-camera matrix.
func (c *Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.target, c.up)
}
