package render

import (
	"math"

	"github.com/taigrr/softras/pkg/math3d"
)

// Camera is a yaw/pitch perspective camera. It produces the view-projection
// matrix handed to Rasterizer.Begin.
type Camera struct {
	Position math3d.Vec3
	Pitch    float64 // radians, positive looks up
	Yaw      float64 // radians, 0 looks down -Z

	FOV         float64 // vertical, radians
	AspectRatio float64
	Near        float64
	Far         float64

	view, proj, viewProj math3d.Mat4
	viewDirty, projDirty bool
	vpDirty              bool
}

// NewCamera creates a camera at the origin looking down -Z.
func NewCamera(fov, aspect, near, far float64) *Camera {
	return &Camera{
		FOV:         fov,
		AspectRatio: aspect,
		Near:        near,
		Far:         far,
		viewDirty:   true,
		projDirty:   true,
		vpDirty:     true,
	}
}

func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Position = pos
	c.viewDirty = true
}

func (c *Camera) SetAspectRatio(aspect float64) {
	c.AspectRatio = aspect
	c.projDirty = true
}

func (c *Camera) SetFOV(fov float64) {
	c.FOV = fov
	c.projDirty = true
}

// Forward is the unit view direction.
func (c *Camera) Forward() math3d.Vec3 {
	return math3d.V3(
		-math.Sin(c.Yaw)*math.Cos(c.Pitch),
		math.Sin(c.Pitch),
		-math.Cos(c.Yaw)*math.Cos(c.Pitch),
	)
}

// Right is the unit vector to the camera's right, always horizontal.
func (c *Camera) Right() math3d.Vec3 {
	return math3d.V3(math.Cos(c.Yaw), 0, -math.Sin(c.Yaw))
}

// ViewMatrix returns the world-to-view transform.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	if c.viewDirty {
		rot := math3d.RotateX(-c.Pitch).Mul(math3d.RotateY(-c.Yaw))
		c.view = rot.Mul(math3d.Translate(c.Position.Negate()))
		c.viewDirty = false
		c.vpDirty = true
	}
	return c.view
}

// ProjectionMatrix returns the perspective projection.
func (c *Camera) ProjectionMatrix() math3d.Mat4 {
	if c.projDirty {
		c.proj = math3d.Perspective(c.FOV, c.AspectRatio, c.Near, c.Far)
		c.projDirty = false
		c.vpDirty = true
	}
	return c.proj
}

// ViewProjectionMatrix returns projection * view.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	view := c.ViewMatrix()
	proj := c.ProjectionMatrix()
	if c.vpDirty {
		c.viewProj = proj.Mul(view)
		c.vpDirty = false
	}
	return c.viewProj
}

// MoveForward moves along the view direction projected onto the ground.
func (c *Camera) MoveForward(distance float64) {
	f := c.Forward()
	f.Y = 0
	c.SetPosition(c.Position.Add(f.Normalize().Scale(distance)))
}

func (c *Camera) MoveRight(distance float64) {
	c.SetPosition(c.Position.Add(c.Right().Scale(distance)))
}

func (c *Camera) MoveUp(distance float64) {
	c.SetPosition(c.Position.Add(math3d.Up().Scale(distance)))
}

// maxPitch keeps the view direction away from straight up or down.
const maxPitch = math.Pi/2 - 0.01

// Rotate adds to pitch and yaw. Pitch is clamped short of vertical.
func (c *Camera) Rotate(deltaPitch, deltaYaw float64) {
	c.Pitch = math3d.Clamp(c.Pitch+deltaPitch, -maxPitch, maxPitch)
	c.Yaw += deltaYaw
	c.viewDirty = true
}

// LookAt turns the camera towards target.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Position).Normalize()
	c.Pitch = math3d.Clamp(math.Asin(dir.Y), -maxPitch, maxPitch)
	c.Yaw = math.Atan2(-dir.X, -dir.Z)
	c.viewDirty = true
}

// Orbit places the camera distance units from target at the given yaw and
// pitch, looking at target.
func (c *Camera) Orbit(target math3d.Vec3, distance, yaw, pitch float64) {
	pitch = math3d.Clamp(pitch, -maxPitch, maxPitch)
	offset := math3d.V3(
		math.Sin(yaw)*math.Cos(pitch),
		math.Sin(pitch),
		math.Cos(yaw)*math.Cos(pitch),
	).Scale(distance)
	c.Position = target.Add(offset)
	c.Yaw = yaw
	c.Pitch = -pitch
	c.viewDirty = true
}
