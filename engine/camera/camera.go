package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-controls/common"
	"github.com/go-gl/mathgl/mgl64"
)

// ProjectionType identifies how a Camera projects the scene.
type ProjectionType int

const (
	// ProjectionPerspective is a pinhole perspective projection driven by Fov.
	ProjectionPerspective ProjectionType = iota
	// ProjectionOrthographic is a parallel projection driven by OrthoHeight and Zoom.
	ProjectionOrthographic
	// ProjectionCustom marks a projection the camera controls cannot reason about.
	// Matrices are supplied through SetCustomProjection and panning/zooming is disabled.
	ProjectionCustom
)

// String returns the projection name.
func (p ProjectionType) String() string {
	switch p {
	case ProjectionPerspective:
		return "perspective"
	case ProjectionOrthographic:
		return "orthographic"
	case ProjectionCustom:
		return "custom"
	default:
		return "unknown"
	}
}

type cameraImpl struct {
	mu *sync.Mutex

	position   mgl64.Vec3
	quaternion mgl64.Quat
	up         mgl64.Vec3

	projection  ProjectionType
	fov         float64
	zoom        float64
	aspect      float64
	near        float64
	far         float64
	orthoHeight float64

	viewMatrix              mgl64.Mat4
	projectionMatrix        mgl64.Mat4
	viewProjectionMatrix    mgl64.Mat4
	inverseProjectionMatrix mgl64.Mat4
}

// Camera defines the host scene graph camera mutated by the camera controls.
// The camera owns its transform (position, orientation, up vector) and projection
// parameters, and recomputes its view/projection matrices whenever they change.
type Camera interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl64.Vec3: world-space position
	Position() mgl64.Vec3

	// SetPosition moves the camera without changing its orientation.
	//
	// Parameters:
	//   - p: new world-space position
	SetPosition(p mgl64.Vec3)

	// Quaternion returns the camera's world-space orientation.
	//
	// Returns:
	//   - mgl64.Quat: the orientation
	Quaternion() mgl64.Quat

	// SetQuaternion sets the camera's orientation. The quaternion is normalized.
	//
	// Parameters:
	//   - q: new orientation
	SetQuaternion(q mgl64.Quat)

	// Up returns the camera's up vector used by LookAt.
	//
	// Returns:
	//   - mgl64.Vec3: the up vector
	Up() mgl64.Vec3

	// SetUp sets the camera's up vector.
	//
	// Parameters:
	//   - up: the up vector
	SetUp(up mgl64.Vec3)

	// LookAt rotates the camera so its -Z axis faces target, keeping Up as close to +Y as possible.
	//
	// Parameters:
	//   - target: world-space point to face
	LookAt(target mgl64.Vec3)

	// Direction returns the normalized world-space direction the camera faces.
	//
	// Returns:
	//   - mgl64.Vec3: the view direction
	Direction() mgl64.Vec3

	// Projection returns the projection type.
	Projection() ProjectionType

	// Fov returns the vertical field of view in radians (perspective only).
	Fov() float64

	// SetFov sets the vertical field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float64)

	// Zoom returns the zoom factor applied to the projection.
	Zoom() float64

	// SetZoom sets the zoom factor. Callers must invoke UpdateProjectionMatrix afterwards,
	// mirroring hosts where projection recomputation is explicit.
	//
	// Parameters:
	//   - zoom: zoom factor (> 0)
	SetZoom(zoom float64)

	// Aspect returns the aspect ratio (width / height).
	Aspect() float64

	// SetAspect sets the aspect ratio and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float64)

	// Near returns the near clipping plane distance.
	Near() float64

	// Far returns the far clipping plane distance.
	Far() float64

	// OrthoBounds returns the orthographic frustum bounds in camera space, before zoom is applied.
	//
	// Returns:
	//   - left, right, top, bottom: frustum edges
	OrthoBounds() (left, right, top, bottom float64)

	// UpdateProjectionMatrix recomputes the projection after zoom/fov changes.
	UpdateProjectionMatrix()

	// SetCustomProjection switches the camera to ProjectionCustom with the given matrix.
	//
	// Parameters:
	//   - m: the projection matrix
	SetCustomProjection(m mgl64.Mat4)

	// ViewMatrix returns the current view matrix (inverse of the camera's world transform).
	ViewMatrix() mgl64.Mat4

	// ProjectionMatrix returns the current projection matrix.
	ProjectionMatrix() mgl64.Mat4

	// ViewProjectionMatrix returns projection * view.
	ViewProjectionMatrix() mgl64.Mat4

	// InverseProjectionMatrix returns the inverse of the projection matrix.
	InverseProjectionMatrix() mgl64.Mat4

	// Frustum returns the view frustum planes for the current view and projection.
	Frustum() common.Frustum

	// Uniform returns the GPU-ready camera uniform for the current state.
	//
	// Returns:
	//   - GPUCameraUniform: view-projection matrix, position and zoom in float32
	Uniform() GPUCameraUniform
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new perspective Camera at (0, 0, 10) looking down -Z.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:          &sync.Mutex{},
		position:    mgl64.Vec3{0, 0, 10},
		quaternion:  mgl64.QuatIdent(),
		up:          mgl64.Vec3{0, 1, 0},
		projection:  ProjectionPerspective,
		fov:         45.0 * (math.Pi / 180.0), // radians
		zoom:        1.0,
		aspect:      1.0,
		near:        0.1,
		far:         2000.0,
		orthoHeight: 10.0,
	}
	for _, option := range options {
		option(c)
	}
	c.updateProjection()
	c.updateView()
	return c
}

func (c *cameraImpl) Position() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.position
}

func (c *cameraImpl) SetPosition(p mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.position = p
	c.updateView()
}

func (c *cameraImpl) Quaternion() mgl64.Quat {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quaternion
}

func (c *cameraImpl) SetQuaternion(q mgl64.Quat) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quaternion = q.Normalize()
	c.updateView()
}

func (c *cameraImpl) Up() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.up
}

func (c *cameraImpl) SetUp(up mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.up = up
}

func (c *cameraImpl) LookAt(target mgl64.Vec3) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.quaternion = common.LookAtQuat(c.position, target, c.up)
	c.updateView()
}

func (c *cameraImpl) Direction() mgl64.Vec3 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.quaternion.Rotate(mgl64.Vec3{0, 0, -1}).Normalize()
}

func (c *cameraImpl) Projection() ProjectionType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projection
}

func (c *cameraImpl) Fov() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) SetFov(fov float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateProjection()
}

func (c *cameraImpl) Zoom() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.zoom
}

func (c *cameraImpl) SetZoom(zoom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.zoom = zoom
}

func (c *cameraImpl) Aspect() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) SetAspect(aspect float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateProjection()
}

func (c *cameraImpl) Near() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) OrthoBounds() (left, right, top, bottom float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orthoBounds()
}

func (c *cameraImpl) UpdateProjectionMatrix() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateProjection()
}

func (c *cameraImpl) SetCustomProjection(m mgl64.Mat4) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.projection = ProjectionCustom
	c.projectionMatrix = m
	c.inverseProjectionMatrix = m.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

func (c *cameraImpl) ViewMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Frustum() common.Frustum {
	c.mu.Lock()
	defer c.mu.Unlock()
	return common.ExtractFrustum(c.viewProjectionMatrix)
}

func (c *cameraImpl) InverseProjectionMatrix() mgl64.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverseProjectionMatrix
}

func (c *cameraImpl) Uniform() GPUCameraUniform {
	c.mu.Lock()
	defer c.mu.Unlock()
	return GPUCameraUniform{
		ViewProj: common.ToMat4f32(c.viewProjectionMatrix),
		CameraPosition: [3]float32{
			float32(c.position[0]), float32(c.position[1]), float32(c.position[2]),
		},
		Zoom: float32(c.zoom),
	}
}

// orthoBounds returns the un-zoomed orthographic frustum edges derived from orthoHeight and aspect.
// Caller must hold the mutex.
func (c *cameraImpl) orthoBounds() (left, right, top, bottom float64) {
	halfH := c.orthoHeight / 2
	halfW := halfH * c.aspect
	return -halfW, halfW, halfH, -halfH
}

// updateView recomputes the view and view-projection matrices from position and orientation.
// Caller must hold the mutex.
func (c *cameraImpl) updateView() {
	world := mgl64.Translate3D(c.position[0], c.position[1], c.position[2]).Mul4(c.quaternion.Mat4())
	c.viewMatrix = world.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// updateProjection recalculates the projection, inverse projection and view-projection matrices.
// Custom projections are left untouched.
// Caller must hold the mutex.
func (c *cameraImpl) updateProjection() {
	switch c.projection {
	case ProjectionPerspective:
		fov := 2 * math.Atan(math.Tan(c.fov/2)/c.zoom)
		c.projectionMatrix = common.Perspective(fov, c.aspect, c.near, c.far)
	case ProjectionOrthographic:
		left, right, top, bottom := c.orthoBounds()
		c.projectionMatrix = common.Orthographic(
			left/c.zoom, right/c.zoom, bottom/c.zoom, top/c.zoom, c.near, c.far,
		)
	default:
		return
	}
	c.inverseProjectionMatrix = c.projectionMatrix.Inv()
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}
