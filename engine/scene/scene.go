package scene

import (
	"fmt"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/camera"
	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
	"github.com/Carmen-Shannon/oxy-arcade/engine/raycast"
	"github.com/Carmen-Shannon/oxy-arcade/engine/renderer"
)

// ScreenSource supplies the pixels drawn onto the scene's display mesh each
// frame. Implementations return the staged frame and true when a new frame is
// available, or false to leave the previous frame on screen.
type ScreenSource func() (common.TextureStagingData, bool)

// Scene holds one loaded model, a camera, and a renderer, and keeps the
// model's display mesh fed from a ScreenSource. It also exposes the model's
// geometry in world space for ray picking.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Renderer returns the scene's renderer.
	Renderer() renderer.Renderer

	// SetRenderer replaces the scene's renderer.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r renderer.Renderer)

	// LoadModel uploads the model to the renderer and builds the world-space
	// pick geometry. The screen binding selects the display mesh. Replaces
	// any previously loaded model.
	//
	// Parameters:
	//   - m: the model to load
	//   - screen: the display mesh binding
	//
	// Returns:
	//   - error: an error if the upload fails or the display mesh is missing
	LoadModel(m *model.Model, screen renderer.ScreenBinding) error

	// Meshes returns the loaded model's meshes as world-space pick geometry.
	// The returned slice is shared; callers must not mutate it.
	//
	// Returns:
	//   - []*raycast.Mesh: the pickable meshes, nil before LoadModel
	Meshes() []*raycast.Mesh

	// ScreenMesh returns the display mesh's pick geometry.
	//
	// Returns:
	//   - *raycast.Mesh: the display mesh, nil before LoadModel
	ScreenMesh() *raycast.Mesh

	// SetScreenSource sets the pixel source for the display mesh. Pass nil to
	// freeze the display on its last frame.
	//
	// Parameters:
	//   - src: the frame source, polled once per PrepareFrame
	SetScreenSource(src ScreenSource)

	// PrepareFrame advances the camera, uploads a pending display frame if
	// the screen source has one, and pushes the camera transform to the
	// renderer. Call once per frame before DrawCalls.
	//
	// Parameters:
	//   - deltaTime: elapsed time since the last frame in seconds
	PrepareFrame(deltaTime float32)

	// DrawCalls issues draw calls for the loaded model.
	// Must be called within a BeginFrame/EndFrame block on the renderer.
	//
	// Returns:
	//   - error: an error if no renderer is attached
	DrawCalls() error
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	cam camera.Camera
	r   renderer.Renderer

	pickMeshes []*raycast.Mesh
	screenMesh *raycast.Mesh

	screenSource ScreenSource
}

var _ Scene = &scene{}

// NewScene creates a new Scene with the given camera and renderer. Both are
// required and NewScene panics if either is nil.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}
	if r == nil {
		panic("scene: NewScene requires a non-nil Renderer")
	}

	s := &scene{
		mu:     &sync.RWMutex{},
		name:   name,
		active: false,
		cam:    cam,
		r:      r,
	}

	for _, option := range options {
		option(s)
	}

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) SetRenderer(r renderer.Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
}

func (s *scene) LoadModel(m *model.Model, screen renderer.ScreenBinding) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return fmt.Errorf("scene %q has no renderer attached", s.name)
	}

	if err := s.r.UploadModel(m, screen); err != nil {
		return err
	}

	// Bake each mesh into world space once; the cabinet model never moves, so
	// pick geometry is computed at load time rather than per ray.
	screenMesh := m.FindMesh(screen.MeshName)
	s.pickMeshes = nil
	s.screenMesh = nil
	for _, mesh := range m.Meshes {
		pick := &raycast.Mesh{
			Name:      mesh.Name,
			Positions: mesh.WorldPositions(),
			UVs:       mesh.UVs,
			Indices:   mesh.Indices,
		}
		s.pickMeshes = append(s.pickMeshes, pick)
		if mesh == screenMesh {
			s.screenMesh = pick
		}
	}

	return nil
}

func (s *scene) Meshes() []*raycast.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pickMeshes
}

func (s *scene) ScreenMesh() *raycast.Mesh {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.screenMesh
}

func (s *scene) SetScreenSource(src ScreenSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screenSource = src
}

func (s *scene) PrepareFrame(deltaTime float32) {
	s.mu.RLock()
	cam := s.cam
	r := s.r
	src := s.screenSource
	s.mu.RUnlock()

	if cam == nil || r == nil {
		return
	}

	cam.Update(time.Now())
	r.SetCameraViewProjection(cam.ViewProjectionMatrix())

	if src != nil {
		if frame, ok := src(); ok {
			r.UpdateScreenTexture(frame)
		}
	}
}

func (s *scene) DrawCalls() error {
	s.mu.RLock()
	r := s.r
	s.mu.RUnlock()

	if r == nil {
		return fmt.Errorf("scene %q has no renderer attached", s.name)
	}
	r.DrawMeshes()
	return nil
}
