package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-arcade/common"
	"github.com/Carmen-Shannon/oxy-arcade/engine/model"
	"github.com/Carmen-Shannon/oxy-arcade/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-arcade/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// ScreenBinding describes which mesh in an uploaded model acts as the live
// display surface and how its dynamic texture is created and sampled.
type ScreenBinding struct {
	// MeshName selects the display mesh by name (case-insensitive).
	MeshName string

	// Width and Height are the dynamic texture dimensions in pixels.
	Width  uint32
	Height uint32

	// FlipU and FlipV mirror texture sampling on the display mesh. Models
	// authored with inverted UVs on the display surface set these so the
	// uploaded pixels read the right way around.
	FlipU bool
	FlipV bool
}

// meshEntry tracks the GPU resources and transform for one uploaded mesh.
type meshEntry struct {
	provider bind_group_provider.BindGroupProvider
	world    [16]float32
	flipU    bool
	flipV    bool
}

type rendererImpl struct {
	mu      *sync.Mutex
	backend RendererBackend
	window  window.Window

	presentMode         PresentMode
	sampleCount         MSAASampleCount
	forceSoftwareRender bool

	meshes        []*meshEntry
	screenTexture *wgpu.Texture
	fallbackView  *wgpu.TextureView
}

// Renderer draws an uploaded model every frame with the current camera
// transform, and keeps one mesh bound to a CPU-updatable texture that acts
// as the model's live display surface.
type Renderer interface {
	// Backend returns the underlying GPU backend.
	//
	// Returns:
	//   - RendererBackend: the backend instance
	Backend() RendererBackend

	// UploadModel creates GPU resources for every mesh in the model. The mesh
	// matching the screen binding samples a dynamic texture fed through
	// UpdateScreenTexture; all other meshes sample a solid fallback texture.
	// Replaces any previously uploaded model.
	//
	// Parameters:
	//   - m: the model to upload
	//   - screen: the display mesh binding
	//
	// Returns:
	//   - error: an error if the screen mesh is missing or GPU resource creation fails
	UploadModel(m *model.Model, screen ScreenBinding) error

	// UpdateScreenTexture uploads new pixel data to the display mesh texture.
	// Safe to call from any goroutine; no-op before UploadModel.
	//
	// Parameters:
	//   - stagingData: the pixel data to upload
	UpdateScreenTexture(stagingData common.TextureStagingData)

	// SetCameraViewProjection recomputes and uploads every mesh's
	// model-view-projection uniform from the given view-projection matrix.
	//
	// Parameters:
	//   - vp: the camera's combined view-projection matrix
	SetCameraViewProjection(vp [16]float32)

	// SetClearColor sets the background color.
	//
	// Parameters:
	//   - r, g, b, a: color channels in [0, 1]
	SetClearColor(r, g, b, a float64)

	// Resize reconfigures the surface for a new window size.
	//
	// Parameters:
	//   - width, height: the new size in pixels
	Resize(width, height int)

	// BeginFrame starts a new frame.
	//
	// Returns:
	//   - error: an error if the frame could not be started
	BeginFrame() error

	// DrawMeshes encodes draw calls for every uploaded mesh into the current frame.
	DrawMeshes()

	// EndFrame submits the frame's commands to the GPU.
	EndFrame()

	// Present presents the completed frame.
	Present()
}

var _ Renderer = &rendererImpl{}

// NewRenderer creates a Renderer for the given window using the specified backend.
// Options are applied before the backend is created.
//
// Parameters:
//   - backendType: the GPU backend to use
//   - w: the window to render into
//   - options: functional options (present mode, MSAA, software rendering)
//
// Returns:
//   - Renderer: the configured renderer
//   - error: an error if the backend could not be created
func NewRenderer(backendType RendererBackendType, w window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &rendererImpl{
		mu:          &sync.Mutex{},
		window:      w,
		presentMode: PresentModeVSync,
		sampleCount: MSAA4x,
	}
	for _, opt := range options {
		opt(r)
	}

	switch backendType {
	case BackendTypeWGPU:
		desc := w.SurfaceDescriptor()
		if desc == nil {
			return nil, fmt.Errorf("window has no surface descriptor")
		}
		r.backend = newWGPURendererBackend(desc, r.forceSoftwareRender, r.sampleCount)
	default:
		return nil, fmt.Errorf("unsupported renderer backend type: %d", backendType)
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(w.Width(), w.Height())
	if err := r.backend.InitMeshPipeline(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *rendererImpl) Backend() RendererBackend {
	return r.backend
}

func (r *rendererImpl) UploadModel(m *model.Model, screen ScreenBinding) error {
	screenMesh := m.FindMesh(screen.MeshName)
	if screenMesh == nil {
		return fmt.Errorf("model %q has no mesh named %q", m.Name, screen.MeshName)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.releaseMeshesLocked()

	if r.fallbackView == nil {
		view, err := r.createFallbackTexture()
		if err != nil {
			return err
		}
		r.fallbackView = view
	}

	screenTex, screenView, err := r.backend.CreateTexture("Screen Texture", screen.Width, screen.Height)
	if err != nil {
		return err
	}
	r.screenTexture = screenTex

	// Seed the screen texture so the display mesh renders black until the
	// first real frame arrives.
	r.backend.WriteTexture(screenTex, common.TextureStagingData{
		Pixels: opaqueBlack(screen.Width, screen.Height),
		Width:  screen.Width,
		Height: screen.Height,
	})

	for _, mesh := range m.Meshes {
		if len(mesh.Indices) == 0 {
			continue
		}

		provider := bind_group_provider.NewBindGroupProvider(mesh.Name)
		vertexData := common.SliceToBytes(mesh.InterleavedVertexData())
		indexData := common.SliceToBytes(mesh.Indices)
		if err := r.backend.InitMeshBuffers(provider, vertexData, indexData, len(mesh.Indices)); err != nil {
			return err
		}

		entry := &meshEntry{provider: provider, world: mesh.World}
		view := r.fallbackView
		if mesh == screenMesh {
			view = screenView
			entry.flipU = screen.FlipU
			entry.flipV = screen.FlipV
		}
		if err := r.backend.InitMeshBindGroup(provider, view); err != nil {
			return err
		}

		r.meshes = append(r.meshes, entry)
	}

	return nil
}

func (r *rendererImpl) UpdateScreenTexture(stagingData common.TextureStagingData) {
	r.mu.Lock()
	tex := r.screenTexture
	r.mu.Unlock()

	if tex == nil || len(stagingData.Pixels) == 0 {
		return
	}
	r.backend.WriteTexture(tex, stagingData)
}

func (r *rendererImpl) SetCameraViewProjection(vp [16]float32) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var mvp [16]float32
	for _, entry := range r.meshes {
		common.Mul4(mvp[:], vp[:], entry.world[:])
		r.backend.WriteMeshUniform(entry.provider, mvp, entry.flipU, entry.flipV)
	}
}

func (r *rendererImpl) SetClearColor(red, g, b, a float64) {
	r.backend.SetClearColor(wgpu.Color{R: red, G: g, B: b, A: a})
}

func (r *rendererImpl) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	r.backend.ConfigureSurface(width, height)
}

func (r *rendererImpl) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *rendererImpl) DrawMeshes() {
	r.mu.Lock()
	meshes := make([]*meshEntry, len(r.meshes))
	copy(meshes, r.meshes)
	r.mu.Unlock()

	for _, entry := range meshes {
		r.backend.DrawCall(entry.provider)
	}
}

func (r *rendererImpl) EndFrame() {
	r.backend.EndFrame()
}

func (r *rendererImpl) Present() {
	r.backend.Present()
}

// createFallbackTexture makes the 1x1 texture bound to meshes without a
// dynamic texture source.
func (r *rendererImpl) createFallbackTexture() (*wgpu.TextureView, error) {
	tex, view, err := r.backend.CreateTexture("Fallback Texture", 1, 1)
	if err != nil {
		return nil, err
	}
	r.backend.WriteTexture(tex, common.TextureStagingData{
		Pixels: []byte{46, 46, 52, 255},
		Width:  1,
		Height: 1,
	})
	return view, nil
}

func (r *rendererImpl) releaseMeshesLocked() {
	for _, entry := range r.meshes {
		entry.provider.Release()
	}
	r.meshes = nil
	if r.screenTexture != nil {
		r.screenTexture.Release()
		r.screenTexture = nil
	}
}

func opaqueBlack(width, height uint32) []byte {
	pixels := make([]byte, width*height*4)
	for i := 3; i < len(pixels); i += 4 {
		pixels[i] = 255
	}
	return pixels
}
