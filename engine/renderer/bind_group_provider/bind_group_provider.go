package bind_group_provider

import (
	"github.com/cogentcore/webgpu/wgpu"
)

// bindGroupProvider is the implementation of the BindGroupProvider interface.
type bindGroupProvider struct {
	label string

	bindGroup *wgpu.BindGroup

	uniformBuffer *wgpu.Buffer
	textureView   *wgpu.TextureView
	sampler       *wgpu.Sampler

	vertexBuffer *wgpu.Buffer
	indexBuffer  *wgpu.Buffer
	indexCount   int
}

// BindGroupProvider owns the GPU resources for one drawable mesh: vertex and
// index buffers, the per-mesh uniform buffer, the bound texture and sampler,
// and the bind group tying them together.
type BindGroupProvider interface {
	// Label returns the provider's debug label.
	//
	// Returns:
	//   - string: the label given at construction
	Label() string

	// BindGroup returns the mesh's bind group, or nil before initialization.
	//
	// Returns:
	//   - *wgpu.BindGroup: the bind group
	BindGroup() *wgpu.BindGroup

	// UniformBuffer returns the per-mesh uniform buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the uniform buffer
	UniformBuffer() *wgpu.Buffer

	// TextureView returns the bound texture view.
	//
	// Returns:
	//   - *wgpu.TextureView: the texture view
	TextureView() *wgpu.TextureView

	// Sampler returns the bound sampler.
	//
	// Returns:
	//   - *wgpu.Sampler: the sampler
	Sampler() *wgpu.Sampler

	// VertexBuffer returns the mesh's vertex buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the vertex buffer
	VertexBuffer() *wgpu.Buffer

	// IndexBuffer returns the mesh's index buffer.
	//
	// Returns:
	//   - *wgpu.Buffer: the index buffer
	IndexBuffer() *wgpu.Buffer

	// IndexCount returns the number of indices to draw.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// SetBindGroup stores the bind group.
	SetBindGroup(bg *wgpu.BindGroup)

	// SetUniformBuffer stores the per-mesh uniform buffer.
	SetUniformBuffer(buf *wgpu.Buffer)

	// SetTextureView stores the texture view.
	SetTextureView(tv *wgpu.TextureView)

	// SetSampler stores the sampler.
	SetSampler(s *wgpu.Sampler)

	// SetVertexBuffer stores the vertex buffer.
	SetVertexBuffer(buf *wgpu.Buffer)

	// SetIndexBuffer stores the index buffer.
	SetIndexBuffer(buf *wgpu.Buffer)

	// SetIndexCount stores the number of indices to draw.
	SetIndexCount(count int)

	// Release frees all owned GPU resources. Safe to call on a partially
	// initialized provider.
	Release()
}

var _ BindGroupProvider = &bindGroupProvider{}

// NewBindGroupProvider creates an empty provider with the given debug label.
//
// Parameters:
//   - label: debug label used on created GPU objects
//
// Returns:
//   - BindGroupProvider: the new provider
func NewBindGroupProvider(label string) BindGroupProvider {
	return &bindGroupProvider{label: label}
}

func (p *bindGroupProvider) Label() string {
	return p.label
}

func (p *bindGroupProvider) BindGroup() *wgpu.BindGroup {
	return p.bindGroup
}

func (p *bindGroupProvider) UniformBuffer() *wgpu.Buffer {
	return p.uniformBuffer
}

func (p *bindGroupProvider) TextureView() *wgpu.TextureView {
	return p.textureView
}

func (p *bindGroupProvider) Sampler() *wgpu.Sampler {
	return p.sampler
}

func (p *bindGroupProvider) VertexBuffer() *wgpu.Buffer {
	return p.vertexBuffer
}

func (p *bindGroupProvider) IndexBuffer() *wgpu.Buffer {
	return p.indexBuffer
}

func (p *bindGroupProvider) IndexCount() int {
	return p.indexCount
}

func (p *bindGroupProvider) SetBindGroup(bg *wgpu.BindGroup) {
	p.bindGroup = bg
}

func (p *bindGroupProvider) SetUniformBuffer(buf *wgpu.Buffer) {
	p.uniformBuffer = buf
}

func (p *bindGroupProvider) SetTextureView(tv *wgpu.TextureView) {
	p.textureView = tv
}

func (p *bindGroupProvider) SetSampler(s *wgpu.Sampler) {
	p.sampler = s
}

func (p *bindGroupProvider) SetVertexBuffer(buf *wgpu.Buffer) {
	p.vertexBuffer = buf
}

func (p *bindGroupProvider) SetIndexBuffer(buf *wgpu.Buffer) {
	p.indexBuffer = buf
}

func (p *bindGroupProvider) SetIndexCount(count int) {
	p.indexCount = count
}

func (p *bindGroupProvider) Release() {
	if p.bindGroup != nil {
		p.bindGroup.Release()
		p.bindGroup = nil
	}
	if p.uniformBuffer != nil {
		p.uniformBuffer.Release()
		p.uniformBuffer = nil
	}
	if p.sampler != nil {
		p.sampler.Release()
		p.sampler = nil
	}
	if p.textureView != nil {
		p.textureView.Release()
		p.textureView = nil
	}
	if p.vertexBuffer != nil {
		p.vertexBuffer.Release()
		p.vertexBuffer = nil
	}
	if p.indexBuffer != nil {
		p.indexBuffer.Release()
		p.indexBuffer = nil
	}
}
