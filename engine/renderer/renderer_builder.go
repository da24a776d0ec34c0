package renderer

type RendererBuilderOption func(*rendererImpl)

// WithPresentMode sets the surface present mode.
//
// Parameters:
//   - mode: the PresentMode to use
//
// Returns:
//   - RendererBuilderOption: a function that sets the present mode
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *rendererImpl) {
		r.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count. Only MSAAOff and
// MSAA4x are accepted; other values fall back to MSAA4x.
//
// Parameters:
//   - sampleCount: the MSAA sample count
//
// Returns:
//   - RendererBuilderOption: a function that sets the sample count
func WithMSAA(sampleCount MSAASampleCount) RendererBuilderOption {
	return func(r *rendererImpl) {
		switch sampleCount {
		case MSAAOff, MSAA4x:
			r.sampleCount = sampleCount
		default:
			r.sampleCount = MSAA4x
		}
	}
}

// WithForceSoftwareRenderer forces adapter selection to a software fallback.
// Useful for headless environments or debugging driver issues.
//
// Returns:
//   - RendererBuilderOption: a function that enables the software adapter
func WithForceSoftwareRenderer() RendererBuilderOption {
	return func(r *rendererImpl) {
		r.forceSoftwareRender = true
	}
}
