package scene

type SceneBuilderOption func(*scene)

// WithActive sets the scene's initial active state.
//
// Parameters:
//   - active: true to render the scene from the first frame
//
// Returns:
//   - SceneBuilderOption: a function that sets the active flag
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithScreenSource sets the display mesh's pixel source at construction.
//
// Parameters:
//   - src: the frame source, polled once per PrepareFrame
//
// Returns:
//   - SceneBuilderOption: a function that sets the screen source
func WithScreenSource(src ScreenSource) SceneBuilderOption {
	return func(s *scene) {
		s.screenSource = src
	}
}
