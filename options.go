package sprite

// RendererOption configures a Renderer during creation.
//
// Example:
//
//	r, err := sprite.NewRenderer(dev,
//	    sprite.WithClearColor(sprite.Black),
//	    sprite.WithVertexCapacity(4096),
//	)
type RendererOption func(*rendererOptions)

// rendererOptions holds optional configuration for Renderer creation.
type rendererOptions struct {
	shaderSource   string
	vertexCapacity int
	indexCapacity  int
	clearColor     *Color
}

// defaultOptions returns the default renderer options.
func defaultOptions() rendererOptions {
	return rendererOptions{
		shaderSource:   DefaultShaderSource,
		vertexCapacity: 1024,
		indexCapacity:  1536,
	}
}

// WithShaderSource replaces the WGSL of the default shader. The source must
// keep the interface documented on DefaultShaderSource.
func WithShaderSource(wgsl string) RendererOption {
	return func(o *rendererOptions) {
		o.shaderSource = wgsl
	}
}

// WithVertexCapacity sets the initial streaming vertex buffer capacity.
// The buffer still grows on demand.
func WithVertexCapacity(n int) RendererOption {
	return func(o *rendererOptions) {
		if n > 0 {
			o.vertexCapacity = n
		}
	}
}

// WithIndexCapacity sets the initial streaming index buffer capacity.
func WithIndexCapacity(n int) RendererOption {
	return func(o *rendererOptions) {
		if n > 0 {
			o.indexCapacity = n
		}
	}
}

// WithClearColor clears every frame to c before the render closure runs.
// The closure still runs if the clear fails; Render then returns the clear
// error joined with any later one. By default the frame is not cleared.
func WithClearColor(c Color) RendererOption {
	return func(o *rendererOptions) {
		o.clearColor = &c
	}
}
