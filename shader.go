package sprite

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"github.com/gogpu/sprite/gpucore"
)

// DefaultShaderSource is the WGSL of the default textured-quad shader.
//
// Custom shaders must keep the same interface: vertex attributes at
// locations 0-2 (pos, uv, color), the clip transform at group 0 binding 0,
// the texture at binding 1 and its sampler at binding 2.
const DefaultShaderSource = `
struct Uniforms {
    transform: mat4x4<f32>,
}

@group(0) @binding(0) var<uniform> uniforms: Uniforms;
@group(0) @binding(1) var t_diffuse: texture_2d<f32>;
@group(0) @binding(2) var s_diffuse: sampler;

struct VertexInput {
    @location(0) pos: vec2<f32>,
    @location(1) uv: vec2<f32>,
    @location(2) color: vec4<f32>,
}

struct VertexOutput {
    @builtin(position) clip: vec4<f32>,
    @location(0) uv: vec2<f32>,
    @location(1) color: vec4<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip = uniforms.transform * vec4<f32>(in.pos, 0.0, 1.0);
    out.uv = in.uv;
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(t_diffuse, s_diffuse, in.uv) * in.color;
}
`

// Shader is a compiled render pipeline. Shaders are immutable and may be
// shared by any number of draws.
type Shader struct {
	id       uint64
	source   string
	pipeline gpucore.PipelineID

	release  gpuRelease
	cleanup  runtime.Cleanup
	released atomic.Bool
}

func newShader(adapter gpucore.Adapter, label, source string) (*Shader, error) {
	id, err := adapter.CreatePipeline(gpucore.PipelineDescriptor{Label: label, WGSL: source})
	if err != nil {
		return nil, fmt.Errorf("sprite: create shader %q: %w", label, err)
	}
	s := &Shader{
		id:       newResourceID(),
		source:   source,
		pipeline: id,
		release:  gpuRelease{adapter: adapter, pipeline: id},
	}
	s.cleanup = runtime.AddCleanup(s, gpuRelease.run, s.release)
	return s, nil
}

// ID returns the shader's generation-stamped identifier.
func (s *Shader) ID() uint64 { return s.id }

// Source returns the WGSL source.
func (s *Shader) Source() string { return s.source }

// Pipeline returns the backend handle.
func (s *Shader) Pipeline() gpucore.PipelineID { return s.pipeline }

// Release destroys the pipeline now. Release is idempotent.
func (s *Shader) Release() {
	if s.released.Swap(true) {
		return
	}
	s.cleanup.Stop()
	s.release.run()
}
