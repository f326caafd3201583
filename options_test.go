package sprite

import "testing"

func TestRendererOptions(t *testing.T) {
	o := defaultOptions()
	for _, opt := range []RendererOption{
		WithVertexCapacity(4096),
		WithIndexCapacity(0), // ignored
		WithClearColor(Red),
		WithShaderSource("// custom"),
	} {
		opt(&o)
	}
	if o.vertexCapacity != 4096 {
		t.Errorf("vertexCapacity = %d, want 4096", o.vertexCapacity)
	}
	if o.indexCapacity != 1536 {
		t.Errorf("indexCapacity = %d, want default 1536", o.indexCapacity)
	}
	if o.clearColor == nil || *o.clearColor != Red {
		t.Errorf("clearColor = %v, want Red", o.clearColor)
	}
	if o.shaderSource != "// custom" {
		t.Errorf("shaderSource = %q", o.shaderSource)
	}
}

func TestWithShaderSourceReachesAdapter(t *testing.T) {
	rig := newTestRig(t, WithShaderSource(DefaultShaderSource+"// v2\n"))
	src := rig.renderer.DefaultShader().Source()
	if src != DefaultShaderSource+"// v2\n" {
		t.Errorf("default shader source not replaced")
	}
	if rig.adapter.pipelines[rig.renderer.DefaultShader().Pipeline()] != src {
		t.Error("adapter compiled a different source")
	}
}
