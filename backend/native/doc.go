//go:build !nogpu

// Package native provides a Pure Go GPU backend for sprite using gogpu/wgpu.
//
// An [Adapter] implements gpucore.Adapter on a HAL device and queue:
// textures are RGBA8Unorm with a view and a bind group of their own, and
// pipelines are compiled from WGSL to SPIR-V by naga. Adapters come from a
// host ([NewHostAdapter], any gpucontext.DeviceProvider that exposes
// HalDevice/HalQueue), from a device the caller already owns ([NewAdapter])
// or from a device opened on a HAL backend ([NewStandaloneAdapter]).
//
// The host owns the platform surface. It implements [SurfaceSource] and
// hands out one texture view per frame; [Offscreen] is a SurfaceSource
// backed by a plain texture for headless rendering.
//
// Build with the nogpu tag to leave this package out.
package native
