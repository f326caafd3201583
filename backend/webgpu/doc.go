//go:build !nogpu

// Package webgpu is a sprite backend on wgpu-native through
// github.com/cogentcore/webgpu.
//
// [NewDevice] owns the whole stack for one window: instance, surface,
// adapter, device and queue. WGSL is handed to wgpu-native unchanged.
// Surface acquisition failures are reported as surface.ErrSurfaceLost, so
// the frame manager rebuilds the swapchain once before giving up.
package webgpu
