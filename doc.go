// Package sprite is the rendering core of a small 2D game engine.
//
// # Overview
//
// sprite draws textured quads into the frames of a window. A Renderer owns
// one Device (the window's swapchain and GPU adapter), compiles the default
// shader and batches consecutive draws that share a texture and shader into
// a single GPU submission.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/sprite"
//	    "github.com/gogpu/sprite/backend/native"
//	)
//
//	dev, err := native.NewDevice(window, provider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r, err := sprite.NewRenderer(dev, sprite.WithClearColor(sprite.Black))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	player, _ := r.NewSpriteFromImage(img)
//
//	// Once per frame:
//	err = r.Render(func(ctx *sprite.RenderContext) error {
//	    return player.Render(ctx, sprite.NewRenderCommand(sprite.V2(100, 100)).
//	        WithPivot(player.Pivot(0.5, 0.5)).
//	        WithAngle(angle))
//	})
//
// # Render Passes
//
// Render acquires a frame, runs the closure with a RenderContext and then
// flushes and presents the frame exactly once, whether the closure returns
// normally, returns an error or panics. The context must not escape the
// closure; using it afterwards fails with *RenderTargetError.
//
// Window resizes are coalesced: the swapchain is rebuilt once, at the next
// frame acquisition, at the last reported size.
//
// # Backends
//
//   - backend/native: gogpu/wgpu HAL, shaders compiled by naga
//   - backend/webgpu: wgpu-native through cogentcore/webgpu
//   - backend/ebiten: ebitengine, for hosts that already run an ebiten game
//
// # Coordinate System
//
// Positions are in pixels: origin at the top-left, x right, y down.
// Sprite angles are in degrees, counter-clockwise.
//
// # Errors
//
// Failures are reported with four error types: *DeviceInitError when the
// GPU or swapchain cannot be set up, *FrameAcquisitionError when no frame
// can be acquired after one forced swapchain rebuild, *PresentationError
// when the frame cannot be presented and *RenderTargetError for draws
// outside a render pass.
package sprite

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
