// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package sprite

import (
	"errors"

	"github.com/gogpu/sprite/surface"
)

// Sentinel errors for the sprite package.
var (
	// ErrContextConsumed is returned when drawing through a RenderContext
	// after its frame was presented.
	ErrContextConsumed = errors.New("sprite: render context already presented")

	// ErrNoContext is returned when drawing without a RenderContext.
	ErrNoContext = errors.New("sprite: no render context")

	// ErrForeignContext is returned when a resource is drawn through the
	// context of a different renderer.
	ErrForeignContext = errors.New("sprite: render context belongs to another renderer")

	// ErrRectOutOfBounds is returned when a sprite source rectangle does not
	// lie within its texture.
	ErrRectOutOfBounds = errors.New("sprite: source rectangle outside texture bounds")

	// ErrInvalidDimensions is returned for zero or negative texture sizes.
	ErrInvalidDimensions = errors.New("sprite: invalid dimensions")

	// ErrPixelDataSize is returned when pixel data does not match width*height*4.
	ErrPixelDataSize = errors.New("sprite: pixel data size mismatch")

	// ErrIndexOutOfRange is returned when a renderable's indices reference
	// vertices it does not provide.
	ErrIndexOutOfRange = errors.New("sprite: index out of range")

	// ErrTooManyVertices is returned when a single renderable exceeds the
	// 16-bit index range.
	ErrTooManyVertices = errors.New("sprite: too many vertices for one draw")

	// ErrNilResource is returned when a renderable has no texture or shader.
	ErrNilResource = errors.New("sprite: nil texture or shader")

	// ErrRendererClosed is returned when using a closed renderer.
	ErrRendererClosed = errors.New("sprite: renderer closed")

	// ErrPassInProgress is returned by Close while a render pass is running.
	ErrPassInProgress = errors.New("sprite: render pass in progress")
)

// Error taxonomy shared with the surface package.
type (
	// DeviceInitError reports a failed adapter or device negotiation.
	DeviceInitError = surface.DeviceInitError

	// FrameAcquisitionError reports that no frame could be acquired, after
	// at most one forced swapchain rebuild.
	FrameAcquisitionError = surface.FrameAcquisitionError

	// PresentationError reports that the platform rejected a present or the
	// final flush of a frame failed. The frame is discarded.
	PresentationError = surface.PresentationError
)

// RenderTargetError is returned when a draw operation is invoked with no
// active frame or render context. It is a programming error and is never
// ignored.
type RenderTargetError struct {
	Op  string
	Err error
}

func (e *RenderTargetError) Error() string {
	msg := "sprite: no render target"
	if e.Op != "" {
		msg += " for " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RenderTargetError) Unwrap() error { return e.Err }
