// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "errors"

// Sentinel errors for the surface package.
var (
	// ErrNotConfigured is returned when a frame is requested before Configure.
	ErrNotConfigured = errors.New("surface: not configured")

	// ErrFrameOutstanding is returned when a frame is requested while the
	// previous one has not been presented.
	ErrFrameOutstanding = errors.New("surface: frame already acquired")

	// ErrStaleFrame is returned when presenting a frame that is not the
	// current one (already presented, or from another manager).
	ErrStaleFrame = errors.New("surface: stale frame")

	// ErrNoFrame is returned by WindowDevice.WithFrame outside a frame.
	ErrNoFrame = errors.New("surface: no frame acquired")

	// ErrSurfaceLost is reported by swapchains when the platform surface
	// was lost or became outdated. Acquisition retries once after a rebuild.
	ErrSurfaceLost = errors.New("surface: surface lost")

	// ErrTimeout is reported by swapchains when acquisition timed out.
	ErrTimeout = errors.New("surface: acquire timeout")

	// ErrDeviceLost is reported by swapchains when the GPU device is gone.
	// It is never retried.
	ErrDeviceLost = errors.New("surface: device lost")

	// ErrNoAdapter is returned when no compatible GPU adapter exists.
	ErrNoAdapter = errors.New("surface: no compatible adapter")

	// ErrClosed is returned when using a closed device.
	ErrClosed = errors.New("surface: closed")
)

// DeviceInitError is returned when adapter or device negotiation fails
// while configuring a surface. It is fatal and never retried.
type DeviceInitError struct {
	Backend string
	Op      string
	Err     error
}

func (e *DeviceInitError) Error() string {
	msg := "surface: device init failed"
	if e.Backend != "" {
		msg += " (" + e.Backend + ")"
	}
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DeviceInitError) Unwrap() error { return e.Err }

// FrameAcquisitionError is returned when no frame could be acquired.
// Retried reports whether a forced swapchain rebuild was attempted first.
type FrameAcquisitionError struct {
	Retried bool
	Err     error
}

func (e *FrameAcquisitionError) Error() string {
	msg := "surface: frame acquisition failed"
	if e.Retried {
		msg += " after swapchain rebuild"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *FrameAcquisitionError) Unwrap() error { return e.Err }

// PresentationError is returned when the platform rejected a present.
// The frame is discarded; presentation is not retried.
type PresentationError struct {
	Op  string
	Err error
}

func (e *PresentationError) Error() string {
	msg := "surface: presentation failed"
	if e.Op != "" {
		msg += ": " + e.Op
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *PresentationError) Unwrap() error { return e.Err }

// retryable reports whether an acquisition failure is worth one forced
// swapchain rebuild.
func retryable(err error) bool {
	return !errors.Is(err, ErrDeviceLost)
}
