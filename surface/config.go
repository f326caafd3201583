// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import "github.com/gogpu/gputypes"

// PresentMode selects how acquired images are queued for display.
type PresentMode uint8

const (
	// PresentModeFifo waits for vertical blank. Always supported.
	PresentModeFifo PresentMode = iota

	// PresentModeMailbox replaces the queued image; low latency, no tearing.
	PresentModeMailbox

	// PresentModeImmediate presents without waiting; may tear.
	PresentModeImmediate
)

// String returns the present mode name.
func (m PresentMode) String() string {
	switch m {
	case PresentModeFifo:
		return "Fifo"
	case PresentModeMailbox:
		return "Mailbox"
	case PresentModeImmediate:
		return "Immediate"
	default:
		return "Unknown"
	}
}

// Config is the swapchain configuration. While no frame is acquired it
// matches the drawable size of the surface.
type Config struct {
	Width       uint32
	Height      uint32
	Format      gputypes.TextureFormat
	PresentMode PresentMode
}

// State is the lifecycle state of a Manager.
type State uint8

const (
	// StateUnconfigured means Configure has not succeeded yet.
	StateUnconfigured State = iota

	// StateConfigured means a swapchain exists and no frame is outstanding.
	StateConfigured

	// StateFrameAcquired means a frame is outstanding until Present.
	StateFrameAcquired
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnconfigured:
		return "Unconfigured"
	case StateConfigured:
		return "Configured"
	case StateFrameAcquired:
		return "FrameAcquired"
	default:
		return "Unknown"
	}
}

// DefaultFormat is the swapchain format used when none is configured.
const DefaultFormat = gputypes.TextureFormatBGRA8Unorm

// Option configures a Manager.
type Option func(*options)

type options struct {
	format      gputypes.TextureFormat
	presentMode PresentMode
}

func defaultOptions() options {
	return options{
		format:      DefaultFormat,
		presentMode: PresentModeFifo,
	}
}

// WithFormat sets the swapchain pixel format.
func WithFormat(f gputypes.TextureFormat) Option {
	return func(o *options) {
		o.format = f
	}
}

// WithPresentMode sets the swapchain present mode.
func WithPresentMode(m PresentMode) Option {
	return func(o *options) {
		o.presentMode = m
	}
}

// clampDimension keeps swapchain sizes valid while a window is minimized.
func clampDimension(v int) uint32 {
	if v < 1 {
		return 1
	}
	return uint32(v)
}
