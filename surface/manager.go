// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"sync"
)

// Manager is the surface frame manager. It owns the swapchain and the
// current frame slot and guarantees a frame is acquirable unless the
// device is lost.
//
// The swapchain, its configuration, the pending resize and the current
// frame are guarded by one mutex, so acquisition, resize handling and
// presentation are atomic relative to one another.
type Manager struct {
	mu sync.Mutex

	swapchain Swapchain
	opts      options

	state  State
	config Config

	resizePending bool
	pendingWidth  uint32
	pendingHeight uint32

	current  *Frame
	seq      uint64
	rebuilds int
}

// NewManager creates an unconfigured manager over a swapchain.
func NewManager(sc Swapchain, opts ...Option) *Manager {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Manager{
		swapchain: sc,
		opts:      o,
	}
}

// Configure creates the swapchain at the given drawable size.
// Swapchain failures are reported as *DeviceInitError.
//
// Calling Configure on a configured manager reconfigures it and counts as
// a rebuild. It fails with ErrFrameOutstanding while a frame is acquired.
func (m *Manager) Configure(width, height int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateFrameAcquired {
		return &DeviceInitError{Op: "configure", Err: ErrFrameOutstanding}
	}

	cfg := Config{
		Width:       clampDimension(width),
		Height:      clampDimension(height),
		Format:      m.opts.format,
		PresentMode: m.opts.presentMode,
	}
	if err := m.swapchain.Configure(cfg); err != nil {
		return &DeviceInitError{Op: "configure swapchain", Err: err}
	}

	if m.state != StateUnconfigured {
		m.rebuilds++
	}
	m.config = cfg
	m.state = StateConfigured
	m.resizePending = false

	slogger().Info("surface: configured",
		"width", cfg.Width, "height", cfg.Height,
		"present_mode", cfg.PresentMode.String())
	return nil
}

// NotifyResized records a new drawable size. The swapchain is rebuilt by
// the next AcquireFrame; several notifications in a row collapse into one
// rebuild at the last size.
func (m *Manager) NotifyResized(width, height int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pendingWidth = clampDimension(width)
	m.pendingHeight = clampDimension(height)
	m.resizePending = true
}

// AcquireFrame returns the next frame. A pending resize is applied first.
//
// If the swapchain fails to acquire, the swapchain is rebuilt at the current
// size and acquisition is tried exactly once more. Failures are reported as
// *FrameAcquisitionError; the manager stays Configured.
func (m *Manager) AcquireFrame() (*Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateUnconfigured:
		return nil, &FrameAcquisitionError{Err: ErrNotConfigured}
	case StateFrameAcquired:
		return nil, &FrameAcquisitionError{Err: ErrFrameOutstanding}
	}

	if m.resizePending {
		cfg := m.config
		cfg.Width, cfg.Height = m.pendingWidth, m.pendingHeight
		if err := m.rebuildLocked(cfg); err != nil {
			return nil, &FrameAcquisitionError{Err: err}
		}
		m.resizePending = false
	}

	target, err := m.swapchain.Acquire()
	if err != nil {
		if !retryable(err) {
			return nil, &FrameAcquisitionError{Err: err}
		}
		slogger().Warn("surface: acquire failed, rebuilding swapchain", "err", err)

		if rerr := m.rebuildLocked(m.config); rerr != nil {
			return nil, &FrameAcquisitionError{Retried: true, Err: errors.Join(err, rerr)}
		}
		target, err = m.swapchain.Acquire()
		if err != nil {
			return nil, &FrameAcquisitionError{Retried: true, Err: err}
		}
	}

	m.seq++
	m.current = &Frame{
		seq:    m.seq,
		target: target,
		width:  m.config.Width,
		height: m.config.Height,
	}
	m.state = StateFrameAcquired
	return m.current, nil
}

// Present consumes the current frame and hands it to the platform for
// display. The frame slot is released even when the platform rejects the
// present; in that case the frame is discarded and *PresentationError is
// returned.
func (m *Manager) Present(f *Frame) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if f == nil || f != m.current {
		return &PresentationError{Op: "present", Err: ErrStaleFrame}
	}

	m.current = nil
	m.state = StateConfigured

	if err := m.swapchain.Present(f.target); err != nil {
		return &PresentationError{Op: "present", Err: err}
	}
	return nil
}

// Release destroys the swapchain. Any outstanding frame is discarded.
func (m *Manager) Release() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateUnconfigured {
		return
	}
	m.swapchain.Release()
	m.current = nil
	m.resizePending = false
	m.state = StateUnconfigured
}

// Config returns the active swapchain configuration.
func (m *Manager) Config() Config {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.config
}

// State returns the lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Rebuilds returns how many times the swapchain was recreated after the
// initial Configure.
func (m *Manager) Rebuilds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rebuilds
}

// ResizePending reports whether a resize is waiting for the next acquisition.
func (m *Manager) ResizePending() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resizePending
}

// rebuildLocked tears down and recreates the swapchain. m.mu must be held.
func (m *Manager) rebuildLocked(cfg Config) error {
	if err := m.swapchain.Configure(cfg); err != nil {
		return err
	}
	m.config = cfg
	m.rebuilds++
	slogger().Debug("surface: swapchain rebuilt",
		"width", cfg.Width, "height", cfg.Height, "rebuilds", m.rebuilds)
	return nil
}
