package fenestra

import (
	"github.com/bnema/fenestra/dpi"
	"github.com/bnema/fenestra/internal/backend"
)

// MonitorHandle is a snapshot of one native output. Handles are re-queried
// on each AvailableMonitors call and never cached by the loop; two handles
// compare equal when they wrap the same native output with the same
// reported state.
type MonitorHandle struct {
	output backend.Output
}

// Name returns the output's human-readable name, or "" when the server did
// not report one.
func (m MonitorHandle) Name() string { return m.output.Name }

// Position returns the output's position in device pixels. The native
// geometry is in logical units, so the position is geometry times scale.
func (m MonitorHandle) Position() dpi.PhysicalPosition {
	scale := m.output.Scale
	if scale == 0 {
		scale = 1.0
	}
	return dpi.PhysicalPosition{
		X: int32(float64(m.output.X) * scale),
		Y: int32(float64(m.output.Y) * scale),
	}
}

// Size returns the output's size in device pixels.
func (m MonitorHandle) Size() dpi.PhysicalSize {
	scale := m.output.Scale
	if scale == 0 {
		scale = 1.0
	}
	return dpi.LogicalSize{
		Width:  float64(m.output.Width),
		Height: float64(m.output.Height),
	}.ToPhysical(scale)
}

// ScaleFactor returns the output's scale factor.
func (m MonitorHandle) ScaleFactor() float64 {
	if m.output.Scale == 0 {
		return 1.0
	}
	return m.output.Scale
}

// CurrentVideoMode reports no mode: video-mode enumeration has no backend.
func (m MonitorHandle) CurrentVideoMode() (VideoModeHandle, bool) {
	return VideoModeHandle{}, false
}

// VideoModes returns an empty list: video-mode enumeration has no backend.
func (m MonitorHandle) VideoModes() []VideoModeHandle {
	return nil
}

// VideoModeHandle pairs a monitor with a size and optional refresh rate.
// No backend enumerates modes yet; the type models the future capability.
type VideoModeHandle struct {
	Monitor               MonitorHandle
	Size                  dpi.PhysicalSize
	RefreshRateMillihertz uint32
}
