package fenestra

import "github.com/bnema/fenestra/dpi"

// ApplicationHandler receives loop callbacks. All methods run on the
// goroutine that called RunApp, in the order the native protocol raised the
// underlying events; the loop does not reorder or coalesce beyond what the
// server itself coalesces.
type ApplicationHandler interface {
	// Resumed fires once, before the first dispatch cycle.
	Resumed(loop *ActiveEventLoop)

	// WindowEvent delivers one translated native event for one window.
	WindowEvent(loop *ActiveEventLoop, id WindowID, event WindowEvent)

	// DeviceEvent never fires: raw device-event listening is unsupported
	// on these backends. The method exists for handler portability.
	DeviceEvent(loop *ActiveEventLoop, event DeviceEvent)

	// AboutToWait fires after each drained event batch, before the loop
	// waits again according to the control flow policy.
	AboutToWait(loop *ActiveEventLoop)

	// LoopExiting fires once, after Exit was observed and before RunApp
	// returns.
	LoopExiting(loop *ActiveEventLoop)
}

// WindowEvent is one of the window event types below.
type WindowEvent interface {
	isWindowEvent()
}

// ResizedEvent reports a new surface size in device pixels.
type ResizedEvent struct {
	Size dpi.PhysicalSize
}

// CloseRequestedEvent reports that the user asked the window to close.
// The application decides whether to Destroy the window or exit.
type CloseRequestedEvent struct{}

// RedrawRequestedEvent reports that the window needs to be redrawn.
type RedrawRequestedEvent struct{}

// ScaleFactorChangedEvent reports a new per-window scale factor.
type ScaleFactorChangedEvent struct {
	ScaleFactor float64
}

// DestroyedEvent is the last event delivered for a window.
type DestroyedEvent struct{}

func (ResizedEvent) isWindowEvent()            {}
func (CloseRequestedEvent) isWindowEvent()     {}
func (RedrawRequestedEvent) isWindowEvent()    {}
func (ScaleFactorChangedEvent) isWindowEvent() {}
func (DestroyedEvent) isWindowEvent()          {}

// DeviceEvent is a raw device event. Never delivered on these backends.
type DeviceEvent struct{}

// DeviceEventFilter selects when raw device events would be listened for.
// ListenDeviceEvents accepts any filter and does nothing with it.
type DeviceEventFilter int

const (
	DeviceEventsWhenFocused DeviceEventFilter = iota
	DeviceEventsAlways
	DeviceEventsNever
)
