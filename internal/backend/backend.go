// Package backend is the seam between the protocol-agnostic windowing API
// and the native display protocol implementations. Exactly one backend is
// connected per process, chosen once at display-acquisition time and tagged
// with its Protocol; no runtime type probing happens after that point.
package backend

import (
	"unsafe"

	"github.com/bnema/fenestra/handle"
)

// Protocol identifies which display protocol backs a connection.
type Protocol int

const (
	// ProtocolWayland is the compositor protocol: the server composites
	// client buffers and clients never position their own windows.
	ProtocolWayland Protocol = iota
	// ProtocolX11 is the X server protocol, with server-managed window
	// positions and an addressable screen number.
	ProtocolX11
)

func (p Protocol) String() string {
	switch p {
	case ProtocolWayland:
		return "wayland"
	case ProtocolX11:
		return "x11"
	default:
		return "unknown"
	}
}

// ColorScheme is the four-way color-scheme preference held process-wide by
// the backend. The public API maps it down to a ternary theme.
type ColorScheme int

const (
	ColorSchemeDefault ColorScheme = iota
	ColorSchemePreferLight
	ColorSchemeForceLight
	ColorSchemePreferDark
	ColorSchemeForceDark
)

// Output is a single-pass snapshot of one native output (monitor). Geometry
// is in logical units; physical position is geometry scaled by Scale.
type Output struct {
	ID     uint32
	Name   string
	X      int32
	Y      int32
	Width  int32
	Height int32
	Scale  float64
}

// WindowConfig is the translated, protocol-ready subset of the public window
// attributes. Sizes are in device pixels.
type WindowConfig struct {
	Title     string
	Width     uint32
	Height    uint32
	MinWidth  uint32
	MinHeight uint32
	Resizable bool
	Maximized bool
	Visible   bool
	Decorated bool

	Fullscreen bool
	// FullscreenOutput selects the output for fullscreen; nil lets the
	// server choose.
	FullscreenOutput *Output
}

// Backend is one live connection to a native display server.
//
// All methods except event consumption must be called from the goroutine
// that owns the event loop. Backends read native events on an internal
// reader goroutine that only translates and enqueues; the loop goroutine
// drains Events and dispatches.
type Backend interface {
	// Protocol reports the tag decided at connection time.
	Protocol() Protocol

	// Conn returns an opaque pointer to the live connection object, or
	// handle.ErrUnavailable if the connection is not realized.
	Conn() (unsafe.Pointer, error)

	// Screen returns the X screen number. Wayland backends return 0; the
	// value is only meaningful under ProtocolX11.
	Screen() int

	// Outputs snapshots the current output list in a single pass.
	Outputs() ([]Output, error)

	// CreateWindow realizes one native top-level surface.
	CreateWindow(cfg WindowConfig) (Window, error)

	// Events is the translated native event stream. The channel is never
	// closed while the backend is open.
	Events() <-chan Event

	// SetColorScheme mutates the process-global scheme state. This is a
	// toolkit-level side effect, not scoped to any one window.
	SetColorScheme(scheme ColorScheme)
	ColorScheme() ColorScheme

	// Close tears down the connection. Events stop flowing after Close.
	Close() error
}

// Window is one native top-level surface.
type Window interface {
	ScaleFactor() float64
	SetTitle(title string) error
	// SetFullscreen switches fullscreen state. A non-nil output pins the
	// window to that output; nil lets the server choose.
	SetFullscreen(fullscreen bool, output *Output) error
	Fullscreen() bool
	// RequestRedraw enqueues a redraw event for this window onto the
	// backend event stream.
	RequestRedraw()
	WindowHandle() (handle.RawWindowHandle, error)
	Destroy() error
}
