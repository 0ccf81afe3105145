// Package handle defines ABI-stable raw handles to native display and window
// objects, for handing to graphics APIs that create surfaces directly on the
// underlying protocol connection.
//
// A raw handle borrows the native object it points into and must not outlive
// it. Callers that need a connection handle living past a single window
// should obtain an owned display handle from the event loop instead.
package handle

import (
	"errors"
	"unsafe"
)

// ErrUnavailable is returned when the native object behind a handle exists
// but is not realized yet, so no pointer can be extracted.
var ErrUnavailable = errors.New("raw handle unavailable")

// RawDisplayHandle is one of exactly two protocol-tagged display handle
// variants: WaylandDisplayHandle or XlibDisplayHandle.
type RawDisplayHandle interface {
	isRawDisplayHandle()
}

// WaylandDisplayHandle points at a live Wayland display connection.
type WaylandDisplayHandle struct {
	// Display is an opaque pointer to the connection object. Never nil.
	Display unsafe.Pointer
}

// XlibDisplayHandle points at a live X server connection plus the screen
// number the connection was opened on.
type XlibDisplayHandle struct {
	// Display is an opaque pointer to the connection object. Never nil.
	Display unsafe.Pointer
	// Screen is the X screen number.
	Screen int
}

func (WaylandDisplayHandle) isRawDisplayHandle() {}
func (XlibDisplayHandle) isRawDisplayHandle()    {}

// RawWindowHandle is one of exactly two protocol-tagged window handle
// variants: WaylandWindowHandle or XlibWindowHandle.
type RawWindowHandle interface {
	isRawWindowHandle()
}

// WaylandWindowHandle points at the wl_surface backing a window.
type WaylandWindowHandle struct {
	Surface unsafe.Pointer
}

// XlibWindowHandle carries the X window resource ID and its visual.
type XlibWindowHandle struct {
	Window uint32
	Visual uint32
}

func (WaylandWindowHandle) isRawWindowHandle() {}
func (XlibWindowHandle) isRawWindowHandle()    {}
