package backend

// Event is a native event translated to the protocol-agnostic model.
// Events reference the backend Window they belong to; the event loop keeps
// the side table mapping backend windows to public window identities.
type Event interface {
	isEvent()
}

// WindowResized reports a new surface size in device pixels.
type WindowResized struct {
	Window Window
	Width  uint32
	Height uint32
}

// WindowCloseRequested reports that the user asked the window to close.
type WindowCloseRequested struct {
	Window Window
}

// WindowRedrawRequested reports that the window should be redrawn, either
// because the server exposed it or because the application requested it.
type WindowRedrawRequested struct {
	Window Window
}

// WindowScaleChanged reports a new per-window scale factor.
type WindowScaleChanged struct {
	Window Window
	Scale  float64
}

// WindowDestroyed reports that the native surface is gone. It is the last
// event delivered for a window.
type WindowDestroyed struct {
	Window Window
}

// OutputsChanged reports that the native output list was mutated.
type OutputsChanged struct{}

func (WindowResized) isEvent()        {}
func (WindowCloseRequested) isEvent() {}
func (WindowRedrawRequested) isEvent() {}
func (WindowScaleChanged) isEvent()   {}
func (WindowDestroyed) isEvent()      {}
func (OutputsChanged) isEvent()       {}
