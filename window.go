package fenestra

import (
	"github.com/bnema/fenestra/dpi"
	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/logger"
)

// WindowID identifies a window for the lifetime of the process. IDs are
// assigned monotonically at creation time and are opaque equality/hash keys;
// they carry no address or native meaning.
type WindowID uint64

// Theme is the ternary theme exposed to applications.
type Theme int

const (
	ThemeLight Theme = iota
	ThemeDark
)

func (t Theme) String() string {
	switch t {
	case ThemeLight:
		return "light"
	case ThemeDark:
		return "dark"
	default:
		return "unknown"
	}
}

// Fullscreen selects a fullscreen mode for a window.
type Fullscreen interface {
	isFullscreen()
}

// BorderlessFullscreen covers one monitor without changing video modes.
// A nil Monitor lets the server pick the current monitor.
type BorderlessFullscreen struct {
	Monitor *MonitorHandle
}

// ExclusiveFullscreen requests a video-mode change. Neither backend supports
// it; the request is accepted and silently ignored.
type ExclusiveFullscreen struct {
	Mode VideoModeHandle
}

func (BorderlessFullscreen) isFullscreen() {}
func (ExclusiveFullscreen) isFullscreen()  {}

// WindowAttributes describes a window to be created. It is consumed by
// CreateWindow and not retained.
//
// Fields the backends structurally cannot honor (Position, Transparent,
// Blur, MaxSurfaceSize, ResizeIncrements, WindowLevel, Active, ParentWindow)
// are accepted and silently ignored so that attribute sets remain portable
// across platform backends.
type WindowAttributes struct {
	Title          string
	Resizable      bool
	Maximized      bool
	Visible        bool
	Decorated      bool
	SurfaceSize    dpi.LogicalSize
	MinSurfaceSize *dpi.LogicalSize
	PreferredTheme *Theme
	Fullscreen     Fullscreen

	// Accepted but unsupported on these backends.
	Position         *dpi.LogicalPosition
	Transparent      bool
	Blur             bool
	MaxSurfaceSize   *dpi.LogicalSize
	ResizeIncrements *dpi.LogicalSize
	WindowLevel      int
	Active           bool
	ParentWindow     *WindowID
}

// DefaultWindowAttributes returns the attribute set used when callers leave
// everything unset.
func DefaultWindowAttributes() WindowAttributes {
	return WindowAttributes{
		Title:       "fenestra window",
		Resizable:   true,
		Visible:     true,
		Decorated:   true,
		SurfaceSize: dpi.LogicalSize{Width: 800, Height: 600},
	}
}

// Window is one native top-level surface.
type Window struct {
	id     WindowID
	native backend.Window
	loop   *ActiveEventLoop
}

// ID returns the window's stable identity key.
func (w *Window) ID() WindowID { return w.id }

// ScaleFactor reads the native per-window scale.
func (w *Window) ScaleFactor() float64 {
	return w.native.ScaleFactor()
}

// RequestRedraw queues a RedrawRequested event for this window. The event is
// delivered on the loop thread on the next dispatch cycle.
func (w *Window) RequestRedraw() {
	w.native.RequestRedraw()
}

// PrePresentNotify is a presentation hint; neither backend consumes it.
func (w *Window) PrePresentNotify() {}

// ResetDeadKeys is unsupported on these backends and does nothing.
func (w *Window) ResetDeadKeys() {}

// InnerPosition always fails: the compositor protocol assigns no global
// window coordinates, and the same contract is kept on X11 for uniformity.
func (w *Window) InnerPosition() (dpi.PhysicalPosition, error) {
	return dpi.PhysicalPosition{}, notSupported("inner position")
}

// OuterPosition always fails; see InnerPosition.
func (w *Window) OuterPosition() (dpi.PhysicalPosition, error) {
	return dpi.PhysicalPosition{}, notSupported("outer position")
}

// SetOuterPosition always fails; clients cannot position their own windows.
func (w *Window) SetOuterPosition(pos dpi.LogicalPosition) error {
	return notSupported("setting the outer position")
}

// SetTitle updates the window title.
func (w *Window) SetTitle(title string) error {
	return w.native.SetTitle(title)
}

// SetFullscreen switches fullscreen state at runtime. Exclusive mode is
// accepted and ignored, like at creation time.
func (w *Window) SetFullscreen(fs Fullscreen) error {
	switch fs := fs.(type) {
	case ExclusiveFullscreen:
		logger.Debug("ignoring exclusive fullscreen request: unsupported")
		return nil
	case BorderlessFullscreen:
		var output *backend.Output
		if fs.Monitor != nil {
			out := fs.Monitor.output
			output = &out
		}
		return w.native.SetFullscreen(true, output)
	default:
		return w.native.SetFullscreen(false, nil)
	}
}

// Fullscreen reports whether the window is currently fullscreen.
func (w *Window) Fullscreen() bool {
	return w.native.Fullscreen()
}

// WindowHandle returns the raw protocol-tagged window handle for graphics
// API interop. The handle borrows the native surface and must not outlive
// the window.
func (w *Window) WindowHandle() (handle.RawWindowHandle, error) {
	return w.native.WindowHandle()
}

// DisplayHandle resolves the raw display handle of the connection this
// window was created on. Graphics APIs typically need both handles to build
// a surface.
func (w *Window) DisplayHandle() (RawDisplayHandle, error) {
	return resolveDisplayHandle(w.loop.backend)
}

// Destroy tears down the native surface. A WindowDestroyed event is the last
// event delivered for this window.
func (w *Window) Destroy() error {
	return w.native.Destroy()
}
