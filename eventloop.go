// Package fenestra presents a single event-loop and window API over two
// incompatible display protocols, Wayland and X11. The active protocol is
// decided once when the display connection is acquired; callers never branch
// on it except through the protocol-tagged raw handles.
package fenestra

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/bnema/fenestra/dpi"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/backend/wayland"
	"github.com/bnema/fenestra/internal/backend/x11"
	"github.com/bnema/fenestra/internal/config"
	"github.com/bnema/fenestra/internal/logger"
)

// ControlFlow is the policy governing how the loop waits between dispatch
// cycles. The zero value is Wait.
type ControlFlow struct {
	kind     controlFlowKind
	deadline time.Time
}

type controlFlowKind int

const (
	flowWait controlFlowKind = iota
	flowPoll
	flowWaitUntil
)

// ControlFlowWait blocks until an event or a wake-up arrives.
func ControlFlowWait() ControlFlow { return ControlFlow{kind: flowWait} }

// ControlFlowPoll runs the loop continuously without blocking.
func ControlFlowPoll() ControlFlow { return ControlFlow{kind: flowPoll} }

// ControlFlowWaitUntil blocks like Wait but resumes at the deadline.
func ControlFlowWaitUntil(deadline time.Time) ControlFlow {
	return ControlFlow{kind: flowWaitUntil, deadline: deadline}
}

// IsWait reports whether the policy is an indefinite wait.
func (c ControlFlow) IsWait() bool { return c.kind == flowWait }

// IsPoll reports whether the policy is a busy poll.
func (c ControlFlow) IsPoll() bool { return c.kind == flowPoll }

// Deadline returns the WaitUntil deadline, if one is set.
func (c ControlFlow) Deadline() (time.Time, bool) {
	return c.deadline, c.kind == flowWaitUntil
}

// processLoop enforces the one-loop-per-process rule. A failed New releases
// the claim; a successful one holds it until Close.
var processLoop atomic.Bool

// EventLoop owns the native display connection and run loop. Construct at
// most one per process; a second New returns an OsError. The loop is
// consumed by RunApp and cannot be run twice.
type EventLoop struct {
	active   *ActiveEventLoop
	consumed bool
}

// New connects to the native display server. The protocol is probed from
// the environment (WAYLAND_DISPLAY, then DISPLAY) unless the configuration
// forces one. Fails with an OsError when no display is reachable.
func New() (*EventLoop, error) {
	if !processLoop.CompareAndSwap(false, true) {
		return nil, osError("an event loop already exists in this process", nil)
	}

	if err := config.Init(); err != nil {
		logger.Warnf("config load failed, using defaults: %v", err)
	}
	cfg := config.Get()
	if cfg.Logging.LogLevel != "" {
		logger.SetLevel(cfg.Logging.LogLevel)
	}

	proto, err := pickProtocol(cfg.Backend)
	if err != nil {
		processLoop.Store(false)
		return nil, err
	}

	var b backend.Backend
	switch proto {
	case backend.ProtocolWayland:
		b, err = wayland.Connect()
	case backend.ProtocolX11:
		b, err = x11.Connect()
	}
	if err != nil {
		processLoop.Store(false)
		return nil, osError(fmt.Sprintf("failed to connect to %s display", proto), err)
	}

	logger.Debugf("connected to %s display", proto)
	return newEventLoop(b), nil
}

// newEventLoop wires a loop around an already-connected backend.
func newEventLoop(b backend.Backend) *EventLoop {
	return &EventLoop{
		active: &ActiveEventLoop{
			backend:  b,
			wake:     make(chan struct{}, 1),
			windows:  make(map[WindowID]*Window),
			byNative: make(map[backend.Window]*Window),
		},
	}
}

// pickProtocol decides the display protocol once, before connecting.
func pickProtocol(forced string) (backend.Protocol, error) {
	switch forced {
	case "wayland":
		return backend.ProtocolWayland, nil
	case "x11":
		return backend.ProtocolX11, nil
	case "", "auto":
	default:
		return 0, osError(fmt.Sprintf("unknown backend %q in configuration", forced), nil)
	}
	if os.Getenv("WAYLAND_DISPLAY") != "" {
		return backend.ProtocolWayland, nil
	}
	if os.Getenv("DISPLAY") != "" {
		return backend.ProtocolX11, nil
	}
	return 0, osError("no display attached: neither WAYLAND_DISPLAY nor DISPLAY is set", nil)
}

// WindowTarget returns the loop's capability object. It is valid only while
// the EventLoop is alive.
func (el *EventLoop) WindowTarget() *ActiveEventLoop {
	return el.active
}

// RunApp transfers control to the loop. It blocks the calling goroutine
// until Exit is invoked from a handler callback, then returns nil for exit
// code 0 or an *ExitError otherwise.
func (el *EventLoop) RunApp(handler ApplicationHandler) error {
	if el.consumed {
		return osError("event loop already ran; construct a new process to run again", nil)
	}
	el.consumed = true

	a := el.active
	handler.Resumed(a)
	for !a.Exiting() {
		a.waitAndDispatch(handler)
		if a.Exiting() {
			break
		}
		handler.AboutToWait(a)
	}
	handler.LoopExiting(a)

	if err := el.Close(); err != nil {
		logger.Warnf("failed to close display connection: %v", err)
	}

	if code := a.exitCodeValue(); code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// Close tears down the display connection and releases the process-wide
// loop claim. Only needed when the loop is never run (e.g. one-shot monitor
// queries); RunApp closes on return.
func (el *EventLoop) Close() error {
	err := el.active.backend.Close()
	processLoop.Store(false)
	return err
}

// ActiveEventLoop is the loop's capability object: windows, proxies and
// monitor queries all come from here. Control-flow and exit state are owned
// by the loop goroutine; the only cross-thread entry point is the proxy.
type ActiveEventLoop struct {
	backend backend.Backend
	wake    chan struct{}

	// Loop-thread state. Mutated only from handler callback context.
	flow     ControlFlow
	exitCode *int
	nextID   uint64
	windows  map[WindowID]*Window
	byNative map[backend.Window]*Window
}

// CreateWindow translates the attributes into native builder calls and
// realizes one top-level surface. Unsupported attribute fields are accepted
// and silently ignored; they never fail construction.
func (a *ActiveEventLoop) CreateWindow(attrs WindowAttributes) (*Window, error) {
	a.logIgnoredAttributes(attrs)

	// Theme preference mutates the process-global scheme state; it is not
	// scoped to the one window.
	if attrs.PreferredTheme != nil {
		switch *attrs.PreferredTheme {
		case ThemeLight:
			a.backend.SetColorScheme(backend.ColorSchemeForceLight)
		case ThemeDark:
			a.backend.SetColorScheme(backend.ColorSchemeForceDark)
		}
	}

	// Initial sizing converts logical units at scale 1.0; the surface is
	// resized once the real per-window scale is known.
	size := attrs.SurfaceSize.ToPhysical(1.0)
	cfg := backend.WindowConfig{
		Title:     attrs.Title,
		Width:     size.Width,
		Height:    size.Height,
		Resizable: attrs.Resizable,
		Maximized: attrs.Maximized,
		Visible:   attrs.Visible,
		Decorated: attrs.Decorated,
	}
	if attrs.MinSurfaceSize != nil {
		minSize := attrs.MinSurfaceSize.ToPhysical(1.0)
		cfg.MinWidth = minSize.Width
		cfg.MinHeight = minSize.Height
	}

	switch fs := attrs.Fullscreen.(type) {
	case BorderlessFullscreen:
		cfg.Fullscreen = true
		if fs.Monitor != nil {
			output := fs.Monitor.output
			cfg.FullscreenOutput = &output
		}
	case ExclusiveFullscreen:
		logger.Debug("ignoring exclusive fullscreen request: unsupported")
	}

	native, err := a.backend.CreateWindow(cfg)
	if err != nil {
		return nil, &RequestError{Err: err}
	}

	a.nextID++
	w := &Window{id: WindowID(a.nextID), native: native, loop: a}
	a.windows[w.id] = w
	a.byNative[native] = w
	logger.Debugf("created window %d (%q, %dx%d)", w.id, cfg.Title, cfg.Width, cfg.Height)
	return w, nil
}

func (a *ActiveEventLoop) logIgnoredAttributes(attrs WindowAttributes) {
	if attrs.Position != nil {
		logger.Debug("ignoring unsupported window attribute: position")
	}
	if attrs.Transparent {
		logger.Debug("ignoring unsupported window attribute: transparency")
	}
	if attrs.Blur {
		logger.Debug("ignoring unsupported window attribute: blur")
	}
	if attrs.MaxSurfaceSize != nil {
		logger.Debug("ignoring unsupported window attribute: max surface size")
	}
	if attrs.ResizeIncrements != nil {
		logger.Debug("ignoring unsupported window attribute: resize increments")
	}
	if attrs.WindowLevel != 0 {
		logger.Debug("ignoring unsupported window attribute: window level")
	}
	if attrs.Active {
		logger.Debug("ignoring unsupported window attribute: activation")
	}
	if attrs.ParentWindow != nil {
		logger.Debug("ignoring unsupported window attribute: parent window")
	}
}

// CreateProxy returns a thread-safe handle that can wake a sleeping loop
// from any goroutine.
func (a *ActiveEventLoop) CreateProxy() *EventLoopProxy {
	return &EventLoopProxy{wake: a.wake}
}

// CreateCustomCursor is unimplemented on these backends.
func (a *ActiveEventLoop) CreateCustomCursor() error {
	return &RequestError{Err: notSupported("custom cursor creation")}
}

// AvailableMonitors returns a fresh snapshot of the native output list,
// collected in a single pass so it cannot race a concurrent list mutation.
func (a *ActiveEventLoop) AvailableMonitors() []MonitorHandle {
	outputs, err := a.backend.Outputs()
	if err != nil {
		logger.Warnf("monitor enumeration failed: %v", err)
		return nil
	}
	monitors := make([]MonitorHandle, 0, len(outputs))
	for _, out := range outputs {
		monitors = append(monitors, MonitorHandle{output: out})
	}
	return monitors
}

// PrimaryMonitor always reports none: the compositor protocol has no
// reliable primary-monitor concept, so neither backend claims one.
func (a *ActiveEventLoop) PrimaryMonitor() (MonitorHandle, bool) {
	return MonitorHandle{}, false
}

// ListenDeviceEvents is a no-op: raw device-event listening is unsupported.
func (a *ActiveEventLoop) ListenDeviceEvents(filter DeviceEventFilter) {}

// SystemTheme maps the four-way color-scheme state down to a ternary theme.
// A "default" or unrecognized scheme yields no theme.
func (a *ActiveEventLoop) SystemTheme() (Theme, bool) {
	switch config.Get().Theme {
	case "light":
		return ThemeLight, true
	case "dark":
		return ThemeDark, true
	}
	switch a.backend.ColorScheme() {
	case backend.ColorSchemePreferLight, backend.ColorSchemeForceLight:
		return ThemeLight, true
	case backend.ColorSchemePreferDark, backend.ColorSchemeForceDark:
		return ThemeDark, true
	default:
		return 0, false
	}
}

// SetControlFlow sets the wait policy read on the next dispatch cycle.
func (a *ActiveEventLoop) SetControlFlow(flow ControlFlow) {
	a.flow = flow
}

// ControlFlow returns the current wait policy.
func (a *ActiveEventLoop) ControlFlow() ControlFlow {
	return a.flow
}

// Exit requests a clean exit with code 0. The first recorded code wins;
// later calls do not change it.
func (a *ActiveEventLoop) Exit() {
	a.ExitWithCode(0)
}

// ExitWithCode requests an exit with the given code. Monotonic: once an
// exit is recorded it is never unset and the code never changes.
func (a *ActiveEventLoop) ExitWithCode(code int) {
	if a.exitCode != nil {
		return
	}
	a.exitCode = &code
}

// Exiting reports whether an exit has been requested.
func (a *ActiveEventLoop) Exiting() bool {
	return a.exitCode != nil
}

func (a *ActiveEventLoop) exitCodeValue() int {
	if a.exitCode == nil {
		return 0
	}
	return *a.exitCode
}

// OwnedDisplayHandle retains the display connection independent of any one
// window. It stays valid past window destruction, as long as the loop
// itself is alive.
func (a *ActiveEventLoop) OwnedDisplayHandle() OwnedDisplayHandle {
	return OwnedDisplayHandle{backend: a.backend}
}

// DisplayHandle resolves the raw protocol-tagged display handle. The handle
// borrows the live connection and must not outlive the loop.
func (a *ActiveEventLoop) DisplayHandle() (RawDisplayHandle, error) {
	return resolveDisplayHandle(a.backend)
}

// waitAndDispatch waits according to the control flow policy, then drains
// and dispatches every pending native event.
func (a *ActiveEventLoop) waitAndDispatch(handler ApplicationHandler) {
	if a.drainPending(handler) {
		return
	}

	flow := a.flow
	switch flow.kind {
	case flowPoll:
		// Busy-poll: come straight back around.
		return
	case flowWait:
		select {
		case ev := <-a.backend.Events():
			a.dispatchNative(handler, ev)
			a.drainPending(handler)
		case <-a.wake:
		}
	case flowWaitUntil:
		wait := time.Until(flow.deadline)
		if wait <= 0 {
			return
		}
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case ev := <-a.backend.Events():
			a.dispatchNative(handler, ev)
			a.drainPending(handler)
		case <-a.wake:
		case <-timer.C:
		}
	}
}

// drainPending dispatches everything already queued without blocking.
func (a *ActiveEventLoop) drainPending(handler ApplicationHandler) bool {
	dispatched := false
	for {
		select {
		case ev := <-a.backend.Events():
			a.dispatchNative(handler, ev)
			dispatched = true
		default:
			return dispatched
		}
	}
}

func (a *ActiveEventLoop) dispatchNative(handler ApplicationHandler, ev backend.Event) {
	switch e := ev.(type) {
	case backend.WindowResized:
		if w := a.byNative[e.Window]; w != nil {
			handler.WindowEvent(a, w.id, ResizedEvent{
				Size: dpi.PhysicalSize{Width: e.Width, Height: e.Height},
			})
		}
	case backend.WindowCloseRequested:
		if w := a.byNative[e.Window]; w != nil {
			handler.WindowEvent(a, w.id, CloseRequestedEvent{})
		}
	case backend.WindowRedrawRequested:
		if w := a.byNative[e.Window]; w != nil {
			handler.WindowEvent(a, w.id, RedrawRequestedEvent{})
		}
	case backend.WindowScaleChanged:
		if w := a.byNative[e.Window]; w != nil {
			handler.WindowEvent(a, w.id, ScaleFactorChangedEvent{ScaleFactor: e.Scale})
		}
	case backend.WindowDestroyed:
		if w := a.byNative[e.Window]; w != nil {
			handler.WindowEvent(a, w.id, DestroyedEvent{})
			delete(a.windows, w.id)
			delete(a.byNative, e.Window)
		}
	case backend.OutputsChanged:
		logger.Debug("output configuration changed")
	}
}

// EventLoopProxy wakes a sleeping loop from any goroutine. WakeUp carries
// no payload and guarantees only that the loop wakes at least once after
// the call returns; consecutive wake-ups coalesce.
type EventLoopProxy struct {
	wake chan struct{}
}

// WakeUp interrupts the loop's blocking wait. Safe from any goroutine.
func (p *EventLoopProxy) WakeUp() {
	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// OwnedDisplayHandle keeps the display connection reachable independent of
// any window, for graphics consumers that outlive individual windows.
type OwnedDisplayHandle struct {
	backend backend.Backend
}

// DisplayHandle resolves the raw protocol-tagged display handle.
func (h OwnedDisplayHandle) DisplayHandle() (RawDisplayHandle, error) {
	return resolveDisplayHandle(h.backend)
}
