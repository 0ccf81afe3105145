// Package mock implements an in-process backend double. It stands in for a
// native display connection in tests, configurable to present as either
// display protocol.
package mock

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
)

// Backend is a fake display connection. The zero value is not usable;
// construct with New.
type Backend struct {
	mu       sync.Mutex
	protocol backend.Protocol
	screen   int
	outputs  []backend.Output
	scheme   backend.ColorScheme
	events   chan backend.Event
	windows  []*Window
	closed   bool

	// connToken is what Conn points at; it stands in for the native
	// connection object.
	connToken byte
	realized  bool
}

// New creates a connected double presenting as the given protocol.
func New(protocol backend.Protocol, outputs ...backend.Output) *Backend {
	return &Backend{
		protocol: protocol,
		outputs:  outputs,
		events:   make(chan backend.Event, 64),
		realized: true,
	}
}

// SetScreen sets the screen number reported for the X protocol.
func (b *Backend) SetScreen(screen int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.screen = screen
}

// SetRealized controls whether Conn succeeds. Unrealized connections model
// a display object that exists but cannot yet yield a pointer.
func (b *Backend) SetRealized(realized bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.realized = realized
}

// SetOutputs replaces the output list and signals the change.
func (b *Backend) SetOutputs(outputs []backend.Output) {
	b.mu.Lock()
	b.outputs = outputs
	b.mu.Unlock()
	b.Push(backend.OutputsChanged{})
}

// Push injects an event into the stream, as the native reader would.
func (b *Backend) Push(ev backend.Event) {
	b.events <- ev
}

// Windows returns every window created so far.
func (b *Backend) Windows() []*Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*Window(nil), b.windows...)
}

func (b *Backend) Protocol() backend.Protocol { return b.protocol }

func (b *Backend) Conn() (unsafe.Pointer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.realized || b.closed {
		return nil, handle.ErrUnavailable
	}
	return unsafe.Pointer(&b.connToken), nil
}

func (b *Backend) Screen() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.screen
}

func (b *Backend) Outputs() ([]backend.Output, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("mock backend closed")
	}
	return append([]backend.Output(nil), b.outputs...), nil
}

func (b *Backend) CreateWindow(cfg backend.WindowConfig) (backend.Window, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, fmt.Errorf("mock backend closed")
	}
	w := &Window{backend: b, cfg: cfg, scale: 1.0}
	b.windows = append(b.windows, w)
	return w, nil
}

func (b *Backend) Events() <-chan backend.Event { return b.events }

func (b *Backend) SetColorScheme(scheme backend.ColorScheme) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.scheme = scheme
}

func (b *Backend) ColorScheme() backend.ColorScheme {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.scheme
}

func (b *Backend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	return nil
}

// Window is a fake native surface.
type Window struct {
	backend *Backend

	mu         sync.Mutex
	cfg        backend.WindowConfig
	scale      float64
	destroyed  bool
	surfToken  byte
	unrealized bool
}

// SetScale updates the fake per-window scale and emits the change event.
func (w *Window) SetScale(scale float64) {
	w.mu.Lock()
	w.scale = scale
	w.mu.Unlock()
	w.backend.Push(backend.WindowScaleChanged{Window: w, Scale: scale})
}

// Config returns the translated config the window was created with.
func (w *Window) Config() backend.WindowConfig {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) SetTitle(title string) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("window destroyed")
	}
	w.cfg.Title = title
	return nil
}

func (w *Window) SetFullscreen(fullscreen bool, output *backend.Output) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return fmt.Errorf("window destroyed")
	}
	w.cfg.Fullscreen = fullscreen
	w.cfg.FullscreenOutput = output
	return nil
}

func (w *Window) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cfg.Fullscreen
}

func (w *Window) RequestRedraw() {
	w.backend.Push(backend.WindowRedrawRequested{Window: w})
}

func (w *Window) WindowHandle() (handle.RawWindowHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed || w.unrealized {
		return nil, handle.ErrUnavailable
	}
	switch w.backend.protocol {
	case backend.ProtocolWayland:
		return handle.WaylandWindowHandle{Surface: unsafe.Pointer(&w.surfToken)}, nil
	default:
		return handle.XlibWindowHandle{Window: 1, Visual: 0}, nil
	}
}

func (w *Window) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()
	w.backend.Push(backend.WindowDestroyed{Window: w})
	return nil
}
