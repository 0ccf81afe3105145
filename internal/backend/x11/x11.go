// Package x11 implements the display backend for the X server protocol on
// BurntSushi/xgb and xgbutil. Native events are read on an internal
// goroutine and translated onto the backend event channel.
package x11

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/xprop"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/logger"
)

// Backend is one live X server connection.
type Backend struct {
	xu   *xgbutil.XUtil
	root xproto.Window

	// wmDelete is the WM_DELETE_WINDOW atom, interned once at connect.
	wmDelete xproto.Atom

	mu      sync.Mutex
	windows map[xproto.Window]*Window
	scheme  backend.ColorScheme

	events chan backend.Event
	closed chan struct{}
}

// Connect establishes the X connection and initializes the RandR extension
// used for output enumeration.
func Connect() (*Backend, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X server: %w", err)
	}

	if err := randr.Init(xu.Conn()); err != nil {
		// Monitors degrade to the root geometry; not fatal.
		logger.Warnf("randr init failed, output enumeration degraded: %v", err)
	}

	wmDelete, err := xprop.Atm(xu, "WM_DELETE_WINDOW")
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("failed to intern WM_DELETE_WINDOW: %w", err)
	}

	b := &Backend{
		xu:       xu,
		root:     xu.RootWin(),
		wmDelete: wmDelete,
		windows:  make(map[xproto.Window]*Window),
		events:   make(chan backend.Event, 64),
		closed:   make(chan struct{}),
	}
	go b.readLoop()
	return b, nil
}

// readLoop pumps raw X events and translates the ones the model covers.
func (b *Backend) readLoop() {
	for {
		select {
		case <-b.closed:
			return
		default:
		}

		ev, xerr := b.xu.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			// Connection closed.
			return
		}
		if xerr != nil {
			logger.Debugf("X error: %v", xerr)
			continue
		}

		switch e := ev.(type) {
		case xproto.ConfigureNotifyEvent:
			if w := b.lookup(e.Window); w != nil {
				b.emit(backend.WindowResized{
					Window: w,
					Width:  uint32(e.Width),
					Height: uint32(e.Height),
				})
			}
		case xproto.ExposeEvent:
			// Only the final expose in a series triggers a redraw.
			if e.Count != 0 {
				continue
			}
			if w := b.lookup(e.Window); w != nil {
				b.emit(backend.WindowRedrawRequested{Window: w})
			}
		case xproto.ClientMessageEvent:
			if len(e.Data.Data32) == 0 || xproto.Atom(e.Data.Data32[0]) != b.wmDelete {
				continue
			}
			if w := b.lookup(e.Window); w != nil {
				b.emit(backend.WindowCloseRequested{Window: w})
			}
		case xproto.DestroyNotifyEvent:
			// Windows destroyed through Destroy already emitted their
			// event and left the table; anything else is unexpected.
			if w := b.lookup(e.Window); w != nil {
				b.forget(e.Window)
				b.emit(backend.WindowDestroyed{Window: w})
			}
		}
	}
}

func (b *Backend) lookup(id xproto.Window) *Window {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.windows[id]
}

func (b *Backend) forget(id xproto.Window) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.windows, id)
}

func (b *Backend) emit(ev backend.Event) {
	select {
	case b.events <- ev:
	default:
		logger.Warnf("event queue full, dropping %T", ev)
	}
}

func (b *Backend) Protocol() backend.Protocol { return backend.ProtocolX11 }

func (b *Backend) Conn() (unsafe.Pointer, error) {
	if b.xu == nil || b.xu.Conn() == nil {
		return nil, handle.ErrUnavailable
	}
	return unsafe.Pointer(b.xu.Conn()), nil
}

// Screen returns the screen number the connection was opened on.
func (b *Backend) Screen() int {
	return b.xu.Conn().DefaultScreen
}

// Outputs enumerates active CRTCs via RandR in a single pass.
func (b *Backend) Outputs() ([]backend.Output, error) {
	resources, err := randr.GetScreenResources(b.xu.Conn(), b.root).Reply()
	if err != nil {
		return nil, fmt.Errorf("failed to get screen resources: %w", err)
	}

	var outputs []backend.Output
	for i, crtc := range resources.Crtcs {
		crtcInfo, err := randr.GetCrtcInfo(b.xu.Conn(), crtc, resources.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		// Skip disabled CRTCs.
		if crtcInfo.Width == 0 || crtcInfo.Height == 0 || len(crtcInfo.Outputs) == 0 {
			continue
		}

		name := fmt.Sprintf("Monitor%d", i)
		if outputInfo, err := randr.GetOutputInfo(b.xu.Conn(), crtcInfo.Outputs[0], resources.ConfigTimestamp).Reply(); err == nil {
			name = string(outputInfo.Name)
		}

		outputs = append(outputs, backend.Output{
			ID:     uint32(i),
			Name:   name,
			X:      int32(crtcInfo.X),
			Y:      int32(crtcInfo.Y),
			Width:  int32(crtcInfo.Width),
			Height: int32(crtcInfo.Height),
			// X11 reports geometry in device pixels already; keeping
			// scale at 1.0 makes logical and physical agree.
			Scale: 1.0,
		})
	}
	return outputs, nil
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
	select {
	case <-b.closed:
		return nil
	default:
	}
	close(b.closed)
	b.xu.Conn().Close()
	return nil
}
