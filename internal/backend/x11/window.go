package x11

import (
	"fmt"
	"sync"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
	"github.com/BurntSushi/xgbutil/motif"
	"github.com/BurntSushi/xgbutil/xwindow"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/logger"
)

// Window is one top-level X window.
type Window struct {
	backend *Backend
	win     *xwindow.Window
	visual  xproto.Visualid

	mu         sync.Mutex
	fullscreen bool
	destroyed  bool
}

// CreateWindow creates and configures a top-level window, speaking ICCCM
// and EWMH to the window manager for everything past raw geometry.
func (b *Backend) CreateWindow(cfg backend.WindowConfig) (backend.Window, error) {
	win, err := xwindow.Generate(b.xu)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate window id: %w", err)
	}

	err = win.CreateChecked(b.root, 0, 0, int(cfg.Width), int(cfg.Height),
		xproto.CwEventMask,
		xproto.EventMaskStructureNotify|xproto.EventMaskExposure)
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	w := &Window{
		backend:    b,
		win:        win,
		visual:     b.xu.Screen().RootVisual,
		fullscreen: cfg.Fullscreen,
	}
	b.mu.Lock()
	b.windows[win.Id] = w
	b.mu.Unlock()

	if err := ewmh.WmNameSet(b.xu, win.Id, cfg.Title); err != nil {
		logger.Warnf("failed to set title: %v", err)
	}
	if err := icccm.WmProtocolsSet(b.xu, win.Id, []string{"WM_DELETE_WINDOW"}); err != nil {
		logger.Warnf("failed to set WM_DELETE_WINDOW protocol: %v", err)
	}

	hints := icccm.NormalHints{}
	if cfg.MinWidth > 0 || cfg.MinHeight > 0 {
		hints.Flags |= icccm.SizeHintPMinSize
		hints.MinWidth = uint(cfg.MinWidth)
		hints.MinHeight = uint(cfg.MinHeight)
	}
	if !cfg.Resizable {
		// Pinning min and max to the initial size is how ICCCM spells
		// "not resizable".
		hints.Flags |= icccm.SizeHintPMinSize | icccm.SizeHintPMaxSize
		hints.MinWidth, hints.MaxWidth = uint(cfg.Width), uint(cfg.Width)
		hints.MinHeight, hints.MaxHeight = uint(cfg.Height), uint(cfg.Height)
	}
	if hints.Flags != 0 {
		if err := icccm.WmNormalHintsSet(b.xu, win.Id, &hints); err != nil {
			logger.Warnf("failed to set size hints: %v", err)
		}
	}

	if !cfg.Decorated {
		mh := motif.Hints{Flags: motif.HintDecorations, Decoration: motif.DecorationNone}
		if err := motif.WmHintsSet(b.xu, win.Id, &mh); err != nil {
			logger.Warnf("failed to set decoration hints: %v", err)
		}
	}

	if cfg.Visible {
		win.Map()
	} else {
		logger.Debug("visible=false: leaving window unmapped")
	}

	// _NET_WM_STATE requests only make sense once the window is known to
	// the window manager, so they go after the map.
	if cfg.Maximized && cfg.Visible {
		err := ewmh.WmStateReqExtra(b.xu, win.Id, ewmh.StateAdd,
			"_NET_WM_STATE_MAXIMIZED_VERT", "_NET_WM_STATE_MAXIMIZED_HORZ", 1)
		if err != nil {
			logger.Warnf("failed to request maximize: %v", err)
		}
	}
	if cfg.Fullscreen && cfg.Visible {
		if err := w.SetFullscreen(true, cfg.FullscreenOutput); err != nil {
			logger.Warnf("failed to request fullscreen: %v", err)
		}
	}

	return w, nil
}

// ScaleFactor is fixed at 1.0; X11 geometry is already in device pixels.
func (w *Window) ScaleFactor() float64 { return 1.0 }

func (w *Window) SetTitle(title string) error {
	return ewmh.WmNameSet(w.backend.xu, w.win.Id, title)
}

func (w *Window) SetFullscreen(fullscreen bool, output *backend.Output) error {
	w.mu.Lock()
	w.fullscreen = fullscreen
	w.mu.Unlock()

	action := ewmh.StateRemove
	if fullscreen {
		action = ewmh.StateAdd
		if output != nil {
			idx := uint(output.ID)
			mf := ewmh.WmFullscreenMonitors{Top: idx, Bottom: idx, Left: idx, Right: idx}
			if err := ewmh.WmFullscreenMonitorsReq(w.backend.xu, w.win.Id, &mf); err != nil {
				logger.Warnf("failed to pin fullscreen monitor: %v", err)
			}
		}
	}
	return ewmh.WmStateReq(w.backend.xu, w.win.Id, action, "_NET_WM_STATE_FULLSCREEN")
}

func (w *Window) Fullscreen() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.fullscreen
}

func (w *Window) RequestRedraw() {
	w.backend.emit(backend.WindowRedrawRequested{Window: w})
}

func (w *Window) WindowHandle() (handle.RawWindowHandle, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.destroyed {
		return nil, handle.ErrUnavailable
	}
	return handle.XlibWindowHandle{
		Window: uint32(w.win.Id),
		Visual: uint32(w.visual),
	}, nil
}

func (w *Window) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()

	w.backend.forget(w.win.Id)
	w.win.Destroy()
	w.backend.emit(backend.WindowDestroyed{Window: w})
	return nil
}
