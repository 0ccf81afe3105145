package wayland

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/logger"
	"github.com/rajveermalviya/go-wayland/wayland/client"
	xdg_shell "github.com/rajveermalviya/go-wayland/wayland/stable/xdg-shell"
)

// Window is one xdg-shell toplevel.
type Window struct {
	backend *Backend

	surface    *client.Surface
	xdgSurface *xdg_shell.Surface
	toplevel   *xdg_shell.Toplevel

	mu         sync.Mutex
	scale      float64
	fullscreen bool
	destroyed  bool
}

// CreateWindow realizes a wl_surface with an xdg toplevel role and applies
// the translated attributes through the protocol's builder-style requests.
func (b *Backend) CreateWindow(cfg backend.WindowConfig) (backend.Window, error) {
	surface, err := b.compositor.CreateSurface()
	if err != nil {
		return nil, fmt.Errorf("failed to create wl_surface: %w", err)
	}

	xdgSurface, err := b.wmBase.GetXdgSurface(surface)
	if err != nil {
		surface.Destroy()
		return nil, fmt.Errorf("failed to create xdg_surface: %w", err)
	}

	toplevel, err := xdgSurface.GetToplevel()
	if err != nil {
		xdgSurface.Destroy()
		surface.Destroy()
		return nil, fmt.Errorf("failed to create xdg_toplevel: %w", err)
	}

	w := &Window{
		backend:    b,
		surface:    surface,
		xdgSurface: xdgSurface,
		toplevel:   toplevel,
		scale:      1.0,
		fullscreen: cfg.Fullscreen,
	}

	if err := toplevel.SetTitle(cfg.Title); err != nil {
		logger.Warnf("failed to set title: %v", err)
	}
	if cfg.MinWidth > 0 || cfg.MinHeight > 0 {
		toplevel.SetMinSize(int32(cfg.MinWidth), int32(cfg.MinHeight))
	}
	if !cfg.Resizable {
		// xdg-shell has no resizable flag; pinning min and max to the
		// initial size is the protocol's way to say it.
		toplevel.SetMinSize(int32(cfg.Width), int32(cfg.Height))
		toplevel.SetMaxSize(int32(cfg.Width), int32(cfg.Height))
	}
	if cfg.Maximized {
		toplevel.SetMaximized()
	}
	if !cfg.Decorated {
		// Server-side decorations need zxdg_decoration_manager_v1, which
		// is not bound; compositors without it draw no decorations for
		// us anyway.
		logger.Debug("decorated=false: relying on compositor default decorations")
	}
	if cfg.Fullscreen {
		var target *client.Output
		if cfg.FullscreenOutput != nil {
			target = b.outputProxy(cfg.FullscreenOutput.ID)
		}
		// nil output lets the compositor choose the monitor.
		toplevel.SetFullscreen(target)
	}

	xdgSurface.SetConfigureHandler(func(e xdg_shell.SurfaceConfigureEvent) {
		xdgSurface.AckConfigure(e.Serial)
	})
	toplevel.SetConfigureHandler(func(e xdg_shell.ToplevelConfigureEvent) {
		if e.Width > 0 && e.Height > 0 {
			b.emit(backend.WindowResized{
				Window: w,
				Width:  uint32(e.Width),
				Height: uint32(e.Height),
			})
		}
	})
	toplevel.SetCloseHandler(func(xdg_shell.ToplevelCloseEvent) {
		b.emit(backend.WindowCloseRequested{Window: w})
	})
	surface.SetEnterHandler(func(e client.SurfaceEnterEvent) {
		scale := b.outputScale(e.Output)
		w.mu.Lock()
		changed := scale != w.scale
		w.scale = scale
		w.mu.Unlock()
		if changed {
			b.emit(backend.WindowScaleChanged{Window: w, Scale: scale})
		}
	})

	if cfg.Visible {
		// The first commit with no buffer maps the toplevel.
		if err := surface.Commit(); err != nil {
			w.Destroy()
			return nil, fmt.Errorf("failed to commit surface: %w", err)
		}
	} else {
		logger.Debug("visible=false: deferring initial surface commit")
	}

	return w, nil
}

func (w *Window) ScaleFactor() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.scale
}

func (w *Window) SetTitle(title string) error {
	return w.toplevel.SetTitle(title)
}

func (w *Window) SetFullscreen(fullscreen bool, output *backend.Output) error {
	w.mu.Lock()
	w.fullscreen = fullscreen
	w.mu.Unlock()
	if fullscreen {
		var target *client.Output
		if output != nil {
			target = w.backend.outputProxy(output.ID)
		}
		return w.toplevel.SetFullscreen(target)
	}
	return w.toplevel.UnsetFullscreen()
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
	if w.destroyed || w.surface == nil {
		return nil, handle.ErrUnavailable
	}
	return handle.WaylandWindowHandle{Surface: unsafe.Pointer(w.surface)}, nil
}

func (w *Window) Destroy() error {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return nil
	}
	w.destroyed = true
	w.mu.Unlock()

	w.toplevel.Destroy()
	w.xdgSurface.Destroy()
	w.surface.Destroy()
	w.backend.emit(backend.WindowDestroyed{Window: w})
	return nil
}
