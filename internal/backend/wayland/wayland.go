// Package wayland implements the display backend for the compositor
// protocol, on a pure-Go Wayland client. Native events are read on an
// internal goroutine and translated onto the backend event channel; the
// event loop goroutine owns all request-side calls.
package wayland

import (
	"fmt"
	"sort"
	"sync"
	"unsafe"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/logger"
	"github.com/rajveermalviya/go-wayland/wayland/client"
	xdg_shell "github.com/rajveermalviya/go-wayland/wayland/stable/xdg-shell"
)

// Backend is one live Wayland display connection.
type Backend struct {
	display  *client.Display
	ctx      *client.Context
	registry *client.Registry

	compositor *client.Compositor
	wmBase     *xdg_shell.WmBase

	mu      sync.Mutex
	outputs map[uint32]*output
	scheme  backend.ColorScheme

	events chan backend.Event
	closed chan struct{}
}

// output accumulates wl_output events until the done event marks the
// snapshot consistent.
type output struct {
	global uint32
	proxy  *client.Output

	name          string
	x, y          int32
	width, height int32
	scale         int32
	done          bool
}

// Connect establishes the Wayland connection and binds the globals the
// backend needs. Fails when the socket is unreachable or the compositor
// does not advertise wl_compositor and xdg_wm_base.
func Connect() (*Backend, error) {
	display, err := client.Connect("")
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Wayland display: %w", err)
	}

	b := &Backend{
		display: display,
		ctx:     display.Context(),
		outputs: make(map[uint32]*output),
		events:  make(chan backend.Event, 64),
		closed:  make(chan struct{}),
	}

	registry, err := display.GetRegistry()
	if err != nil {
		b.ctx.Close()
		return nil, fmt.Errorf("failed to get registry: %w", err)
	}
	b.registry = registry

	registry.SetGlobalHandler(b.handleGlobal)
	registry.SetGlobalRemoveHandler(b.handleGlobalRemove)

	// One roundtrip surfaces the globals, a second one the initial
	// burst of wl_output state behind each bind.
	if err := b.roundtrip(); err != nil {
		b.ctx.Close()
		return nil, fmt.Errorf("initial roundtrip failed: %w", err)
	}
	if err := b.roundtrip(); err != nil {
		b.ctx.Close()
		return nil, fmt.Errorf("output roundtrip failed: %w", err)
	}

	if b.compositor == nil {
		b.ctx.Close()
		return nil, fmt.Errorf("compositor does not advertise wl_compositor")
	}
	if b.wmBase == nil {
		b.ctx.Close()
		return nil, fmt.Errorf("compositor does not advertise xdg_wm_base")
	}

	go b.readLoop()
	return b, nil
}

// Registry globals the backend binds.
const (
	compositorInterface = "wl_compositor"
	wmBaseInterface     = "xdg_wm_base"
	outputInterface     = "wl_output"
)

func (b *Backend) handleGlobal(e client.RegistryGlobalEvent) {
	switch e.Interface {
	case compositorInterface:
		compositor := client.NewCompositor(b.ctx)
		if err := b.registry.Bind(e.Name, e.Interface, e.Version, compositor); err != nil {
			logger.Warnf("failed to bind wl_compositor: %v", err)
			return
		}
		b.compositor = compositor

	case wmBaseInterface:
		wmBase := xdg_shell.NewWmBase(b.ctx)
		if err := b.registry.Bind(e.Name, e.Interface, e.Version, wmBase); err != nil {
			logger.Warnf("failed to bind xdg_wm_base: %v", err)
			return
		}
		wmBase.SetPingHandler(func(p xdg_shell.WmBasePingEvent) {
			if err := wmBase.Pong(p.Serial); err != nil {
				logger.Warnf("xdg_wm_base pong failed: %v", err)
			}
		})
		b.wmBase = wmBase

	case outputInterface:
		proxy := client.NewOutput(b.ctx)
		version := e.Version
		if version > 4 {
			version = 4
		}
		if err := b.registry.Bind(e.Name, e.Interface, version, proxy); err != nil {
			logger.Warnf("failed to bind wl_output: %v", err)
			return
		}
		out := &output{global: e.Name, proxy: proxy, scale: 1}
		b.mu.Lock()
		b.outputs[e.Name] = out
		b.mu.Unlock()
		b.setupOutputHandlers(out)
	}
}

func (b *Backend) handleGlobalRemove(e client.RegistryGlobalRemoveEvent) {
	b.mu.Lock()
	_, known := b.outputs[e.Name]
	delete(b.outputs, e.Name)
	b.mu.Unlock()
	if known {
		b.emit(backend.OutputsChanged{})
	}
}

func (b *Backend) setupOutputHandlers(out *output) {
	out.proxy.SetGeometryHandler(func(e client.OutputGeometryEvent) {
		b.mu.Lock()
		out.x, out.y = e.X, e.Y
		b.mu.Unlock()
	})
	out.proxy.SetModeHandler(func(e client.OutputModeEvent) {
		if e.Flags&uint32(client.OutputModeCurrent) == 0 {
			return
		}
		b.mu.Lock()
		out.width, out.height = e.Width, e.Height
		b.mu.Unlock()
	})
	out.proxy.SetScaleHandler(func(e client.OutputScaleEvent) {
		b.mu.Lock()
		out.scale = e.Factor
		b.mu.Unlock()
	})
	out.proxy.SetNameHandler(func(e client.OutputNameEvent) {
		b.mu.Lock()
		out.name = e.Name
		b.mu.Unlock()
	})
	out.proxy.SetDoneHandler(func(client.OutputDoneEvent) {
		b.mu.Lock()
		first := !out.done
		out.done = true
		b.mu.Unlock()
		if first {
			b.emit(backend.OutputsChanged{})
		}
	})
}

// roundtrip blocks until the server has processed everything sent so far.
func (b *Backend) roundtrip() error {
	callback, err := b.display.Sync()
	if err != nil {
		return err
	}
	defer callback.Destroy()

	done := false
	callback.SetDoneHandler(func(client.CallbackDoneEvent) {
		done = true
	})
	for !done {
		b.ctx.Dispatch()
	}
	return nil
}

// readLoop pumps native events. Handlers run here and only translate and
// enqueue; they never touch request-side state.
func (b *Backend) readLoop() {
	for {
		select {
		case <-b.closed:
			return
		default:
		}
		b.ctx.Dispatch()
	}
}

// emit enqueues without blocking the reader; the loop drains every cycle,
// so a full queue means a stalled application and the event is dropped.
func (b *Backend) emit(ev backend.Event) {
	select {
	case b.events <- ev:
	default:
		logger.Warnf("event queue full, dropping %T", ev)
	}
}

func (b *Backend) Protocol() backend.Protocol { return backend.ProtocolWayland }

func (b *Backend) Conn() (unsafe.Pointer, error) {
	if b.display == nil {
		return nil, handle.ErrUnavailable
	}
	return unsafe.Pointer(b.display), nil
}

// Screen is meaningless on Wayland.
func (b *Backend) Screen() int { return 0 }

// Outputs snapshots the bound wl_outputs in a single pass under the lock.
func (b *Backend) Outputs() ([]backend.Output, error) {
	b.mu.Lock()
	snapshot := make([]backend.Output, 0, len(b.outputs))
	for _, out := range b.outputs {
		if !out.done {
			continue
		}
		scale := float64(out.scale)
		if scale == 0 {
			scale = 1.0
		}
		snapshot = append(snapshot, backend.Output{
			ID:     out.global,
			Name:   out.name,
			X:      out.x,
			Y:      out.y,
			Width:  out.width,
			Height: out.height,
			Scale:  scale,
		})
	}
	b.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool { return snapshot[i].ID < snapshot[j].ID })
	return snapshot, nil
}

func (b *Backend) outputProxy(id uint32) *client.Output {
	b.mu.Lock()
	defer b.mu.Unlock()
	if out, ok := b.outputs[id]; ok {
		return out.proxy
	}
	return nil
}

func (b *Backend) outputScale(proxy *client.Output) float64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, out := range b.outputs {
		if out.proxy == proxy && out.scale > 0 {
			return float64(out.scale)
		}
	}
	return 1.0
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
	return b.ctx.Close()
}
