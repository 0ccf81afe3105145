package fenestra

import (
	"fmt"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
)

// RawDisplayHandle re-exports the protocol-tagged display handle union.
type RawDisplayHandle = handle.RawDisplayHandle

// RawWindowHandle re-exports the protocol-tagged window handle union.
type RawWindowHandle = handle.RawWindowHandle

// resolveDisplayHandle turns the live connection into its protocol-tagged
// raw handle. The protocol was decided once at display-acquisition time, so
// there is exactly one branch per connection and no runtime type probing.
//
// A connection whose protocol tag is neither Wayland nor X11 violates the
// acquisition invariant; that is a hard failure, never an empty handle.
func resolveDisplayHandle(b backend.Backend) (handle.RawDisplayHandle, error) {
	conn, err := b.Conn()
	if err != nil {
		return nil, err
	}
	if conn == nil {
		return nil, handle.ErrUnavailable
	}

	switch proto := b.Protocol(); proto {
	case backend.ProtocolWayland:
		return handle.WaylandDisplayHandle{Display: conn}, nil
	case backend.ProtocolX11:
		return handle.XlibDisplayHandle{Display: conn, Screen: b.Screen()}, nil
	default:
		panic(fmt.Sprintf("display protocol is neither wayland nor x11: %d", proto))
	}
}
