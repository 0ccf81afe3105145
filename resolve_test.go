package fenestra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/backend/mock"
)

func TestDisplayHandleWayland(t *testing.T) {
	a := newEventLoop(mock.New(backend.ProtocolWayland)).WindowTarget()

	raw, err := a.DisplayHandle()
	require.NoError(t, err)

	wh, ok := raw.(handle.WaylandDisplayHandle)
	require.True(t, ok, "expected WaylandDisplayHandle, got %T", raw)
	assert.NotNil(t, wh.Display)
}

func TestDisplayHandleX11CarriesScreen(t *testing.T) {
	mb := mock.New(backend.ProtocolX11)
	mb.SetScreen(2)
	a := newEventLoop(mb).WindowTarget()

	raw, err := a.DisplayHandle()
	require.NoError(t, err)

	xh, ok := raw.(handle.XlibDisplayHandle)
	require.True(t, ok, "expected XlibDisplayHandle, got %T", raw)
	assert.NotNil(t, xh.Display)
	assert.Equal(t, 2, xh.Screen)
}

func TestDisplayHandleUnrealizedConnection(t *testing.T) {
	mb := mock.New(backend.ProtocolWayland)
	mb.SetRealized(false)
	a := newEventLoop(mb).WindowTarget()

	_, err := a.DisplayHandle()
	assert.ErrorIs(t, err, handle.ErrUnavailable)
}

func TestDisplayHandleUnknownProtocolPanics(t *testing.T) {
	mb := mock.New(backend.Protocol(99))
	a := newEventLoop(mb).WindowTarget()

	assert.Panics(t, func() { _, _ = a.DisplayHandle() })
}

func TestOwnedDisplayHandleOutlivesWindows(t *testing.T) {
	mb := mock.New(backend.ProtocolWayland)
	a := newEventLoop(mb).WindowTarget()

	w, err := a.CreateWindow(DefaultWindowAttributes())
	require.NoError(t, err)

	owned := a.OwnedDisplayHandle()
	require.NoError(t, w.Destroy())

	raw, err := owned.DisplayHandle()
	require.NoError(t, err)
	assert.IsType(t, handle.WaylandDisplayHandle{}, raw)
}
