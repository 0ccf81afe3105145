package fenestra

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/fenestra/dpi"
	"github.com/bnema/fenestra/handle"
	"github.com/bnema/fenestra/internal/backend"
	"github.com/bnema/fenestra/internal/backend/mock"
)

func newTestWindow(t *testing.T, protocol backend.Protocol) (*Window, *mock.Backend) {
	t.Helper()
	mb := mock.New(protocol)
	w, err := newEventLoop(mb).WindowTarget().CreateWindow(DefaultWindowAttributes())
	require.NoError(t, err)
	return w, mb
}

func TestWindowIDsAreMonotonic(t *testing.T) {
	a := newEventLoop(mock.New(backend.ProtocolWayland)).WindowTarget()

	var prev WindowID
	for i := 0; i < 3; i++ {
		w, err := a.CreateWindow(DefaultWindowAttributes())
		require.NoError(t, err)
		assert.Greater(t, w.ID(), prev)
		prev = w.ID()
	}
}

func TestWindowPositionsAreNotSupported(t *testing.T) {
	for _, protocol := range []backend.Protocol{backend.ProtocolWayland, backend.ProtocolX11} {
		t.Run(protocol.String(), func(t *testing.T) {
			w, _ := newTestWindow(t, protocol)

			var nse *NotSupportedError

			_, err := w.InnerPosition()
			require.ErrorAs(t, err, &nse)

			_, err = w.OuterPosition()
			require.ErrorAs(t, err, &nse)

			err = w.SetOuterPosition(dpi.LogicalPosition{X: 10, Y: 10})
			require.ErrorAs(t, err, &nse)
		})
	}
}

func TestWindowSetTitle(t *testing.T) {
	w, mb := newTestWindow(t, backend.ProtocolWayland)

	require.NoError(t, w.SetTitle("renamed"))
	assert.Equal(t, "renamed", mb.Windows()[0].Config().Title)
}

func TestWindowSetFullscreen(t *testing.T) {
	w, _ := newTestWindow(t, backend.ProtocolWayland)

	require.NoError(t, w.SetFullscreen(BorderlessFullscreen{}))
	assert.True(t, w.Fullscreen())

	require.NoError(t, w.SetFullscreen(nil))
	assert.False(t, w.Fullscreen())

	// Exclusive mode is accepted but changes nothing.
	require.NoError(t, w.SetFullscreen(ExclusiveFullscreen{}))
	assert.False(t, w.Fullscreen())
}

func TestWindowSetFullscreenPinsMonitor(t *testing.T) {
	output := backend.Output{ID: 5, Name: "DP-1", Width: 2560, Height: 1440, Scale: 1.0}
	mb := mock.New(backend.ProtocolWayland, output)
	a := newEventLoop(mb).WindowTarget()

	w, err := a.CreateWindow(DefaultWindowAttributes())
	require.NoError(t, err)

	monitor := a.AvailableMonitors()[0]
	require.NoError(t, w.SetFullscreen(BorderlessFullscreen{Monitor: &monitor}))

	cfg := mb.Windows()[0].Config()
	assert.True(t, cfg.Fullscreen)
	require.NotNil(t, cfg.FullscreenOutput)
	assert.Equal(t, uint32(5), cfg.FullscreenOutput.ID)

	// Leaving fullscreen drops the pin.
	require.NoError(t, w.SetFullscreen(nil))
	cfg = mb.Windows()[0].Config()
	assert.False(t, cfg.Fullscreen)
	assert.Nil(t, cfg.FullscreenOutput)
}

func TestWindowHandleIsProtocolTagged(t *testing.T) {
	t.Run("wayland", func(t *testing.T) {
		w, _ := newTestWindow(t, backend.ProtocolWayland)

		raw, err := w.WindowHandle()
		require.NoError(t, err)

		wh, ok := raw.(handle.WaylandWindowHandle)
		require.True(t, ok, "expected WaylandWindowHandle, got %T", raw)
		assert.NotNil(t, wh.Surface)
	})

	t.Run("x11", func(t *testing.T) {
		w, _ := newTestWindow(t, backend.ProtocolX11)

		raw, err := w.WindowHandle()
		require.NoError(t, err)

		xh, ok := raw.(handle.XlibWindowHandle)
		require.True(t, ok, "expected XlibWindowHandle, got %T", raw)
		assert.NotZero(t, xh.Window)
	})
}

func TestWindowDisplayHandleMatchesConnection(t *testing.T) {
	w, _ := newTestWindow(t, backend.ProtocolWayland)

	raw, err := w.DisplayHandle()
	require.NoError(t, err)
	assert.IsType(t, handle.WaylandDisplayHandle{}, raw)
}

func TestWindowHandleAfterDestroy(t *testing.T) {
	w, _ := newTestWindow(t, backend.ProtocolWayland)

	require.NoError(t, w.Destroy())

	_, err := w.WindowHandle()
	assert.ErrorIs(t, err, handle.ErrUnavailable)
}

func TestDefaultWindowAttributes(t *testing.T) {
	attrs := DefaultWindowAttributes()

	assert.True(t, attrs.Resizable)
	assert.True(t, attrs.Visible)
	assert.True(t, attrs.Decorated)
	assert.Equal(t, dpi.LogicalSize{Width: 800, Height: 600}, attrs.SurfaceSize)
	assert.Nil(t, attrs.Fullscreen)
	assert.Nil(t, attrs.PreferredTheme)
}
