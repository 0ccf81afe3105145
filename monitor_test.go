package fenestra

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bnema/fenestra/dpi"
	"github.com/bnema/fenestra/internal/backend"
)

func TestMonitorGeometryScaling(t *testing.T) {
	m := MonitorHandle{output: backend.Output{
		Name:   "DP-1",
		X:      -1920,
		Y:      0,
		Width:  1920,
		Height: 1080,
		Scale:  2.0,
	}}

	assert.Equal(t, "DP-1", m.Name())
	assert.Equal(t, 2.0, m.ScaleFactor())
	assert.Equal(t, dpi.PhysicalPosition{X: -3840, Y: 0}, m.Position())
	assert.Equal(t, dpi.PhysicalSize{Width: 3840, Height: 2160}, m.Size())
}

func TestMonitorZeroScaleDefaultsToOne(t *testing.T) {
	m := MonitorHandle{output: backend.Output{Width: 1920, Height: 1080}}

	assert.Equal(t, 1.0, m.ScaleFactor())
	assert.Equal(t, dpi.PhysicalSize{Width: 1920, Height: 1080}, m.Size())
}

func TestMonitorHandleEquality(t *testing.T) {
	out := backend.Output{ID: 3, Name: "HDMI-1", Width: 2560, Height: 1440, Scale: 1.0}

	a := MonitorHandle{output: out}
	b := MonitorHandle{output: out}
	assert.Equal(t, a, b)

	out.Scale = 2.0
	c := MonitorHandle{output: out}
	assert.NotEqual(t, a, c)
}

func TestVideoModesAreEmpty(t *testing.T) {
	m := MonitorHandle{output: backend.Output{Name: "eDP-1"}}

	assert.Nil(t, m.VideoModes())
	_, ok := m.CurrentVideoMode()
	assert.False(t, ok)
}
