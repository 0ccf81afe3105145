// Package dpi provides logical and physical pixel geometry types.
//
// Applications specify window and constraint sizes in logical units; the
// per-monitor (or per-window) scale factor converts them to device pixels.
package dpi

import "math"

// LogicalSize is a size in logical (scale-independent) units.
type LogicalSize struct {
	Width  float64
	Height float64
}

// PhysicalSize is a size in device pixels.
type PhysicalSize struct {
	Width  uint32
	Height uint32
}

// LogicalPosition is a position in logical units.
type LogicalPosition struct {
	X float64
	Y float64
}

// PhysicalPosition is a position in device pixels.
type PhysicalPosition struct {
	X int32
	Y int32
}

// ToPhysical converts the logical size to device pixels at the given scale
// factor, rounding to the nearest pixel.
func (s LogicalSize) ToPhysical(scale float64) PhysicalSize {
	return PhysicalSize{
		Width:  uint32(math.Round(s.Width * scale)),
		Height: uint32(math.Round(s.Height * scale)),
	}
}

// ToLogical converts the physical size back to logical units.
func (s PhysicalSize) ToLogical(scale float64) LogicalSize {
	return LogicalSize{
		Width:  float64(s.Width) / scale,
		Height: float64(s.Height) / scale,
	}
}

// ToPhysical converts the logical position to device pixels.
func (p LogicalPosition) ToPhysical(scale float64) PhysicalPosition {
	return PhysicalPosition{
		X: int32(math.Round(p.X * scale)),
		Y: int32(math.Round(p.Y * scale)),
	}
}

// ToLogical converts the physical position back to logical units.
func (p PhysicalPosition) ToLogical(scale float64) LogicalPosition {
	return LogicalPosition{
		X: float64(p.X) / scale,
		Y: float64(p.Y) / scale,
	}
}
