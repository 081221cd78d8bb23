// Package term is a tcell backend for glimmer: each grid cell is one
// terminal character cell painted with a 24-bit background colour.
package term

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glimmer"
)

// Device renders a glimmer pixel grid onto a tcell screen. It satisfies
// [glimmer.Device].
type Device struct {
	screen tcell.Screen
	width  int
	height int
}

// New initialises the terminal and returns a Device sized to it. Call
// Close before the program exits to restore the terminal.
func New() (*Device, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("term: creating screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("term: initialising screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack))
	screen.Clear()
	w, h := screen.Size()
	return &Device{screen: screen, width: w, height: h}, nil
}

// NewWithScreen wraps an existing screen, most usefully a
// tcell.SimulationScreen in tests.
func NewWithScreen(screen tcell.Screen) *Device {
	w, h := screen.Size()
	return &Device{screen: screen, width: w, height: h}
}

// Size returns the grid dimensions.
func (d *Device) Size() (w, h int) { return d.width, d.height }

// Screen exposes the underlying tcell screen for event polling.
func (d *Device) Screen() tcell.Screen { return d.screen }

// SetPixel paints one character cell with c as its background colour.
func (d *Device) SetPixel(x, y int, c glimmer.RGB) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	style := tcell.StyleDefault.Background(
		tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B)))
	d.screen.SetContent(x, y, ' ', nil, style)
}

// Present flushes buffered cells to the terminal.
func (d *Device) Present() { d.screen.Show() }

// Logf is discarded: the terminal is occupied by the animation.
func (d *Device) Logf(format string, args ...any) {}

// Close restores the terminal.
func (d *Device) Close() { d.screen.Fini() }
