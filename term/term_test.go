package term

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/phanxgames/glimmer"
)

func simDevice(t *testing.T, w, h int) (*Device, tcell.SimulationScreen) {
	t.Helper()
	sim := tcell.NewSimulationScreen("UTF-8")
	if err := sim.Init(); err != nil {
		t.Fatalf("initialising simulation screen: %v", err)
	}
	sim.SetSize(w, h)
	return NewWithScreen(sim), sim
}

func TestDeviceSize(t *testing.T) {
	d, _ := simDevice(t, 20, 10)
	if w, h := d.Size(); w != 20 || h != 10 {
		t.Errorf("Size = %dx%d, want 20x10", w, h)
	}
}

func TestSetPixelPaintsBackground(t *testing.T) {
	d, sim := simDevice(t, 10, 10)

	d.SetPixel(3, 4, glimmer.RGB{R: 10, G: 20, B: 30})
	d.Present()

	_, _, style, _ := sim.GetContent(3, 4)
	_, bg, _ := style.Decompose()
	if bg != tcell.NewRGBColor(10, 20, 30) {
		t.Errorf("background at (3,4) = %v, want rgb(10,20,30)", bg)
	}
}

func TestSetPixelIgnoresOutOfRange(t *testing.T) {
	d, _ := simDevice(t, 5, 5)
	// Must not panic or write anywhere.
	d.SetPixel(-1, 0, glimmer.RGB{R: 255})
	d.SetPixel(0, -1, glimmer.RGB{R: 255})
	d.SetPixel(5, 0, glimmer.RGB{R: 255})
	d.SetPixel(0, 5, glimmer.RGB{R: 255})
}

func TestDeviceDrivesSurface(t *testing.T) {
	d, sim := simDevice(t, 8, 8)
	w, h := d.Size()
	s, err := glimmer.NewSurface(w, h, d)
	if err != nil {
		t.Fatalf("NewSurface: %v", err)
	}

	s.Paint(2, 2, glimmer.RGB{G: 200})
	s.Present()

	_, _, style, _ := sim.GetContent(2, 2)
	_, bg, _ := style.Decompose()
	if bg != tcell.NewRGBColor(0, 200, 0) {
		t.Errorf("background at (2,2) = %v, want rgb(0,200,0)", bg)
	}
}
