// Package screen is an Ebitengine backend for glimmer: each grid cell is
// drawn as a square of pixels in a desktop window.
package screen

import (
	"fmt"
	"log"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/phanxgames/glimmer"
)

// Device renders a glimmer pixel grid into an ebiten image. It satisfies
// [glimmer.Device].
type Device struct {
	width  int
	height int
	pix    []byte // RGBA, one grid cell per texel
	frame  *ebiten.Image
	dirty  bool
}

// New creates a Device for a width x height grid.
func New(width, height int) (*Device, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("screen: invalid grid size %dx%d", width, height)
	}
	return &Device{
		width:  width,
		height: height,
		pix:    make([]byte, width*height*4),
		frame:  ebiten.NewImage(width, height),
	}, nil
}

// Size returns the grid dimensions.
func (d *Device) Size() (w, h int) { return d.width, d.height }

// SetPixel buffers a pixel write; the window picks it up on the next
// Present.
func (d *Device) SetPixel(x, y int, c glimmer.RGB) {
	if x < 0 || x >= d.width || y < 0 || y >= d.height {
		return
	}
	i := (y*d.width + x) * 4
	d.pix[i] = c.R
	d.pix[i+1] = c.G
	d.pix[i+2] = c.B
	d.pix[i+3] = 0xff
}

// Present marks the frame ready for upload.
func (d *Device) Present() { d.dirty = true }

// Logf writes to the standard logger.
func (d *Device) Logf(format string, args ...any) { log.Printf(format, args...) }

// RunConfig controls the window opened by [Run].
type RunConfig struct {
	Title string
	// PixelSize is the on-screen size of one grid cell. Defaults to 8.
	PixelSize int
	// TPS is the simulation rate in steps per second. Defaults to 60.
	TPS int
	// Step is called once per tick; it normally calls an animator's Step.
	// Returning an error stops the loop.
	Step func() error
}

// Run opens a window over dev and drives cfg.Step until it errors or the
// window closes. It must be called from the main goroutine.
func Run(dev *Device, cfg RunConfig) error {
	if cfg.PixelSize < 1 {
		cfg.PixelSize = 8
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	ebiten.SetWindowSize(dev.width*cfg.PixelSize, dev.height*cfg.PixelSize)
	ebiten.SetWindowTitle(cfg.Title)
	return ebiten.RunGame(&game{dev: dev, cfg: cfg})
}

type game struct {
	dev *Device
	cfg RunConfig
}

func (g *game) Update() error {
	if g.cfg.Step == nil {
		return nil
	}
	return g.cfg.Step()
}

func (g *game) Draw(dst *ebiten.Image) {
	if g.dev.dirty {
		g.dev.frame.WritePixels(g.dev.pix)
		g.dev.dirty = false
	}
	var op ebiten.DrawImageOptions
	op.GeoM.Scale(float64(g.cfg.PixelSize), float64(g.cfg.PixelSize))
	dst.DrawImage(g.dev.frame, &op)
}

func (g *game) Layout(w, h int) (int, int) {
	return g.dev.width * g.cfg.PixelSize, g.dev.height * g.cfg.PixelSize
}
