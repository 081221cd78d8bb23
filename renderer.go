package glimmer

import "fmt"

// Device is the hardware-facing half of a [Surface]: the three operations
// a display backend must provide. Everything else (occupancy, palette,
// randomness, coordinate helpers) lives in Surface itself.
type Device interface {
	// SetPixel sets the colour of one pixel. Implementations may paint
	// immediately or buffer until Present.
	SetPixel(x, y int, c RGB)
	// Present pushes any buffered pixels to the display.
	Present()
	// Logf is a best-effort diagnostic sink. It must not block.
	Logf(format string, args ...any)
}

// Renderer is the capability set animators require from a display target.
// [Surface] is the standard implementation; animators hold the interface
// so they never depend on a concrete backend.
type Renderer interface {
	Width() int
	Height() int

	// RandomInt returns a uniform value in the half-open range [min, max).
	RandomInt(min, max int) int

	// Cell and SetCell access the occupancy grid by cell index
	// (y*Width() + x). A cell holds Empty or a palette colour id.
	Cell(idx int) uint8
	SetCell(idx int, id uint8)

	// ColorID returns the palette id for c, registering it if the palette
	// has room and substituting the nearest existing entry once full.
	// Black always maps to Empty.
	ColorID(c RGB) uint8
	// Color returns the colour registered for id. Empty returns Black.
	Color(id uint8) RGB

	// OffsetX and OffsetY shift a coordinate by delta, either wrapping
	// over the grid edge or clamping at it.
	OffsetX(x, delta int, wrap bool) int
	OffsetY(y, delta int, wrap bool) int

	SetPixel(x, y int, c RGB)
	Present()
	Logf(format string, args ...any)
}

// Surface is a pixel grid bound to a backend [Device]. It owns the
// occupancy array and colour palette shared by the animators, and
// forwards pixel output to the device.
//
// A Surface is not safe for concurrent use. One logical owner mutates it
// per frame; see the package documentation.
type Surface struct {
	width  int
	height int
	cells  []uint8
	pal    palette
	rng    Rand
	dev    Device
}

var _ Renderer = (*Surface)(nil)

// NewSurface creates a width x height Surface over dev.
func NewSurface(width, height int, dev Device) (*Surface, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("glimmer: invalid grid size %dx%d", width, height)
	}
	if dev == nil {
		return nil, fmt.Errorf("glimmer: nil device")
	}
	return &Surface{
		width:  width,
		height: height,
		cells:  make([]uint8, width*height),
		rng:    stdRand{},
		dev:    dev,
	}, nil
}

// SetRandomSource replaces the random source. The default is the shared
// math/rand/v2 generator; tests inject deterministic sources here.
func (s *Surface) SetRandomSource(r Rand) {
	if r != nil {
		s.rng = r
	}
}

// Width returns the grid width in pixels.
func (s *Surface) Width() int { return s.width }

// Height returns the grid height in pixels.
func (s *Surface) Height() int { return s.height }

// RandomInt returns a uniform value in [min, max). It panics if min >= max.
func (s *Surface) RandomInt(min, max int) int {
	return min + s.rng.IntN(max-min)
}

// Cell returns the occupancy value at cell index idx.
func (s *Surface) Cell(idx int) uint8 { return s.cells[idx] }

// SetCell stores an occupancy value at cell index idx.
func (s *Surface) SetCell(idx int, id uint8) { s.cells[idx] = id }

// ColorID registers c in the palette and returns its id.
func (s *Surface) ColorID(c RGB) uint8 { return s.pal.idFor(c) }

// Color returns the palette colour for id.
func (s *Surface) Color(id uint8) RGB { return s.pal.color(id) }

// OffsetX shifts x by delta, wrapping over the grid edge when wrap is
// true and clamping to it otherwise.
func (s *Surface) OffsetX(x, delta int, wrap bool) int {
	return offset(x, delta, s.width, wrap)
}

// OffsetY shifts y by delta, wrapping over the grid edge when wrap is
// true and clamping to it otherwise.
func (s *Surface) OffsetY(y, delta int, wrap bool) int {
	return offset(y, delta, s.height, wrap)
}

func offset(pos, delta, dim int, wrap bool) int {
	p := pos + delta
	if wrap {
		for p < 0 {
			p += dim
		}
		for p >= dim {
			p -= dim
		}
		return p
	}
	if p < 0 {
		return 0
	}
	if p >= dim {
		return dim - 1
	}
	return p
}

// Paint sets both the occupancy cell and the device pixel at (x, y).
func (s *Surface) Paint(x, y int, c RGB) {
	s.cells[y*s.width+x] = s.pal.idFor(c)
	s.dev.SetPixel(x, y, c)
}

// Clear empties the occupancy grid, resets the palette and blacks out the
// device.
func (s *Surface) Clear() {
	for i := range s.cells {
		s.cells[i] = Empty
	}
	s.pal.reset()
	for y := 0; y < s.height; y++ {
		for x := 0; x < s.width; x++ {
			s.dev.SetPixel(x, y, Black)
		}
	}
}

// SetPixel forwards a pixel write to the device without touching the
// occupancy grid.
func (s *Surface) SetPixel(x, y int, c RGB) { s.dev.SetPixel(x, y, c) }

// Present forwards to the device.
func (s *Surface) Present() { s.dev.Present() }

// Logf forwards to the device.
func (s *Surface) Logf(format string, args ...any) { s.dev.Logf(format, args...) }
