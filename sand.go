package glimmer

import (
	"errors"
	"fmt"
	"math"
)

// Sand tuning constants. Velocities are in sub-pixel units per frame,
// pre-division by velocityDivisor during position integration.
const (
	// velocityDivisor relates velocity units to position units per frame.
	velocityDivisor = 32
	// placeAttempts bounds the random search for a free cell in Add.
	placeAttempts = 2001
	// storeGrowth is the fixed capacity increment of the grain store.
	storeGrowth = 20
	// maxSubpixelDim bounds dimension*scale so sub-pixel coordinates fit
	// a uint16.
	maxSubpixelDim = 5900
)

// ErrNoFreeCell is returned by [Sand.Add] when the random placement
// search exhausts its attempt budget without finding an empty cell.
var ErrNoFreeCell = errors.New("glimmer: no free cell for new grain")

// grain is per-particle simulation state. Positions are unsigned
// sub-pixel coordinates (pixel = position / scale); velocities are signed
// sub-pixel units per frame.
type grain struct {
	x, y   uint16
	vx, vy int16
}

// Particle is a grain snapshot in pixel-space coordinates, as returned by
// [Sand.At] and [Sand.Remove].
type Particle struct {
	X, Y   int
	VX, VY int
}

// Sand is the falling-sand / gravity-particle engine. Grains exist in an
// integer coordinate space finer than the pixel grid (normally 256x),
// letting them move and interact at less-than-whole-pixel increments
// while the occupancy grid resolves collisions at pixel resolution.
//
// Grains are integrated one at a time, each seeing every other grain as
// stationary. The algorithm is deliberately approximate: repeated quickly
// enough, the many not-quite-correct steps visually integrate into
// something that resembles physics, at O(grains) per frame with no
// pairwise solve.
type Sand struct {
	r Renderer

	grains []grain
	count  int

	scale      uint16
	maxX, maxY uint16

	accelX, accelY int16
	shake          uint16
	velCap         uint16
	loss           float32
	bounce         bool
}

// NewSand creates a Sand engine on r with the given shake factor. Shake
// is the width of the symmetric random jitter added to the acceleration
// each frame; a little randomness makes tall stacks topple better.
//
// The sub-pixel scale is derived from the larger grid dimension and
// capped so coordinates cannot overflow; grids with a dimension above
// 5900 pixels are rejected.
func NewSand(r Renderer, shake int) (*Sand, error) {
	maxDim := r.Width()
	if r.Height() > maxDim {
		maxDim = r.Height()
	}
	if maxDim < 1 || maxDim > maxSubpixelDim {
		return nil, fmt.Errorf("glimmer: grid dimension %d outside sub-pixel range", maxDim)
	}
	scale := uint16(256)
	if m := maxSubpixelDim / maxDim; m <= 25 {
		scale = uint16(10 * m)
	}
	r.Logf("grain coordinate space multiplier = %d", scale)

	capacity := r.Width() * r.Height()
	if capacity > 100 {
		capacity = 100
	}

	s := &Sand{
		r:      r,
		grains: make([]grain, capacity),
		scale:  scale,
		maxX:   uint16(r.Width())*scale - 1,
		maxY:   uint16(r.Height())*scale - 1,
		shake:  uint16(shake),
		velCap: scale,
		loss:   2,
		bounce: true,
	}
	return s, nil
}

// Scale returns the number of sub-pixel units per pixel.
func (s *Sand) Scale() int { return int(s.scale) }

// VelocityCap returns the current maximum velocity magnitude in sub-pixel
// units per frame.
func (s *Sand) VelocityCap() int { return int(s.velCap) }

// SetBounce selects the boundary and obstacle response: when enabled,
// blocked velocity components are negated and divided by loss; when
// disabled they are zeroed (hard stop). loss values below 1 are raised
// to 1.
func (s *Sand) SetBounce(enabled bool, loss float32) {
	if loss < 1 {
		loss = 1
	}
	s.bounce = enabled
	s.loss = loss
}

// SetAcceleration sets the 2D acceleration vector. Positive x moves
// grains toward greater x positions. The velocity cap is derived from the
// vector magnitude, with a floor of a quarter pixel per frame, so
// stronger gravity permits faster terminal fall speed.
func (s *Sand) SetAcceleration(x, y int) {
	s.setAccel(x, y, math.Sqrt(float64(x)*float64(x)+float64(y)*float64(y)))
}

// SetAcceleration3D sets acceleration from a 3-axis vector for cube-face
// topologies: the x and y components drive this panel directly while the
// full 3D magnitude sizes the velocity cap.
func (s *Sand) SetAcceleration3D(x, y, z int) {
	xy := float64(x)*float64(x) + float64(y)*float64(y)
	s.setAccel(x, y, math.Sqrt(xy+float64(z)*float64(z)))
}

func (s *Sand) setAccel(x, y int, mag float64) {
	s.accelX = int16(x)
	s.accelY = int16(y)

	maxVel := int(mag) * int(s.scale) / velocityDivisor
	if maxVel > math.MaxInt16 { // velocities are int16
		maxVel = math.MaxInt16
	}
	minCap := int(s.scale) / 4
	if maxVel > minCap {
		s.velCap = uint16(maxVel)
	} else {
		s.velCap = uint16(minCap)
	}
	s.r.Logf("acceleration set: %d,%d cap: %d shake: %d", x, y, s.velCap, s.shake)
}

// Count returns the number of live grains.
func (s *Sand) Count() int { return s.count }

// At returns the grain at index i in pixel-space coordinates. It panics
// if i is out of range; callers must only use indices below Count.
func (s *Sand) At(i int) Particle {
	if i < 0 || i >= s.count {
		panic(fmt.Sprintf("glimmer: grain index %d out of range [0,%d)", i, s.count))
	}
	g := s.grains[i]
	return Particle{
		X:  int(g.x / s.scale),
		Y:  int(g.y / s.scale),
		VX: int(g.vx),
		VY: int(g.vy),
	}
}

// Add places a new grain of colour c at a random free cell with initial
// velocity (vx, vy), and returns its index. The search retries up to 2001
// times; on a full or near-full grid it can fail, in which case no grain
// is created and ErrNoFreeCell is returned.
func (s *Sand) Add(c RGB, vx, vy int) (int, error) {
	w := s.r.Width()
	var x, y, attempts int
	for {
		x = s.r.RandomInt(0, w)
		y = s.r.RandomInt(0, s.r.Height())
		attempts++
		if s.r.Cell(y*w+x) == Empty || attempts >= placeAttempts {
			break
		}
	}
	if s.r.Cell(y*w+x) != Empty {
		s.r.Logf("failed to find free position for new grain")
		return 0, ErrNoFreeCell
	}
	return s.AddAt(x, y, c, vx, vy), nil
}

// AddAt places a new grain of colour c at pixel cell (x, y) with initial
// velocity (vx, vy), growing the store if needed, and returns its index.
// The grain lands at a random sub-cell offset so grains do not all sit
// exactly on cell boundaries.
func (s *Sand) AddAt(x, y int, c RGB, vx, vy int) int {
	i := s.count
	if i == len(s.grains) {
		grown := make([]grain, len(s.grains)+storeGrowth)
		copy(grown, s.grains)
		s.grains = grown
		s.r.Logf("grain store expanded to size %d", len(s.grains))
	}

	s.grains[i] = grain{
		x:  uint16(x)*s.scale + uint16(s.r.RandomInt(0, int(s.scale))),
		y:  uint16(y)*s.scale + uint16(s.r.RandomInt(0, int(s.scale))),
		vx: int16(vx),
		vy: int16(vy),
	}
	s.count++
	s.r.SetCell(y*s.r.Width()+x, s.r.ColorID(c))
	return i
}

// Remove deletes the grain at index i, clears its occupancy cell, and
// returns its last-known state. Later grains shift down one index. It
// panics if i is out of range.
func (s *Sand) Remove(i int) Particle {
	p := s.At(i) // includes the range check
	s.r.SetCell(p.Y*s.r.Width()+p.X, Empty)
	copy(s.grains[i:], s.grains[i+1:s.count])
	s.count--
	return p
}

// Clear removes all grains. The occupancy grid is left untouched; callers
// normally clear the whole image separately.
func (s *Sand) Clear() {
	s.count = 0
}

// FromImage converts every occupied cell of the grid into a stationary
// grain of that cell's colour.
func (s *Sand) FromImage() {
	w := s.r.Width()
	for y := 0; y < s.r.Height(); y++ {
		for x := 0; x < w; x++ {
			if id := s.r.Cell(y*w + x); id != Empty {
				s.AddAt(x, y, s.r.Color(id), 0, 0)
			}
		}
	}
}

// Step runs one simulation cycle: a velocity pass over all grains, then a
// position/collision pass, then a frame present. Call it once per frame.
func (s *Sand) Step() {
	s.integrateVelocities()
	s.integratePositions()
	s.r.Present()
}

// integrateVelocities applies the acceleration vector plus shake jitter
// to every grain, then clips speed. Terminal velocity is enforced on the
// 2D vector magnitude, not per axis, so diagonal movement is not faster
// than axis-aligned movement; it also keeps fast grains from passing
// through each other.
func (s *Sand) integrateVelocities() {
	shakeHalf := int(s.shake) / 2
	cap2 := int32(s.velCap) * int32(s.velCap)
	for i := 0; i < s.count; i++ {
		g := &s.grains[i]
		g.vx += int16(int(s.accelX) + s.r.RandomInt(-shakeHalf, shakeHalf+1))
		g.vy += int16(int(s.accelY) + s.r.RandomInt(-shakeHalf, shakeHalf+1))

		v2 := int32(g.vx)*int32(g.vx) + int32(g.vy)*int32(g.vy)
		if v2 > cap2 {
			v := math.Sqrt(float64(v2))
			g.vx = int16(float64(s.velCap) * float64(g.vx) / v) // maintain heading
			g.vy = int16(float64(s.velCap) * float64(g.vy) / v) // limit magnitude
		}
	}
}

// integratePositions advances each grain by its velocity, one grain at a
// time in index order, clamping at the domain boundary and resolving
// occupancy conflicts against the grid.
func (s *Sand) integratePositions() {
	width := uint16(s.r.Width())
	// Positions are unsigned, so moves are computed with a constant
	// buffer added; undershoots stay above zero until the clamp removes
	// them.
	over := 10 * s.scale

	for i := 0; i < s.count; i++ {
		g := &s.grains[i]

		newx := g.x + over + uint16(g.vx/velocityDivisor)
		newy := g.y + over + uint16(g.vy/velocityDivisor)
		if newx > s.maxX+over { // grain would go out of bounds
			newx = s.maxX + over // keep it inside, and
			g.vx = s.rebound(g.vx) // bounce off the wall
		} else if newx < over {
			newx = over
			g.vx = s.rebound(g.vx)
		}
		if newy > s.maxY+over {
			newy = s.maxY + over
			g.vy = s.rebound(g.vy)
		} else if newy < over {
			newy = over
			g.vy = s.rebound(g.vy)
		}
		newx -= over
		newy -= over

		oldidx := (g.y/s.scale)*width + g.x/s.scale
		newidx := (newy/s.scale)*width + newx/s.scale

		if oldidx != newidx && s.r.Cell(int(newidx)) != Empty {
			// Moving to an occupied pixel. Which direction is blocked?
			delta := oldidx - newidx
			if newidx > oldidx {
				delta = newidx - oldidx
			}
			switch {
			case delta == 1: // one pixel left or right
				newx = g.x // cancel X motion
				g.vx = s.rebound(g.vx)
				newidx = oldidx
			case delta == width: // one pixel up or down
				newy = g.y // cancel Y motion
				g.vy = s.rebound(g.vy)
				newidx = oldidx
			default:
				// Diagonal contact. Try skidding along one axis of
				// motion, faster axis first; ties go to X. Diagonal
				// motion is already established, so a single-axis move
				// is guaranteed to change the pixel index.
				if abs16(g.vx) >= abs16(g.vy) {
					newidx = (g.y/s.scale)*width + newx/s.scale
					if s.r.Cell(int(newidx)) == Empty {
						newy = g.y // take it, cancel Y motion
						g.vy = s.rebound(g.vy)
					} else {
						newidx = (newy/s.scale)*width + g.x/s.scale
						if s.r.Cell(int(newidx)) == Empty {
							newx = g.x // take it, cancel X motion
							g.vx = s.rebound(g.vx)
						} else { // corner-blocked: full stop
							newx = g.x
							newy = g.y
							g.vx = s.rebound(g.vx)
							g.vy = s.rebound(g.vy)
							newidx = oldidx
						}
					}
				} else {
					newidx = (newy/s.scale)*width + g.x/s.scale
					if s.r.Cell(int(newidx)) == Empty {
						newx = g.x
						g.vx = s.rebound(g.vx)
					} else {
						newidx = (g.y/s.scale)*width + newx/s.scale
						if s.r.Cell(int(newidx)) == Empty {
							newy = g.y
							g.vy = s.rebound(g.vy)
						} else {
							newx = g.x
							newy = g.y
							g.vx = s.rebound(g.vx)
							g.vy = s.rebound(g.vy)
							newidx = oldidx
						}
					}
				}
			}
		}

		// Move the colour id on the grid before committing the position;
		// the old pixel is needed for the clear.
		if oldidx != newidx {
			id := s.r.Cell(int(oldidx))
			s.r.SetCell(int(oldidx), Empty)
			s.r.SetCell(int(newidx), id)
			s.r.SetPixel(int(g.x/s.scale), int(g.y/s.scale), Black)
			s.r.SetPixel(int(newx/s.scale), int(newy/s.scale), s.r.Color(id))
		}
		g.x = newx
		g.y = newy
	}
}

// rebound applies the collision response to a blocked velocity component:
// negate and attenuate when bouncing, zero on hard stop. The float
// division truncates toward zero, so speeds below loss settle to rest
// instead of oscillating.
func (s *Sand) rebound(v int16) int16 {
	if !s.bounce {
		return 0
	}
	return int16(float32(v) / -s.loss)
}

func abs16(v int16) int16 {
	if v < 0 {
		return -v
	}
	return v
}
