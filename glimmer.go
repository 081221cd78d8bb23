package glimmer

import "math/rand/v2"

// RGB is an 8-bit-per-channel colour. The zero value is black, which the
// occupancy grid treats as a cleared pixel.
type RGB struct {
	R, G, B uint8
}

// Black is the cleared-pixel colour.
var Black = RGB{}

// Blend returns the colour step/steps of the way from a to b.
// step 0 returns a, step == steps returns b.
func Blend(a, b RGB, step, steps int) RGB {
	return RGB{
		R: blendChannel(a.R, b.R, step, steps),
		G: blendChannel(a.G, b.G, step, steps),
		B: blendChannel(a.B, b.B, step, steps),
	}
}

func blendChannel(start, end uint8, step, steps int) uint8 {
	if steps <= 0 {
		return end
	}
	return uint8(int(start) + (int(end)-int(start))*step/steps)
}

// Rand is the random source animators draw from. IntN must return a
// uniform value in [0, n); it panics if n <= 0, matching math/rand/v2.
type Rand interface {
	IntN(n int) int
}

// stdRand adapts the shared math/rand/v2 generator.
type stdRand struct{}

func (stdRand) IntN(n int) int { return rand.IntN(n) }

// RandomColor returns a random colour that is bright enough to read on a
// dim display: when every channel falls below 3/4 of maxBrightness, one
// channel is forced up.
func RandomColor(r Rand, maxBrightness uint8) RGB {
	c := RGB{
		R: uint8(r.IntN(int(maxBrightness) + 1)),
		G: uint8(r.IntN(int(maxBrightness) + 1)),
		B: uint8(r.IntN(int(maxBrightness) + 1)),
	}
	min := int(maxBrightness) * 3 / 4
	if int(c.R) < min && int(c.G) < min && int(c.B) < min {
		switch r.IntN(3) {
		case 0:
			c.R = 200
		case 1:
			c.G = 200
		case 2:
			c.B = 200
		}
	}
	return c
}
