package glimmer

import (
	"github.com/aquilax/go-perlin"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Pattern selects the seeding of a [Life] grid on start and restart.
type Pattern int

const (
	// PatternRandom scatters live cells over roughly 15% of the grid.
	PatternRandom Pattern = iota
	// PatternNoise seeds from a perlin noise field, producing organic
	// clumps instead of uniform scatter.
	PatternNoise
	// PatternOscillators plants a block-and-pond arrangement that
	// settles into small oscillators.
	PatternOscillators
	// PatternGliders plants gliders heading across the grid.
	PatternGliders
	// PatternSpaceships plants a lightweight spaceship and escorts.
	PatternSpaceships
)

// Cell state is packed into one byte per cell: the low five bits are
// alive, pending-change and three frames of history; the top three bits
// index the cell's colour.
const (
	cellAlive  uint8 = 1 << 0
	cellChange uint8 = 1 << 1
	cellPrev1  uint8 = 1 << 2
	cellPrev2  uint8 = 1 << 3
	cellPrev3  uint8 = 1 << 4
	colorShift       = 5
)

const (
	lifeColors     = 8
	maxRepeatCycle = 24
	popHistorySize = 48
	noiseAlpha     = 2
	noiseBeta      = 2
	noiseOctaves   = 3
)

// Preset 16x16 seed tiles. 'X' is a live cell.
var lifeSeeds = map[Pattern][16]string{
	PatternOscillators: {
		"................",
		"..........XX....",
		"..........XX....",
		".........X......",
		"..........XXX...",
		"..........XXX...",
		"................",
		"................",
		"................",
		"..........XXX...",
		"..........XXX...",
		".........X......",
		"..........XX....",
		"..........XX....",
		"................",
		"................",
	},
	PatternGliders: {
		"....XXX.........",
		"......X.........",
		".....X..........",
		"................",
		".......XX.......",
		"......X..X......",
		".....X....X.....",
		"....X......X....",
		"....X......X....",
		".....X....X.....",
		"......X..X......",
		".......XX.......",
		"................",
		"..........X.....",
		".........X......",
		".........XXX....",
	},
	PatternSpaceships: {
		"................",
		"................",
		".....XXX........",
		".....X..XXX.....",
		".....XXX..X.....",
		"........XXX.....",
		"................",
		"................",
		"................",
		"................",
		".....XXX........",
		".....X..XXX.....",
		".....XXX..X.....",
		"........XXX.....",
		"................",
		"................",
	},
}

// Life runs a colour-scored Game of Life on the pixel grid. Newborn cells
// take the most common colour among their parents, births fade in through
// green and deaths fade out through red, and the whole grid reseeds
// itself when the simulation dies out, freezes, or falls into a loop.
type Life struct {
	r     Renderer
	cells []uint8

	colors    [lifeColors]RGB
	fadeSteps int
	fade      *gween.Tween
	fading    bool

	pattern          Pattern
	repeatX, repeatY int
	noise            *perlin.Perlin

	alive     int
	panelSize int

	// Stagnation and loop trackers. population is a ring buffer of the
	// last popHistorySize population counts; cyclic[n-1] counts how long
	// the population has repeated with period n.
	unchanged  int
	repeat2    int
	repeat3    int
	cyclic     [maxRepeatCycle]int
	population [popHistorySize]int
	popCursor  int

	iterations    int
	minIterations int
	maxIterations int
	restart       bool
}

// NewLife creates a Life animator on r. fadeSteps is the number of frames
// a birth or death transition is spread over; below 2 changes apply
// instantly. pattern seeds the first and every restarted generation.
func NewLife(r Renderer, fadeSteps int, pattern Pattern) *Life {
	l := &Life{
		r:         r,
		cells:     make([]uint8, r.Width()*r.Height()),
		fadeSteps: fadeSteps,
		pattern:   pattern,
		repeatX:   1,
		repeatY:   1,
		panelSize: r.Width() * r.Height() / 16,
		popCursor: popHistorySize - 1,
	}
	l.seed()
	return l
}

// SetPatternRepeat tiles preset seed patterns nx by ny times across the
// grid on restart. Has no effect on the random and noise patterns.
func (l *Life) SetPatternRepeat(nx, ny int) {
	if nx > 0 {
		l.repeatX = nx
	}
	if ny > 0 {
		l.repeatY = ny
	}
}

// Restart forces a reseed on the next Step.
func (l *Life) Restart() { l.restart = true }

// Alive returns the current live cell count.
func (l *Life) Alive() int { return l.alive }

// Generation returns the number of steps since the last reseed.
func (l *Life) Generation() int { return l.iterations }

// CellState reports whether the cell at (x, y) is alive.
func (l *Life) CellState(x, y int) bool {
	return l.cells[y*l.r.Width()+x]&cellAlive != 0
}

// CellColor returns one of the eight colours of the current generation.
func (l *Life) CellColor(idx int) RGB {
	return l.colors[idx%lifeColors]
}

// Step advances the animation one frame: either one rule generation, one
// frame of an in-progress fade, or a reseed when a termination condition
// has been hit.
func (l *Life) Step() {
	// Longest-running repeat cycle above period 4.
	maxRepeats, maxPeriod := 0, 0
	for i := 4; i < maxRepeatCycle; i++ {
		if l.cyclic[i] > maxRepeats {
			maxRepeats = l.cyclic[i]
			maxPeriod = i + 1
		}
	}

	switch {
	case l.restart || l.alive == 0 || l.unchanged > 5 || l.repeat2 > 6 ||
		l.repeat3 > 35 || l.cyclic[0] > l.panelSize*10 ||
		(l.cyclic[0] > l.panelSize*4 && l.alive == 5) ||
		l.cyclic[3] > l.panelSize*3 || maxRepeats > 200:
		if l.iterations > 0 {
			if l.minIterations == 0 || l.iterations < l.minIterations {
				l.minIterations = l.iterations
			}
			if l.iterations > l.maxIterations {
				l.maxIterations = l.iterations
			}
			l.r.Logf("pattern terminated after %d generations (min: %d, max: %d): %s",
				l.iterations, l.minIterations, l.maxIterations, l.endReason(maxRepeats, maxPeriod))
		}
		l.seed()

	case l.fading:
		step, done := l.fade.Update(1)
		l.paintFade(int(step))
		if done {
			l.fading = false
			l.applyChanges()
		}
		l.r.Present()

	default:
		l.evaluate()
		if l.fadeSteps > 1 {
			l.fade = gween.New(0, float32(l.fadeSteps), float32(l.fadeSteps), ease.Linear)
			l.fading = true
		} else {
			l.applyChanges()
			l.paintAll()
		}
		l.r.Present()
	}
	l.iterations++
}

func (l *Life) endReason(maxRepeats, maxPeriod int) string {
	switch {
	case l.alive == 0:
		return "all died"
	case l.unchanged > 5:
		return "static pattern"
	case l.repeat2 > 6:
		return "2-frame repeat"
	case l.repeat3 > 35:
		return "3-frame repeat"
	case l.cyclic[0] > l.panelSize*10:
		return "static population"
	case l.cyclic[0] > l.panelSize*4 && l.alive == 5:
		return "gliding pattern"
	case l.cyclic[3] > l.panelSize*3:
		return "4-step population cycle"
	case maxRepeats > 200:
		return "long population cycle"
	default:
		return "restart requested"
	}
}

// seed wipes all tracker state and paints a fresh starting grid.
func (l *Life) seed() {
	l.alive = 0
	l.iterations = 0
	l.fading = false
	l.unchanged = 0
	l.repeat2 = 0
	l.repeat3 = 0
	l.cyclic = [maxRepeatCycle]int{}
	l.population = [popHistorySize]int{}
	l.popCursor = popHistorySize - 1
	l.restart = false

	for i := range l.colors {
		l.colors[i] = RandomColor(rendererRand{l.r}, 255)
		if l.fadeSteps > 4 {
			// Births fade through green and deaths through red; reject
			// generation colours too close to either so the transitions
			// stay readable.
			for tooRed(l.colors[i]) || tooGreen(l.colors[i]) {
				l.colors[i] = RandomColor(rendererRand{l.r}, 255)
			}
		}
	}

	w, h := l.r.Width(), l.r.Height()
	for i := range l.cells {
		l.cells[i] = 0
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			l.r.SetPixel(x, y, Black)
		}
	}

	switch l.pattern {
	case PatternRandom:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				if l.r.RandomInt(0, 100) < 15 {
					l.spawn(x, y, l.r.RandomInt(0, lifeColors))
				}
			}
		}
	case PatternNoise:
		if l.noise == nil {
			l.noise = perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctaves,
				int64(l.r.RandomInt(0, 1<<30)))
		}
		// Threshold a noise field so live cells form organic clumps.
		// Colour bands follow the field too, one hue per clump.
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				n := l.noise.Noise2D(float64(x)/8, float64(y)/8)
				if n > 0.05 {
					col := int(n*16) % lifeColors
					if col < 0 {
						col += lifeColors
					}
					l.spawn(x, y, col)
				}
			}
		}
		l.noise = nil // fresh field next seed
	default:
		rows, ok := lifeSeeds[l.pattern]
		if !ok {
			rows = lifeSeeds[PatternOscillators]
		}
		col := 0
		for py := 0; py < l.repeatY; py++ {
			for px := 0; px < l.repeatX; px++ {
				offsetX := w / (l.repeatX + 1) * (px + 1)
				offsetY := h / (l.repeatY + 1) * (py + 1)
				for ry, row := range rows {
					for rx := 0; rx < len(row); rx++ {
						x, y := offsetX+rx, offsetY+ry
						if row[rx] == 'X' && x < w && y < h {
							l.spawn(x, y, col)
						}
					}
				}
				col = (col + 1) % lifeColors
			}
		}
	}
	l.r.Present()
}

func (l *Life) spawn(x, y, colorIdx int) {
	l.cells[y*l.r.Width()+x] = uint8(colorIdx)<<colorShift | cellAlive
	l.r.SetPixel(x, y, l.colors[colorIdx])
	l.alive++
}

// evaluate applies the life rules to every cell, recording pending
// births and deaths in the change bits. Neighbour counting wraps over
// the grid edges.
func (l *Life) evaluate() {
	w, h := l.r.Width(), l.r.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbours := 0
			var scores [lifeColors]int
			for xi := -1; xi <= 1; xi++ {
				for yi := -1; yi <= 1; yi++ {
					if xi == 0 && yi == 0 {
						continue
					}
					xt := l.r.OffsetX(x, xi, true)
					yt := l.r.OffsetY(y, yi, true)
					if c := l.cells[yt*w+xt]; c&cellAlive != 0 {
						neighbours++
						scores[c>>colorShift]++
					}
				}
			}

			cell := &l.cells[y*w+x]
			*cell &^= cellChange
			switch {
			case *cell&cellAlive != 0 && (neighbours < 2 || neighbours > 3):
				*cell |= cellChange // under- or over-populated, dies
			case *cell&cellAlive == 0 && neighbours == 3:
				*cell |= cellChange // birth
				best := 0
				for i, s := range scores {
					if s > scores[best] {
						best = i
					}
				}
				// Newborn takes the dominant parent colour.
				*cell = *cell&^(0b111<<colorShift) | uint8(best)<<colorShift
			}
		}
	}
}

// applyChanges commits pending births and deaths, rolls the per-cell
// history bits, and updates the stagnation/loop trackers.
func (l *Life) applyChanges() {
	w, h := l.r.Width(), l.r.Height()
	changes := 0
	same2, same3 := true, true

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := &l.cells[y*w+x]

			// Roll the last three frames of history for this cell.
			setBit(cell, cellPrev3, *cell&cellPrev2 != 0)
			setBit(cell, cellPrev2, *cell&cellPrev1 != 0)
			setBit(cell, cellPrev1, *cell&cellAlive != 0)

			switch {
			case *cell&cellAlive == 0 && *cell&cellChange != 0:
				*cell |= cellAlive
				l.r.SetPixel(x, y, l.colors[*cell>>colorShift])
				changes++
				l.alive++
			case *cell&cellAlive != 0 && *cell&cellChange != 0:
				*cell &^= cellAlive
				l.r.SetPixel(x, y, Black)
				changes++
				l.alive--
			}

			if same2 && (*cell&cellAlive == 0) != (*cell&cellPrev2 == 0) {
				same2 = false
			}
			if same3 && (*cell&cellAlive == 0) != (*cell&cellPrev3 == 0) {
				same3 = false
			}
		}
	}

	l.popCursor = (l.popCursor + 1) % popHistorySize
	l.population[l.popCursor] = l.alive

	bump(&l.unchanged, changes == 0)
	bump(&l.repeat2, same2)
	bump(&l.repeat3, same3)

	prev := (l.popCursor - 1 + popHistorySize) % popHistorySize
	bump(&l.cyclic[0], l.population[prev] == l.alive)

	// Look for a population sequence repeating with period gap over the
	// whole history window.
	for gap := 4; gap <= maxRepeatCycle; gap++ {
		found := l.popCycles(gap)
		bump(&l.cyclic[gap-1], found)
		if found {
			break
		}
	}
}

// popCycles reports whether the recorded population history repeats with
// the given period across every full window it covers.
func (l *Life) popCycles(gap int) bool {
	for i := 1; i < popHistorySize/gap; i++ {
		for j := 0; j < gap; j++ {
			chk := (l.popCursor - 1 - gap*i - j + 2*popHistorySize) % popHistorySize
			prev := (chk + gap*i) % popHistorySize
			if l.population[chk] == 0 || l.population[chk] != l.population[prev] {
				return false
			}
		}
	}
	return true
}

// paintFade draws one frame of the birth/death transition. The first half
// of the fade takes births from black up to green and deaths from their
// colour down to red; the second half resolves births into their final
// colour and deaths into black.
func (l *Life) paintFade(step int) {
	w, h := l.r.Width(), l.r.Height()
	half := l.fadeSteps / 2

	markBright := (int(l.colors[0].R) + int(l.colors[0].G) + int(l.colors[0].B)) / 2
	if markBright > 128 {
		markBright = 128
	}
	green := RGB{G: uint8(markBright)}
	red := RGB{R: uint8(markBright)}

	var born, died RGB
	if step <= half {
		born = Blend(Black, green, step, half)
	} else {
		died = Blend(red, Black, step-half, l.fadeSteps-half)
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := l.cells[y*w+x]
			color := l.colors[cell>>colorShift]
			switch {
			case cell&cellAlive == 0 && cell&cellChange != 0:
				if step > half {
					born = Blend(green, color, step-half, l.fadeSteps-half)
				}
				l.r.SetPixel(x, y, born)
			case cell&cellAlive != 0 && cell&cellChange != 0:
				if step <= half {
					died = Blend(color, red, step, half)
				}
				l.r.SetPixel(x, y, died)
			case cell&cellAlive != 0:
				l.r.SetPixel(x, y, color)
			}
		}
	}
}

func (l *Life) paintAll() {
	w, h := l.r.Width(), l.r.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			cell := l.cells[y*w+x]
			if cell&cellAlive != 0 {
				l.r.SetPixel(x, y, l.colors[cell>>colorShift])
			}
		}
	}
}

func setBit(cell *uint8, bit uint8, on bool) {
	if on {
		*cell |= bit
	} else {
		*cell &^= bit
	}
}

func bump(counter *int, cond bool) {
	if cond {
		*counter++
	} else {
		*counter = 0
	}
}

func tooRed(c RGB) bool {
	const maxDiff = 80
	return int(c.R)-int(c.G) > maxDiff && int(c.R)-int(c.B) > maxDiff
}

func tooGreen(c RGB) bool {
	const maxDiff = 80
	return int(c.G)-int(c.R) > maxDiff && int(c.G)-int(c.B) > maxDiff
}

// rendererRand adapts a Renderer's random source to the Rand interface.
type rendererRand struct{ r Renderer }

func (a rendererRand) IntN(n int) int { return a.r.RandomInt(0, n) }
