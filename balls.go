package glimmer

import "math"

// BallMode selects the interaction between balls.
type BallMode uint8

const (
	// BallModeBounce makes contacting balls rebound off each other.
	BallModeBounce BallMode = iota
	// BallModeRepel adds an inverse-square repulsion between separated
	// balls; overlapping balls pass through unless their centres nearly
	// coincide.
	BallModeRepel
)

// Ball is one simulated circle. Coordinates are float pixels.
type Ball struct {
	X, Y   float64
	DX, DY float64
	R      int
	Color  RGB
}

// Balls simulates circles bouncing around the grid in float pixel
// coordinates. Unlike [Sand] there is no occupancy grid: interactions are
// pairwise against the balls already integrated this frame, and drawing
// is immediate-mode circles.
type Balls struct {
	r Renderer

	balls     []Ball
	mode      BallMode
	maxRadius int

	// ForcePower scales the repulsion force in BallModeRepel.
	ForcePower float64
}

// NewBalls creates a Balls animator. New balls get a random radius in
// [1, maxRadius].
func NewBalls(r Renderer, maxRadius int) *Balls {
	if maxRadius < 1 {
		maxRadius = 1
	}
	return &Balls{
		r:          r,
		maxRadius:  maxRadius,
		ForcePower: 2,
	}
}

// SetMode switches the ball interaction behaviour.
func (b *Balls) SetMode(m BallMode) { b.mode = m }

// Count returns the number of balls.
func (b *Balls) Count() int { return len(b.balls) }

// Ball returns a copy of ball i.
func (b *Balls) Ball(i int) Ball { return b.balls[i] }

// Add creates a ball at a random position with random velocity and a
// random not-too-dark colour.
func (b *Balls) Add() {
	radius := 1
	if b.maxRadius > 1 {
		radius = 1 + b.r.RandomInt(0, b.maxRadius)
	}
	ball := Ball{
		X:  float64(b.r.RandomInt(0, b.r.Width())),
		Y:  float64(b.r.RandomInt(0, b.r.Height())),
		DX: float64(b.r.RandomInt(0, 255)) / 64,
		DY: float64(b.r.RandomInt(0, 255)) / 64,
		R:  radius,
	}
	for int(ball.Color.R)+int(ball.Color.G)+int(ball.Color.B) < 192 {
		ball.Color = RGB{
			R: uint8(b.r.RandomInt(0, 255)),
			G: uint8(b.r.RandomInt(0, 255)),
			B: uint8(b.r.RandomInt(0, 255)),
		}
	}
	b.balls = append(b.balls, ball)
}

// Step advances every ball one frame: integrate position, interact with
// the balls already moved this frame, reflect off the walls, and redraw.
func (b *Balls) Step() {
	maxX := float64(b.r.Width() - 1)
	maxY := float64(b.r.Height() - 1)

	for i := range b.balls {
		ball := &b.balls[i]
		oldX, oldY := ball.X, ball.Y

		ball.X += ball.DX
		ball.Y += ball.DY

		// Interactions are resolved one ball at a time against those
		// already updated, the same ordered approximation Sand uses.
		for j := 0; j < i; j++ {
			b.interact(ball, &b.balls[j])
		}

		if ball.X-float64(ball.R) < 0 {
			ball.DX *= -1
			ball.X = float64(ball.R)
		}
		if ball.X+float64(ball.R) >= maxX {
			ball.DX *= -1
			ball.X = maxX - float64(ball.R)
		}
		if ball.Y-float64(ball.R) < 0 {
			ball.DY *= -1
			ball.Y = float64(ball.R)
		}
		if ball.Y+float64(ball.R) >= maxY {
			ball.DY *= -1
			ball.Y = maxY - float64(ball.R)
		}

		drawCircle(b.r, int(oldX), int(oldY), ball.R, Black)
		drawCircle(b.r, int(ball.X), int(ball.Y), ball.R, ball.Color)
	}

	b.r.Present()
}

// interact applies the pairwise response between a moving ball and one
// already integrated. Any impulse is renormalised so the pair's combined
// speed is conserved.
func (b *Balls) interact(ball, other *Ball) {
	sepX := other.X - ball.X
	sepY := other.Y - ball.Y
	sep := math.Sqrt(sepX*sepX + sepY*sepY)
	if sep <= 0 {
		// Exactly coincident centres have no defined direction.
		return
	}

	var ax, ay float64
	touch := float64(ball.R + other.R)
	switch {
	case sep < touch:
		// In repel mode overlapping balls pass through each other
		// (contact forces are too strong and they stick), unless the
		// centres are nearly coincident.
		if b.mode == BallModeBounce || sep < touch/4 {
			ax = sepX
			ay = sepY
		}
	case b.mode == BallModeRepel:
		force := b.ForcePower / (sep * sep)
		ax = force * sepX / sep
		ay = force * sepY / sep
	}
	if ax == 0 && ay == 0 {
		return
	}

	prePower := math.Hypot(ball.DX, ball.DY) + math.Hypot(other.DX, other.DY)
	ball.DX -= ax * float64(other.R)
	ball.DY -= ay * float64(other.R)
	other.DX += ax * float64(ball.R)
	other.DY += ay * float64(ball.R)
	postPower := math.Hypot(ball.DX, ball.DY) + math.Hypot(other.DX, other.DY)
	if postPower == 0 {
		return
	}
	scale := prePower / postPower
	ball.DX *= scale
	ball.DY *= scale
	other.DX *= scale
	other.DY *= scale
}

// drawCircle paints a filled circle through the renderer's immediate-mode
// pixel hook, clipped to the grid.
func drawCircle(r Renderer, cx, cy, radius int, c RGB) {
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy > radius*radius {
				continue
			}
			x, y := cx+dx, cy+dy
			if x < 0 || x >= r.Width() || y < 0 || y >= r.Height() {
				continue
			}
			r.SetPixel(x, y, c)
		}
	}
}
