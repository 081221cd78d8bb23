package glimmer

import (
	"math"
	"testing"
)

// ballScript seeds the draws one Add makes with maxRadius 1: position,
// velocity, then a bright three-draw colour.
func ballScript(vals ...int) *queueRand {
	return &queueRand{vals: vals}
}

func TestBallsAddUsesScriptedState(t *testing.T) {
	s, _ := testSurface(t, 16, 16)
	s.SetRandomSource(ballScript(5, 8, 128, 64, 100, 100, 100))
	b := NewBalls(s, 1)

	b.Add()

	if b.Count() != 1 {
		t.Fatalf("Count = %d, want 1", b.Count())
	}
	ball := b.Ball(0)
	if ball.X != 5 || ball.Y != 8 {
		t.Errorf("position = (%v,%v), want (5,8)", ball.X, ball.Y)
	}
	if ball.DX != 2 || ball.DY != 1 {
		t.Errorf("velocity = (%v,%v), want (2,1)", ball.DX, ball.DY)
	}
	if ball.R != 1 {
		t.Errorf("radius = %d, want 1", ball.R)
	}
	if sum := int(ball.Color.R) + int(ball.Color.G) + int(ball.Color.B); sum < 192 {
		t.Errorf("colour sum = %d, want at least 192", sum)
	}
}

func TestBallsReflectOffWall(t *testing.T) {
	s, _ := testSurface(t, 16, 16)
	s.SetRandomSource(ballScript(14, 8, 128, 0, 100, 100, 100))
	b := NewBalls(s, 1)
	b.Add()

	b.Step()

	ball := b.Ball(0)
	if ball.DX != -2 {
		t.Errorf("DX after wall hit = %v, want -2", ball.DX)
	}
	if ball.X != 14 {
		t.Errorf("X after wall hit = %v, want 14", ball.X)
	}
}

func TestBallsContactSplitsMomentum(t *testing.T) {
	s, _ := testSurface(t, 16, 16)
	s.SetRandomSource(ballScript(
		5, 8, 128, 0, 100, 100, 100, // mover heading right at speed 2
		8, 8, 0, 0, 100, 100, 100, // stationary target
	))
	b := NewBalls(s, 1)
	b.Add()
	b.Add()

	b.Step()

	mover, target := b.Ball(0), b.Ball(1)
	if mover.DX != 1 || target.DX != 1 {
		t.Errorf("velocities after contact = %v and %v, want 1 and 1", mover.DX, target.DX)
	}
	pre, post := 2.0, math.Hypot(mover.DX, mover.DY)+math.Hypot(target.DX, target.DY)
	if post != pre {
		t.Errorf("combined speed = %v after contact, want %v", post, pre)
	}
}

func TestBallsRepelConservesSpeed(t *testing.T) {
	s, _ := testSurface(t, 16, 16)
	s.SetRandomSource(ballScript(
		4, 8, 0, 0, 100, 100, 100,
		10, 8, 0, 0, 100, 100, 100,
	))
	b := NewBalls(s, 1)
	b.SetMode(BallModeRepel)
	b.Add()
	b.Add()
	b.balls[1].DX = -2 // approach from the right

	b.Step()

	left, right := b.Ball(0), b.Ball(1)
	if right.DX != -1.875 {
		t.Errorf("approaching ball DX = %v, want -1.875", right.DX)
	}
	if left.DX != -0.125 {
		t.Errorf("repelled ball DX = %v, want -0.125", left.DX)
	}
	if got := math.Abs(left.DX) + math.Abs(right.DX); got != 2 {
		t.Errorf("combined speed = %v, want 2", got)
	}
}

func TestBallsDrawFilledClippedCircle(t *testing.T) {
	s, dev := testSurface(t, 16, 16)
	s.SetRandomSource(ballScript(1, 2, 2, 0, 0, 100, 100, 100))
	b := NewBalls(s, 3) // radius draw comes first: 1 + 1 = 2
	b.Add()

	b.Step()

	c := b.Ball(0).Color
	for _, p := range [][2]int{{2, 2}, {2, 0}, {0, 2}, {4, 2}, {2, 4}, {3, 3}} {
		if dev.pixel(p[0], p[1]) != c {
			t.Errorf("pixel %v = %v, want the ball colour", p, dev.pixel(p[0], p[1]))
		}
	}
	for _, p := range [][2]int{{4, 4}, {0, 0}, {5, 2}} {
		if dev.pixel(p[0], p[1]) != Black {
			t.Errorf("pixel %v = %v, want untouched black", p, dev.pixel(p[0], p[1]))
		}
	}
	if dev.presents != 1 {
		t.Errorf("presents = %d, want 1", dev.presents)
	}
}
