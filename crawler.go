package glimmer

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Crawler directions, clockwise from up.
const (
	dirUp = iota
	dirRight
	dirDown
	dirLeft
)

// Crawler walks a single coloured point across the grid, clearing the
// pixels flanking its heading so it cuts a visible trail through whatever
// is already drawn. Every few steps it may turn, and its colour slowly
// cross-fades to a new random one.
type Crawler struct {
	r Renderer

	x, y      int
	direction int
	sinceTurn int

	color     RGB
	nextColor RGB
	fade      *gween.Tween
	colorLife int
}

// NewCrawler creates a crawler at a random position. colorLife is the
// number of steps over which each colour cross-fades into the next.
func NewCrawler(r Renderer, colorLife int) *Crawler {
	if colorLife < 1 {
		colorLife = 1
	}
	c := &Crawler{
		r:         r,
		x:         r.RandomInt(0, r.Width()),
		y:         r.RandomInt(0, r.Height()),
		direction: r.RandomInt(0, 4),
		color:     RandomColor(rendererRand{r}, 255),
		colorLife: colorLife,
	}
	c.startFade()
	return c
}

// Position returns the crawler's current pixel.
func (c *Crawler) Position() (x, y int) { return c.x, c.y }

// Color returns the crawler's current colour.
func (c *Crawler) Color() RGB { return c.color }

// Step draws the crawler, clears around its heading, and advances it one
// pixel, possibly turning. Call once per frame.
func (c *Crawler) Step() {
	c.r.SetPixel(c.x, c.y, c.color)
	c.clearFlanks()
	c.r.Present()

	// Turn with probability 1/4, but never twice in a row.
	c.sinceTurn++
	if c.sinceTurn > 1 {
		switch c.r.RandomInt(0, 8) {
		case 0:
			c.direction = (c.direction + 3) % 4
			c.sinceTurn = 0
		case 1:
			c.direction = (c.direction + 1) % 4
			c.sinceTurn = 0
		}
	}

	switch c.direction {
	case dirUp:
		c.y = c.r.OffsetY(c.y, 1, true)
	case dirRight:
		c.x = c.r.OffsetX(c.x, 1, true)
	case dirDown:
		c.y = c.r.OffsetY(c.y, -1, true)
	case dirLeft:
		c.x = c.r.OffsetX(c.x, -1, true)
	}

	t, done := c.fade.Update(1)
	c.color = Blend(c.color, c.nextColor, int(t*256), 256)
	if done {
		c.color = c.nextColor
		c.startFade()
	}
}

// startFade picks the next colour and restarts the cross-fade tween.
func (c *Crawler) startFade() {
	c.nextColor = RandomColor(rendererRand{c.r}, 255)
	c.fade = gween.New(0, 1, float32(c.colorLife), ease.InOutQuad)
}

// clearFlanks blanks the five pixels around the direction of travel:
// both sides of the head and the three cells behind it.
func (c *Crawler) clearFlanks() {
	switch c.direction {
	case dirUp:
		c.blank(c.r.OffsetX(c.x, -1, false), c.y)
		c.blank(c.r.OffsetX(c.x, 1, false), c.y)
		c.blank(c.r.OffsetX(c.x, -1, true), c.r.OffsetY(c.y, 1, true))
		c.blank(c.r.OffsetX(c.x, 1, true), c.r.OffsetY(c.y, 1, true))
		c.blank(c.x, c.r.OffsetY(c.y, 1, true))
	case dirRight:
		c.blank(c.x, c.r.OffsetY(c.y, -1, true))
		c.blank(c.x, c.r.OffsetY(c.y, 1, true))
		c.blank(c.r.OffsetX(c.x, 1, true), c.r.OffsetY(c.y, -1, true))
		c.blank(c.r.OffsetX(c.x, 1, true), c.r.OffsetY(c.y, 1, true))
		c.blank(c.r.OffsetX(c.x, 1, true), c.y)
	case dirDown:
		c.blank(c.r.OffsetX(c.x, -1, false), c.y)
		c.blank(c.r.OffsetX(c.x, 1, false), c.y)
		c.blank(c.r.OffsetX(c.x, -1, true), c.r.OffsetY(c.y, -1, true))
		c.blank(c.r.OffsetX(c.x, 1, true), c.r.OffsetY(c.y, -1, true))
		c.blank(c.x, c.r.OffsetY(c.y, -1, true))
	case dirLeft:
		c.blank(c.x, c.r.OffsetY(c.y, -1, true))
		c.blank(c.x, c.r.OffsetY(c.y, 1, true))
		c.blank(c.r.OffsetX(c.x, -1, true), c.r.OffsetY(c.y, -1, true))
		c.blank(c.r.OffsetX(c.x, -1, true), c.r.OffsetY(c.y, 1, true))
		c.blank(c.r.OffsetX(c.x, -1, true), c.y)
	}
}

func (c *Crawler) blank(x, y int) {
	c.r.SetPixel(x, y, Black)
}
