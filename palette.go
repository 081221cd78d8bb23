package glimmer

// Empty is the occupancy value of a cell with no colour: no grain sits
// there and nothing is painted.
const Empty uint8 = 0

// maxPaletteColors is the number of distinct colour ids (1..255); id 0 is
// reserved for Empty.
const maxPaletteColors = 255

// palette maps RGB colours to small ids for storage in the occupancy
// grid. Ids are handed out in registration order. Once all 255 slots are
// taken, unknown colours resolve to the nearest registered entry by
// squared channel distance.
type palette struct {
	colors []RGB
}

func (p *palette) idFor(c RGB) uint8 {
	if c == Black {
		return Empty
	}
	for i, pc := range p.colors {
		if pc == c {
			return uint8(i + 1)
		}
	}
	if len(p.colors) < maxPaletteColors {
		p.colors = append(p.colors, c)
		return uint8(len(p.colors))
	}
	// Palette full: substitute the closest existing colour.
	best := 0
	bestDist := colorDist(c, p.colors[0])
	for i := 1; i < len(p.colors); i++ {
		if d := colorDist(c, p.colors[i]); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return uint8(best + 1)
}

func (p *palette) color(id uint8) RGB {
	if id == Empty || int(id) > len(p.colors) {
		return Black
	}
	return p.colors[id-1]
}

func (p *palette) reset() {
	p.colors = p.colors[:0]
}

func colorDist(a, b RGB) int {
	dr := int(a.R) - int(b.R)
	dg := int(a.G) - int(b.G)
	db := int(a.B) - int(b.B)
	return dr*dr + dg*dg + db*db
}
