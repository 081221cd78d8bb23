// Package glimmer is a collection of pixel-grid animation generators for
// RGB matrix displays.
//
// Glimmer animators draw onto an abstract rectangular grid of addressable
// RGB cells. The grid lives behind the [Renderer] interface, so the same
// animations run unchanged on an LED panel, a terminal, a window, or a
// browser. Backends for Ebitengine
// (glimmer/screen), tcell terminals (glimmer/term), and websocket
// streaming (glimmer/stream) are included.
//
// # Quick start
//
// Build a [Surface] over a backend device, attach an animator, and call
// Step once per frame:
//
//	dev, _ := term.New()
//	w, h := dev.Size()
//	surf, _ := glimmer.NewSurface(w, h, dev)
//	sand, _ := glimmer.NewSand(surf, 4)
//	sand.SetAcceleration(0, -80)
//	for i := 0; i < 200; i++ {
//		sand.Add(glimmer.RGB{R: 255, G: 180, B: 0}, 0, 0)
//	}
//	for {
//		sand.Step()
//	}
//
// Frame pacing is the caller's responsibility; Step runs one full
// simulation cycle and presents the frame, nothing more.
//
// # Animators
//
//   - [Sand]: falling-sand / gravity-particle engine. Many independent
//     point particles move through a fixed-point sub-pixel coordinate
//     space and pile up against each other on the occupancy grid.
//   - [Life]: a colour-scored Game of Life with fade transitions and
//     automatic reseeding when the population stagnates or loops.
//   - [Crawler]: a single wandering point that cuts a trail through
//     whatever is on the grid.
//   - [Balls]: bouncing circles with optional repulsion forces, simulated
//     in float coordinates at pixel scale.
//
// # The occupancy grid
//
// Surface keeps one byte per cell: [Empty] (0) or a palette colour id.
// For Sand this array is simultaneously the collision state and the paint
// buffer, where a non-empty cell is exactly one grain. The palette holds up to
// 255 distinct colours and falls back to the nearest existing entry once
// full.
package glimmer
