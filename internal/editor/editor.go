// Package editor implements the in-world edit brushes (single, line, box,
// flood fill) and their undo/redo as recorded (coord, before, after)
// triples (spec.md §4.8).
//
// Grounded on dantero-ps-mini-mc-go's internal/world block-edit call sites
// (single-block set/break, the shape that feeds a brush), generalized to
// the spec's four brush kinds and explicit undo/redo stack — the teacher
// has no undo/redo of its own, so that part is grounded directly on
// spec.md §4.8's (coord,before,after) triple contract.
package editor

import (
	"shipvox/internal/config"
	"shipvox/internal/raycast"
	"shipvox/internal/voxel"
	"shipvox/internal/worldgrid"
)

// Change is one recorded voxel mutation: the coordinate, its value before
// the stroke touched it, and its value after.
type Change struct {
	Coord  voxel.Coord
	Before voxel.Cell
	After  voxel.Cell
}

// Stroke is the undo/redo unit: every Change made by one brush operation,
// in application order.
type Stroke struct {
	Changes []Change
}

// Editor applies brush operations to a World and keeps an undo/redo stack
// of Strokes.
type Editor struct {
	world *worldgrid.World
	cfg   config.EditorConfig

	undo []Stroke
	redo []Stroke

	// active is the in-progress stroke, recording changes as they're made
	// so Cancel can revert them; nil when no stroke is open.
	active *Stroke
}

// New returns an Editor operating on world under cfg.
func New(world *worldgrid.World, cfg config.EditorConfig) *Editor {
	return &Editor{world: world, cfg: cfg}
}

// begin opens a new active stroke, discarding any uncommitted one.
func (e *Editor) begin() {
	e.active = &Stroke{}
}

// record applies cell at coord, recording the before/after pair into the
// active stroke. No-op if before == after.
func (e *Editor) record(coord voxel.Coord, cell voxel.Cell) {
	before := e.world.GetVoxel(coord)
	if before == cell {
		return
	}
	e.world.SetVoxel(coord, cell)
	e.active.Changes = append(e.active.Changes, Change{Coord: coord, Before: before, After: cell})
}

// commit closes the active stroke, pushes it onto the undo stack, and
// clears the redo stack (a fresh edit invalidates redo history).
func (e *Editor) commit() Stroke {
	s := *e.active
	e.active = nil
	if len(s.Changes) > 0 {
		e.undo = append(e.undo, s)
		e.redo = nil
	}
	return s
}

// Single applies cell at the hit-adjacent voxel (or the hit voxel itself
// when erasing with AirCell), per spec.md §4.8.
func (e *Editor) Single(hit raycast.Hit, cell voxel.Cell) Stroke {
	e.begin()
	target := hit.Voxel
	if cell != voxel.AirCell {
		target = raycast.Adjacent(hit)
	}
	e.record(target, cell)
	return e.commit()
}

// Line applies cell along the 3D Bresenham path between start and end,
// inclusive of both endpoints.
func (e *Editor) Line(start, end voxel.Coord, cell voxel.Cell) Stroke {
	e.begin()
	for _, c := range raycast.Bresenham3D(start, end) {
		e.record(c, cell)
	}
	return e.commit()
}

// Box fills the axis-aligned span [min(start,end), max(start,end)]
// (inclusive on both ends) with cell.
func (e *Editor) Box(start, end voxel.Coord, cell voxel.Cell) Stroke {
	e.begin()
	min := start.Min(end)
	max := start.Max(end)
	for x := min.X; x <= max.X; x++ {
		for y := min.Y; y <= max.Y; y++ {
			for z := min.Z; z <= max.Z; z++ {
				e.record(voxel.Coord{X: x, Y: y, Z: z}, cell)
			}
		}
	}
	return e.commit()
}

// Fill performs a 6-neighbour-connected flood fill starting at seed,
// replacing every reachable cell whose type equals the seed's type with
// cell, bounded by cfg.MaxFillCells cells to guarantee termination
// (invariant: flood fill always terminates).
func (e *Editor) Fill(seed voxel.Coord, cell voxel.Cell) Stroke {
	e.begin()

	seedType := e.world.GetVoxel(seed).Type()

	visited := make(map[voxel.Coord]bool)
	queue := []voxel.Coord{seed}
	visited[seed] = true

	neighbourOffsets := [6]voxel.Coord{
		{X: 1}, {X: -1},
		{Y: 1}, {Y: -1},
		{Z: 1}, {Z: -1},
	}

	count := 0
	for len(queue) > 0 && count < e.cfg.MaxFillCells {
		c := queue[0]
		queue = queue[1:]

		if e.world.GetVoxel(c).Type() != seedType {
			continue
		}
		e.record(c, cell)
		count++

		for _, off := range neighbourOffsets {
			n := c.Add(off)
			if visited[n] {
				continue
			}
			visited[n] = true
			if e.world.GetVoxel(n).Type() == seedType {
				queue = append(queue, n)
			}
		}
	}

	return e.commit()
}

// Cancel reverts a stroke returned by Single/Line/Box/Fill, restoring
// every recorded Before value and dropping it from the undo stack, as if
// the operation had never happened (spec.md §4.8).
func (e *Editor) Cancel(s Stroke) {
	for i := len(s.Changes) - 1; i >= 0; i-- {
		e.world.SetVoxel(s.Changes[i].Coord, s.Changes[i].Before)
	}
	if n := len(e.undo); n > 0 && sameStroke(e.undo[n-1], s) {
		e.undo = e.undo[:n-1]
	}
}

// Undo reverts the most recent committed stroke, restoring every Before
// value, and moves it onto the redo stack. Reports false if there is
// nothing to undo.
func (e *Editor) Undo() bool {
	n := len(e.undo)
	if n == 0 {
		return false
	}
	s := e.undo[n-1]
	e.undo = e.undo[:n-1]
	for i := len(s.Changes) - 1; i >= 0; i-- {
		e.world.SetVoxel(s.Changes[i].Coord, s.Changes[i].Before)
	}
	e.redo = append(e.redo, s)
	return true
}

// Redo reapplies the most recently undone stroke's After values. Reports
// false if there is nothing to redo.
func (e *Editor) Redo() bool {
	n := len(e.redo)
	if n == 0 {
		return false
	}
	s := e.redo[n-1]
	e.redo = e.redo[:n-1]
	for _, c := range s.Changes {
		e.world.SetVoxel(c.Coord, c.After)
	}
	e.undo = append(e.undo, s)
	return true
}

func sameStroke(a, b Stroke) bool {
	if len(a.Changes) != len(b.Changes) {
		return false
	}
	for i := range a.Changes {
		if a.Changes[i] != b.Changes[i] {
			return false
		}
	}
	return true
}
