// Package movegen implements the breadth-first search that discovers
// every tuck/spin placement of a single piece kind reachable from a
// spawn point above the stack (spec §4.4).
package movegen

import (
	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

// maxPosY mirrors board.PosSet's y domain (0..8); kept local since the
// board package does not export it, but any position this search visits
// must fit it or PosSet indexing panics.
const maxPosY = 9

// stackCap is the up-bound of simultaneously queued states for a 6-row
// playfield, per spec §4.4.
const stackCap = 240

type state struct {
	p    piece.Piece
	x, y int8
}

// AllPlacements runs the six-move BFS of §4.4 for a single piece kind
// and returns the set of locked, on-ground, in-height-limit placements.
func AllPlacements(b board.Mask, doORotations bool, kick kicks.Fn, kind piece.Kind, maxHeight int) board.PosSet {
	var seen, placements board.PosSet

	stack := make([]state, 0, stackCap)
	startY := int8(maxHeight)
	for f := piece.Facing(0); f < piece.NumFacings; f++ {
		p := piece.NewPiece(kind, f)
		seen.Put(0, startY, f)
		stack = append(stack, state{p: p, x: 0, y: startY})
	}

	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		pm := board.MaskOf(cur.p)

		tryAccept := func(np state) {
			if np.y < 0 || np.y >= maxPosY {
				return
			}
			if seen.PutAndTest(np.x, np.y, np.p.Facing()) {
				return
			}
			if len(stack) < stackCap {
				stack = append(stack, np)
			}

			npg := piece.GeometryOf(np.p)
			if int(np.y)+int(npg.Top) > maxHeight {
				return
			}
			npm := board.MaskOf(np.p)
			onGround := np.y == 0 || b.Collides(npm, np.p, np.x, np.y-1)
			if !onGround {
				return
			}
			placements.Put(np.x, np.y, np.p.Facing())
		}

		// left
		if nx := cur.x - 1; !b.Collides(pm, cur.p, nx, cur.y) {
			tryAccept(state{p: cur.p, x: nx, y: cur.y})
		}
		// right
		if nx := cur.x + 1; !b.Collides(pm, cur.p, nx, cur.y) {
			tryAccept(state{p: cur.p, x: nx, y: cur.y})
		}

		skipRotations := cur.p.Kind() == piece.O && !doORotations
		if !skipRotations {
			for _, r := range [3]piece.Rotation{piece.RotateCW, piece.Rotate180, piece.RotateCCW} {
				if ns, ok := tryRotate(b, kick, cur.p, cur.x, cur.y, r); ok {
					tryAccept(ns)
				}
			}
		}

		// drop-one
		if ny := cur.y - 1; !b.Collides(pm, cur.p, cur.x, ny) {
			tryAccept(state{p: cur.p, x: cur.x, y: ny})
		}
	}

	return placements
}

// tryRotate applies the kick function for rotation r from (p, x, y),
// accepting the first offset whose target does not collide.
func tryRotate(b board.Mask, kick kicks.Fn, p piece.Piece, x, y int8, r piece.Rotation) (state, bool) {
	np := p.Rotate(r)
	npm := board.MaskOf(np)
	for _, off := range kick(p, r) {
		nx, ny := x+off.DX, y+off.DY
		if !b.Collides(npm, np, nx, ny) {
			return state{p: np, x: nx, y: ny}, true
		}
	}
	return state{}, false
}
