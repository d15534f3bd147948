// Package contract defines the interfaces an external game/engine
// collaborator must satisfy to drive the PC searcher (spec §6), plus a
// concrete default implementation for tests and the CLI. Grounded on
// the teacher's pattern of pairing a collaborator interface
// (tablebase.Prober) with one concrete implementation in the same
// package family.
package contract

import (
	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

// Piece exposes the per-facing geometry and shape data the search and
// move generator need from a piece identity, independent of how the
// caller's own piece representation is laid out.
type Piece interface {
	Kind() piece.Kind
	Facing() piece.Facing
	Rotate(piece.Rotation) Piece
	Geometry() piece.Geometry
	Cells() [][2]int8
}

// KickFn is the rotation-kick contract of spec §4.4/§6.
type KickFn = kicks.Fn

// BagIterator yields the next piece kind deterministically from a seed;
// 7-bag and other bag variants are supported behind this interface.
type BagIterator interface {
	Next() piece.Kind
}

// GameState exposes everything find_pc needs to extract a piece list
// and kick function from an external game/engine (spec §6). Board is an
// addition beyond the spec's summary prose ("current, hold, preview
// queue, bag state, kicks pointer"): the searcher cannot compute
// pieces_needed or run collision checks without the starting playfield,
// so this implementation exposes it explicitly (see DESIGN.md).
type GameState interface {
	Board() board.Mask
	Current() piece.Kind
	Hold() (piece.Kind, bool)
	Preview() []piece.Kind
	Bag() BagIterator
	Kicks() kicks.Fn
}

// Game is a concrete, in-memory GameState used by tests and the CLI.
type Game struct {
	board   board.Mask
	current piece.Kind
	hold    piece.Kind
	holdSet bool
	preview []piece.Kind
	bag     BagIterator
	kickFn  kicks.Fn
}

// NewGame builds a Game from explicit state.
func NewGame(b board.Mask, current piece.Kind, hold piece.Kind, holdSet bool, preview []piece.Kind, bag BagIterator, kick kicks.Fn) *Game {
	return &Game{
		board:   b,
		current: current,
		hold:    hold,
		holdSet: holdSet,
		preview: preview,
		bag:     bag,
		kickFn:  kick,
	}
}

func (g *Game) Board() board.Mask        { return g.board }
func (g *Game) Current() piece.Kind      { return g.current }
func (g *Game) Hold() (piece.Kind, bool) { return g.hold, g.holdSet }
func (g *Game) Preview() []piece.Kind    { return g.preview }
func (g *Game) Bag() BagIterator         { return g.bag }
func (g *Game) Kicks() kicks.Fn          { return g.kickFn }

// SeededBag is a deterministic 7-bag BagIterator, the common bag
// variant named in spec §6.
type SeededBag struct {
	rng     uint64
	pending []piece.Kind
}

// NewSeededBag returns a 7-bag iterator deterministic from seed.
func NewSeededBag(seed uint64) *SeededBag {
	return &SeededBag{rng: seed}
}

func (b *SeededBag) next64() uint64 {
	b.rng = b.rng*6364136223846793005 + 1442695040888963407
	return b.rng
}

// Next returns the next piece kind, refilling and shuffling a fresh bag
// of all seven kinds whenever the pending bag is exhausted.
func (b *SeededBag) Next() piece.Kind {
	if len(b.pending) == 0 {
		bag := piece.Kinds
		fresh := bag[:]
		for i := len(fresh) - 1; i > 0; i-- {
			j := int(b.next64() % uint64(i+1))
			fresh[i], fresh[j] = fresh[j], fresh[i]
		}
		b.pending = append(b.pending, fresh[:]...)
	}
	k := b.pending[0]
	b.pending = b.pending[1:]
	return k
}
