// Package fumen is a thin, decode-only shim turning a compact
// field-notation string into a contract.GameState seed. Encoding, and
// the piece-color/comment extensions of the public fumen.io grammar,
// are out of scope (spec.md §1, SPEC_FULL.md §3.11) — only enough of
// the grammar to drive the fumen CLI subcommand is implemented.
//
// Grammar: "v1@<field>:<hold>,<current>[,<preview>...]"
//
//	<field>   board.Height*board.Width runes, top row first,
//	          left column first; '_' for empty, one of IOTSZJL for a
//	          filled cell (the fill kind only matters for a human
//	          reading the string back; the solver only cares whether a
//	          cell is occupied).
//	<hold>    one of IOTSZJL, or '_' for no held piece.
//	<current> one of IOTSZJL; mandatory.
//	<preview> zero or more further IOTSZJL letters, comma-separated.
package fumen

import (
	"fmt"
	"strings"

	"github.com/hailam/tetrispc/internal/board"
	"github.com/hailam/tetrispc/internal/contract"
	"github.com/hailam/tetrispc/internal/kicks"
	"github.com/hailam/tetrispc/internal/piece"
)

const prefix = "v1@"

// Decode parses s into a ready-to-solve contract.Game, using kick as
// the rotation-kick strategy for the returned state.
func Decode(s string, kick kicks.Fn) (*contract.Game, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, prefix) {
		return nil, fmt.Errorf("fumen: missing %q prefix", prefix)
	}
	body := s[len(prefix):]

	fieldStr, pieceStr, ok := strings.Cut(body, ":")
	if !ok {
		return nil, fmt.Errorf("fumen: missing ':' separating field from pieces")
	}

	b, err := decodeField(fieldStr)
	if err != nil {
		return nil, err
	}

	fields := strings.Split(pieceStr, ",")
	if len(fields) < 2 {
		return nil, fmt.Errorf("fumen: need at least hold and current piece fields")
	}

	hold, holdSet, err := decodeHold(fields[0])
	if err != nil {
		return nil, err
	}
	current, err := decodeKind(fields[1])
	if err != nil {
		return nil, fmt.Errorf("fumen: current piece: %w", err)
	}

	preview := make([]piece.Kind, 0, len(fields)-2)
	for _, f := range fields[2:] {
		k, err := decodeKind(f)
		if err != nil {
			return nil, fmt.Errorf("fumen: preview piece: %w", err)
		}
		preview = append(preview, k)
	}

	bag := contract.NewSeededBag(1)
	return contract.NewGame(b, current, hold, holdSet, preview, bag, kick), nil
}

func decodeField(s string) (board.Mask, error) {
	want := board.Width * board.Height
	if len(s) != want {
		return 0, fmt.Errorf("fumen: field has %d cells, want %d", len(s), want)
	}
	var m board.Mask
	for i, r := range s {
		if r == '_' {
			continue
		}
		if _, err := decodeKind(string(r)); err != nil {
			return 0, fmt.Errorf("fumen: field cell %d: %w", i, err)
		}
		row := i / board.Width
		col := i % board.Width
		y := board.Height - 1 - row
		m |= board.Mask(1) << uint(y*board.Width+col)
	}
	return m, nil
}

func decodeHold(s string) (piece.Kind, bool, error) {
	if s == "_" || s == "" {
		return 0, false, nil
	}
	k, err := decodeKind(s)
	if err != nil {
		return 0, false, fmt.Errorf("hold piece: %w", err)
	}
	return k, true, nil
}

func decodeKind(s string) (piece.Kind, error) {
	if len(s) != 1 {
		return 0, fmt.Errorf("%q is not a single piece letter", s)
	}
	switch s[0] {
	case 'I':
		return piece.I, nil
	case 'O':
		return piece.O, nil
	case 'T':
		return piece.T, nil
	case 'L':
		return piece.L, nil
	case 'J':
		return piece.J, nil
	case 'S':
		return piece.S, nil
	case 'Z':
		return piece.Z, nil
	default:
		return 0, fmt.Errorf("%q is not a valid piece letter", s)
	}
}
