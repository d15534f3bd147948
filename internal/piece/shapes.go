package piece

// cellsFor returns the local (x, y) cell coordinates (y increasing
// upward) occupied by kind k in facing f, within its own bounding box.
// Spawn-state ("Up") shapes are declared once per kind; the remaining
// three facings are derived by repeated 90-degree rotation so the four
// tables are guaranteed mutually consistent (rotating four times is the
// identity).
func cellsFor(k Kind, f Facing) [][2]int8 {
	up, n := spawnShape(k)
	cells := up
	for i := Facing(0); i < f; i++ {
		cells = rotateCells(cells, n)
	}
	return cells
}

// spawnShape returns the Up-facing cell list and the side length of the
// square local bounding box it is defined in.
func spawnShape(k Kind) ([][2]int8, int8) {
	switch k {
	case I:
		return [][2]int8{{0, 1}, {1, 1}, {2, 1}, {3, 1}}, 4
	case O:
		return [][2]int8{{0, 0}, {1, 0}, {0, 1}, {1, 1}}, 2
	case T:
		return [][2]int8{{0, 0}, {1, 0}, {2, 0}, {1, 1}}, 3
	case L:
		return [][2]int8{{0, 0}, {1, 0}, {2, 0}, {2, 1}}, 3
	case J:
		return [][2]int8{{0, 0}, {1, 0}, {2, 0}, {0, 1}}, 3
	case S:
		return [][2]int8{{0, 0}, {1, 0}, {1, 1}, {2, 1}}, 3
	case Z:
		return [][2]int8{{1, 0}, {2, 0}, {0, 1}, {1, 1}}, 3
	default:
		return nil, 0
	}
}

// rotateCells rotates every cell 90 degrees clockwise within an n x n
// local box: (x, y) -> (y, n-1-x). Applying this four times is the
// identity, so facings compose correctly regardless of starting point.
func rotateCells(cells [][2]int8, n int8) [][2]int8 {
	out := make([][2]int8, len(cells))
	for i, c := range cells {
		out[i] = [2]int8{c[1], n - 1 - c[0]}
	}
	return out
}
