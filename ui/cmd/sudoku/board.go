package main

import (
	"fmt"
	"math/rand"
)

// cellPath returns the store path for one cell's value.
func cellPath(row, col int) string {
	return fmt.Sprintf("sudoku.cells.r%dc%d", row, col)
}

// givenPath returns the store path for one cell's given flag.
func givenPath(row, col int) string {
	return fmt.Sprintf("sudoku.given.r%dc%d", row, col)
}

// newBoard generates a solved grid from the seed, blanks holes of it,
// and returns the initial state tree for the store.
func newBoard(seed int64, holes int) map[string]any {
	rng := rand.New(rand.NewSource(seed))
	grid := solvedGrid(rng)

	blank := make(map[[2]int]bool)
	for len(blank) < holes {
		blank[[2]int{rng.Intn(9), rng.Intn(9)}] = true
	}

	cells := make(map[string]any)
	given := make(map[string]any)
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			key := fmt.Sprintf("r%dc%d", r, c)
			if blank[[2]int{r, c}] {
				cells[key] = 0
				given[key] = false
			} else {
				cells[key] = grid[r][c]
				given[key] = true
			}
		}
	}
	return map[string]any{
		"sudoku": map[string]any{
			"cells":    cells,
			"given":    given,
			"selected": map[string]any{"row": 0, "col": 0},
		},
	}
}

// solvedGrid produces a valid solved grid: the canonical base pattern
// with rows, columns, and digits shuffled within their bands.
func solvedGrid(rng *rand.Rand) [9][9]int {
	base := func(r, c int) int {
		return (r*3+r/3+c)%9 + 1
	}

	perm := func() []int {
		// Shuffle positions within each band, then the bands.
		groups := rng.Perm(3)
		var out []int
		for _, g := range groups {
			for _, i := range rng.Perm(3) {
				out = append(out, g*3+i)
			}
		}
		return out
	}
	rows, cols := perm(), perm()
	digits := rng.Perm(9)

	var grid [9][9]int
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			grid[r][c] = digits[base(rows[r], cols[c])-1] + 1
		}
	}
	return grid
}

// cellValue coerces a store value to a digit. Snapshot restores may
// hand back untyped ints.
func cellValue(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// conflicts reports how many filled cells collide with another cell in
// their row, column, or box, and how many cells are still empty.
func conflicts(get func(row, col int) int) (bad, empty int) {
	for r := 0; r < 9; r++ {
		for c := 0; c < 9; c++ {
			v := get(r, c)
			if v == 0 {
				empty++
				continue
			}
			if collides(get, r, c, v) {
				bad++
			}
		}
	}
	return bad, empty
}

func collides(get func(row, col int) int, row, col, v int) bool {
	for i := 0; i < 9; i++ {
		if i != col && get(row, i) == v {
			return true
		}
		if i != row && get(i, col) == v {
			return true
		}
	}
	br, bc := row/3*3, col/3*3
	for r := br; r < br+3; r++ {
		for c := bc; c < bc+3; c++ {
			if (r != row || c != col) && get(r, c) == v {
				return true
			}
		}
	}
	return false
}
