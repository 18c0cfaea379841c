package main

import (
	"fmt"

	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

// registerComponents binds the sudoku UI. Each cell subscribes only to
// its own value, its given flag, and the selection, so a keystroke
// re-evaluates a handful of attributes rather than the whole grid.
func registerComponents(reg *view.Registry) {
	reg.Register("cell", cellComponent)
	reg.Register("grid", gridComponent)
	reg.Register("status", statusComponent)
}

// cellComponent renders one cell. Props: row, col.
func cellComponent(props view.Props, _ *view.Context) (*view.Node, error) {
	row := props.Int("row", 0)
	col := props.Int("col", 0)

	return view.N("cell").
		WithKey(fmt.Sprintf("r%dc%d", row, col)).
		Bind("text", func(r state.Reader) (any, error) {
			v := cellValue(r.Get(cellPath(row, col)))
			if v == 0 {
				return ".", nil
			}
			return fmt.Sprintf("%d", v), nil
		}).
		Bind("given", func(r state.Reader) (any, error) {
			given, _ := r.Get(givenPath(row, col)).(bool)
			return given, nil
		}).
		Bind("selected", func(r state.Reader) (any, error) {
			sr := cellValue(r.Get("sudoku.selected.row"))
			sc := cellValue(r.Get("sudoku.selected.col"))
			return sr == row && sc == col, nil
		}), nil
}

// gridComponent lays out nine rows of nine cell components. The
// descriptor list is static data; all reactivity lives in the cells.
func gridComponent(view.Props, *view.Context) (*view.Node, error) {
	grid := view.N("grid")
	for r := 0; r < 9; r++ {
		row := view.N("gridrow").WithKey(fmt.Sprintf("r%d", r))
		for c := 0; c < 9; c++ {
			row.Child(view.Use("cell").
				WithKey(fmt.Sprintf("r%dc%d", r, c)).
				Attr("row", r).
				Attr("col", c))
		}
		grid.Child(row)
	}
	return grid, nil
}

// statusComponent summarizes the board. It reads every cell, so any
// cell write re-evaluates it.
func statusComponent(_ view.Props, ctx *view.Context) (*view.Node, error) {
	get := func(row, col int) int {
		return cellValue(ctx.Get(cellPath(row, col)))
	}
	bad, empty := conflicts(get)

	text := fmt.Sprintf("%d empty, %d conflicts", empty, bad)
	if empty == 0 && bad == 0 {
		text = "solved!"
	}
	return view.Text(text).Attr("role", "status"), nil
}

// rootDescriptor assembles the app tree.
func rootDescriptor() *view.Node {
	return view.Container(
		view.Text("sudoku-juris"),
		view.Use("grid"),
		view.Use("status"),
	)
}
