// Counter is the minimal walkthrough of the reactive engine: one
// store path, one reactive attribute, no components. It mounts a tiny
// tree into the in-memory host, bumps the counter a few times, and
// prints the rendered tree after each mutation. Only the text
// attribute re-evaluates.
package main

import (
	"fmt"

	"github.com/eswat2/sudoku-juris/ui"
	"github.com/eswat2/sudoku-juris/ui/memhost"
	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/view"
)

func main() {
	root := memhost.NewRoot()
	eng := ui.New(memhost.NewHost(),
		ui.WithInitialState(map[string]any{"count": 0}))
	defer eng.Close()

	tree := view.Container(
		view.Text("Counter Demo"),
		view.TextFn(func(r state.Reader) (any, error) {
			return fmt.Sprintf("count: %v", r.Get("count")), nil
		}),
		view.Button("+1", func() {}),
	)
	eng.Render(tree, root)

	for i := 1; i <= 3; i++ {
		eng.Set("count", i)
		fmt.Print(memhost.Serialize(root))
	}
}
