// Sudoku is the reference application for the reactive engine.
//
// It renders a 9x9 grid into the in-memory host, takes moves on
// stdin, persists the board to a snapshot database, and optionally
// serves the live state tree over a unix socket for inspection.
//
// Commands:
//
//	set <row> <col> <digit>   place a digit (1-9); rows/cols are 0-8
//	clear <row> <col>         empty a cell
//	select <row> <col>        move the selection
//	show                      reprint the rendered tree
//	save                      snapshot the board now
//	quit                      snapshot and exit
package main

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/docopt/docopt-go"
	"github.com/golang/glog"

	"github.com/eswat2/sudoku-juris/ui"
	"github.com/eswat2/sudoku-juris/ui/memhost"
	"github.com/eswat2/sudoku-juris/ui/snapshot"
	"github.com/eswat2/sudoku-juris/ui/state"
	"github.com/eswat2/sudoku-juris/ui/statesrv"
)

const usage = `Sudoku.

Usage:
    sudoku [--db=<path>] [--listen=<socket>] [--seed=<n>] [--holes=<n>] [--resume]
    sudoku -h | --help

Options:
    -h --help            Show this screen.
    --db=<path>          Snapshot database path.
    --listen=<socket>    Serve the inspection protocol on this unix socket.
    --seed=<n>           Board generation seed.
    --holes=<n>          Cells to blank out [default: 40].
    --resume             Restore the last saved board instead of generating.
`

// envConfig is the environment-variable layer; flags override it.
type envConfig struct {
	DB     string `env:"SUDOKU_DB" envDefault:"sudoku.db"`
	Listen string `env:"SUDOKU_LISTEN"`
	Seed   int64  `env:"SUDOKU_SEED" envDefault:"1"`
}

const snapshotName = "board"

func main() {
	cfg, err := parseConfig(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := run(cfg); err != nil {
		glog.Errorf("sudoku: %v", err)
		os.Exit(1)
	}
}

type appConfig struct {
	db     string
	listen string
	seed   int64
	holes  int
	resume bool
}

func parseConfig(args []string) (appConfig, error) {
	var ec envConfig
	if err := env.Parse(&ec); err != nil {
		return appConfig{}, fmt.Errorf("parse env: %w", err)
	}
	cfg := appConfig{db: ec.DB, listen: ec.Listen, seed: ec.Seed}

	opts, err := docopt.ParseArgs(usage, args, "")
	if err != nil {
		return appConfig{}, err
	}
	if v, _ := opts.String("--db"); v != "" {
		cfg.db = v
	}
	if v, _ := opts.String("--listen"); v != "" {
		cfg.listen = v
	}
	if v, err := opts.Int("--seed"); err == nil {
		cfg.seed = int64(v)
	}
	cfg.holes, _ = opts.Int("--holes")
	cfg.resume, _ = opts.Bool("--resume")
	return cfg, nil
}

func run(cfg appConfig) error {
	db, err := snapshot.Open(cfg.db)
	if err != nil {
		return err
	}
	defer db.Close()

	initial, err := initialState(cfg, db)
	if err != nil {
		return err
	}

	root := memhost.NewRoot()
	eng := ui.New(memhost.NewHost(),
		ui.WithInitialState(initial),
		ui.WithPolicy(state.NotifyOnChange))
	registerComponents(eng.Registry())
	eng.Render(rootDescriptor(), root)
	defer eng.Close()

	if cfg.listen != "" {
		if err := serveInspection(cfg.listen, eng, root); err != nil {
			return err
		}
	}

	fmt.Print(memhost.Serialize(root))
	return repl(eng, root, db)
}

// initialState restores the saved board or generates a fresh one.
func initialState(cfg appConfig, db *snapshot.DB) (map[string]any, error) {
	if cfg.resume {
		tree, err := db.Load(snapshotName)
		if err == nil {
			glog.Info("sudoku: resumed saved board")
			return tree, nil
		}
		glog.Warningf("sudoku: resume failed, generating fresh board: %v", err)
	}
	return newBoard(cfg.seed, cfg.holes), nil
}

func serveInspection(socket string, eng *ui.Engine, root *memhost.Element) error {
	os.Remove(socket)
	lis, err := net.Listen("unix", socket)
	if err != nil {
		return fmt.Errorf("listen %s: %w", socket, err)
	}
	srv := statesrv.New(&provider{eng: eng, root: root})
	go srv.Serve(context.Background(), lis)
	glog.Infof("sudoku: inspection socket at %s", socket)
	return nil
}

// provider adapts the engine plus the rendered tree to the inspection
// server.
type provider struct {
	eng  *ui.Engine
	root *memhost.Element
}

func (p *provider) GetState(path string) (any, bool) { return p.eng.GetState(path) }
func (p *provider) SetState(path string, v any)      { p.eng.SetState(path, v) }
func (p *provider) StatePaths() []string             { return p.eng.StatePaths() }
func (p *provider) TreeText() string                 { return memhost.Serialize(p.root) }

func repl(eng *ui.Engine, root *memhost.Element, db *snapshot.DB) error {
	in := bufio.NewScanner(os.Stdin)
	for in.Scan() {
		fields := strings.Fields(in.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "set":
			r, c, v, err := parseMove(fields, true)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if isGiven(eng, r, c) {
				fmt.Println("cell is a given")
				continue
			}
			eng.Set(cellPath(r, c), v)
			printStatus(root)
		case "clear":
			r, c, _, err := parseMove(fields, false)
			if err != nil {
				fmt.Println(err)
				continue
			}
			if isGiven(eng, r, c) {
				fmt.Println("cell is a given")
				continue
			}
			eng.Set(cellPath(r, c), 0)
			printStatus(root)
		case "select":
			r, c, _, err := parseMove(fields, false)
			if err != nil {
				fmt.Println(err)
				continue
			}
			eng.Set("sudoku.selected.row", r)
			eng.Set("sudoku.selected.col", c)
		case "show":
			fmt.Print(memhost.Serialize(root))
		case "save":
			if err := db.Save(snapshotName, eng.Store()); err != nil {
				return err
			}
			fmt.Println("saved")
		case "quit":
			return db.Save(snapshotName, eng.Store())
		default:
			fmt.Printf("unknown command %q\n", fields[0])
		}
	}
	return in.Err()
}

func parseMove(fields []string, withDigit bool) (row, col, val int, err error) {
	want := 3
	usage := fmt.Sprintf("usage: %s <row> <col>", fields[0])
	if withDigit {
		want = 4
		usage += " <digit>"
	}
	if len(fields) != want {
		return 0, 0, 0, fmt.Errorf("%s", usage)
	}
	row, err = strconv.Atoi(fields[1])
	if err != nil || row < 0 || row > 8 {
		return 0, 0, 0, fmt.Errorf("bad row %q", fields[1])
	}
	col, err = strconv.Atoi(fields[2])
	if err != nil || col < 0 || col > 8 {
		return 0, 0, 0, fmt.Errorf("bad col %q", fields[2])
	}
	if withDigit {
		val, err = strconv.Atoi(fields[3])
		if err != nil || val < 1 || val > 9 {
			return 0, 0, 0, fmt.Errorf("bad digit %q", fields[3])
		}
	}
	return row, col, val, nil
}

func isGiven(eng *ui.Engine, row, col int) bool {
	given, _ := eng.Get(givenPath(row, col)).(bool)
	return given
}

// printStatus prints the status element's current text.
func printStatus(root *memhost.Element) {
	var find func(e *memhost.Element) *memhost.Element
	find = func(e *memhost.Element) *memhost.Element {
		if e.Attr("role") == "status" {
			return e
		}
		for _, c := range e.Children() {
			if hit := find(c); hit != nil {
				return hit
			}
		}
		return nil
	}
	if status := find(root); status != nil {
		fmt.Println(status.Attr("text"))
	}
}
