// Package shell is the interactive front end: a readline loop where the
// user enters or loads a puzzle, picks a solving method, and gets the pour
// list back.
package shell

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/kballard/go-shellquote"
	"github.com/rs/zerolog/log"

	"github.com/pourbot/pourbot/config"
	"github.com/pourbot/pourbot/puzzlefile"
	"github.com/pourbot/pourbot/worker"
)

type ShellController struct {
	l   *readline.Instance
	cfg *config.Config

	pool   *worker.Pool
	puzzle *puzzlefile.Puzzle
}

func filterInput(r rune) (rune, bool) {
	switch r {
	// block CtrlZ feature
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}

func NewShellController(cfg *config.Config, pool *worker.Pool) *ShellController {
	l, err := readline.NewEx(&readline.Config{
		Prompt:          "\033[31mpourbot>\033[0m ",
		HistoryFile:     "/tmp/pourbot_readline.tmp",
		EOFPrompt:       "exit",
		InterruptPrompt: "^C",

		HistorySearchFold:   true,
		FuncFilterInputRune: filterInput,
	})
	if err != nil {
		panic(err)
	}
	return &ShellController{l: l, cfg: cfg, pool: pool}
}

func (sc *ShellController) showMessage(msg string) {
	io.WriteString(sc.l.Stdout(), msg)
	io.WriteString(sc.l.Stdout(), "\n")
}

func (sc *ShellController) showError(err error) {
	io.WriteString(sc.l.Stderr(), "Error: "+err.Error()+"\n")
}

// Loop reads commands until exit or EOF.
func (sc *ShellController) Loop() {
	defer sc.l.Close()
	for {
		line, err := sc.l.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				if len(line) == 0 {
					break
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				break
			}
			sc.showError(err)
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		if err := sc.execute(line); err != nil {
			sc.showError(err)
		}
	}
	log.Debug().Msg("bye")
}

func (sc *ShellController) execute(line string) error {
	fields, err := shellquote.Split(line)
	if err != nil {
		return err
	}
	cmd, args := fields[0], fields[1:]
	switch cmd {
	case "help":
		sc.showMessage(usage)
	case "new":
		return sc.newPuzzle(args)
	case "tube":
		return sc.addTube(args)
	case "load":
		return sc.loadPuzzle(args)
	case "save":
		return sc.savePuzzle(args)
	case "show":
		return sc.showPuzzle()
	case "solve":
		return sc.solve(args)
	case "set":
		return sc.setOption(args)
	case "settings":
		for k, v := range sc.cfg.AllSettings() {
			sc.showMessage(fmt.Sprintf("%s = %v", k, v))
		}
	default:
		return fmt.Errorf("unknown command %q; try help", cmd)
	}
	return nil
}

const usage = `commands:
new [capacity]        - start entering a new puzzle
tube <color> ...      - add one tube, colors bottom to top
load <path>           - load a puzzle YAML file
save <path>           - save the current puzzle
show                  - display the current puzzle
solve [method]        - solve (fastest, shortest or balanced)
set <key> <value>     - override a setting (method, max-extra-tubes, ...)
settings              - show effective settings
exit                  - leave the shell`
