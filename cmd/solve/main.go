// solve is a one-shot command: read a puzzle YAML file, solve it, print
// the pour list. Exit status 2 means no solution within the extra-tube
// bound.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pourbot/pourbot/cache"
	"github.com/pourbot/pourbot/config"
	"github.com/pourbot/pourbot/puzzlefile"
	"github.com/pourbot/pourbot/solver"
	"github.com/pourbot/pourbot/worker"
)

func main() {
	args := os.Args[1:]
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: solve [flags] <puzzle.yaml>")
		os.Exit(1)
	}
	path := args[len(args)-1]

	cfg := &config.Config{}
	if err := cfg.Load(args[:len(args)-1]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	puzzle, err := puzzlefile.Load(path)
	if err != nil {
		log.Fatal().Err(err).Msg("loading puzzle")
	}
	matrix, pal, err := puzzle.Matrix()
	if err != nil {
		log.Fatal().Err(err).Msg("bad puzzle")
	}
	name := cfg.GetString("method")
	if puzzle.Method != "" {
		name = puzzle.Method
	}
	method, err := solver.MethodFromString(name)
	if err != nil {
		log.Fatal().Err(err).Msg("bad method")
	}

	var store *cache.Store
	if cp := cfg.GetString("cache-path"); cp != "" {
		if store, err = cache.Open(cp); err != nil {
			log.Fatal().Err(err).Msg("opening solution cache")
		}
		defer store.Close()
	}

	pool := worker.New(0, store)
	res := <-pool.Submit(worker.Request{
		Capacity: puzzle.Capacity,
		Matrix:   matrix,
		Method:   method,
		Opts: solver.Options{
			MinExtraTubes: cfg.GetInt("min-extra-tubes"),
			MaxExtraTubes: cfg.GetInt("max-extra-tubes"),
		},
	})
	pool.Wait()
	if res.Err != nil {
		log.Fatal().Err(res.Err).Msg("solve failed")
	}
	if res.Solution == nil {
		fmt.Printf("no solution with up to %d extra tubes\n",
			cfg.GetInt("max-extra-tubes"))
		os.Exit(2)
	}
	fmt.Printf("solved with %d extra tubes in %v; %d colors, %d moves:\n",
		res.Solution.ExtraTubes, res.Elapsed, pal.Size(), len(res.Solution.Pours))
	for i, p := range res.Solution.Pours {
		fmt.Printf("%2d. pour tube %d into tube %d\n", i+1, p.From, p.To)
	}
}
