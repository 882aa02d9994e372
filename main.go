package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pourbot/pourbot/cache"
	"github.com/pourbot/pourbot/config"
	"github.com/pourbot/pourbot/shell"
	"github.com/pourbot/pourbot/worker"
)

var GitVersion string

func main() {
	cfg := &config.Config{}
	if err := cfg.Load(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	output.FormatLevel = func(i interface{}) string {
		return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
	}
	var logger zerolog.Logger
	if cfg.GetBool("debug") {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Timestamp().Logger()
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
		logger = zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	}
	log.Logger = logger
	logger.Debug().Msg("Debug logging is on")
	if GitVersion != "" {
		logger.Info().Str("version", GitVersion).Msg("pourbot")
	}

	if path := cfg.GetString("cpu-profile"); path != "" {
		f, err := os.Create(path)
		if err != nil {
			log.Fatal().Err(err).Msg("could not create CPU profile")
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	var store *cache.Store
	if path := cfg.GetString("cache-path"); path != "" {
		var err error
		store, err = cache.Open(path)
		if err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("opening solution cache")
		}
		defer store.Close()
	}

	pool := worker.New(0, store)
	sc := shell.NewShellController(cfg, pool)
	sc.Loop()
	pool.Wait()
}
