/*
Tessera ingests SPARTA surf triangle files, repairs the geometry and
composes deck-described scenes into cleaned surfs plus a TOML manifest.

Usage:

	tessera -deck assets/in.demo -root assets -out out
	tessera -watch -deck assets/in.demo -root assets
	tessera file.surf other.surf

With positional surf files the deck is ignored and each file is cleaned on
its own.
*/
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/spaghettifunk/tessera/engine"
	"github.com/spaghettifunk/tessera/engine/config"
	"github.com/spaghettifunk/tessera/engine/core"
)

func main() {
	var (
		configPath = flag.String("config", "", "TOML config file")
		logLevel   = flag.String("log-level", "", "debug, info, warn or error")
		root       = flag.String("root", "", "directory surf paths resolve against")
		deck       = flag.String("deck", "", "scene deck to compose")
		output     = flag.String("out", "", "output directory for cleaned files")
		flipAxis   = flag.String("flip", "", "mirror meshes across an axis: x, y or z")
		workers    = flag.Int("workers", 0, "parallel surf ingestions, 0 for one per CPU")

		lenient        = flag.Bool("lenient", false, "skip files that fail to load instead of aborting")
		compact        = flag.Bool("compact", false, "drop orphaned vertices from cleaned files")
		strictCount    = flag.Bool("strict-count", false, "fail when the declared triangle count is wrong")
		strictTrailing = flag.Bool("strict-trailing", false, "fail on content after the triangle section")
		watch          = flag.Bool("watch", false, "recompose whenever the deck or a surf file changes")
	)
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			core.LogFatal(err.Error())
		}
		cfg = loaded
	}
	cfg.Resolve(config.Flags{
		LogLevel:       *logLevel,
		Root:           *root,
		Deck:           *deck,
		Output:         *output,
		FlipAxis:       *flipAxis,
		Workers:        *workers,
		Lenient:        *lenient,
		Compact:        *compact,
		StrictCount:    *strictCount,
		StrictTrailing: *strictTrailing,
	})

	pipeline, err := engine.New(cfg, *watch)
	if err != nil {
		core.LogFatal(err.Error())
	}

	if err := pipeline.Initialize(); err != nil {
		core.LogFatal(err.Error())
	}

	// signal channel to capture system calls
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT, syscall.SIGQUIT)

	// start shutdown goroutine
	go func() {
		<-sigCh
		_ = pipeline.Shutdown()
	}()

	if files := flag.Args(); len(files) > 0 {
		if err := pipeline.CleanFiles(files); err != nil {
			core.LogFatal(err.Error())
		}
		return
	}

	if err := pipeline.Run(); err != nil {
		core.LogFatal(err.Error())
	}
}
