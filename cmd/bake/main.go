// Command bake drives the lightmap baking pipeline end to end: load a
// YAML configuration, build the solver, run the worker pool, and write
// the result image.
package main

import (
	"flag"
	"fmt"
	"os"

	"lightbake/config"
	"lightbake/logsink"
	"lightbake/solver"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "bake:", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to a YAML bake configuration")
	outPath := flag.String("out", "", "output image path, overrides the config's outputPath")
	debugLayers := flag.String("debug-layers", "", "if set, write the G-buffer layers (mask/pos/normal/albedo) as PNGs into this directory")
	verbose := flag.Bool("v", false, "log bake progress to stderr")
	flag.Parse()

	if *configPath == "" {
		return fmt.Errorf("-config is required")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	out := cfg.OutputPath
	if *outPath != "" {
		out = *outPath
	}
	if out == "" {
		return fmt.Errorf("no output path: set outputPath in the config or pass -out")
	}

	log := logsink.Sink(logsink.Silent)
	if *verbose {
		log = logsink.Standard()
	}

	s, err := solver.Create(cfg, log)
	if err != nil {
		return fmt.Errorf("create solver: %w", err)
	}

	log(logsink.LevelInfo, "bake", fmt.Sprintf("tracing %d texels across %d workers", s.Pool.Pending(), workerCount(cfg)))
	s.Begin()
	s.Join()

	if *debugLayers != "" {
		if err := os.MkdirAll(*debugLayers, 0o755); err != nil {
			return fmt.Errorf("debug layers dir: %w", err)
		}
		if err := solver.ExportDebugLayers(s.Canvas, s.Registry, *debugLayers); err != nil {
			return fmt.Errorf("export debug layers: %w", err)
		}
	}

	if err := s.Save(out); err != nil {
		return fmt.Errorf("save %q: %w", out, err)
	}
	log(logsink.LevelInfo, "bake", fmt.Sprintf("wrote %s", out))
	return nil
}

func workerCount(cfg config.Config) int {
	if cfg.NumWorkers > 0 {
		return cfg.NumWorkers
	}
	return 15
}
