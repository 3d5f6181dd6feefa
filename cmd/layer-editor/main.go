package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand/v2"
	"os"

	"go.uber.org/zap"

	"github.com/ironsheep/layer-editor/internal/config"
	"github.com/ironsheep/layer-editor/internal/layers"
	"github.com/ironsheep/layer-editor/internal/script"
	"github.com/ironsheep/layer-editor/internal/server"
)

// Version information - set by ldflags during build
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version":
			fmt.Printf("layer-editor %s\n", Version)
			fmt.Printf("  Build time: %s\n", BuildTime)
			fmt.Printf("  Git commit: %s\n", GitCommit)
			return
		case "--help", "-h", "help":
			printHelp()
			return
		}
	}

	cfg, err := config.Load(os.Args[1:], os.Getenv, os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// zap logs to stderr; stdout carries the MCP protocol and command output.
	var l *zap.Logger
	if cfg.Debug {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer l.Sync() //nolint:errcheck
	zap.ReplaceGlobals(l)

	l.Debug("starting",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("commit", GitCommit),
		zap.String("mode", string(cfg.Mode)))

	opts := []layers.Option{layers.WithBlankSize(cfg.BlankWidth, cfg.BlankHeight)}
	if cfg.Seed != 0 {
		opts = append(opts, layers.WithRand(rand.New(rand.NewPCG(cfg.Seed, cfg.Seed))))
	}
	stack, err := layers.NewBlank(cfg.LayerName, opts...)
	if err != nil {
		l.Fatal("create initial layer", zap.Error(err))
	}

	if err := run(cfg, stack, l, opts); err != nil {
		l.Error("exiting", zap.Error(err))
		l.Sync() //nolint:errcheck
		os.Exit(1)
	}
}

func run(cfg config.Config, stack *layers.Stack, l *zap.Logger, opts []layers.Option) error {
	switch cfg.Mode {
	case config.ModeMCP:
		server.Version = Version
		return server.New(stack, l, opts...).Run()
	case config.ModeScript:
		return script.New(stack, os.Stdout, l, opts...).RunFile(cfg.ScriptPath)
	default:
		fmt.Println("Layer editor. Type commands, or q to quit.")
		return script.New(stack, os.Stdout, l, opts...).Run(os.Stdin)
	}
}

func printHelp() {
	fmt.Println("layer-editor - layered raster image editor")
	fmt.Println()
	fmt.Println("Usage: layer-editor [options]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  -mode text|script|mcp   Front-end (default text)")
	fmt.Println("  -script FILE            Run commands from FILE and exit")
	fmt.Println("  -blank WxH              Size of new layers (default 500x500)")
	fmt.Println("  -layer NAME             Name of the initial layer (default layer1)")
	fmt.Println("  -seed N                 Mosaic random seed (default random)")
	fmt.Println("  -v                      Verbose logging")
	fmt.Println("  --version               Print version information")
	fmt.Println("  --help, -h              Print this help message")
	fmt.Println()
	fmt.Println("Environment variables:")
	fmt.Printf("  %s=debug    Enable debug logging\n", config.EnvLogLevel)
	fmt.Printf("  %s=WxH     Size of new layers\n", config.EnvBlankSize)
	fmt.Println()
	fmt.Println("In mcp mode the editor speaks MCP over stdin/stdout.")
}
