// Package main is the entry point for the dusk demo.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dshills/dusk/internal/config"
	"github.com/dshills/dusk/internal/demo"
	"github.com/dshills/dusk/internal/graphics"
	"github.com/dshills/dusk/internal/input"
	"github.com/dshills/dusk/internal/logging"
	"github.com/dshills/dusk/internal/program"
	"github.com/dshills/dusk/internal/script"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options holds the command line. Zero values leave the config untouched.
type options struct {
	configPath string
	scriptPath string
	logLevel   string
	fps        float64
	headless   bool
	runFor     time.Duration
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
		return 1
	}
	if err := applyFlags(cfg, opts); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	var (
		gfx graphics.System
		src input.Source
	)
	if !cfg.Program.Headless {
		term, err := graphics.NewTerminal()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
			return 1
		}
		if err := term.Init(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to initialize terminal: %v\n", err)
			return 1
		}
		// Ensure the terminal is restored on all exit paths
		defer term.Shutdown()
		gfx, src = term, term
	}

	var host *script.Host
	if cfg.Script.Main != "" {
		host = script.New(script.WithLogger(logger.WithComponent("script")))
		defer host.Close()
	}

	p, err := program.New(program.Options{
		Graphics:  gfx,
		Input:     src,
		Script:    host,
		Logger:    logger,
		TargetFPS: cfg.Program.TargetFPS,
		IdleSleep: cfg.Program.IdleSleep(),
	})
	if err != nil {
		logger.Error("create program: %v", err)
		return 1
	}

	hello, err := demo.NewHello(p, cfg.Demo, demo.WithLogger(logger.WithComponent("demo")))
	if err != nil {
		logger.Error("create demo: %v", err)
		return 1
	}
	if err := hello.Attach(); err != nil {
		logger.Error("attach demo: %v", err)
		return 1
	}

	if host != nil {
		if err := loadScript(host, cfg.Script); err != nil {
			logger.Error("%v", err)
			return 1
		}
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	go func() {
		if _, ok := <-signals; ok {
			p.Exit()
		}
	}()

	if opts.runFor > 0 {
		timer := time.AfterFunc(opts.runFor, p.Exit)
		defer timer.Stop()
	}

	if err := p.Run(); err != nil {
		logger.Error("run: %v", err)
		return 1
	}

	m := p.Metrics()
	logger.Info("%d iterations, %d frames, avg update %v, avg render %v, max render %v, %d dispatch errors",
		m.Iterations, p.FrameCount(), m.AvgUpdate, m.AvgRender, m.MaxRender, m.DispatchErrors)
	return 0
}

func loadScript(h *script.Host, cfg config.ScriptConfig) error {
	if err := h.Load(cfg.Main); err != nil {
		return err
	}
	if cfg.Watch {
		return h.Watch()
	}
	return nil
}

// newLogger opens the configured log destination at the validated level.
func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	var (
		out     io.Writer = os.Stderr
		closeFn           = func() {}
	)
	if cfg.Log.File != "" {
		f, err := os.OpenFile(cfg.Log.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		out = f
		closeFn = func() { _ = f.Close() }
	}

	return logging.New(logging.Config{Level: cfg.LogLevel(), Output: out, Prefix: "dusk"}), closeFn, nil
}

func applyFlags(cfg *config.Config, opts options) error {
	if opts.scriptPath != "" {
		cfg.Script.Main = opts.scriptPath
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.fps != 0 {
		cfg.Program.TargetFPS = opts.fps
	}
	if opts.headless {
		cfg.Program.Headless = true
	}
	return cfg.Validate()
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", "dusk.toml", "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", "dusk.toml", "Path to configuration file (shorthand)")
	flag.StringVar(&opts.scriptPath, "script", "", "Main Lua script")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flag.Float64Var(&opts.fps, "fps", 0, "Target frames per second")
	flag.BoolVar(&opts.headless, "headless", false, "Run without a terminal")
	flag.DurationVar(&opts.runFor, "run-for", 0, "Exit after this long (0 runs until quit)")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "dusk - event driven frame loop demo\n\n")
		fmt.Fprintf(os.Stderr, "Usage: dusk [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nKeys: Space reverses, Enter randomizes, Escape or Ctrl+Q quits.\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  dusk -script lua/main.lua        Run with a script\n")
		fmt.Fprintf(os.Stderr, "  dusk -headless -run-for 5s       Run without a terminal for 5s\n")
	}

	flag.Parse()

	if showVersion {
		fmt.Printf("dusk %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	return opts
}
