// cmd/trainer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/EngoEngine/engo"
	"github.com/gdamore/tcell/v2"

	"github.com/opd-ai/go-cannon/pkg/audio"
	"github.com/opd-ai/go-cannon/pkg/config"
	"github.com/opd-ai/go-cannon/pkg/engine"
	"github.com/opd-ai/go-cannon/pkg/health"
	"github.com/opd-ai/go-cannon/pkg/logging"
	"github.com/opd-ai/go-cannon/pkg/metrics"
	"github.com/opd-ai/go-cannon/pkg/render"
	engorender "github.com/opd-ai/go-cannon/pkg/render/engo"
	"github.com/opd-ai/go-cannon/pkg/server"
)

const (
	frameInterval  = 16 * time.Millisecond
	frameMaxAge    = 2 * time.Second
	memoryLimitMB  = 500
	shutdownPeriod = 5 * time.Second
)

type options struct {
	configPath string
	writeDef   bool
	renderer   string
	statusAddr string
	sound      bool
	logPath    string
	seed       uint64
	speed      string
	rounds     int
	width      int
	height     int
	fullscreen bool
}

func parseFlags() options {
	var o options
	flag.StringVar(&o.configPath, "config", "", "Path to a JSON or YAML configuration file")
	flag.BoolVar(&o.writeDef, "default", false, "Write the default configuration to -config and exit")
	flag.StringVar(&o.renderer, "renderer", "terminal", "Renderer type: 'terminal', 'engo' or 'headless'")
	flag.StringVar(&o.statusAddr, "status-addr", "", "Status server address (overrides config, empty disables)")
	flag.BoolVar(&o.sound, "sound", false, "Play tones for shots and results")
	flag.StringVar(&o.logPath, "log", "", "Log file (terminal renderer logs nowhere without it)")
	flag.Uint64Var(&o.seed, "seed", 0, "Random seed for angles and targets (0 picks one)")
	flag.StringVar(&o.speed, "speed", "20", "Initial speed field in m/s (fired every round when headless)")
	flag.IntVar(&o.rounds, "rounds", 0, "Rounds to play when headless (0 runs until interrupted)")
	flag.IntVar(&o.width, "width", 1024, "Window width (engo only)")
	flag.IntVar(&o.height, "height", 768, "Window height (engo only)")
	flag.BoolVar(&o.fullscreen, "fullscreen", false, "Run in fullscreen mode (engo only)")
	flag.Parse()
	return o
}

func main() {
	opts := parseFlags()
	ctx := context.Background()

	logOut, closeLog, err := openLog(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open log: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()
	logger := logging.NewLoggerTo(logOut)

	if opts.writeDef {
		if err := writeDefaultConfig(opts.configPath); err != nil {
			logger.Error(ctx, "Failed to create default configuration", err, "config_path", opts.configPath)
			fmt.Fprintf(os.Stderr, "trainer: %v\n", err)
			closeLog()
			os.Exit(1)
		}
		logger.Info(ctx, "Created default configuration file", "config_path", opts.configPath)
		return
	}

	if err := run(ctx, opts, logger); err != nil {
		logger.Error(ctx, "Trainer failed", err, "renderer", opts.renderer)
		fmt.Fprintf(os.Stderr, "trainer: %v\n", err)
		closeLog()
		os.Exit(1)
	}
}

// openLog picks the log destination. The terminal renderer owns stdout and
// stderr, so it only logs to a file.
func openLog(opts options) (io.Writer, func(), error) {
	if opts.logPath != "" {
		f, err := os.OpenFile(opts.logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, func() { _ = f.Close() }, nil
	}
	if opts.renderer == "terminal" {
		return io.Discard, func() {}, nil
	}
	return os.Stderr, func() {}, nil
}

// writeDefaultConfig saves the built-in configuration to path, as JSON or
// YAML by extension.
func writeDefaultConfig(path string) error {
	if path == "" {
		return fmt.Errorf("-default needs a -config path")
	}
	return config.SaveConfig(config.DefaultConfig(), path)
}

func loadConfig(ctx context.Context, opts options, logger *logging.Logger) (*config.TrainerConfig, error) {
	cfg := config.DefaultConfig()
	if opts.configPath != "" {
		loaded, err := config.LoadConfig(opts.configPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		logger.Info(ctx, "Loaded configuration", "config_path", opts.configPath)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, logging.WrapError(err, "failed to apply environment configuration")
	}
	if opts.statusAddr != "" {
		cfg.Server.StatusAddr = opts.statusAddr
	}
	return cfg, nil
}

func run(ctx context.Context, opts options, logger *logging.Logger) error {
	cfg, err := loadConfig(ctx, opts, logger)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if opts.seed != 0 {
		rng = rand.New(rand.NewPCG(opts.seed, opts.seed))
	}
	e, err := engine.NewEngine(cfg, rng, nil, logger)
	if err != nil {
		return err
	}

	collector := metrics.New()
	collector.Attach(e.Bus())
	defer collector.Detach()

	if opts.sound {
		if err := audio.Init(); err != nil {
			logger.Warn(ctx, "Sound disabled", "error", err.Error())
		} else {
			defer audio.Close()
			player := audio.NewPlayer(logger)
			player.Attach(e.Bus())
			defer player.Detach()
		}
	}

	store := engine.NewSnapshotStore()
	controls := render.NewControls(e, logger, opts.speed)
	session := render.NewSession(e, controls, nil, store, cfg.Physics.MaxFrameDelta)

	status, err := startStatus(ctx, cfg, store, session, collector, logger)
	if err != nil {
		return err
	}
	if status != nil {
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
			defer cancel()
			if err := status.Stop(stopCtx); err != nil {
				logger.Error(ctx, "Status server shutdown failed", err)
			}
		}()
	}

	logger.Info(ctx, "Starting trainer",
		"renderer", opts.renderer,
		"round", e.Round(),
	)

	switch opts.renderer {
	case "terminal":
		return runTerminal(ctx, session, logger)
	case "engo":
		scene := engorender.NewTrainerScene(session, float32(opts.width), float32(opts.height), logger)
		engo.Run(engorender.RunOptions(opts.width, opts.height, opts.fullscreen), scene)
		return nil
	case "headless":
		session.Renderer = render.NewNullRenderer(logger)
		return runHeadless(ctx, session, opts.rounds, logger)
	default:
		return fmt.Errorf("unknown renderer %q", opts.renderer)
	}
}

// startStatus starts the status server when an address is configured and
// returns nil otherwise.
func startStatus(ctx context.Context, cfg *config.TrainerConfig, store *engine.SnapshotStore, session *render.Session,
	collector *metrics.Collector, logger *logging.Logger) (*server.StatusServer, error) {
	if cfg.Server.StatusAddr == "" {
		return nil, nil
	}

	checker := health.NewHealthChecker()
	status := server.NewStatusServer(cfg.Server, store, checker, collector.Handler(), logger)

	checker.AddCheck(health.NewFrameLoopHealthCheck(session.LastFrame, frameMaxAge))
	checker.AddCheck(health.NewListenerHealthCheck(status.Addr))
	checker.AddCheck(health.NewMemoryHealthCheck(memoryLimitMB, func() int64 {
		var m runtime.MemStats
		runtime.ReadMemStats(&m)
		return int64(m.Alloc / 1024 / 1024)
	}))

	if err := status.Start(cfg.Server.StatusAddr); err != nil {
		return nil, logging.WrapError(err, "failed to start status server on %s", cfg.Server.StatusAddr)
	}
	return status, nil
}

func runTerminal(ctx context.Context, session *render.Session, logger *logging.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return logging.WrapError(err, "failed to create screen")
	}
	if err := screen.Init(); err != nil {
		return logging.WrapError(err, "failed to initialize screen")
	}
	defer screen.Fini()

	session.Renderer = render.NewTerminalRenderer(screen)

	done := make(chan struct{})
	defer close(done)
	events := render.PollEvents(screen.PollEvent, done)

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	session.Step()
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if !render.HandleEvent(session.Controls, ev) {
				logger.Info(ctx, "Quit requested")
				return nil
			}
		case <-ticker.C:
			session.Step()
		case sig := <-sigs:
			logger.Info(ctx, "Shutting down", "signal", sig.String())
			return nil
		}
	}
}

// runHeadless fires the speed field every round and resets once the shot
// lands. rounds <= 0 runs until a signal arrives.
func runHeadless(ctx context.Context, session *render.Session, rounds int, logger *logging.Logger) error {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigs)

	ticker := time.NewTicker(frameInterval)
	defer ticker.Stop()

	played, hits := 0, 0
	for {
		select {
		case sig := <-sigs:
			logger.Info(ctx, "Shutting down", "signal", sig.String(), "rounds", played, "hits", hits)
			return nil
		case <-ticker.C:
		}

		snap := session.Step()
		switch {
		case snap.Phase == engine.PhaseReady:
			if err := session.Controls.Fire(); err != nil {
				return logging.WrapError(err, "headless fire with speed %q failed", session.Controls.SpeedText())
			}
		case snap.Phase.Terminal():
			played++
			if snap.Phase == engine.PhaseHit {
				hits++
			}
			logger.Info(ctx, "Round finished",
				"round", snap.Round,
				"result", snap.Phase.String(),
				"flight_time", snap.FlightTime,
			)
			if rounds > 0 && played >= rounds {
				logger.Info(ctx, "Headless run complete", "rounds", played, "hits", hits)
				return nil
			}
			session.Controls.Reset()
		}
	}
}
