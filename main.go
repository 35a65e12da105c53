package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/beehive/config"
	"github.com/pthm-cable/beehive/game"
	"github.com/pthm-cable/beehive/save"
	"github.com/pthm-cable/beehive/transport"
	"github.com/pthm-cable/beehive/ui"
)

func main() {
	// CLI flags
	configPath := flag.String("config", "", "Path to config.yaml (empty = use defaults)")
	headless := flag.Bool("headless", false, "Run without graphics")
	logStats := flag.Bool("log-stats", false, "Output stats via slog")
	statsWindow := flag.Float64("stats-window", 0, "Stats window size in seconds (0 = use config)")
	outputDir := flag.String("output-dir", "", "Output directory for CSV logs, event log and config snapshot")
	seed := flag.Int64("seed", 0, "RNG seed (0 = time-based)")
	maxTicks := flag.Int("max-ticks", 0, "Stop after N ticks (0 = unlimited)")
	stepsPerUpdate := flag.Int("steps-per-update", 1, "Simulation ticks per update call (higher = faster headless runs)")
	listen := flag.String("listen", "", "Serve the websocket frame stream on this address (e.g. :8080)")
	saveKey := flag.String("save-key", "", "Save slot key (empty = use config)")
	noLoad := flag.Bool("no-load", false, "Start fresh instead of loading the save")

	flag.Parse()

	// Set up slog (JSON to stdout for structured logging)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Initialize config before anything else
	if err := config.Init(*configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	cfg := config.Cfg()

	rngSeed := *seed
	if rngSeed == 0 {
		rngSeed = time.Now().UnixNano()
	}

	statsWindowSec := cfg.Telemetry.StatsWindow
	if *statsWindow > 0 {
		statsWindowSec = *statsWindow
	}

	store, err := save.Open(cfg.Save.Backend, cfg.Save.Path)
	if err != nil {
		slog.Error("failed to open save store", "backend", cfg.Save.Backend, "error", err)
		os.Exit(1)
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server is built before the game so it can be the frame sink
	var server *transport.Server
	if *listen != "" {
		server = transport.NewServer(nil, transport.WorldInfo{
			Width:   cfg.World.Width,
			Height:  cfg.World.Height,
			Ceiling: cfg.World.Ceiling,
		}, cfg.Transport.ClientQueue)
	}

	opts := game.Options{
		Seed:           rngSeed,
		Config:         cfg,
		LogStats:       *logStats,
		StatsWindowSec: statsWindowSec,
		OutputDir:      *outputDir,
		StepsPerUpdate: *stepsPerUpdate,
		Store:          store,
		SaveKey:        *saveKey,
		NoLoad:         *noLoad,
	}
	if server != nil {
		opts.Frames = server
	}

	if *headless {
		runHeadless(ctx, opts, server, *listen, *maxTicks)
		return
	}
	runWindowed(ctx, opts, server, *listen, *maxTicks)
}

// serve starts the transport in the background once the game exists.
func serve(ctx context.Context, server *transport.Server, g *game.Game, addr string) {
	if server == nil {
		return
	}
	server.SetInputSink(g)
	go func() {
		if err := server.ListenAndServe(ctx, addr); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("transport stopped", "error", err)
		}
	}()
}

func runHeadless(ctx context.Context, opts game.Options, server *transport.Server, addr string, maxTicks int) {
	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		os.Exit(1)
	}
	defer g.Unload()
	serve(ctx, server, g, addr)

	slog.Info("starting headless simulation",
		"seed", opts.Seed,
		"max_ticks", maxTicks,
		"steps_per_update", opts.StepsPerUpdate,
		"listen", addr,
	)

	// Remote viewers need real time; otherwise run as fast as possible
	var pace <-chan time.Time
	if server != nil && opts.Config.Screen.TargetFPS > 0 {
		ticker := time.NewTicker(time.Second / time.Duration(opts.Config.Screen.TargetFPS))
		defer ticker.Stop()
		pace = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			slog.Info("interrupted", "tick", g.Tick())
			return
		default:
		}

		g.UpdateHeadless()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			slog.Info("max ticks reached", "tick", g.Tick())
			return
		}

		if pace != nil {
			select {
			case <-pace:
			case <-ctx.Done():
			}
		}
	}
}

func runWindowed(ctx context.Context, opts game.Options, server *transport.Server, addr string, maxTicks int) {
	cfg := opts.Config
	rl.SetConfigFlags(rl.FlagWindowResizable)
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), "Beehive")
	defer rl.CloseWindow()

	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	// Escape clears the inspector instead of closing the window
	rl.SetExitKey(0)

	g, err := game.New(opts)
	if err != nil {
		slog.Error("failed to start game", "error", err)
		return
	}
	defer g.Unload()
	serve(ctx, server, g, addr)

	viewer := ui.NewViewer(g)
	for !rl.WindowShouldClose() && ctx.Err() == nil {
		viewer.Update()
		viewer.Draw()

		if maxTicks > 0 && int(g.Tick()) >= maxTicks {
			break
		}
	}
}
