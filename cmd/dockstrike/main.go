package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/dockstrike/audio"
	"github.com/lixenwraith/dockstrike/config"
	"github.com/lixenwraith/dockstrike/sim"
	"github.com/lixenwraith/dockstrike/stream"
)

var (
	configPath = flag.String("config", "", "YAML config file (defaults when empty)")
	seed       = flag.Uint64("seed", 1, "Simulation seed")
	cellCount  = flag.Int("cells", 4, "Cells to spawn")
	carriers   = flag.Int("carriers", 12, "Carriers to spawn")
	ticks      = flag.Int64("ticks", 0, "Run this many ticks headless as fast as possible, then exit")
	tui        = flag.Bool("tui", false, "Show the terminal view")
	withAudio  = flag.Bool("audio", false, "Play event cues on the default output device")
	listen     = flag.String("listen", "", "Serve the event stream and views on this address, e.g. :8080")
	logLevel   = flag.String("log-level", "info", "Log level: debug, info, warn, error")
	logFile    = flag.String("log-file", "", "Log to this file instead of stderr")
	dumpConfig = flag.Bool("dump-config", false, "Print the effective config and exit")
)

func main() {
	flag.Parse()
	os.Exit(run())
}

func run() int {
	logger, closer, err := setupLogger(*logLevel, *logFile, *tui)
	if err != nil {
		fmt.Fprintf(os.Stderr, "dockstrike: %v\n", err)
		return 2
	}
	defer closer.Close()

	cfg := config.Default()
	if *configPath != "" {
		if cfg, err = config.Load(*configPath); err != nil {
			logger.Error("config rejected", "path", *configPath, "err", err)
			return 2
		}
	}
	if *dumpConfig {
		out, err := cfg.Marshal()
		if err != nil {
			logger.Error("config marshal failed", "err", err)
			return 1
		}
		os.Stdout.Write(out)
		return 0
	}

	session, err := sim.New(sim.Options{Config: cfg, Seed: *seed, Logger: logger})
	if err != nil {
		logger.Error("session init failed", "err", err)
		return 1
	}
	if err := seedScene(session, *cellCount, *carriers); err != nil {
		logger.Error("scene setup failed", "err", err)
		return 1
	}
	session.Subscribe(autoLauncher(session, int64(cfg.TickRate/2)))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var player *audio.Player
	if *withAudio {
		player = audio.NewPlayer(audio.NewSynth(audio.DefaultConfig(), *seed), logger)
		if err := audio.Open(player); err != nil {
			logger.Warn("audio unavailable, continuing silent", "err", err)
			player = nil
		} else {
			defer audio.Close(player)
			session.Subscribe(player)
		}
	}

	if *listen != "" {
		hub := stream.NewHub(session.ID(), logger)
		session.Subscribe(hub)
		go hub.Run(ctx)

		server := stream.NewServer(*listen, session, hub, logger)
		server.Start()
		defer func() {
			shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			server.Stop(shutdown)
		}()
	}

	switch {
	case *ticks > 0:
		runHeadless(ctx, session, *ticks)
	case *tui:
		if err := runTUI(ctx, session, player); err != nil {
			logger.Error("terminal view failed", "err", err)
			return 1
		}
	default:
		session.Run(ctx)
	}

	summarize(logger, session)
	return 0
}

// runHeadless ticks without pacing
func runHeadless(ctx context.Context, s *sim.Session, n int64) {
	for i := int64(0); i < n; i++ {
		if ctx.Err() != nil {
			return
		}
		s.Tick()
	}
}

func summarize(logger *log.Logger, s *sim.Session) {
	status := s.Status()
	logger.Info("session finished",
		"tick", status["tick.count"],
		"hits", status["impact.hits"],
		"destroyed", status["cell.destroyed"],
		"retargets", status["motion.retargets"],
		"aborts", status["motion.aborts"],
	)
	if !*tui {
		out, _ := json.MarshalIndent(status, "", "  ")
		fmt.Println(string(out))
	}
}
