package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/EverCrawl/client/internal/anim"
	"github.com/EverCrawl/client/internal/config"
	"github.com/EverCrawl/client/internal/core/loop"
	"github.com/EverCrawl/client/internal/input"
	"github.com/EverCrawl/client/internal/level"
	gonet "github.com/EverCrawl/client/internal/net"
	"github.com/EverCrawl/client/internal/net/packet"
	"github.com/EverCrawl/client/internal/persist"
	"github.com/EverCrawl/client/internal/render"
	"github.com/EverCrawl/client/internal/render/term"
	"github.com/EverCrawl/client/internal/scripting"
	"github.com/EverCrawl/client/internal/vmath"
	"github.com/EverCrawl/client/internal/world"
	"github.com/gdamore/tcell/v2"
	"github.com/pkg/profile"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// opMessage carries a server text line; the client only logs it.
const opMessage = 0x01

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfgFlag := flag.String("config", "", "config file (default $"+config.EnvPath+" or "+config.DefaultPath+")")
	profMode := flag.String("profile", "", "write a profile: cpu, mem or trace")
	flag.Parse()

	// 1. Config, falling back to built-in defaults when the default file is absent
	cfgPath := config.Path(*cfgFlag)
	cfg, err := config.Load(cfgPath)
	if err != nil {
		if *cfgFlag != "" || !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = config.Default()
	}

	// 2. Logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()
	log.Info("starting", zap.String("config", cfgPath))

	if stop := startProfile(*profMode); stop != nil {
		defer stop()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// 3. Assets
	textures := render.NewTextures(log.Named("texture"))
	sheets := anim.NewSheets(textures, log.Named("sprite"))
	maps := level.NewMaps(textures, log.Named("level"))

	tm := maps.Load(cfg.Assets.Level)
	heroSheet := sheets.Load(cfg.Assets.PlayerSprite)

	waitCtx, waitCancel := context.WithTimeout(ctx, 10*time.Second)
	err = tm.Wait(waitCtx, 10*time.Millisecond)
	waitCancel()
	if err != nil {
		return fmt.Errorf("level %s: %w", cfg.Assets.Level, err)
	}
	log.Info("level loaded", zap.String("name", tm.Name), zap.Float64("tile_size", tm.CellSize()),
		zap.Int("layers", len(tm.Layers())))

	// 4. Network
	readOpts, err := packetOptions(cfg.Network)
	if err != nil {
		return err
	}
	packets := packet.NewRegistry(log.Named("packet"), readOpts...)
	packets.Register(opMessage, func(r *packet.Reader) error {
		msg := r.Str()
		if err := r.Err(); err != nil {
			return err
		}
		log.Info("server message", zap.String("text", msg))
		return nil
	})

	var channel gonet.Channel
	if cfg.Network.Enabled {
		conn, err := gonet.Dial(ctx, cfg.Network.Address, gonet.ConnConfig{
			InQueueSize:       cfg.Network.InQueueSize,
			OutQueueSize:      cfg.Network.OutQueueSize,
			MaxPacketsPerTick: cfg.Network.MaxPacketsPerTick,
			DialTimeout:       cfg.Network.DialTimeout,
			WriteTimeout:      cfg.Network.WriteTimeout,
		}, log.Named("net"))
		if err != nil {
			return fmt.Errorf("connect %s: %w", cfg.Network.Address, err)
		}
		defer func() {
			conn.Close()
			conn.Wait()
			recv, sent := conn.Stats()
			log.Info("disconnected", zap.Uint64("received", recv), zap.Uint64("sent", sent))
		}()
		channel = conn
	}

	// 5. Database
	var recorder *world.Recorder
	if cfg.Database.Enabled {
		db, err := persist.NewDB(ctx, cfg.Database, log.Named("db"))
		if err != nil {
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		version, err := persist.RunMigrations(ctx, db.Pool)
		if err != nil {
			return fmt.Errorf("migrations: %w", err)
		}
		log.Info("schema ready", zap.Int64("version", version))
		recorder = world.NewRecorder(persist.NewSnapshotRepo(db), tm.Name, cfg.Database.SnapshotEvery, log.Named("snapshot"))
		defer recorder.Close()
	}

	// 6. Terminal
	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal init: %w", err)
	}
	defer screen.Fini()
	screen.HideCursor()

	keyboard := input.NewKeyboard(input.WithHoldTimeout(cfg.Input.HoldTimeout))
	queue := render.NewQueue(term.NewBackend(screen, cfg.Render.CellSize), log.Named("render"),
		render.WithDebugCapacity(cfg.Render.DebugCapacity))

	// 7. World
	sched := loop.NewTickerScheduler(cfg.Loop.FrameInterval())
	w := world.New(world.Config{Step: cfg.Loop.Step(), Debug: cfg.Render.Debug}, world.Deps{
		Level:   tm,
		Input:   keyboard,
		Channel: channel,
		Packets: packets,
		Clock:   sched,
		Log:     log.Named("world"),
	})
	if err := spawn(w, tm, heroSheet, sheets, cfg.Assets.ScriptsDir, log); err != nil {
		return err
	}

	// 8. Loop
	var toggleDebug atomic.Bool
	lp := loop.New(sched, loop.WithMaxCatchUp(cfg.Loop.MaxCatchUp), loop.WithLogger(log.Named("loop")))
	lp.Start(func() {
		if toggleDebug.Swap(false) {
			log.Debug("debug draw", zap.Bool("enabled", w.ToggleDebug()))
		}
		w.Update()
		if recorder != nil {
			recorder.Observe(w)
		}
	}, func(alpha float64) {
		if err := w.Draw(queue, alpha); err != nil {
			log.Warn("draw failed", zap.Error(err))
		}
	}, cfg.Loop.Step())

	runCtx, stopRun := context.WithCancel(ctx)
	done := make(chan error, 1)
	go func() { done <- sched.Run(runCtx) }()

	if term.PumpEvents(runCtx, screen, keyboard, func(a term.Action) {
		if a == term.ActionToggleDebug {
			toggleDebug.Store(true)
		}
	}) {
		log.Info("quit requested")
	}
	stopRun()
	<-done
	lp.Stop()

	in := w.Inspect()
	stats := lp.Stats()
	log.Info("shutdown",
		zap.Uint64("tick", in.Tick),
		zap.Int("entities", in.Entities),
		zap.Uint64("frames", stats.Frames),
		zap.Uint64("updates", stats.Updates),
		zap.String("checksum", w.Snapshot().ChecksumHex()),
	)
	return nil
}

// spawn places the player and any scripted entities. Without scripts the
// player starts at the level origin.
func spawn(w *world.World, tm *level.TileMap, hero *anim.Sheet, sheets *anim.Sheets, dir string, log *zap.Logger) error {
	start := vmath.V2(0, 0)
	if _, err := os.Stat(dir); err != nil {
		log.Info("no spawn scripts", zap.String("dir", dir))
		w.SpawnPlayer(hero, start)
		return nil
	}

	engine, err := scripting.NewEngine(dir, log.Named("lua"))
	if err != nil {
		return fmt.Errorf("scripts: %w", err)
	}
	defer engine.Close()

	sctx := scripting.SpawnContext{Level: tm.Name, TileSize: int(tm.CellSize()), Seed: time.Now().UnixNano()}
	x, y, ok, err := engine.PlayerStart(sctx)
	if err != nil {
		return fmt.Errorf("player_start: %w", err)
	}
	if ok {
		start = vmath.V2(x, y)
	}
	w.SpawnPlayer(hero, start)

	spawns, err := engine.Spawns(sctx)
	if err != nil {
		return fmt.Errorf("spawn_entities: %w", err)
	}
	for i, s := range spawns {
		sheet := hero
		if s.Sprite != "" {
			sheet = sheets.Load(filepath.Clean(s.Sprite))
		}
		world.CreateRemote(w.Registry(), uint32(i+1), sheet, vmath.V2(s.X, s.Y), s.Speed)
	}
	log.Info("spawned", zap.Float64("x", start.X()), zap.Float64("y", start.Y()), zap.Int("entities", len(spawns)))
	return nil
}

func packetOptions(cfg config.NetworkConfig) ([]packet.ReaderOption, error) {
	if cfg.StringEncoding == "" {
		return nil, nil
	}
	enc, err := packet.EncodingByName(cfg.StringEncoding)
	if err != nil {
		return nil, fmt.Errorf("network.string_encoding: %w", err)
	}
	return []packet.ReaderOption{packet.WithReadEncoding(enc)}, nil
}

// startProfile returns the stop function of a pkg/profile session, or nil.
func startProfile(mode string) func() {
	var opt func(*profile.Profile)
	switch mode {
	case "":
		return nil
	case "cpu":
		opt = profile.CPUProfile
	case "mem":
		opt = profile.MemProfile
	case "trace":
		opt = profile.TraceProfile
	default:
		fmt.Fprintf(os.Stderr, "unknown profile mode %q, profiling disabled\n", mode)
		return nil
	}
	return profile.Start(opt, profile.ProfilePath("."), profile.Quiet).Stop
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	// stdout belongs to the terminal renderer
	if cfg.File != "" {
		zapCfg.OutputPaths = []string{cfg.File}
	}
	zapCfg.ErrorOutputPaths = []string{"stderr"}

	return zapCfg.Build()
}
