package main

import (
	"flag"
	"fmt"
	"os"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/glyphrun/glyphrun/audio"
	"github.com/glyphrun/glyphrun/config"
	"github.com/glyphrun/glyphrun/core"
	"github.com/glyphrun/glyphrun/engine"
	"github.com/glyphrun/glyphrun/physics"
	"github.com/glyphrun/glyphrun/scene"
	"github.com/glyphrun/glyphrun/scripting"
	"github.com/glyphrun/glyphrun/terminal"
)

var (
	configFlag      = flag.String("config", "glyphrun.toml", "Path to the TOML configuration file")
	debugFlag       = flag.Bool("debug", false, "Enable debug rendering")
	multiThreadFlag = flag.Bool("multithread", false, "Force the dual-thread scheduling model")
)

func main() {
	// Panic recovery: restore the terminal before printing the crash
	defer func() {
		if r := recover(); r != nil {
			crash(r)
		}
	}()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func crash(r any) {
	terminal.EmergencyReset(os.Stdout)
	fmt.Fprintf(os.Stderr, "\r\nGAME CRASHED: %v\r\n", r)
	fmt.Fprintf(os.Stderr, "Stack Trace:\r\n%s\r\n", debug.Stack())
	os.Exit(1)
}

func run() error {
	flag.Parse()

	cfg := config.Default()
	if _, err := os.Stat(*configFlag); err == nil {
		loaded, err := config.Load(*configFlag)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if *debugFlag {
		cfg.Window.Debug = true
	}
	if *multiThreadFlag {
		cfg.Window.MultiThread = true
	}

	logger, err := config.BuildLogger(cfg.Logging)
	if err != nil {
		return err
	}
	defer logger.Sync()

	// Goroutines spawned through core.Go clean the terminal up on panic
	core.SetCrashHandler(crash)

	script := scripting.NewEngine(logger)
	game := engine.NewGame(script, logger)

	player := audio.NewPlayer(cfg.Audio.Enabled)
	if err := player.Start(); err != nil {
		logger.Warn("audio unavailable, continuing without it", zap.Error(err))
	}
	defer player.Stop()

	// All scripted entry points must exist before the boot script runs
	engine.RegisterGameFunctions(game)
	scene.Register(script, logger, func(s *scene.Scene) {
		game.SwitchScene(s)
	})
	physics.Register(script, game, physics.Settings{
		FixedStep: cfg.Physics.FixedStep,
		MaxSteps:  cfg.Physics.MaxSteps,
		Gravity:   core.Vec2{X: cfg.Physics.GravityX, Y: cfg.Physics.GravityY},
		Scale:     cfg.Physics.RenderScale,
	}, logger)
	audio.Register(script, player)

	if err := game.Initialise(engine.Options{
		Title:       cfg.Window.Title,
		MultiThread: cfg.Window.MultiThread,
		Debug:       cfg.Window.Debug,
		BootScript:  cfg.Scripts.Boot,
	}); err != nil {
		return err
	}

	// Scene scripts may switch the scene before the loop starts;
	// a broken scene script is logged, never fatal
	if err := script.LoadDir(cfg.Scripts.Dir); err != nil {
		logger.Error("scene scripts failed to load", zap.Error(err))
	}

	return game.Start()
}
