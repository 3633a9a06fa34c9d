package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"

	"lodterrain/internal/config"
	"lodterrain/internal/game"
	"lodterrain/internal/logging"
)

// GLFW and GL calls must stay on the main thread.
func init() { runtime.LockOSThread() }

func main() {
	configPath := flag.String("config", "", "YAML config file (defaults when empty)")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	log := logging.New("terrain", *debug)
	if err := run(*configPath, log); err != nil {
		log.Errorf("%v", err)
		os.Exit(1)
	}
}

func run(configPath string, log logging.Logger) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.Debug {
		log.SetDebug(true)
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("init glfw: %w", err)
	}
	defer glfw.Terminate()

	window, err := game.SetupWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	app, err := game.NewApp(window, cfg, log)
	if err != nil {
		return err
	}
	log.Infof("streaming %.0f unit root, %d segment chunks", cfg.RootSize(), cfg.Terrain.Segments)
	app.Run()
	return nil
}
