package main

import (
	"flag"
	"log"
	"runtime"

	"sandbox/internal/logger"
	"sandbox/pkg/audio"
	"sandbox/pkg/audio/device"
	"sandbox/pkg/bounce"
	"sandbox/pkg/config"
	"sandbox/pkg/desktop"
	"sandbox/pkg/engine"
)

func init() {
	// GLFW requires the program to be running on the main thread
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "config.yaml", "Path to configuration file")
	logLevel := flag.String("log-level", "", "Override the configured log level")
	flag.Parse()

	cfg, cfgErr := config.LoadConfig(*configPath)
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	appLog := logger.NewLogger(cfg.Log.Level)
	if cfg.Log.File != "" {
		multi, err := logger.NewMultiLogger(cfg.Log.Level, cfg.Log.File)
		if err != nil {
			log.Printf("Failed to open log file: %v", err)
		} else {
			appLog = multi
		}
	}
	defer appLog.Close()

	appLog.Info("Starting GL sandbox...")
	if cfgErr != nil {
		appLog.Warnf("Configuration: %v", cfgErr)
	}

	window, gl, err := desktop.Open(cfg.Window, appLog.Named("window"))
	if err != nil {
		appLog.Fatalf("Failed to open window: %v", err)
	}
	defer window.Close()

	mixer := audio.NewMixer(cfg.Audio.Volume)
	if cfg.Audio.Enabled {
		stream, err := device.Open(mixer, cfg.Audio, appLog.Named("audio"))
		if err != nil {
			appLog.Warnf("Audio disabled: %v", err)
		} else {
			defer stream.Close()
		}
	}
	player := audio.NewPlayer(audio.LoadBank(cfg.Audio, appLog.Named("audio")), mixer)

	sandbox, err := engine.NewEngine(cfg, appLog, window, gl)
	if err != nil {
		window.Close()
		appLog.Fatalf("Failed to initialize engine: %v", err)
	}
	defer sandbox.Close()

	if err := sandbox.LoadScene(bounce.NewScene(cfg.Bounce, player, appLog.Named("bounce"))); err != nil {
		appLog.Errorf("Failed to load scene: %v", err)
	}

	appLog.Info("Engine initialized, starting render loop...")
	sandbox.Run()
}
