package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"open-denoise/internal/app"
	"open-denoise/internal/config"
	"open-denoise/internal/logger"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	configPath := flag.String("config", "", "path to a config file (default: "+config.DefaultPath()+")")
	flag.Parse()

	configureRuntime()

	settings, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	level := determineLogLevel(settings.Log.Level, *debug)
	appLogger := logger.New(level, settings.Log.JSON)

	appLogger.Info("main", "configuration loaded", map[string]interface{}{
		"go_version": runtime.Version(),
		"num_cpu":    runtime.NumCPU(),
		"log_level":  level.String(),
		"config":     *configPath,
	})

	application, err := app.NewApplication(settings, appLogger)
	if err != nil {
		appLogger.Error("main", err, map[string]interface{}{
			"stage": "initialization",
		})
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		appLogger.Error("main", err, map[string]interface{}{
			"stage": "run",
		})
		os.Exit(1)
	}

	appLogger.Info("main", "application terminated", nil)
}

func configureRuntime() {
	runtime.GOMAXPROCS(runtime.NumCPU())
}

// determineLogLevel lets --debug and DEBUG=1 override the configured level.
func determineLogLevel(configured string, debug bool) logger.LogLevel {
	if debug || os.Getenv("DEBUG") == "1" {
		return logger.DebugLevel
	}

	level, err := logger.ParseLevel(configured)
	if err != nil {
		return logger.InfoLevel
	}
	return level
}
