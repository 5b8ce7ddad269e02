package main

import (
	"context"
	"flag"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"gopkg.in/natefinch/lumberjack.v2"

	"mediasync/config"
	"mediasync/services/debrid"
	"mediasync/services/mdblist"
	"mediasync/services/radarr"
	"mediasync/services/schedule"
	"mediasync/services/sonarr"
	"mediasync/services/sync"
)

// Exit codes: 0 success or clean blackout skip, 1 configuration error,
// 2 collaborator failure that made the run unsafe to continue.
const (
	exitConfigError = 1
	exitRunError    = 2
)

func main() {
	configFlag := flag.String("config", "", "path to the settings file")
	flag.Parse()

	configPath := *configFlag
	if configPath == "" {
		configPath = os.Getenv("MEDIASYNC_CONFIG")
	}
	if configPath == "" {
		configPath = "config.json"
	}

	cfgManager := config.NewManager(configPath)
	settings, err := cfgManager.Load()
	if err != nil {
		log.Printf("failed to load settings: %v", err)
		os.Exit(exitConfigError)
	}

	// Set up file logging with rotation
	if settings.Log.File != "" {
		logDir := filepath.Dir(settings.Log.File)
		if err := os.MkdirAll(logDir, 0o755); err != nil {
			log.Printf("Warning: could not create log directory %s: %v", logDir, err)
		} else {
			fileWriter := &lumberjack.Logger{
				Filename:   settings.Log.File,
				MaxSize:    settings.Log.MaxSize,
				MaxBackups: settings.Log.MaxBackups,
				MaxAge:     settings.Log.MaxAge,
				Compress:   settings.Log.Compress,
			}
			log.SetOutput(io.MultiWriter(os.Stdout, fileWriter))
		}
	}

	if err := settings.Validate(); err != nil {
		log.Printf("invalid settings in %s: %v", configPath, err)
		os.Exit(exitConfigError)
	}
	if err := schedule.ValidatePeriods(settings.BlackoutPeriods); err != nil {
		log.Printf("invalid settings in %s: %v", configPath, err)
		os.Exit(exitConfigError)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runID := uuid.NewString()[:8]
	log.Printf("[sync] === Starting media sync (run %s) ===", runID)

	svc := sync.NewService(
		settings,
		mdblist.NewClient(settings.MDBList.APIKey),
		radarr.NewClient(settings.Radarr),
		sonarr.NewClient(settings.Sonarr),
		debrid.NewClient(settings.RealDebrid.Token),
	)

	summary, err := svc.Run(ctx)
	summary.RunID = runID
	if err != nil {
		log.Printf("[sync] Run %s failed: %v", runID, err)
		stop()
		os.Exit(exitRunError)
	}

	if summary.Skipped() {
		log.Printf("[sync] === Run %s skipped (blackout %q) ===", runID, summary.BlackoutName)
		return
	}
	log.Printf("[sync] === Run %s completed: %d movies, %d shows added ===",
		runID, summary.MoviesAdded, summary.ShowsAdded)
}
