// Live Parameter Overlay
// Binds tunable runtime parameters to GUI controls and keeps both sides in sync.

package main

import (
	"flag"
	"os"

	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/theme"
	"github.com/sirupsen/logrus"

	"live-parameter-overlay/internal/config"
	"live-parameter-overlay/internal/gui"
)

const (
	AppName    = "Live Parameter Overlay"
	AppID      = "com.example.live-parameter-overlay"
	AppVersion = "1.0.0"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Invalid configuration")
	}

	// Flags override the environment
	debugMode := flag.Bool("debug", cfg.Debug, "Enable debug mode with verbose logging")
	presetPath := flag.String("preset", cfg.PresetPath, "HCL preset applied at startup")
	framePath := flag.String("frame", cfg.FramePath, "Image used by the keypoint preview")
	dump := flag.Bool("dump", cfg.DumpOnExit, "Print all parameters as a preset on exit")
	flag.Parse()

	cfg.Debug = *debugMode
	cfg.PresetPath = *presetPath
	cfg.FramePath = *framePath
	cfg.DumpOnExit = *dump

	logger := initLogger(cfg.Debug)
	logger.WithFields(logrus.Fields{
		"version":    AppVersion,
		"debug_mode": cfg.Debug,
		"panel":      cfg.PanelName,
	}).Info("Starting " + AppName)

	myApp := app.NewWithID(AppID)
	myApp.SetIcon(theme.SettingsIcon())
	myApp.Settings().SetTheme(theme.DefaultTheme())

	mainApp, err := gui.NewApplication(myApp, logger, cfg)
	if err != nil {
		logger.WithError(err).Fatal("Failed to start application")
	}
	mainApp.ShowAndRun()

	logger.Info("Application shutting down gracefully")
	os.Exit(0)
}

// initLogger initializes the logger with appropriate level.
// Logs go to stderr so a parameter dump on stdout stays parseable.
func initLogger(debugMode bool) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)

	if debugMode {
		logger.SetLevel(logrus.DebugLevel)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
		logger.Debug("Debug logging enabled")
	} else {
		logger.SetLevel(logrus.InfoLevel)
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	return logger
}
