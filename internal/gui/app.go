// Main application window: parameter panels, keypoint preview and history
package gui

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	"live-parameter-overlay/internal/config"
	"live-parameter-overlay/internal/core"
	"live-parameter-overlay/internal/history"
	"live-parameter-overlay/internal/io"
	"live-parameter-overlay/internal/overlay"
	"live-parameter-overlay/internal/param"
	"live-parameter-overlay/internal/preset"
	"live-parameter-overlay/internal/preview"
)

const (
	syntheticWidth  = 640
	syntheticHeight = 480
)

// Application wires the parameter registry to its GUI overlay.
type Application struct {
	app    fyne.App
	window fyne.Window
	logger *logrus.Logger
	cfg    config.Config

	// Core components
	registry *param.Registry
	settings *core.Settings
	overlay  *overlay.Overlay
	history  *history.Log
	loader   *io.FrameLoader
	pipeline *preview.Pipeline

	// GUI components
	groupTabs    *container.AppTabs
	previewImage *canvas.Image
	rightPanel   *RightPanel
	menuHandler  *MenuHandler

	extractorDirty bool
	ticker         *time.Ticker
	done           chan struct{}
	cleanupOnce    sync.Once
}

func NewApplication(app fyne.App, logger *logrus.Logger, cfg config.Config) (*Application, error) {
	window := app.NewWindow("Parameter Overlay")
	window.Resize(fyne.NewSize(1400, 900))
	window.CenterOnScreen()

	a := &Application{
		app:    app,
		window: window,
		logger: logger,
		cfg:    cfg,
		done:   make(chan struct{}),
	}

	if err := a.initializeCore(); err != nil {
		return nil, err
	}
	a.initializeGUI()
	a.setupLayout()
	a.setupCallbacks()

	return a, nil
}

func (a *Application) initializeCore() error {
	a.registry = param.NewRegistry(a.logger)
	a.history = history.New(a.cfg.HistorySize)
	a.overlay = overlay.New(a.registry, a.logger, overlay.WithObserver(a.onChange))

	settings, err := core.Declare(a.registry, func() { a.extractorDirty = true })
	if err != nil {
		return fmt.Errorf("declare settings: %w", err)
	}
	a.settings = settings

	if a.cfg.PresetPath != "" {
		if err := a.applyPreset(a.cfg.PresetPath); err != nil {
			// Entries that did apply are kept.
			a.logger.WithError(err).Warn("Preset applied partially")
		}
	}

	for _, group := range param.Groups() {
		if _, err := a.overlay.Bind(a.cfg.PanelName, group); err != nil {
			return fmt.Errorf("bind %s: %w", group, err)
		}
	}

	a.loader = io.NewFrameLoader(a.logger)
	frame, err := a.loadFrame()
	if err != nil {
		return err
	}
	a.pipeline = preview.NewPipeline(frame, a.cfg.PreviewDelay, a.logger)
	return nil
}

func (a *Application) applyPreset(path string) error {
	file, err := preset.Load(path)
	if err != nil {
		return err
	}
	n, err := file.Apply(a.registry, a.logger)
	a.logger.WithFields(logrus.Fields{"path": path, "applied": n}).Info("Preset loaded")
	return err
}

func (a *Application) loadFrame() (gocv.Mat, error) {
	if a.cfg.FramePath == "" {
		return a.loader.SyntheticFrame(syntheticWidth, syntheticHeight), nil
	}
	frame, err := a.loader.LoadFrame(a.cfg.FramePath)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("load frame: %w", err)
	}
	return frame, nil
}

func (a *Application) initializeGUI() {
	a.rightPanel = NewRightPanel(a.history)
	a.menuHandler = NewMenuHandler(a.window, a.registry, a.logger)

	a.previewImage = canvas.NewImageFromImage(nil)
	a.previewImage.FillMode = canvas.ImageFillContain
	a.previewImage.SetMinSize(fyne.NewSize(640, 480))

	a.groupTabs = container.NewAppTabs()
	for _, group := range param.Groups() {
		if len(a.overlay.Pairings(group)) == 0 {
			continue
		}
		panel := a.overlay.BuildPanel(a.cfg.PanelName, group)
		a.groupTabs.Append(container.NewTabItem(group.String(), container.NewVScroll(panel)))
	}
	a.groupTabs.SetTabLocation(container.TabLocationTop)
}

func (a *Application) setupLayout() {
	previewCard := widget.NewCard("Keypoints", "ORB extractor preview", a.previewImage)

	centerAndRight := container.NewHSplit(
		container.NewPadded(previewCard),
		a.rightPanel.GetContainer(),
	)
	centerAndRight.SetOffset(0.7)

	mainContent := container.NewHSplit(a.groupTabs, centerAndRight)
	mainContent.SetOffset(0.3)

	a.window.SetMainMenu(a.menuHandler.GetMainMenu())
	a.window.SetContent(mainContent)
}

func (a *Application) setupCallbacks() {
	a.pipeline.SetCallbacks(
		// onPreview
		func(result preview.Result) {
			fyne.Do(func() {
				a.previewImage.Image = result.Image
				a.previewImage.Refresh()
				a.rightPanel.SetPreview(result)
			})
		},
		// onError
		func(err error) {
			fyne.Do(func() {
				a.showError("Preview Error", err)
			})
		},
	)

	a.menuHandler.SetCallbacks(
		// onPresetApplied
		func(applied int, err error) {
			if err != nil {
				a.rightPanel.SetState(fmt.Sprintf("Preset applied partially (%d values)", applied))
				return
			}
			a.rightPanel.SetState(fmt.Sprintf("Preset applied (%d values)", applied))
		},
		// onFrameSelected
		func(path string) {
			frame, err := a.loader.LoadFrame(path)
			if err != nil {
				a.showError("Failed to Load Frame", err)
				return
			}
			a.pipeline.SetFrame(frame)
			a.extractorDirty = true
			a.rightPanel.SetState("Frame loaded")
		},
		// onReset
		func() {
			a.settings.Reset()
			a.rightPanel.SetState("Defaults restored")
		},
	)

	a.window.SetCloseIntercept(func() {
		a.cleanup()
		a.app.Quit()
	})
}

// onChange runs inside a tick on the main goroutine.
func (a *Application) onChange(c overlay.Change) {
	a.history.Record(c)
	a.rightPanel.SetLastChange(c)
}

// tick is one GUI frame: reconcile every parameter, then react to changes.
func (a *Application) tick() {
	if err := a.overlay.Tick(context.Background()); err != nil {
		a.rightPanel.SetState("Some parameters could not be updated")
	}

	if a.settings.UseViewer.Value() != a.previewImage.Visible() {
		if a.settings.UseViewer.Value() {
			a.previewImage.Show()
			a.extractorDirty = true
		} else {
			a.previewImage.Hide()
		}
	}

	if a.extractorDirty && a.settings.UseViewer.Value() {
		a.extractorDirty = false
		a.pipeline.Trigger(a.settings.ORB())
	}

	if a.settings.Threshold.CheckAndResetIfChanged() {
		a.rightPanel.SetState(fmt.Sprintf("Tracking threshold set to %.2f", a.settings.Threshold.Value()))
	}
	a.rightPanel.RefreshHistory()
}

func (a *Application) startTicker() {
	a.ticker = time.NewTicker(a.cfg.TickInterval)
	go func() {
		for {
			select {
			case <-a.done:
				return
			case <-a.ticker.C:
				fyne.Do(a.tick)
			}
		}
	}()
	a.logger.WithField("interval", a.cfg.TickInterval.String()).Debug("Parameter tick started")
}

func (a *Application) ShowAndRun() {
	a.logger.Info("Showing parameter overlay window")
	a.pipeline.Trigger(a.settings.ORB())
	a.startTicker()
	a.window.ShowAndRun()
	a.cleanup()
}

func (a *Application) cleanup() {
	a.cleanupOnce.Do(func() {
		a.logger.Info("Cleaning up application resources")
		close(a.done)
		if a.ticker != nil {
			a.ticker.Stop()
		}
		a.pipeline.Stop()

		if a.cfg.DumpOnExit {
			if err := preset.Export(a.registry, os.Stdout); err != nil {
				a.logger.WithError(err).Error("Failed to dump parameters")
			}
		}
		a.settings.Close()
		a.registry.Close()
	})
}

func (a *Application) showError(title string, err error) {
	a.logger.WithError(err).Error(title)
	dialog.ShowError(err, a.window)
	a.rightPanel.SetState(fmt.Sprintf("Error: %s", err.Error()))
}
