// Menu handler for preset and frame actions
package gui

import (
	"bytes"
	"fmt"
	"io"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
	"github.com/sirupsen/logrus"

	"live-parameter-overlay/internal/param"
	"live-parameter-overlay/internal/preset"
)

// MenuHandler handles menu actions
type MenuHandler struct {
	window   fyne.Window
	registry *param.Registry
	logger   logrus.FieldLogger

	onPresetApplied func(applied int, err error)
	onFrameSelected func(path string)
	onReset         func()
}

func NewMenuHandler(window fyne.Window, registry *param.Registry, logger logrus.FieldLogger) *MenuHandler {
	return &MenuHandler{
		window:   window,
		registry: registry,
		logger:   logger,
	}
}

func (mh *MenuHandler) GetMainMenu() *fyne.MainMenu {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Preset...", mh.openPreset),
		fyne.NewMenuItem("Copy Preset", mh.copyPreset),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Open Frame...", mh.openFrame),
	)

	editMenu := fyne.NewMenu("Edit",
		fyne.NewMenuItem("Reset Defaults", func() {
			mh.logger.Info("Resetting parameters to defaults")
			if mh.onReset != nil {
				mh.onReset()
			}
		}),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mh.showAbout),
	)

	return fyne.NewMainMenu(fileMenu, editMenu, helpMenu)
}

func (mh *MenuHandler) openPreset() {
	mh.logger.Info("Opening file dialog for preset selection")

	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		defer reader.Close()

		name := reader.URI().Name()
		src, err := io.ReadAll(reader)
		if err != nil {
			mh.showError("Failed to Read Preset", err)
			return
		}

		file, err := preset.Parse(src, name)
		if err != nil {
			mh.showError("Invalid Preset", err)
			return
		}

		applied, err := file.Apply(mh.registry, mh.logger)
		mh.logger.WithFields(logrus.Fields{"preset": name, "applied": applied}).Info("Preset loaded")
		if err != nil {
			mh.showError("Preset Applied Partially", err)
		}
		if mh.onPresetApplied != nil {
			mh.onPresetApplied(applied, err)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".hcl"}))
	fileDialog.Show()
}

func (mh *MenuHandler) copyPreset() {
	var buf bytes.Buffer
	if err := preset.Export(mh.registry, &buf); err != nil {
		mh.showError("Export Error", err)
		return
	}
	fyne.CurrentApp().Clipboard().SetContent(buf.String())
	mh.logger.Debug("Preset copied to clipboard")
}

func (mh *MenuHandler) openFrame() {
	fileDialog := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			mh.showError("File Dialog Error", err)
			return
		}
		if reader == nil {
			return
		}
		path := reader.URI().Path()
		reader.Close()

		if mh.onFrameSelected != nil {
			mh.onFrameSelected(path)
		}
	}, mh.window)

	fileDialog.SetFilter(storage.NewExtensionFileFilter([]string{".jpg", ".jpeg", ".png", ".tiff", ".tif", ".bmp"}))
	fileDialog.Show()
}

func (mh *MenuHandler) showAbout() {
	content := container.NewVBox(
		widget.NewLabel("Live Parameter Overlay"),
		widget.NewSeparator(),
		widget.NewLabel(fmt.Sprintf("%d parameters in %d groups", mh.registry.Len(), len(param.Groups()))),
		widget.NewLabel("Values edited here are picked up on the next tick."),
		widget.NewSeparator(),
		widget.NewLabel("Built with Go, Fyne v2.6, and OpenCV"),
	)

	aboutDialog := dialog.NewCustom("About", "Close", content, mh.window)
	aboutDialog.Resize(fyne.NewSize(400, 200))
	aboutDialog.Show()
}

func (mh *MenuHandler) showError(title string, err error) {
	mh.logger.WithError(err).Error(title)
	dialog.ShowError(err, mh.window)
}

func (mh *MenuHandler) SetCallbacks(onPresetApplied func(int, error), onFrameSelected func(string), onReset func()) {
	mh.onPresetApplied = onPresetApplied
	mh.onFrameSelected = onFrameSelected
	mh.onReset = onReset
}
