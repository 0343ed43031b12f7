// Status, preview statistics and change history
package gui

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"live-parameter-overlay/internal/history"
	"live-parameter-overlay/internal/overlay"
	"live-parameter-overlay/internal/preview"
)

// RightPanel shows the overlay status, preview statistics and the change
// history. All methods run on the fyne main goroutine.
type RightPanel struct {
	container *fyne.Container
	history   *history.Log

	// Status section
	statusCard      *widget.Card
	stateLabel      *widget.Label
	lastChangeLabel *widget.Label

	// Preview section
	previewCard    *widget.Card
	keypointsLabel *widget.Label
	timingLabel    *widget.Label

	// History section
	historyCard *widget.Card
	historyList *widget.List
	changes     []overlay.Change
}

func NewRightPanel(log *history.Log) *RightPanel {
	rp := &RightPanel{
		history: log,
	}

	rp.createStatusSection()
	rp.createPreviewSection()
	rp.createHistorySection()

	rp.container = container.NewBorder(
		container.NewVBox(rp.statusCard, rp.previewCard),
		nil, nil, nil,
		rp.historyCard,
	)
	return rp
}

func (rp *RightPanel) createStatusSection() {
	rp.stateLabel = widget.NewLabel("Ready")
	rp.stateLabel.Importance = widget.MediumImportance

	rp.lastChangeLabel = widget.NewLabel("No changes yet")
	rp.lastChangeLabel.Wrapping = fyne.TextWrapWord

	rp.statusCard = widget.NewCard("STATUS", "", container.NewVBox(
		widget.NewLabelWithStyle("State:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		rp.stateLabel,
		widget.NewSeparator(),
		widget.NewLabelWithStyle("Last change:", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		rp.lastChangeLabel,
	))
}

func (rp *RightPanel) createPreviewSection() {
	rp.keypointsLabel = widget.NewLabel("Keypoints: --")
	rp.timingLabel = widget.NewLabel("Render: --")

	rp.previewCard = widget.NewCard("PREVIEW", "", container.NewVBox(
		rp.keypointsLabel,
		rp.timingLabel,
	))
}

func (rp *RightPanel) createHistorySection() {
	rp.historyList = widget.NewList(
		func() int { return len(rp.changes) },
		func() fyne.CanvasObject { return widget.NewLabel("00:00:00 GROUP.Name = value (gui)") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			// Newest first.
			idx := len(rp.changes) - 1 - id
			if idx < 0 || idx >= len(rp.changes) {
				return
			}
			item.(*widget.Label).SetText(formatChange(rp.changes[idx]))
		},
	)

	clearBtn := widget.NewButton("Clear", func() {
		rp.history.Clear()
		rp.RefreshHistory()
	})
	clearBtn.Importance = widget.LowImportance

	rp.historyCard = widget.NewCard("RECENT CHANGES", "", container.NewBorder(
		nil, clearBtn, nil, nil,
		rp.historyList,
	))
}

func formatChange(c overlay.Change) string {
	return fmt.Sprintf("%s %s.%s = %s (%s)", c.At.Format("15:04:05"), c.Group, c.Name, c.Value, c.Source)
}

func (rp *RightPanel) SetState(state string) {
	rp.stateLabel.SetText(state)
}

func (rp *RightPanel) SetLastChange(c overlay.Change) {
	rp.lastChangeLabel.SetText(formatChange(c))
}

func (rp *RightPanel) SetPreview(result preview.Result) {
	rp.keypointsLabel.SetText(fmt.Sprintf("Keypoints: %d", result.Keypoints))
	rp.timingLabel.SetText(fmt.Sprintf("Render: %d ms", result.Took.Milliseconds()))
}

// RefreshHistory reloads the list from the history log when it changed.
func (rp *RightPanel) RefreshHistory() {
	n := rp.history.Len()
	if n == len(rp.changes) {
		latest, ok := rp.history.Latest()
		if !ok || latest == rp.changes[n-1] {
			return
		}
	}
	rp.changes = rp.history.Recent()
	rp.historyList.Refresh()
}

func (rp *RightPanel) GetContainer() fyne.CanvasObject {
	return rp.container
}
