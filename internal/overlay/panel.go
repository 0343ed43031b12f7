package overlay

import (
	"fmt"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/data/binding"
	"fyne.io/fyne/v2/widget"

	"live-parameter-overlay/internal/param"
)

// BuildPanel lays out the bound controls of group in a card. Call Bind
// first; parameters without a control are not shown.
func (o *Overlay) BuildPanel(subtitle string, group param.Group) *widget.Card {
	items := container.NewVBox()
	pairings := o.Pairings(group)
	if len(pairings) == 0 {
		items.Add(widget.NewLabel("No parameters in this group"))
	}
	for _, p := range pairings {
		items.Add(newControlWidget(p.Entry.Name(), p.Control))
	}
	return widget.NewCard(group.String(), subtitle, items)
}

func newControlWidget(name string, c *Control) fyne.CanvasObject {
	switch c.Category {
	case param.CategoryBool:
		if toggle, _ := c.Max.Bool(); toggle {
			return widget.NewCheckWithData(name, c.Bool)
		}
		// A momentary button only ever raises the value; the owner lowers it
		// again from code once it has reacted.
		button := widget.NewButton(name, func() {
			_ = c.Bool.Set(true)
		})
		return button

	case param.CategoryMinMax:
		return newSliderWidget(name, c)

	case param.CategoryTextInput:
		entry := widget.NewEntryWithData(c.Text)
		entry.SetPlaceHolder(c.Kind.String())
		return container.NewVBox(widget.NewLabel(name+":"), entry)
	}
	return widget.NewLabel(fmt.Sprintf("Unsupported parameter %s", name))
}

func newSliderWidget(name string, c *Control) fyne.CanvasObject {
	lo, hi := c.bounds()

	var (
		data binding.Float
		text binding.String
		step float64
	)
	if c.Kind == param.KindInt {
		data = binding.IntToFloat(c.Int)
		text = binding.IntToString(c.Int)
		step = 1
	} else {
		data = c.Float
		text = binding.FloatToStringWithFormat(c.Float, "%.3f")
		step = (hi - lo) / 100
		if step <= 0 {
			step = 0.01
		}
	}

	slider := widget.NewSliderWithData(lo, hi, data)
	slider.Step = step
	valueLabel := widget.NewLabelWithData(text)

	return container.NewVBox(
		widget.NewLabel(fmt.Sprintf("%s (%g-%g):", name, lo, hi)),
		container.NewBorder(nil, nil, nil, valueLabel, slider),
	)
}
