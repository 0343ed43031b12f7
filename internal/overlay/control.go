// Bound GUI controls paired with parameters
package overlay

import (
	"errors"
	"fmt"

	"fyne.io/fyne/v2/data/binding"

	"live-parameter-overlay/internal/param"
)

var (
	// ErrControlMismatch reports a control that cannot hold the requested kind.
	ErrControlMismatch = errors.New("control does not match parameter")
	// ErrParse reports text in a text control that does not parse as the
	// parameter's kind.
	ErrParse = errors.New("cannot parse control text")
	// ErrNoApp reports a bind or tick without a running fyne app.
	ErrNoApp = errors.New("no fyne app is running")
)

// Control is the GUI side of a pairing. Exactly one binding is set:
// Text for text inputs, otherwise the binding matching the kind
// (Float serves both float and double).
type Control struct {
	Label    string
	Category param.Category
	Kind     param.Kind
	Min      param.Value
	Max      param.Value

	Bool  binding.Bool
	Int   binding.Int
	Float binding.Float
	Text  binding.String
}

func newControlForEntry(label string, e param.Entry) (*Control, error) {
	switch e.Kind() {
	case param.KindBool:
		return newControl[bool](label, e)
	case param.KindInt:
		return newControl[int](label, e)
	case param.KindFloat:
		return newControl[float32](label, e)
	case param.KindDouble:
		return newControl[float64](label, e)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %s", ErrControlMismatch, e.Kind())
	}
}

func newControl[T param.Primitive](label string, e param.Entry) (*Control, error) {
	value, err := param.As[T](e.Variant())
	if err != nil {
		return nil, err
	}

	c := &Control{
		Label:    label,
		Category: e.Category(),
		Kind:     e.Kind(),
		Min:      e.MinVariant(),
		Max:      e.MaxVariant(),
	}

	switch e.Category() {
	case param.CategoryTextInput:
		c.Text = binding.NewString()
		return c, c.Text.Set(param.FormatText(value))
	case param.CategoryBool, param.CategoryMinMax:
		switch e.Kind() {
		case param.KindBool:
			c.Bool = binding.NewBool()
		case param.KindInt:
			c.Int = binding.NewInt()
		default:
			c.Float = binding.NewFloat()
		}
		return c, writeControl(c, value)
	default:
		return nil, fmt.Errorf("%w: unsupported category %s", ErrControlMismatch, e.Category())
	}
}

func (c *Control) mismatch(want param.Kind) error {
	return fmt.Errorf("%w: %s is a %s %s control, requested %s", ErrControlMismatch, c.Label, c.Category, c.Kind, want)
}

// readControl returns the native value held by a bool or slider control.
func readControl[T param.Primitive](c *Control) (T, error) {
	var out T
	switch p := any(&out).(type) {
	case *bool:
		if c.Bool == nil {
			return out, c.mismatch(param.KindBool)
		}
		v, err := c.Bool.Get()
		*p = v
		return out, err
	case *int:
		if c.Int == nil {
			return out, c.mismatch(param.KindInt)
		}
		v, err := c.Int.Get()
		*p = v
		return out, err
	case *float32:
		if c.Float == nil {
			return out, c.mismatch(param.KindFloat)
		}
		v, err := c.Float.Get()
		*p = float32(v)
		return out, err
	case *float64:
		if c.Float == nil {
			return out, c.mismatch(param.KindDouble)
		}
		v, err := c.Float.Get()
		*p = v
		return out, err
	}
	return out, c.mismatch(param.KindOf[T]())
}

func writeControl[T param.Primitive](c *Control, v T) error {
	switch x := any(v).(type) {
	case bool:
		if c.Bool == nil {
			return c.mismatch(param.KindBool)
		}
		return c.Bool.Set(x)
	case int:
		if c.Int == nil {
			return c.mismatch(param.KindInt)
		}
		return c.Int.Set(x)
	case float32:
		if c.Float == nil {
			return c.mismatch(param.KindFloat)
		}
		return c.Float.Set(float64(x))
	case float64:
		if c.Float == nil {
			return c.mismatch(param.KindDouble)
		}
		return c.Float.Set(x)
	}
	return c.mismatch(param.KindOf[T]())
}

// bounds returns the slider range of a MinMax control.
func (c *Control) bounds() (float64, float64) {
	return toFloat(c.Min), toFloat(c.Max)
}

func toFloat(v param.Value) float64 {
	switch v.Kind() {
	case param.KindInt:
		i, _ := v.Int()
		return float64(i)
	case param.KindFloat:
		f, _ := v.Float()
		return float64(f)
	case param.KindDouble:
		d, _ := v.Double()
		return d
	default:
		if b, _ := v.Bool(); b {
			return 1
		}
		return 0
	}
}
