// Typed parameter entities
package param

import "fmt"

// Entry is the type-erased view of a Parameter used for iteration and
// dispatch. Only *Parameter[T] implements it.
type Entry interface {
	Name() string
	Group() Group
	Category() Category
	Kind() Kind
	Handle() Handle
	Variant() Value
	MinVariant() Value
	MaxVariant() Value
	// SetVariant applies v through the code path, as SetValue does.
	SetVariant(v Value) error
	Released() bool

	markReleased()
}

// Parameter is a named, typed value that can be edited both from code and
// from its paired GUI control.
type Parameter[T Primitive] struct {
	registry *Registry
	handle   Handle
	name     string
	group    Group
	category Category
	min      T
	max      T
	value    T

	changedInCode     bool
	changedThroughGUI bool
	released          bool

	onUpdate func()
}

// NewToggle declares a bool parameter. A toggle renders as a checkbox,
// otherwise as a momentary button.
func NewToggle(reg *Registry, group Group, name string, value, toggle bool, onUpdate func()) (*Parameter[bool], error) {
	return declare(reg, group, name, CategoryBool, value, false, toggle, onUpdate)
}

// NewBounded declares a numeric parameter rendered as a slider over [min, max].
func NewBounded[T Numeric](reg *Registry, group Group, name string, value, min, max T, onUpdate func()) (*Parameter[T], error) {
	if min > max {
		return nil, fmt.Errorf("%w: %s.%s min %v > max %v", ErrInvalidBounds, group, name, min, max)
	}
	return declare(reg, group, name, CategoryMinMax, value, min, max, onUpdate)
}

// NewText declares an unbounded parameter edited as text.
func NewText[T Primitive](reg *Registry, group Group, name string, value T, onUpdate func()) (*Parameter[T], error) {
	var zero T
	return declare(reg, group, name, CategoryTextInput, value, zero, zero, onUpdate)
}

func declare[T Primitive](reg *Registry, group Group, name string, category Category, value, min, max T, onUpdate func()) (*Parameter[T], error) {
	if onUpdate == nil {
		onUpdate = func() {}
	}
	p := &Parameter[T]{
		registry: reg,
		name:     name,
		group:    group,
		category: category,
		min:      min,
		max:      max,
		value:    value,
		onUpdate: onUpdate,
	}
	handle, err := reg.declare(p)
	if err != nil {
		return nil, err
	}
	p.handle = handle
	return p, nil
}

func (p *Parameter[T]) Name() string       { return p.name }
func (p *Parameter[T]) Group() Group       { return p.group }
func (p *Parameter[T]) Category() Category { return p.category }
func (p *Parameter[T]) Kind() Kind         { return KindOf[T]() }
func (p *Parameter[T]) Handle() Handle     { return p.handle }
func (p *Parameter[T]) Min() T             { return p.min }
func (p *Parameter[T]) Max() T             { return p.max }
func (p *Parameter[T]) Variant() Value     { return ValueOf(p.value) }
func (p *Parameter[T]) MinVariant() Value  { return ValueOf(p.min) }
func (p *Parameter[T]) MaxVariant() Value  { return ValueOf(p.max) }
func (p *Parameter[T]) Released() bool     { return p.released }
func (p *Parameter[T]) markReleased()      { p.released = true }

// Value returns the authoritative value.
func (p *Parameter[T]) Value() T {
	return p.value
}

// SetValue changes the value from application code. The GUI control is
// updated, and the update callback fired, on the next tick.
func (p *Parameter[T]) SetValue(v T) {
	p.value = v
	p.changedInCode = true
}

func (p *Parameter[T]) SetVariant(v Value) error {
	t, err := As[T](v)
	if err != nil {
		return fmt.Errorf("set %s.%s: %w", p.group, p.name, err)
	}
	p.SetValue(t)
	return nil
}

// CheckAndResetIfChanged reports whether the GUI changed the value since the
// last call.
func (p *Parameter[T]) CheckAndResetIfChanged() bool {
	if p.changedThroughGUI {
		p.changedThroughGUI = false
		return true
	}
	return false
}

// Release removes the parameter from reconciliation. The registry keeps the
// key; lookups report ErrParameterReleased.
func (p *Parameter[T]) Release() {
	if p.released {
		return
	}
	p.registry.release(p.handle)
}

// The methods below are driven by the synchronization engine.

// ChangedInCode reports a pending code-side change.
func (p *Parameter[T]) ChangedInCode() bool {
	return p.changedInCode
}

// AcknowledgeCodeChange clears the pending code-side change once the GUI
// control shows it.
func (p *Parameter[T]) AcknowledgeCodeChange() {
	p.changedInCode = false
}

// ApplyFromGUI stores a value read back from the GUI control.
func (p *Parameter[T]) ApplyFromGUI(v T) {
	p.value = v
	p.changedThroughGUI = true
}

// Notify fires the update callback.
func (p *Parameter[T]) Notify() {
	p.onUpdate()
}
