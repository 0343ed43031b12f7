// Pairing map and per-tick reconciliation between parameters and controls
package overlay

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"math"
	"slices"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"live-parameter-overlay/internal/param"
)

// Source tells which side authored an applied change.
type Source int

const (
	SourceCode Source = iota
	SourceGUI
)

func (s Source) String() string {
	if s == SourceGUI {
		return "gui"
	}
	return "code"
}

// Change describes one value change applied during a tick.
type Change struct {
	Group  param.Group
	Name   string
	Source Source
	Value  param.Value
	At     time.Time
}

// Pairing joins a parameter with the control that displays it.
type Pairing struct {
	Entry   param.Entry
	Control *Control
}

// Overlay owns the GUI controls of a registry and keeps both sides in sync.
// Ticks and parameter mutations must happen on the same goroutine.
type Overlay struct {
	mu       sync.Mutex
	registry *param.Registry
	logger   logrus.FieldLogger
	tracer   trace.Tracer
	now      func() time.Time
	observer func(Change)

	pairs map[param.Group]map[string]*Pairing
}

type Option func(*Overlay)

// WithObserver registers fn to receive every applied change.
func WithObserver(fn func(Change)) Option {
	return func(o *Overlay) { o.observer = fn }
}

func WithTracer(tracer trace.Tracer) Option {
	return func(o *Overlay) { o.tracer = tracer }
}

func WithClock(now func() time.Time) Option {
	return func(o *Overlay) { o.now = now }
}

// New creates an overlay for registry. Controls are fyne data bindings, so
// Bind and Tick need a running fyne app and return ErrNoApp without one.
func New(registry *param.Registry, logger logrus.FieldLogger, opts ...Option) *Overlay {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	o := &Overlay{
		registry: registry,
		logger:   logger,
		tracer:   otel.Tracer("live-parameter-overlay/internal/overlay"),
		now:      time.Now,
		pairs:    make(map[param.Group]map[string]*Pairing),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Bind creates one control per parameter of group, labelled panel.name,
// initialised from the parameter. Parameters that already have a control
// keep it. It returns the number of controls created.
func (o *Overlay) Bind(panel string, group param.Group) (int, error) {
	if fyne.CurrentApp() == nil {
		return 0, ErrNoApp
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	names, ok := o.pairs[group]
	if !ok {
		names = make(map[string]*Pairing)
		o.pairs[group] = names
	}

	created := 0
	err := o.registry.ForEachInGroup(group, func(e param.Entry) error {
		if existing, ok := names[e.Name()]; ok && existing.Entry == e {
			return nil
		}
		control, err := newControlForEntry(panel+"."+e.Name(), e)
		if err != nil {
			return fmt.Errorf("bind %s.%s: %w", group, e.Name(), err)
		}
		names[e.Name()] = &Pairing{Entry: e, Control: control}
		created++
		return nil
	})

	o.logger.WithFields(logrus.Fields{
		"panel":    panel,
		"group":    group.String(),
		"controls": created,
	}).Debug("Created GUI controls")
	return created, err
}

// Control returns the control paired with (group, name).
func (o *Overlay) Control(group param.Group, name string) (*Control, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	p, ok := o.pairs[group][name]
	if !ok {
		return nil, false
	}
	return p.Control, true
}

// Pairings returns the pairings of group in name order, skipping released
// parameters.
func (o *Overlay) Pairings(group param.Group) []*Pairing {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pairingsLocked(group)
}

func (o *Overlay) pairingsLocked(group param.Group) []*Pairing {
	names := o.pairs[group]
	result := make([]*Pairing, 0, len(names))
	for _, name := range slices.Sorted(maps.Keys(names)) {
		if p := names[name]; !p.Entry.Released() {
			result = append(result, p)
		}
	}
	return result
}

// Tick reconciles every pairing once. A change made in code since the last
// tick is pushed to the control; otherwise a differing control value is
// pulled into the parameter. Update callbacks run after the pass, outside
// the overlay lock. Failing pairings keep their value and are reported
// together.
func (o *Overlay) Tick(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if fyne.CurrentApp() == nil {
		return ErrNoApp
	}
	_, span := o.tracer.Start(ctx, "overlay.Tick")
	defer span.End()

	applied, pairings, errs := o.reconcileAll()
	for _, a := range applied {
		o.notify(a)
	}

	span.SetAttributes(
		attribute.Int("overlay.pairings", pairings),
		attribute.Int("overlay.changes", len(applied)),
	)
	if err := errors.Join(errs...); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reconciliation failed")
		return err
	}
	return nil
}

type notifier interface {
	param.Entry
	Notify()
}

type appliedChange struct {
	entity notifier
	source Source
	value  param.Value
}

func (o *Overlay) reconcileAll() ([]appliedChange, int, []error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var (
		applied  []appliedChange
		errs     []error
		pairings int
	)
	for _, group := range param.Groups() {
		for _, p := range o.pairingsLocked(group) {
			pairings++
			change, err := reconcile(p)
			if err != nil {
				o.logger.WithFields(logrus.Fields{
					"group": group.String(),
					"name":  p.Entry.Name(),
					"error": err,
				}).Warn("Parameter not reconciled")
				errs = append(errs, fmt.Errorf("%s.%s: %w", group, p.Entry.Name(), err))
				continue
			}
			if change != nil {
				applied = append(applied, *change)
			}
		}
	}
	return applied, pairings, errs
}

func reconcile(p *Pairing) (*appliedChange, error) {
	switch p.Entry.Kind() {
	case param.KindBool:
		return reconcileKind[bool](p)
	case param.KindInt:
		return reconcileKind[int](p)
	case param.KindFloat:
		return reconcileKind[float32](p)
	case param.KindDouble:
		return reconcileKind[float64](p)
	default:
		return nil, fmt.Errorf("%w: unsupported kind %s", param.ErrKindMismatch, p.Entry.Kind())
	}
}

func reconcileKind[T param.Primitive](p *Pairing) (*appliedChange, error) {
	entity, ok := p.Entry.(*param.Parameter[T])
	if !ok {
		return nil, fmt.Errorf("%w: entry is not a %s parameter", param.ErrKindMismatch, param.KindOf[T]())
	}
	if entity.Category() == param.CategoryTextInput {
		return reconcileText(entity, p.Control)
	}
	return reconcileValue(entity, p.Control)
}

func reconcileText[T param.Primitive](entity *param.Parameter[T], c *Control) (*appliedChange, error) {
	if c.Text == nil {
		return nil, c.mismatch(entity.Kind())
	}

	if entity.ChangedInCode() {
		if err := c.Text.Set(param.FormatText(entity.Value())); err != nil {
			return nil, err
		}
		entity.AcknowledgeCodeChange()
		return newApplied(entity, SourceCode), nil
	}

	text, err := c.Text.Get()
	if err != nil {
		return nil, err
	}
	guiValue, err := param.ParseText[T](text)
	if err != nil {
		return nil, fmt.Errorf("%w: %q as %s: %w", ErrParse, text, entity.Kind(), err)
	}
	if same(guiValue, entity.Value()) {
		return nil, nil
	}
	entity.ApplyFromGUI(guiValue)
	return newApplied(entity, SourceGUI), nil
}

func reconcileValue[T param.Primitive](entity *param.Parameter[T], c *Control) (*appliedChange, error) {
	guiValue, err := readControl[T](c)
	if err != nil {
		return nil, err
	}
	if same(guiValue, entity.Value()) {
		// The control already shows a code-side change to the same value.
		entity.AcknowledgeCodeChange()
		return nil, nil
	}

	if entity.ChangedInCode() {
		if err := writeControl(c, entity.Value()); err != nil {
			return nil, err
		}
		entity.AcknowledgeCodeChange()
		return newApplied(entity, SourceCode), nil
	}
	entity.ApplyFromGUI(guiValue)
	return newApplied(entity, SourceGUI), nil
}

// same is == except that NaN equals NaN, so a control left at NaN
// settles after one tick.
func same[T param.Primitive](a, b T) bool {
	return a == b || (isNaN(a) && isNaN(b))
}

func isNaN[T param.Primitive](v T) bool {
	switch x := any(v).(type) {
	case float32:
		return math.IsNaN(float64(x))
	case float64:
		return math.IsNaN(x)
	}
	return false
}

func newApplied(e notifier, source Source) *appliedChange {
	return &appliedChange{entity: e, source: source, value: e.Variant()}
}

func (o *Overlay) notify(a appliedChange) {
	e := a.entity
	o.logger.WithFields(logrus.Fields{
		"group":  e.Group().String(),
		"name":   e.Name(),
		"value":  a.value.String(),
		"source": a.source.String(),
	}).Info("Parameter value changed")

	e.Notify()

	if o.observer != nil {
		o.observer(Change{
			Group:  e.Group(),
			Name:   e.Name(),
			Source: a.source,
			Value:  a.value,
			At:     o.now(),
		})
	}
}
