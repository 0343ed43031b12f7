// Parameter registry with arena storage and stable handles
package param

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"
)

// Handle is the stable index of a parameter's slot in its Registry.
type Handle int

type slot struct {
	entry    Entry
	released bool
}

// Registry maps (group, name) to parameter entities. Slots are never
// reclaimed, so a Handle stays valid for the registry's lifetime.
type Registry struct {
	mu     sync.RWMutex
	logger logrus.FieldLogger
	slots  []slot
	index  map[Group]map[string]Handle
}

func NewRegistry(logger logrus.FieldLogger) *Registry {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Registry{
		logger: logger,
		index:  make(map[Group]map[string]Handle),
	}
}

func (r *Registry) declare(e Entry) (Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	names, ok := r.index[e.Group()]
	if !ok {
		names = make(map[string]Handle)
		r.index[e.Group()] = names
	}

	if h, exists := names[e.Name()]; exists && !r.slots[h].released {
		r.logger.WithFields(logrus.Fields{
			"group": e.Group().String(),
			"name":  e.Name(),
		}).Warn("Duplicate parameter")
		return 0, fmt.Errorf("%w: %s.%s", ErrDuplicateParameter, e.Group(), e.Name())
	}

	h := Handle(len(r.slots))
	r.slots = append(r.slots, slot{entry: e})
	names[e.Name()] = h
	return h, nil
}

func (r *Registry) release(h Handle) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if int(h) < 0 || int(h) >= len(r.slots) || r.slots[h].released {
		return
	}
	s := &r.slots[h]
	s.released = true
	s.entry.markReleased()
	r.logger.WithFields(logrus.Fields{
		"group": s.entry.Group().String(),
		"name":  s.entry.Name(),
	}).Debug("Parameter released")
}

func (r *Registry) lookup(group Group, name string) (Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	fields := logrus.Fields{"group": group.String(), "name": name}
	names, ok := r.index[group]
	if !ok {
		r.logger.WithFields(fields).Debug("Looking for a group which doesn't have any parameters")
		return nil, fmt.Errorf("%w: %s", ErrGroupNotFound, group)
	}
	h, ok := names[name]
	if !ok {
		r.logger.WithFields(fields).Debug("Looking for a parameter which doesn't exist")
		return nil, fmt.Errorf("%w: %s.%s", ErrParameterNotFound, group, name)
	}
	if r.slots[h].released {
		r.logger.WithFields(fields).Debug("Looking for a parameter which was released")
		return nil, fmt.Errorf("%w: %s.%s", ErrParameterReleased, group, name)
	}
	return r.slots[h].entry, nil
}

// Lookup returns the parameter declared under (group, name) as a
// *Parameter[T]. Requesting the wrong T yields ErrKindMismatch.
func Lookup[T Primitive](r *Registry, group Group, name string) (*Parameter[T], error) {
	entry, err := r.lookup(group, name)
	if err != nil {
		return nil, err
	}
	p, ok := entry.(*Parameter[T])
	if !ok {
		r.logger.WithFields(logrus.Fields{
			"group":     group.String(),
			"name":      name,
			"kind":      entry.Kind().String(),
			"requested": KindOf[T]().String(),
		}).Debug("Looking for a parameter with the wrong kind")
		return nil, fmt.Errorf("%w: %s.%s holds %s, requested %s", ErrKindMismatch, group, name, entry.Kind(), KindOf[T]())
	}
	return p, nil
}

// Entry returns the live entry declared under (group, name).
func (r *Registry) Entry(group Group, name string) (Entry, bool) {
	entry, err := r.lookup(group, name)
	return entry, err == nil
}

// Names returns the live parameter names of a group, sorted.
func (r *Registry) Names(group Group) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var names []string
	for _, name := range slices.Sorted(maps.Keys(r.index[group])) {
		if !r.slots[r.index[group][name]].released {
			names = append(names, name)
		}
	}
	return names
}

// ForEachInGroup calls fn for every live entry of group in name order,
// stopping at the first error. fn may declare new parameters.
func (r *Registry) ForEachInGroup(group Group, fn func(Entry) error) error {
	r.mu.RLock()
	names := slices.Sorted(maps.Keys(r.index[group]))
	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		if s := r.slots[r.index[group][name]]; !s.released {
			entries = append(entries, s.entry)
		}
	}
	r.mu.RUnlock()

	for _, e := range entries {
		if err := fn(e); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of live parameters.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, s := range r.slots {
		if !s.released {
			n++
		}
	}
	return n
}

// Close releases every parameter. Entities stay usable by whoever holds
// them but are no longer reconciled or found by lookups.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	released := 0
	for i := range r.slots {
		if !r.slots[i].released {
			r.slots[i].released = true
			r.slots[i].entry.markReleased()
			released++
		}
	}
	r.logger.WithField("released", released).Info("Parameter registry closed")
}
