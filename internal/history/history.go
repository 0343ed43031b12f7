// Package history keeps a bounded record of recently applied parameter changes.
package history

import (
	"sync"

	"github.com/eapache/queue"

	"live-parameter-overlay/internal/overlay"
)

const DefaultLimit = 64

// Log is a FIFO of the most recent changes. It is safe for concurrent use.
type Log struct {
	mu    sync.Mutex
	limit int
	q     *queue.Queue
}

func New(limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Log{limit: limit, q: queue.New()}
}

// Record appends c, dropping the oldest change once the limit is reached.
// It matches the overlay observer signature.
func (l *Log) Record(c overlay.Change) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for l.q.Length() >= l.limit {
		l.q.Remove()
	}
	l.q.Add(c)
}

// Recent returns the recorded changes, oldest first.
func (l *Log) Recent() []overlay.Change {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := make([]overlay.Change, l.q.Length())
	for i := range result {
		result[i] = l.q.Get(i).(overlay.Change)
	}
	return result
}

// Latest returns the most recent change.
func (l *Log) Latest() (overlay.Change, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.q.Length() == 0 {
		return overlay.Change{}, false
	}
	return l.q.Get(-1).(overlay.Change), true
}

func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.q.Length()
}

func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.q = queue.New()
}
