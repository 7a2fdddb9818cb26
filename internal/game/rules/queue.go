package rules

import "fmt"

// EffectKind describes the origin of a queued effect.
type EffectKind string

const (
	// EffectKindDeath is a death hook captured when a minion was removed.
	EffectKindDeath EffectKind = "DEATH"
)

// Effect is a deferred action waiting to be resolved.
type Effect struct {
	Kind        EffectKind
	SourceID    int
	Description string
	Resolve     func() error
}

// EffectQueue holds deferred effects in the order they were produced.
// Effects queued while the queue drains run in the same drain, after
// everything queued before them.
type EffectQueue struct {
	items    []Effect
	draining bool
}

// NewEffectQueue creates an empty queue.
func NewEffectQueue() *EffectQueue {
	return &EffectQueue{
		items: make([]Effect, 0, 4),
	}
}

// Push appends an effect to the back of the queue.
func (q *EffectQueue) Push(effect Effect) {
	q.items = append(q.items, effect)
}

// Len returns the number of pending effects.
func (q *EffectQueue) Len() int {
	return len(q.items)
}

// IsEmpty returns whether the queue is empty.
func (q *EffectQueue) IsEmpty() bool {
	return len(q.items) == 0
}

// List returns a copy of the pending effects, oldest first.
func (q *EffectQueue) List() []Effect {
	cpy := make([]Effect, len(q.items))
	copy(cpy, q.items)
	return cpy
}

// Drain resolves pending effects oldest first until the queue is empty and
// returns how many were resolved. A nested call while draining is a no-op so
// that the outermost drain keeps the ordering. The first resolve error stops
// the drain; remaining effects are discarded.
func (q *EffectQueue) Drain() (int, error) {
	if q.draining {
		return 0, nil
	}
	q.draining = true
	defer func() { q.draining = false }()

	resolved := 0
	for len(q.items) > 0 {
		effect := q.items[0]
		q.items = q.items[1:]
		if effect.Resolve == nil {
			continue
		}
		if err := effect.Resolve(); err != nil {
			q.items = q.items[:0]
			return resolved, fmt.Errorf("resolve %s effect from %d: %w", effect.Kind, effect.SourceID, err)
		}
		resolved++
	}
	return resolved, nil
}
