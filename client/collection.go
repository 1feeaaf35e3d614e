package client

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/alumniconnect/alumniconnect/core"
)

var ErrMutationInFlight = errors.New("a mutation for this item is already in flight")

// DedupeByID drops later duplicates, keeping first occurrences in
// order.
func DedupeByID[T any](items []T, id func(T) string) []T {
	seen := make(map[string]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		key := id(it)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, it)
	}
	return out
}

// Filter re-exports the pure filter helper; applying the same
// predicate twice yields what applying it once does.
func Filter[T any](items []T, pred func(T) bool) []T {
	return core.Filter(items, pred)
}

// Paginate slices into 1-based pages of the given size; page counts
// and clamping follow core.Paginate.
func Paginate[T any](items []T, page, size int) core.Page[T] {
	return core.Paginate(items, page, size)
}

// Collection is an in-memory working copy of a server-side list with
// optimistic mutation. Each item may have at most one mutation in
// flight; unrelated items stay interactive.
type Collection[T any] struct {
	id func(T) string

	mu       sync.Mutex
	items    []T
	inflight map[string]struct{}
}

func NewCollection[T any](items []T, id func(T) string) *Collection[T] {
	return &Collection[T]{
		id:       id,
		items:    DedupeByID(items, id),
		inflight: make(map[string]struct{}),
	}
}

// Items returns a copy of the current working set.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Replace swaps the whole working set, de-duplicated.
func (c *Collection[T]) Replace(items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = DedupeByID(items, c.id)
}

// InFlight reports whether id has a pending mutation.
func (c *Collection[T]) InFlight(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.inflight[id]
	return ok
}

// Mutate applies patch optimistically, then runs commit against the
// backend. If commit fails the snapshot is restored so the working set
// never drifts from the server on a failed call.
func (c *Collection[T]) Mutate(ctx context.Context, id string, patch func(T) T, commit func(context.Context) error) error {
	c.mu.Lock()
	if _, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return ErrMutationInFlight
	}

	idx := -1
	for i, it := range c.items {
		if c.id(it) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return errors.Errorf("item %q not found", id)
	}

	snapshot := c.items[idx]
	c.items[idx] = patch(snapshot)
	c.inflight[id] = struct{}{}
	c.mu.Unlock()

	err := commit(ctx)

	c.mu.Lock()
	delete(c.inflight, id)
	if err != nil {
		// roll back if the item is still in the set
		for i, it := range c.items {
			if c.id(it) == id {
				c.items[i] = snapshot
				break
			}
		}
	}
	c.mu.Unlock()

	return err
}

// Remove applies an optimistic delete, restoring the item at its
// original position when commit fails.
func (c *Collection[T]) Remove(ctx context.Context, id string, commit func(context.Context) error) error {
	c.mu.Lock()
	if _, ok := c.inflight[id]; ok {
		c.mu.Unlock()
		return ErrMutationInFlight
	}

	idx := -1
	for i, it := range c.items {
		if c.id(it) == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		c.mu.Unlock()
		return errors.Errorf("item %q not found", id)
	}

	snapshot := c.items[idx]
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	c.inflight[id] = struct{}{}
	c.mu.Unlock()

	err := commit(ctx)

	c.mu.Lock()
	delete(c.inflight, id)
	if err != nil {
		if idx > len(c.items) {
			idx = len(c.items)
		}
		c.items = append(c.items[:idx], append([]T{snapshot}, c.items[idx:]...)...)
	}
	c.mu.Unlock()

	return err
}
