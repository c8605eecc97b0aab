package draftorder

import (
	"context"

	"golang.org/x/sync/singleflight"

	"shopfront/internal/commerce"
	"shopfront/internal/keylock"
)

// EditFunc computes the next line items of a list. Returning changed=false skips the write.
type EditFunc func(items []commerce.LineItem) (next []commerce.LineItem, changed bool, err error)

// Editor runs fetch-compute-replace cycles. Cycles on the same list id are serialized so two
// quick edits from this process cannot overwrite each other.
type Editor struct {
	repo     Repository
	locks    *keylock.Map[int64]
	creating singleflight.Group
}

// NewEditor returns an editor over repo.
func NewEditor(repo Repository) *Editor {
	return &Editor{repo: repo, locks: keylock.New[int64]()}
}

// Repository exposes the underlying store for read-only callers.
func (e *Editor) Repository() Repository {
	return e.repo
}

// Ensure returns current when it is a list id, otherwise creates a list and hands its id to save.
// Concurrent calls with the same key share one creation.
func (e *Editor) Ensure(ctx context.Context, key string, current func() int64, save func(ctx context.Context, id int64) error) (int64, error) {
	if id := current(); id > 0 {
		return id, nil
	}
	// Waiters share this creation, so it runs detached from the first caller's cancellation.
	shared := context.WithoutCancel(ctx)
	v, err, _ := e.creating.Do(key, func() (any, error) {
		if id := current(); id > 0 {
			return id, nil
		}
		order, err := e.repo.Create(shared)
		if err != nil {
			return int64(0), err
		}
		if err := save(shared, order.ID); err != nil {
			return int64(0), err
		}
		return order.ID, nil
	})
	if err != nil {
		return 0, err
	}
	return v.(int64), nil
}

// Edit applies fn to the current items of listID and persists the result.
func (e *Editor) Edit(ctx context.Context, listID int64, fn EditFunc) (*commerce.DraftOrder, error) {
	unlock := e.locks.Lock(listID)
	defer unlock()

	order, err := e.repo.Fetch(ctx, listID)
	if err != nil {
		return nil, err
	}
	next, changed, err := fn(order.LineItems)
	if err != nil {
		return nil, err
	}
	if !changed {
		return order, nil
	}
	return e.repo.Replace(ctx, listID, next)
}

// Read fetches listID without taking the edit lock.
func (e *Editor) Read(ctx context.Context, listID int64) (*commerce.DraftOrder, error) {
	return e.repo.Fetch(ctx, listID)
}

// EnsureKey builds the creation key of a device's list kind.
func EnsureKey(deviceID, kind string) string {
	return deviceID + "/" + kind
}
