package checklist

import (
	"context"
	"sync"
	"time"
)

// SaveFunc persists the latest state of one client.
type SaveFunc func(ctx context.Context, clientID string) error

// Debouncer coalesces bursts of edits into one save per client. Every Touch
// restarts the client's timer; the save runs once the delay passes without
// further edits and reads whatever state is current at that moment.
type Debouncer struct {
	delay time.Duration
	save  SaveFunc

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func NewDebouncer(delay time.Duration, save SaveFunc) *Debouncer {
	return &Debouncer{
		delay:  delay,
		save:   save,
		timers: make(map[string]*time.Timer),
	}
}

// Touch schedules a save for clientID, replacing any pending one.
func (d *Debouncer) Touch(clientID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[clientID]; ok {
		t.Stop()
	}
	var timer *time.Timer
	timer = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timers[clientID] != timer {
			d.mu.Unlock()
			return
		}
		delete(d.timers, clientID)
		d.mu.Unlock()
		_ = d.save(context.Background(), clientID)
	})
	d.timers[clientID] = timer
}

// Pending reports whether a save is scheduled for clientID.
func (d *Debouncer) Pending(clientID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.timers[clientID]
	return ok
}

// Flush cancels the pending timer and saves immediately. It is a no-op when
// nothing is pending.
func (d *Debouncer) Flush(ctx context.Context, clientID string) error {
	d.mu.Lock()
	t, ok := d.timers[clientID]
	if ok {
		t.Stop()
		delete(d.timers, clientID)
	}
	d.mu.Unlock()

	if !ok {
		return nil
	}
	return d.save(ctx, clientID)
}

// FlushAll saves every client with a pending edit and returns the first error.
func (d *Debouncer) FlushAll(ctx context.Context) error {
	d.mu.Lock()
	ids := make([]string, 0, len(d.timers))
	for id := range d.timers {
		ids = append(ids, id)
	}
	d.mu.Unlock()

	var first error
	for _, id := range ids {
		if err := d.Flush(ctx, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}
