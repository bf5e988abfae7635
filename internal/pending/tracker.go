// Package pending tracks dose instants whose notification has fired and is
// still awaiting acknowledgement. The whole state is one persisted list,
// read-modify-written on every mutation.
package pending

import (
	"context"
	"sync"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/pkg/errors"
	"github.com/dosewatch/dosewatch/pkg/logger"
	"github.com/dosewatch/dosewatch/pkg/metrics"
)

// EntryTTL is how long an armed entry may stay unacknowledged before the
// next mutating write prunes it.
const EntryTTL = 2 * time.Hour

// Blob holds the serialized pending list. Read returns "" when nothing has
// been written yet; unreadable or unparseable content is treated as empty by
// the tracker, never as fatal.
type Blob interface {
	Read(ctx context.Context) (string, error)
	Write(ctx context.Context, data string) error
}

type Tracker struct {
	// mu enforces the single-writer discipline over the blob: every mutation
	// is one atomic read-mutate-prune-write cycle.
	mu      sync.Mutex
	blob    Blob
	logger  *logger.Logger
	metrics *metrics.Metrics
	nowFunc func() time.Time
}

type Option func(*Tracker)

// WithNowFunc overrides the clock, for tests.
func WithNowFunc(f func() time.Time) Option {
	return func(t *Tracker) { t.nowFunc = f }
}

// WithMetrics attaches the shared metric set.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Tracker) { t.metrics = m }
}

func NewTracker(blob Blob, log *logger.Logger, opts ...Option) *Tracker {
	t := &Tracker{
		blob:    blob,
		logger:  log,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Arm records a fired notification. Any existing entry for the same
// (medicationID, hour, minute) slot is replaced, so re-delivery of the same
// alarm is idempotent. Expired entries are pruned before the write.
func (t *Tracker) Arm(ctx context.Context, entry model.PendingEntry) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.load(ctx)

	kept := entries[:0]
	for _, e := range entries {
		if !e.SameSlot(entry) {
			kept = append(kept, e)
		}
	}
	entry.ArmedAt = t.nowFunc().UnixMilli()
	kept = append(kept, entry)

	return t.persist(ctx, t.pruneExpired(kept))
}

// Disarm removes every entry for a medication, regardless of slot. Used on
// user acknowledgement and on medication deletion.
func (t *Tracker) Disarm(ctx context.Context, medicationID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.load(ctx)

	kept := entries[:0]
	for _, e := range entries {
		if e.MedicationID != medicationID {
			kept = append(kept, e)
		}
	}

	return t.persist(ctx, t.pruneExpired(kept))
}

// DisarmAt removes every entry at a wall-clock slot across all medications.
// Used when a grouped notification for that slot is dismissed as a whole.
func (t *Tracker) DisarmAt(ctx context.Context, hour, minute int) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	entries := t.load(ctx)

	kept := entries[:0]
	for _, e := range entries {
		if e.Hour != hour || e.Minute != minute {
			kept = append(kept, e)
		}
	}

	return t.persist(ctx, t.pruneExpired(kept))
}

// ListAll returns the current persisted entries without mutating them.
func (t *Tracker) ListAll(ctx context.Context) ([]model.PendingEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.load(ctx), nil
}

// ListAt returns the entries armed at a wall-clock slot.
func (t *Tracker) ListAt(ctx context.Context, hour, minute int) ([]model.PendingEntry, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var out []model.PendingEntry
	for _, e := range t.load(ctx) {
		if e.Hour == hour && e.Minute == minute {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear wipes all state.
func (t *Tracker) Clear(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.persist(ctx, nil)
}

// ReconcileWithStore repairs the list against the medication catalog: entries
// referencing a deleted medication are dropped, then duplicate slots are
// collapsed keeping the first occurrence. Safe to re-run; a second pass over
// reconciled state changes nothing.
func (t *Tracker) ReconcileWithStore(ctx context.Context, validMedicationIDs []int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	valid := make(map[int64]struct{}, len(validMedicationIDs))
	for _, id := range validMedicationIDs {
		valid[id] = struct{}{}
	}

	entries := t.load(ctx)

	type slotKey struct {
		medicationID int64
		hour, minute int
	}
	seen := make(map[slotKey]struct{}, len(entries))

	var dangling int
	kept := entries[:0]
	for _, e := range entries {
		if _, ok := valid[e.MedicationID]; !ok {
			dangling++
			continue
		}
		key := slotKey{e.MedicationID, e.Hour, e.Minute}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		kept = append(kept, e)
	}

	if t.metrics != nil && dangling > 0 {
		t.metrics.PendingDanglingPruned.Add(float64(dangling))
	}

	return t.persist(ctx, t.pruneExpired(kept))
}

// load reads and decodes the blob. Unreadable or malformed state degrades to
// an empty list so a corrupt blob can never take the reminder pipeline down.
func (t *Tracker) load(ctx context.Context) []model.PendingEntry {
	start := time.Now()
	raw, err := t.blob.Read(ctx)
	if t.metrics != nil {
		t.metrics.BlobLatency.WithLabelValues("read").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if t.metrics != nil {
			t.metrics.BlobOperations.WithLabelValues("read", "error").Inc()
		}
		t.logger.Error(err, "failed to read pending blob, treating as empty")
		return nil
	}
	if t.metrics != nil {
		t.metrics.BlobOperations.WithLabelValues("read", "success").Inc()
	}

	entries, err := decodeEntries(raw)
	if err != nil {
		t.logger.Error(err, "malformed pending blob, treating as empty")
		return nil
	}
	return entries
}

func (t *Tracker) persist(ctx context.Context, entries []model.PendingEntry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}

	start := time.Now()
	err = t.blob.Write(ctx, data)
	if t.metrics != nil {
		t.metrics.BlobLatency.WithLabelValues("write").Observe(time.Since(start).Seconds())
	}
	if err != nil {
		if t.metrics != nil {
			t.metrics.BlobOperations.WithLabelValues("write", "error").Inc()
		}
		return errors.NewStoreUnavailable("pending blob write", err)
	}

	if t.metrics != nil {
		t.metrics.BlobOperations.WithLabelValues("write", "success").Inc()
		t.metrics.PendingEntries.Set(float64(len(entries)))
	}
	return nil
}

// pruneExpired drops entries armed strictly more than EntryTTL ago.
func (t *Tracker) pruneExpired(entries []model.PendingEntry) []model.PendingEntry {
	cutoff := t.nowFunc().Add(-EntryTTL)

	var expired int
	kept := entries[:0]
	for _, e := range entries {
		if e.ArmedTime().Before(cutoff) {
			expired++
			continue
		}
		kept = append(kept, e)
	}

	if t.metrics != nil && expired > 0 {
		t.metrics.PendingExpired.Add(float64(expired))
	}
	return kept
}
