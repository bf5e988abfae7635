// Package reminder orchestrates the live notification lifecycle: alarms
// arming pending entries, user actions resolving them, and gap reconciliation
// backfilling whatever fired while nobody was watching.
package reminder

import (
	"context"
	"fmt"
	"time"

	"github.com/dosewatch/dosewatch/internal/model"
	"github.com/dosewatch/dosewatch/internal/pending"
	"github.com/dosewatch/dosewatch/internal/reconcile"
	"github.com/dosewatch/dosewatch/internal/repository"
	apperrors "github.com/dosewatch/dosewatch/pkg/errors"
	"github.com/dosewatch/dosewatch/pkg/logger"
	"github.com/dosewatch/dosewatch/pkg/messaging"
	"github.com/dosewatch/dosewatch/pkg/metrics"
)

// Catalog is the slice of the medication service the reminder path needs.
type Catalog interface {
	Get(ctx context.Context, id int64) (*model.Medication, error)
	ListAll(ctx context.Context) ([]*model.Medication, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

type Config struct {
	// OnTimeGrace is how far a TAKE may drift from the scheduled slot and
	// still count as on time.
	OnTimeGrace time.Duration
	// DefaultLookback bounds the first reconcile pass of a profile that has
	// no checkpoint yet.
	DefaultLookback time.Duration
}

func (c *Config) applyDefaults() {
	if c.OnTimeGrace <= 0 {
		c.OnTimeGrace = 30 * time.Minute
	}
	if c.DefaultLookback <= 0 {
		c.DefaultLookback = 24 * time.Hour
	}
}

type Service struct {
	catalog     Catalog
	history     repository.HistoryRepository
	checkpoints repository.CheckpointRepository
	tracker     *pending.Tracker
	broker      messaging.Broker
	logger      *logger.Logger
	metrics     *metrics.Metrics
	config      Config
	nowFunc     func() time.Time
}

type Option func(*Service)

func WithNowFunc(f func() time.Time) Option {
	return func(s *Service) { s.nowFunc = f }
}

func WithBroker(b messaging.Broker) Option {
	return func(s *Service) { s.broker = b }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func NewService(
	catalog Catalog,
	history repository.HistoryRepository,
	checkpoints repository.CheckpointRepository,
	tracker *pending.Tracker,
	config Config,
	log *logger.Logger,
	opts ...Option,
) *Service {
	config.applyDefaults()
	s := &Service{
		catalog:     catalog,
		history:     history,
		checkpoints: checkpoints,
		tracker:     tracker,
		logger:      log,
		config:      config,
		nowFunc:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// OnAlarmFired arms a pending entry for the medication at the given slot.
// Alarm re-delivery is absorbed by the tracker's slot dedup.
func (s *Service) OnAlarmFired(ctx context.Context, medicationID int64, hour, minute int) error {
	med, err := s.catalog.Get(ctx, medicationID)
	if err != nil {
		return fmt.Errorf("failed to resolve medication for alarm: %w", err)
	}

	entry := model.PendingEntry{
		MedicationID:   med.ID,
		MedicationName: med.Name,
		PhotoURI:       med.PhotoURI,
		Hour:           hour,
		Minute:         minute,
	}
	if err := s.tracker.Arm(ctx, entry); err != nil {
		return fmt.Errorf("failed to arm pending entry: %w", err)
	}

	s.publish(ctx, messaging.ChannelReminderFired, entry)
	return nil
}

// OnUserAction resolves a fired reminder. TAKE and SKIP disarm the entry and
// write a history record; SNOOZE re-arms the entry with a fresh timestamp and
// writes nothing.
func (s *Service) OnUserAction(ctx context.Context, req *model.UserActionRequest) (*model.HistoryRecord, error) {
	med, err := s.catalog.Get(ctx, req.MedicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve medication for action: %w", err)
	}

	now := s.nowFunc()

	switch model.UserAction(req.Action) {
	case model.UserActionSnooze:
		entry := model.PendingEntry{
			MedicationID:   med.ID,
			MedicationName: med.Name,
			PhotoURI:       med.PhotoURI,
			Hour:           req.Hour,
			Minute:         req.Minute,
		}
		if err := s.tracker.Arm(ctx, entry); err != nil {
			return nil, fmt.Errorf("failed to re-arm snoozed entry: %w", err)
		}
		return nil, nil

	case model.UserActionTake, model.UserActionSkip:
		if err := s.tracker.Disarm(ctx, med.ID); err != nil {
			return nil, fmt.Errorf("failed to disarm pending entry: %w", err)
		}

		scheduled := time.Date(now.Year(), now.Month(), now.Day(), req.Hour, req.Minute, 0, 0, now.Location())
		record := &model.HistoryRecord{
			ProfileID:      med.ProfileID,
			MedicationID:   med.ID,
			MedicationName: med.Name,
			ScheduledTime:  scheduled,
			Action:         model.HistoryActionSkipped,
			Notes:          req.Notes,
		}
		if model.UserAction(req.Action) == model.UserActionTake {
			takenAt := now
			record.TakenTime = &takenAt
			record.Action = model.HistoryActionTaken
			drift := now.Sub(scheduled)
			if drift < 0 {
				drift = -drift
			}
			record.WasOnTime = drift <= s.config.OnTimeGrace
		}

		if err := s.history.Create(ctx, record); err != nil {
			return nil, fmt.Errorf("failed to record user action: %w", err)
		}

		s.publish(ctx, messaging.ChannelDoseResolved, record)
		return record, nil

	default:
		return nil, apperrors.NewBadRequest(fmt.Sprintf("unknown action %q", req.Action), nil)
	}
}

// ListPending returns the currently armed entries.
func (s *Service) ListPending(ctx context.Context) ([]model.PendingEntry, error) {
	return s.tracker.ListAll(ctx)
}

// DismissSlot clears every pending entry at a wall-clock slot, for when a
// grouped notification is dismissed as a whole.
func (s *Service) DismissSlot(ctx context.Context, hour, minute int) error {
	if err := s.tracker.DisarmAt(ctx, hour, minute); err != nil {
		return fmt.Errorf("failed to dismiss slot: %w", err)
	}
	return nil
}

// OnAppStart repairs the tracker against the catalog and then backfills every
// profile's liveness gap. Must be safe to call repeatedly.
func (s *Service) OnAppStart(ctx context.Context) error {
	ids, err := s.catalog.ListIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list medication ids: %w", err)
	}
	if err := s.tracker.ReconcileWithStore(ctx, ids); err != nil {
		return fmt.Errorf("failed to reconcile pending entries: %w", err)
	}

	return s.ReconcileAll(ctx)
}

// ReconcileAll runs one gap-reconciliation pass over every profile with
// medications. Each profile's gap is [checkpoint, now); the checkpoint only
// advances after the profile's doses are all persisted, so a failed pass is
// retried over the same gap and deduped by history resolution.
func (s *Service) ReconcileAll(ctx context.Context) error {
	meds, err := s.catalog.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to list medications: %w", err)
	}

	byProfile := make(map[int64][]*model.Medication)
	for _, med := range meds {
		byProfile[med.ProfileID] = append(byProfile[med.ProfileID], med)
	}

	now := s.nowFunc()
	var firstErr error
	for profileID, profileMeds := range byProfile {
		if err := s.reconcileProfile(ctx, profileID, profileMeds, now); err != nil {
			s.logger.Error(err, "reconcile pass failed for profile", "profile_id", profileID)
			if s.metrics != nil {
				s.metrics.ReconcilePassFailed.Inc()
			}
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (s *Service) reconcileProfile(ctx context.Context, profileID int64, meds []*model.Medication, now time.Time) error {
	gapStart := now.Add(-s.config.DefaultLookback)
	cp, err := s.checkpoints.Get(ctx, profileID)
	if err == nil {
		gapStart = cp.LastCheck
	}
	gapEnd := now

	if s.metrics != nil {
		s.metrics.ReconcileGapSeconds.Observe(gapEnd.Sub(gapStart).Seconds())
	}
	if !gapStart.Before(gapEnd) {
		return s.checkpoints.Upsert(ctx, profileID, gapEnd)
	}

	for _, med := range meds {
		queryStart := time.Now()
		existing, err := s.history.QueryByMedicationAndRange(ctx, med.ID, gapStart, gapEnd)
		if s.metrics != nil {
			s.metrics.DatabaseLatency.WithLabelValues("query_history").Observe(time.Since(queryStart).Seconds())
		}
		if err != nil {
			if s.metrics != nil {
				s.metrics.DatabaseOperations.WithLabelValues("query_history", "error").Inc()
			}
			return fmt.Errorf("failed to load history for medication %d: %w", med.ID, err)
		}
		if s.metrics != nil {
			s.metrics.DatabaseOperations.WithLabelValues("query_history", "success").Inc()
		}

		missed := reconcile.FindMissedDosesInGap(med, gapStart, gapEnd, now, existing)
		if s.metrics != nil {
			s.metrics.DosesReconciled.Add(float64(len(missed) + len(existing)))
		}

		for _, m := range missed {
			record := &model.HistoryRecord{
				ProfileID:      med.ProfileID,
				MedicationID:   med.ID,
				MedicationName: med.Name,
				ScheduledTime:  m.ScheduledTime,
				Action:         model.HistoryActionMissed,
			}
			if err := s.history.Create(ctx, record); err != nil {
				return fmt.Errorf("failed to persist missed dose: %w", err)
			}

			// The entry for a backfilled slot is stale; anything still armed
			// there belongs to the same unwatched gap.
			if err := s.tracker.DisarmAt(ctx, m.Hour, m.Minute); err != nil {
				s.logger.Error(err, "failed to clear pending entry for missed dose",
					"medication_id", med.ID, "hour", m.Hour, "minute", m.Minute)
			}

			if s.metrics != nil {
				s.metrics.DosesMissed.Inc()
			}
			s.publish(ctx, messaging.ChannelDoseMissed, m)
		}
	}

	return s.checkpoints.Upsert(ctx, profileID, gapEnd)
}

func (s *Service) publish(ctx context.Context, channel string, payload interface{}) {
	if s.broker == nil {
		return
	}
	msg := messaging.Message{Type: channel, Payload: payload}
	if err := s.broker.Publish(ctx, channel, msg); err != nil {
		s.logger.Error(err, "failed to publish event", "channel", channel)
	}
}
