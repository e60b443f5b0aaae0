package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const reconcilerActor = "system:reconciler"

// RoomSyncReconciler periodically retries room writes that failed after a
// booking update.
type RoomSyncReconciler struct {
	bookings *BookingService
	cron     *cron.Cron
	timeout  time.Duration
}

func NewRoomSyncReconciler(bookings *BookingService) *RoomSyncReconciler {
	return &RoomSyncReconciler{bookings: bookings, cron: cron.New(), timeout: time.Minute}
}

// Start schedules the job. "off" disables it.
func (r *RoomSyncReconciler) Start(schedule string) error {
	if strings.EqualFold(strings.TrimSpace(schedule), "off") {
		log.Info().Msg("room sync reconciler disabled")
		return nil
	}

	if _, err := r.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
		defer cancel()
		r.RunOnce(ctx)
	}); err != nil {
		return err
	}

	r.cron.Start()
	log.Info().Str("schedule", schedule).Msg("room sync reconciler started")
	return nil
}

// RunOnce retries every pending room write and returns how many succeeded.
// A pending write whose room has since moved on is dropped, not replayed.
func (r *RoomSyncReconciler) RunOnce(ctx context.Context) int {
	ids, err := r.bookings.PendingRoomSyncs(ctx)
	if err != nil {
		log.Error().Err(err).Msg("load pending room syncs")
		return 0
	}

	fixed := 0
	for _, id := range ids {
		stale, err := r.bookings.RoomChangedSince(ctx, id)
		if err != nil {
			log.Warn().Err(err).Uint("booking_id", id).Msg("room sync staleness check failed")
			continue
		}
		if stale {
			if err := r.bookings.SupersedeRoomSync(ctx, id); err != nil {
				log.Warn().Err(err).Uint("booking_id", id).Msg("supersede room sync")
				continue
			}
			log.Info().Str("event", "room_sync_superseded").Uint("booking_id", id).Msg("room changed after failed write, skipping retry")
			continue
		}

		_, err = r.bookings.RetryRoomSync(ctx, id, reconcilerActor)
		switch {
		case err == nil:
			fixed++
		case errors.Is(err, ErrBookingNotFound):
			log.Warn().Uint("booking_id", id).Msg("pending room sync for missing booking")
		default:
			log.Warn().Err(err).Uint("booking_id", id).Msg("room sync retry failed")
		}
	}

	if len(ids) > 0 {
		log.Info().Int("pending", len(ids)).Int("fixed", fixed).Msg("room sync reconcile finished")
	}
	return fixed
}

// Stop waits for a running job to finish or ctx to expire.
func (r *RoomSyncReconciler) Stop(ctx context.Context) {
	done := r.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
