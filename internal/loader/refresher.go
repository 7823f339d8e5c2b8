package loader

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"roomboard/internal/models"
)

// SnapshotSaver persists loaded snapshots.
type SnapshotSaver interface {
	SaveSnapshot(ctx context.Context, snap *models.Snapshot) error
}

// Refresher reloads the roster snapshot on a cron schedule and publishes it
// into the holder and the store.
type Refresher struct {
	loader *Loader
	holder *SnapshotHolder
	saver  SnapshotSaver
	cron   *cron.Cron
	logger *zerolog.Logger
}

// NewRefresher creates a refresher; saver may be nil to skip persistence.
func NewRefresher(l *Loader, holder *SnapshotHolder, saver SnapshotSaver, logger *zerolog.Logger) *Refresher {
	return &Refresher{
		loader: l,
		holder: holder,
		saver:  saver,
		cron:   cron.New(),
		logger: logger,
	}
}

// RefreshNow performs one load and swaps the holder on success.
func (r *Refresher) RefreshNow(ctx context.Context) error {
	snap, err := r.loader.Load(ctx)
	if err != nil {
		return err
	}
	r.holder.Set(snap)

	if r.saver != nil {
		saveCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := r.saver.SaveSnapshot(saveCtx, snap); err != nil {
			r.logger.Error().Err(err).Msg("persist snapshot failed")
		}
	}
	return nil
}

// Start schedules periodic refreshes; spec is a standard cron expression.
// The cron stops when ctx is cancelled.
func (r *Refresher) Start(ctx context.Context, spec string) error {
	_, err := r.cron.AddFunc(spec, func() {
		refreshCtx, cancel := context.WithTimeout(ctx, 10*time.Minute)
		defer cancel()
		if err := r.RefreshNow(refreshCtx); err != nil {
			r.logger.Error().Err(err).Msg("scheduled snapshot refresh failed")
		}
	})
	if err != nil {
		return err
	}

	r.cron.Start()
	go func() {
		<-ctx.Done()
		r.cron.Stop()
	}()

	r.logger.Info().Str("cron", spec).Msg("snapshot refresher started")
	return nil
}
