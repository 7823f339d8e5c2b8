package loader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"roomboard/internal/events"
	"roomboard/internal/metrics"
	"roomboard/internal/models"
)

// ScheduleAPI is the upstream data provider the loader pulls from.
type ScheduleAPI interface {
	CurrentWeek(ctx context.Context) (int, error)
	Employees(ctx context.Context) ([]models.Teacher, error)
	EmployeeSchedule(ctx context.Context, urlID string) (*models.TeacherSchedule, error)
}

// Config tunes the fan-out fetch.
type Config struct {
	// Workers is the number of concurrent schedule fetches.
	Workers int
	// RatePerSecond and Burst bound the request rate against the API.
	RatePerSecond float64
	Burst         int
}

// Loader assembles a full roster snapshot from the schedule API. The
// per-teacher fetches run concurrently; a failed fetch is substituted with
// an empty schedule so one broken teacher never aborts the whole load.
type Loader struct {
	client  ScheduleAPI
	limiter *rate.Limiter
	workers int
	bus     *events.Bus
	logger  *zerolog.Logger
}

// New creates a loader.
func New(client ScheduleAPI, cfg Config, bus *events.Bus, logger *zerolog.Logger) *Loader {
	if cfg.Workers <= 0 {
		cfg.Workers = 8
	}
	if cfg.RatePerSecond <= 0 {
		cfg.RatePerSecond = 10
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 20
	}
	return &Loader{
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(cfg.RatePerSecond), cfg.Burst),
		workers: cfg.Workers,
		bus:     bus,
		logger:  logger,
	}
}

// Load fetches the current cycle week, the roster and every teacher's
// schedule, and returns them as an immutable snapshot. Only the week and
// roster fetches are fatal; schedule fetches fail soft.
func (l *Loader) Load(ctx context.Context) (*models.Snapshot, error) {
	started := time.Now()

	week, err := l.client.CurrentWeek(ctx)
	if err != nil {
		l.publishFailure(err)
		return nil, fmt.Errorf("fetch current week: %w", err)
	}
	if week < 1 || week > 4 {
		err := fmt.Errorf("current week out of range: %d", week)
		l.publishFailure(err)
		return nil, err
	}

	teachers, err := l.client.Employees(ctx)
	if err != nil {
		l.publishFailure(err)
		return nil, fmt.Errorf("fetch employees: %w", err)
	}

	schedules, failures := l.fetchSchedules(ctx, teachers)

	snap := &models.Snapshot{
		ID:        uuid.NewString(),
		Week:      week,
		FetchedAt: started,
		Teachers:  teachers,
		Schedules: schedules,
	}

	l.logger.Info().
		Str("snapshot_id", snap.ID).
		Int("week", week).
		Int("teachers", len(teachers)).
		Int("failures", failures).
		Dur("took", time.Since(started)).
		Msg("roster snapshot loaded")

	metrics.IncSnapshotLoad("ok")
	if l.bus != nil {
		l.bus.Publish(events.Event{
			Type:       events.TypeSnapshotLoaded,
			SnapshotID: snap.ID,
			Week:       week,
			Teachers:   len(teachers),
			Failures:   failures,
		})
	}
	return snap, nil
}

// fetchSchedules fans out over the roster with a bounded worker pool and
// waits for all results. Each worker passes the shared rate limiter before
// hitting the API.
func (l *Loader) fetchSchedules(ctx context.Context, teachers []models.Teacher) (map[string]*models.TeacherSchedule, int) {
	schedules := make(map[string]*models.TeacherSchedule, len(teachers))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		failures int
	)

	jobs := make(chan models.Teacher)
	for i := 0; i < l.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for teacher := range jobs {
				sched := l.fetchOne(ctx, teacher)
				mu.Lock()
				if sched == nil {
					failures++
					sched = models.EmptySchedule()
				}
				schedules[teacher.UrlID] = sched
				mu.Unlock()
			}
		}()
	}

	for _, teacher := range teachers {
		jobs <- teacher
	}
	close(jobs)
	wg.Wait()

	return schedules, failures
}

func (l *Loader) fetchOne(ctx context.Context, teacher models.Teacher) *models.TeacherSchedule {
	if err := l.limiter.Wait(ctx); err != nil {
		l.logger.Warn().Err(err).Str("teacher", teacher.UrlID).Msg("rate limiter interrupted")
		metrics.IncTeacherFetchFailure()
		return nil
	}

	sched, err := l.client.EmployeeSchedule(ctx, teacher.UrlID)
	if err != nil {
		l.logger.Warn().Err(err).
			Str("teacher", teacher.UrlID).
			Str("fio", teacher.FIO).
			Msg("schedule fetch failed, substituting empty schedule")
		metrics.IncTeacherFetchFailure()
		return nil
	}
	if sched.Current == nil {
		sched.Current = models.WeekdayMap{}
	}
	if sched.Previous == nil {
		sched.Previous = models.WeekdayMap{}
	}
	return sched
}

func (l *Loader) publishFailure(err error) {
	metrics.IncSnapshotLoad("error")
	if l.bus != nil {
		l.bus.Publish(events.Event{Type: events.TypeSnapshotLoadFailed, Err: err})
	}
}
