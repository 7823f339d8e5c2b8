package loader

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"roomboard/internal/events"
	"roomboard/internal/models"
)

// fakeAPI is a hand-rolled ScheduleAPI: schedule fetches run concurrently,
// so call ordering cannot be pinned down with a strict mock.
type fakeAPI struct {
	mu          sync.Mutex
	week        int
	weekErr     error
	teachers    []models.Teacher
	teachersErr error
	failFor     map[string]bool
	calls       map[string]int
}

func (f *fakeAPI) CurrentWeek(context.Context) (int, error) {
	return f.week, f.weekErr
}

func (f *fakeAPI) Employees(context.Context) ([]models.Teacher, error) {
	return f.teachers, f.teachersErr
}

func (f *fakeAPI) EmployeeSchedule(_ context.Context, urlID string) (*models.TeacherSchedule, error) {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[string]int)
	}
	f.calls[urlID]++
	f.mu.Unlock()

	if f.failFor[urlID] {
		return nil, errors.New("upstream broke")
	}
	return &models.TeacherSchedule{
		Current: models.WeekdayMap{
			"Понедельник": {{Subject: "Предмет " + urlID}},
		},
	}, nil
}

func testLogger() *zerolog.Logger {
	logger := zerolog.New(io.Discard)
	return &logger
}

func TestLoad(t *testing.T) {
	api := &fakeAPI{
		week: 2,
		teachers: []models.Teacher{
			{UrlID: "a", FIO: "A"},
			{UrlID: "b", FIO: "B"},
			{UrlID: "c", FIO: "C"},
		},
	}

	l := New(api, Config{Workers: 2}, nil, testLogger())
	snap, err := l.Load(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, snap.ID)
	assert.Equal(t, 2, snap.Week)
	assert.Len(t, snap.Teachers, 3)
	assert.Len(t, snap.Schedules, 3)
	for _, id := range []string{"a", "b", "c"} {
		assert.Equal(t, 1, api.calls[id], "each teacher fetched once")
		assert.NotNil(t, snap.Schedules[id])
	}
}

func TestLoadSubstitutesEmptyScheduleOnFailure(t *testing.T) {
	api := &fakeAPI{
		week: 1,
		teachers: []models.Teacher{
			{UrlID: "ok", FIO: "OK"},
			{UrlID: "broken", FIO: "Broken"},
		},
		failFor: map[string]bool{"broken": true},
	}

	bus := events.NewBus()
	var got events.Event
	bus.Subscribe(events.TypeSnapshotLoaded, func(e events.Event) { got = e })

	l := New(api, Config{}, bus, testLogger())
	snap, err := l.Load(context.Background())
	require.NoError(t, err, "a single broken teacher must not abort the load")

	require.NotNil(t, snap.Schedules["broken"])
	assert.Empty(t, snap.Schedules["broken"].Current)
	assert.Empty(t, snap.Schedules["broken"].Previous)
	assert.NotEmpty(t, snap.Schedules["ok"].Current)

	assert.Equal(t, 1, got.Failures)
	assert.Equal(t, 2, got.Teachers)
}

func TestLoadFatalOnWeekError(t *testing.T) {
	api := &fakeAPI{weekErr: errors.New("iis down")}
	l := New(api, Config{}, nil, testLogger())

	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadFatalOnWeekOutOfRange(t *testing.T) {
	api := &fakeAPI{week: 9}
	l := New(api, Config{}, nil, testLogger())

	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestLoadFatalOnRosterError(t *testing.T) {
	api := &fakeAPI{week: 1, teachersErr: errors.New("iis down")}
	l := New(api, Config{}, nil, testLogger())

	_, err := l.Load(context.Background())
	assert.Error(t, err)
}

func TestSnapshotHolder(t *testing.T) {
	holder := NewSnapshotHolder()
	assert.Nil(t, holder.Get())

	snap := &models.Snapshot{ID: "s1", Week: 3}
	holder.Set(snap)
	assert.Same(t, snap, holder.Get())

	next := &models.Snapshot{ID: "s2", Week: 4}
	holder.Set(next)
	assert.Same(t, next, holder.Get())
}
