package iisapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCurrentWeek(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/schedule/current-week", r.URL.Path)
		_, _ = w.Write([]byte("3"))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	week, err := client.CurrentWeek(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, week)
}

func TestEmployees(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/all", r.URL.Path)
		_, _ = w.Write([]byte(`[{"urlId":"ivanov","fio":"Иванов И. И."},{"urlId":"petrov","fio":"Петров П. П."}]`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	teachers, err := client.Employees(context.Background())
	require.NoError(t, err)
	require.Len(t, teachers, 2)
	assert.Equal(t, "ivanov", teachers[0].UrlID)
	assert.Equal(t, "Петров П. П.", teachers[1].FIO)
}

func TestEmployeeSchedule(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/employees/schedule/ivanov", r.URL.Path)
		_, _ = w.Write([]byte(`{
			"schedules": {
				"Понедельник": [{
					"subject": "Физика",
					"lessonTypeAbbrev": "ЛК",
					"auditories": ["601-2 к."],
					"studentGroups": [{"name": "910901"}],
					"weekNumber": [1, 3],
					"startLessonTime": "09:00",
					"endLessonTime": "10:20",
					"startLessonDate": "01.01.2024",
					"endLessonDate": "31.05.2024"
				}]
			},
			"previousSchedules": {}
		}`))
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	sched, err := client.EmployeeSchedule(context.Background(), "ivanov")
	require.NoError(t, err)

	lessons := sched.Current["Понедельник"]
	require.Len(t, lessons, 1)
	assert.Equal(t, "Физика", lessons[0].Subject)
	assert.Equal(t, []int{1, 3}, lessons[0].WeekNumbers)
	assert.Equal(t, []string{"910901"}, lessons[0].GroupNames())
	assert.True(t, lessons[0].InAuditory("601-2 к."))
	assert.Empty(t, sched.Previous)
}

func TestErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(srv.URL, time.Second)
	_, err := client.CurrentWeek(context.Background())
	assert.Error(t, err)
}
