package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"time"

	"roomboard/internal/metrics"
	"roomboard/internal/models"
	"roomboard/internal/render"
	"roomboard/internal/timetable"
)

const queryDateLayout = "2006-01-02"

// parseQueryDate reads the ?date= parameter, defaulting to today.
func parseQueryDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return timetable.DateOnly(time.Now()), nil
	}
	date, err := time.ParseInLocation(queryDateLayout, raw, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	return date, nil
}

// resolve computes the cycle week for the date from the current snapshot.
func (s *Server) resolve(w http.ResponseWriter, r *http.Request) (*models.Snapshot, time.Time, int, bool) {
	date, err := parseQueryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, time.Time{}, 0, false
	}

	snap := s.holder.Get()
	if snap == nil {
		writeError(w, http.StatusServiceUnavailable, "schedule data is not loaded yet")
		return nil, time.Time{}, 0, false
	}

	week, err := timetable.WeekNumber(snap.Week, snap.FetchedAt, date)
	if err != nil {
		if errors.Is(err, timetable.ErrWeekUndetermined) {
			writeError(w, http.StatusConflict, "cycle week cannot be determined")
			return nil, time.Time{}, 0, false
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return nil, time.Time{}, 0, false
	}

	return snap, date, week, true
}

func (s *Server) handleWeek(w http.ResponseWriter, r *http.Request) {
	_, date, week, ok := s.resolve(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"date": date.Format(queryDateLayout),
		"day":  s.dayNames.NameOf(date),
		"week": week,
	})
}

func (s *Server) buildGrid(snap *models.Snapshot, date time.Time, week int) models.ScheduleGrid {
	started := time.Now()
	grid := s.aggregator.BuildGrid(snap.Teachers, snap.Schedules, s.rooms, date, week)
	metrics.ObserveGridBuild(time.Since(started))
	return grid
}

func (s *Server) handleGrid(w http.ResponseWriter, r *http.Request) {
	snap, date, week, ok := s.resolve(w, r)
	if !ok {
		return
	}

	grid := s.buildGrid(snap, date, week)

	writeJSON(w, http.StatusOK, map[string]any{
		"date":       date.Format(queryDateLayout),
		"day":        s.dayNames.NameOf(date),
		"week":       week,
		"snapshotId": snap.ID,
		"grid":       grid,
	})
}

func (s *Server) handleGridExport(w http.ResponseWriter, r *http.Request) {
	snap, date, week, ok := s.resolve(w, r)
	if !ok {
		return
	}

	grid := s.buildGrid(snap, date, week)

	f, err := render.Excel(grid, s.rooms, s.aggregator.Slots(), date, week)
	if err != nil {
		s.logger.Error().Err(err).Msg("xlsx render failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		s.logger.Error().Err(err).Msg("xlsx write failed")
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("rooms_%s.xlsx", date.Format(queryDateLayout))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename=%q`, filename))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleRooms(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"rooms": s.rooms})
}
