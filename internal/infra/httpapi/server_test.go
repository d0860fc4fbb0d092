package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"order_acknowledgement_service/internal/app"
	"order_acknowledgement_service/internal/domain/history"
	"order_acknowledgement_service/internal/domain/schedule"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubHistoryRepo struct {
	entries   []*history.Entry
	err       error
	gotLimit  int
	purgedCut time.Time
}

func (r *stubHistoryRepo) Append(_ context.Context, entry *history.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *stubHistoryRepo) Recent(_ context.Context, limit int) ([]*history.Entry, error) {
	r.gotLimit = limit
	return r.entries, r.err
}

func (r *stubHistoryRepo) PurgeOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	r.purgedCut = cutoff
	return 0, nil
}

type stubScheduleRepo struct {
	cfg *schedule.Configuration

	wroteInterval int
	wroteActive   bool
	wroteNext     time.Time
	writes        int
}

func (r *stubScheduleRepo) Read(_ context.Context) (*schedule.Configuration, error) {
	return r.cfg, nil
}

func (r *stubScheduleRepo) Write(_ context.Context, intervalHours int, active bool, next time.Time) error {
	r.writes++
	r.wroteInterval = intervalHours
	r.wroteActive = active
	r.wroteNext = next
	return nil
}

type stubAcknowledger struct {
	result *app.Result
	err    error
}

func (a *stubAcknowledger) Run(_ context.Context) (*app.Result, error) {
	return a.result, a.err
}

type stubClock struct{ now time.Time }

func (c stubClock) Now() time.Time { return c.now }

func newTestRouter(hr *stubHistoryRepo, sr *stubScheduleRepo, ack *stubAcknowledger, now time.Time) http.Handler {
	log := logrus.New()
	log.SetOutput(io.Discard)
	handler := NewHandler(hr, sr, ack, stubClock{now: now}, log)
	return NewRouter(handler, "production")
}

func TestGetHistoryClampsLimit(t *testing.T) {
	hr := &stubHistoryRepo{}
	router := newTestRouter(hr, &stubScheduleRepo{}, &stubAcknowledger{}, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/history?limit=1000", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 200, hr.gotLimit)
}

func TestGetHistoryReturnsEntries(t *testing.T) {
	hr := &stubHistoryRepo{entries: []*history.Entry{{
		ID:          uuid.New(),
		ExecutedAt:  time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC),
		Succeeded:   true,
		Message:     "Acknowledgement sent",
		OrderNumber: "CMD-001",
		Recipient:   "contact@dupont.fr",
	}}}
	router := newTestRouter(hr, &stubScheduleRepo{}, &stubAcknowledger{}, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/history", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 20, hr.gotLimit)

	var resp struct {
		Data []historyEntryResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "CMD-001", resp.Data[0].OrderNumber)
	assert.True(t, resp.Data[0].Succeeded)
}

func TestGetSchedule(t *testing.T) {
	next := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sr := &stubScheduleRepo{cfg: &schedule.Configuration{IntervalHours: 4, NextExecution: next, Active: true}}
	router := newTestRouter(&stubHistoryRepo{}, sr, &stubAcknowledger{}, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/schedule", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Data scheduleResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.Data.IntervalHours)
	assert.True(t, resp.Data.Active)
}

func TestUpdateScheduleWritesWholeRecord(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	sr := &stubScheduleRepo{}
	router := newTestRouter(&stubHistoryRepo{}, sr, &stubAcknowledger{}, now)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/schedule", strings.NewReader(`{"intervalHours":6,"active":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sr.writes)
	assert.Equal(t, 6, sr.wroteInterval)
	assert.True(t, sr.wroteActive)
	assert.Equal(t, now.Add(6*time.Hour), sr.wroteNext)
}

func TestUpdateScheduleRejectsOutOfRangeInterval(t *testing.T) {
	sr := &stubScheduleRepo{}
	router := newTestRouter(&stubHistoryRepo{}, sr, &stubAcknowledger{}, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/orders/schedule", strings.NewReader(`{"intervalHours":48,"active":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, sr.writes)

	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPut, "/api/orders/schedule", strings.NewReader(`{"intervalHours":0,"active":true}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, sr.writes)
}

func TestTriggerRunReturnsResult(t *testing.T) {
	ack := &stubAcknowledger{result: &app.Result{
		SentCount: 1,
		Entries: []*history.Entry{{
			ID:          uuid.New(),
			Succeeded:   true,
			Message:     "Acknowledgement sent",
			OrderNumber: "CMD-001",
		}},
	}}
	router := newTestRouter(&stubHistoryRepo{}, &stubScheduleRepo{}, ack, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/trigger", nil)
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		SentCount int                    `json:"sentCount"`
		Entries   []historyEntryResponse `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.SentCount)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, "CMD-001", resp.Entries[0].OrderNumber)
}

func TestTriggerRunConflictsWhileRunning(t *testing.T) {
	ack := &stubAcknowledger{err: app.ErrRunInProgress}
	router := newTestRouter(&stubHistoryRepo{}, &stubScheduleRepo{}, ack, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/trigger", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTriggerRunFailureReturnsBadGateway(t *testing.T) {
	ack := &stubAcknowledger{err: errors.New("order store unreachable")}
	router := newTestRouter(&stubHistoryRepo{}, &stubScheduleRepo{}, ack, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/orders/trigger", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestHealthz(t *testing.T) {
	router := newTestRouter(&stubHistoryRepo{}, &stubScheduleRepo{}, &stubAcknowledger{}, time.Now())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
