package create_booking

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-SalonBooking/internal/api/middleware"
	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
	"github.com/m04kA/SMC-SalonBooking/pkg/ptr"
)

type fakeUseCase struct {
	resp  *createBooking.Response
	err   error
	got   *createBooking.Request
	calls int
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*createBooking.Response, error) {
	f.calls++
	f.got = req
	return f.resp, f.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

const validBody = `{"date":"2025-06-09","startTime":"12:00","lanes":[{"technicianId":1,"serviceIds":[10,11]},{"technicianId":null,"serviceIds":[10]}],"notes":"birthday"}`

func post(uc CreateBookingUseCase, body string, userID int64) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/appointments", strings.NewReader(body))
	if userID > 0 {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	day := time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC)
	groupID := "5f1c7a4e-0d43-4c9b-9d6a-1f2e3a4b5c6d"
	uc := &fakeUseCase{resp: &createBooking.Response{
		GroupID: &groupID,
		Appointments: []*domain.Appointment{
			{ID: 1, CustomerID: 7, TechnicianID: ptr.Ptr(int64(1)), GroupID: &groupID, Date: day, StartTime: "12:00", Status: domain.StatusBooked},
			{ID: 2, CustomerID: 7, GroupID: &groupID, Date: day, StartTime: "12:00", Status: domain.StatusBooked},
		},
	}}

	rec := post(uc, validBody, 7)

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, int64(7), uc.got.CustomerID)
	assert.Equal(t, "12:00", uc.got.StartTime.String())
	require.Len(t, uc.got.Lanes, 2)
	require.NotNil(t, uc.got.Lanes[0].TechnicianID)
	assert.Equal(t, int64(1), *uc.got.Lanes[0].TechnicianID)
	assert.Nil(t, uc.got.Lanes[1].TechnicianID)

	var body BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotNil(t, body.GroupID)
	assert.Equal(t, groupID, *body.GroupID)
	require.Len(t, body.Appointments, 2)
	assert.Nil(t, body.Appointments[1].TechnicianID)
	assert.Equal(t, "booked", body.Appointments[0].Status)
}

func TestHandle_RequiresUser(t *testing.T) {
	uc := &fakeUseCase{}

	rec := post(uc, validBody, 0)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, uc.calls)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"broken body", `{"date":`, nil, http.StatusBadRequest},
		{"bad date", `{"date":"9 June","startTime":"12:00","lanes":[]}`, nil, http.StatusBadRequest},
		{"bad time", `{"date":"2025-06-09","startTime":"noon","lanes":[]}`, nil, http.StatusBadRequest},
		{"slot taken", validBody, createBooking.ErrSlotNotAvailable, http.StatusConflict},
		{"technician not found", validBody, createBooking.ErrTechnicianNotFound, http.StatusNotFound},
		{"service not found", validBody, createBooking.ErrServiceNotFound, http.StatusNotFound},
		{"not qualified", validBody, createBooking.ErrTechnicianNotQualified, http.StatusBadRequest},
		{"double booked", validBody, createBooking.ErrTechnicianDoubleBooked, http.StatusBadRequest},
		{"unavailable", validBody, createBooking.ErrTechnicianUnavailable, http.StatusBadRequest},
		{"past date", validBody, createBooking.ErrInvalidDate, http.StatusBadRequest},
		{"misaligned", validBody, createBooking.ErrInvalidTimeSlot, http.StatusBadRequest},
		{"too late", validBody, createBooking.ErrTooLateToBook, http.StatusBadRequest},
		{"invalid input", validBody, createBooking.ErrInvalidInput, http.StatusBadRequest},
		{"internal", validBody, errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := post(&fakeUseCase{err: tt.err}, tt.body, 7)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}
