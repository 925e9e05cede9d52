package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gatherly/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistrationMux(ctrl *RegistrationController) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /events/{eventID}/registrations", ctrl.Register)
	mux.HandleFunc("DELETE /events/{eventID}/registrations", ctrl.Unregister)
	return mux
}

func TestRegistrationController_Register(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			wantStatus: http.StatusCreated,
		},
		{
			name:           "event not found",
			serviceErr:     domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
		{
			name:           "already registered",
			serviceErr:     domain.ErrAlreadyRegistered,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already registered",
		},
		{
			name:           "service error",
			serviceErr:     errors.New("db down"),
			wantStatus:     http.StatusInternalServerError,
			wantBodySubstr: "db down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrations := &fakeRegistrationService{registerErr: tt.serviceErr}
			mux := newRegistrationMux(NewRegistrationController(testLogger, registrations, &fakeQueryService{}))

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, authedRequest(http.MethodPost, "/events/ev-1/registrations", nil, "u-1"))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
			assert.Equal(t, "u-1", registrations.lastUserID)
			assert.Equal(t, "ev-1", registrations.lastEventID)
		})
	}
}

func TestRegistrationController_Unregister(t *testing.T) {
	tests := []struct {
		name           string
		serviceErr     error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			wantStatus: http.StatusNoContent,
		},
		{
			name:           "not registered",
			serviceErr:     domain.ErrNotRegistered,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "not registered",
		},
		{
			name:       "event not found",
			serviceErr: domain.ErrNotFound,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			registrations := &fakeRegistrationService{unregisterErr: tt.serviceErr}
			mux := newRegistrationMux(NewRegistrationController(testLogger, registrations, &fakeQueryService{}))

			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, authedRequest(http.MethodDelete, "/events/ev-1/registrations", nil, "u-1"))

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
		})
	}
}

func TestRegistrationController_MyRegistrations(t *testing.T) {
	queries := &fakeQueryService{
		registrations: []*domain.InscriptionWithEvent{
			{
				Inscription: &domain.Inscription{ID: "ins-1", UserID: "u-1", EventID: "ev-1", RegisteredAt: time.Now()},
				Event:       &domain.Event{ID: "ev-1", Title: "Meetup"},
			},
		},
	}
	ctrl := NewRegistrationController(testLogger, &fakeRegistrationService{}, queries)

	rr := httptest.NewRecorder()
	ctrl.MyRegistrations(rr, authedRequest(http.MethodGet, "/me/registrations", nil, "u-1"))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ins-1")
	assert.Contains(t, rr.Body.String(), "Meetup")
}

func TestRegistrationController_Unauthenticated(t *testing.T) {
	ctrl := NewRegistrationController(testLogger, &fakeRegistrationService{}, &fakeQueryService{})
	mux := newRegistrationMux(ctrl)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/events/ev-1/registrations", nil))

	require.Equal(t, http.StatusUnauthorized, rr.Code)
}
