package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"gatherly/internal/domain"
	"gatherly/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthController_SignUp(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		serviceErr     error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"name":"Alice","email":"alice@example.com","password":"longenough"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "invalid json",
			body:           `{invalid`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "bad_request",
		},
		{
			name:           "missing fields",
			body:           `{"email":"alice@example.com"}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "required",
		},
		{
			name:           "duplicate email",
			body:           `{"name":"Alice","email":"alice@example.com","password":"longenough"}`,
			serviceErr:     domain.ErrDuplicateEmail,
			wantStatus:     http.StatusConflict,
			wantBodySubstr: "already in use",
		},
		{
			name:           "weak password rejected",
			body:           `{"name":"Alice","email":"alice@example.com","password":"short"}`,
			serviceErr:     domain.ErrInvalidInput,
			wantStatus:     http.StatusBadRequest,
		},
		{
			name:           "service error",
			body:           `{"name":"Alice","email":"alice@example.com","password":"longenough"}`,
			serviceErr:     errors.New("db down"),
			wantStatus:     http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewAuthController(testLogger, &fakeAuthService{signUpErr: tt.serviceErr})
			req := httptest.NewRequest(http.MethodPost, "/auth/signup", bytes.NewBufferString(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			ctrl.SignUp(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			if tt.wantBodySubstr != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBodySubstr, "response body")
			}
		})
	}
}

func TestAuthController_Login(t *testing.T) {
	t.Run("success returns token and user", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{token: "jwt-abc"})
		body := bytes.NewBufferString(`{"email":"alice@example.com","password":"longenough"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var resp struct {
			Data loginResponse `json:"data"`
		}
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
		assert.Equal(t, "jwt-abc", resp.Data.Token)
		require.NotNil(t, resp.Data.User)
		assert.Equal(t, "alice@example.com", resp.Data.User.Email)
	})

	t.Run("bad credentials", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{loginErr: services.ErrInvalidCredentials})
		body := bytes.NewBufferString(`{"email":"alice@example.com","password":"wrong"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid email or password")
	})

	t.Run("missing password", func(t *testing.T) {
		ctrl := NewAuthController(testLogger, &fakeAuthService{})
		body := bytes.NewBufferString(`{"email":"alice@example.com"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		ctrl.Login(rr, req)

		require.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
