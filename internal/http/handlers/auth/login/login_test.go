package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/services"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Login(ctx context.Context, email, password string) (string, models.Summary, error) {
	args := m.Called(ctx, email, password)
	summary, _ := args.Get(1).(models.Summary)
	return args.String(0), summary, args.Error(2)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	until := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	summary := models.Summary{
		ID:    "33333333-3333-3333-3333-333333333333",
		Name:  "Ana",
		Email: "ana@example.com",
		Role:  models.RoleUser,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockToken      string
		mockSummary    models.Summary
		mockErr        error
		wantMockCall   bool
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "valid login",
			requestBody:    Request{Email: "ana@example.com", Password: "secreta123"},
			mockToken:      "tok",
			mockSummary:    summary,
			wantMockCall:   true,
			wantStatusCode: http.StatusOK,
			wantMessage:    "Inicio de sesión exitoso",
		},
		{
			name:           "unknown email",
			requestBody:    Request{Email: "nadie@example.com", Password: "secreta123"},
			mockErr:        services.ErrInvalidCredentials,
			wantMockCall:   true,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Credenciales incorrectas.",
		},
		{
			name:           "wrong password",
			requestBody:    Request{Email: "ana@example.com", Password: "otra"},
			mockErr:        services.ErrInvalidCredentials,
			wantMockCall:   true,
			wantStatusCode: http.StatusUnauthorized,
			wantMessage:    "Credenciales incorrectas.",
		},
		{
			name:           "suspended user",
			requestBody:    Request{Email: "ana@example.com", Password: "secreta123"},
			mockErr:        &services.SuspendedError{Until: until},
			wantMockCall:   true,
			wantStatusCode: http.StatusForbidden,
			wantMessage:    "Tu cuenta está suspendida hasta el 2026-03-15T12:00:00Z. Por acomulación de reportes.",
		},
		{
			name:           "storage failure",
			requestBody:    Request{Email: "ana@example.com", Password: "secreta123"},
			mockErr:        errors.New("db down"),
			wantMockCall:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantMessage:    "Error interno del servidor.",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "Solicitud inválida.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock.ExpectedCalls = nil
			serviceMock.Calls = nil

			if tt.wantMockCall {
				reqBody := tt.requestBody.(Request)
				serviceMock.On("Login", mock.Anything, reqBody.Email, reqBody.Password).
					Return(tt.mockToken, tt.mockSummary, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)
			assert.Equal(t, tt.wantMessage, got["message"])

			serviceMock.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_SuccessBodyCarriesTokenAndUser(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	summary := models.Summary{
		ID:    "44444444-4444-4444-4444-444444444444",
		Name:  "Luis",
		Email: "luis@example.com",
		Role:  models.RoleUser,
	}
	serviceMock.On("Login", mock.Anything, "luis@example.com", "secreta123").
		Return("el-token", summary, nil).Once()

	body := []byte(`{"correo": "luis@example.com", "contrasena": "secreta123"}`)
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var got struct {
		Message string `json:"message"`
		Token   string `json:"token"`
		User    struct {
			ID    string `json:"id_usuario"`
			Name  string `json:"nombre_usuario"`
			Email string `json:"correo"`
			Role  string `json:"rol"`
		} `json:"user"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Inicio de sesión exitoso", got.Message)
	assert.Equal(t, "el-token", got.Token)
	assert.Equal(t, summary.ID, got.User.ID)
	assert.Equal(t, summary.Name, got.User.Name)
	assert.Equal(t, summary.Email, got.User.Email)
	assert.Equal(t, models.RoleUser, got.User.Role)
}
