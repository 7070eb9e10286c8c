package register

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/vecindapp/backend/internal/services"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, p services.RegisterParams) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	serviceMock := new(ServiceMock)
	logger := newNoopLogger()

	handler := New(logger, serviceMock)

	tests := []struct {
		name           string
		requestBody    interface{}
		mockID         string
		mockErr        error
		wantMockCall   bool
		wantStatusCode int
		wantMessage    string
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Name:     "Ana",
				Email:    "ana@example.com",
				Password: "secreta123",
				Phone:    "5512345678",
				Location: "Colonia Centro",
			},
			mockID:         "11111111-1111-1111-1111-111111111111",
			wantMockCall:   true,
			wantStatusCode: http.StatusCreated,
			wantMessage:    "Usuario creado exitosamente.",
		},
		{
			// Поля не валидируются: пустая анкета тоже проходит
			name:           "empty fields are accepted",
			requestBody:    Request{},
			mockID:         "22222222-2222-2222-2222-222222222222",
			wantMockCall:   true,
			wantStatusCode: http.StatusCreated,
			wantMessage:    "Usuario creado exitosamente.",
		},
		{
			name:           "duplicate email",
			requestBody:    Request{Email: "ana@example.com", Password: "secreta123"},
			mockErr:        services.ErrEmailTaken,
			wantMockCall:   true,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    "El correo ya está registrado.",
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
				serviceMock.On("Register", mock.Anything, mock.AnythingOfType("services.RegisterParams")).
					Return(tt.mockID, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPost, "/usuarios", bytes.NewReader(bodyBytes))
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

func TestRegisterHandler_PassesAllFieldsToService(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	var gotParams services.RegisterParams
	serviceMock.On("Register", mock.Anything, mock.AnythingOfType("services.RegisterParams")).
		Run(func(args mock.Arguments) {
			gotParams = args.Get(1).(services.RegisterParams)
		}).
		Return("id-1", nil).Once()

	body := []byte(`{
		"nombre_usuario": "Ana",
		"correo": "ana@example.com",
		"contrasena": "secreta123",
		"telefono": "5512345678",
		"ubicacion": "Colonia Centro",
		"foto_perfil": "data:image/png;base64,aGVsbG8="
	}`)

	req := httptest.NewRequest(http.MethodPost, "/usuarios", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, services.RegisterParams{
		Name:       "Ana",
		Email:      "ana@example.com",
		Password:   "secreta123",
		Phone:      "5512345678",
		Location:   "Colonia Centro",
		FotoPerfil: "data:image/png;base64,aGVsbG8=",
	}, gotParams)
}
