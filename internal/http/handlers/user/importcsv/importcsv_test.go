package importcsv

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/vecindapp/backend/internal/http/middlewarectx"
	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/services"
)

type ServiceMock struct {
	mock.Mock
}

func (m *ServiceMock) Register(ctx context.Context, p services.RegisterParams) (string, error) {
	args := m.Called(ctx, p)
	return args.String(0), args.Error(1)
}

func (m *ServiceMock) Role(ctx context.Context, userID string) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

const csvHeader = "nombre_usuario,correo,contrasena,telefono,ubicacion\n"

func newImportRequest(t *testing.T, userID, csvContent string) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("archivo", "usuarios.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte(csvContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/usuarios/importar", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	ctx := context.WithValue(req.Context(), middlewarectx.UserID, userID)
	return req.WithContext(ctx)
}

func TestImportHandler_RejectsNonAdmin(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	serviceMock.On("Role", mock.Anything, "user-1").
		Return(models.RoleUser, nil).Once()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newImportRequest(t, "user-1", csvHeader))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	serviceMock.AssertNotCalled(t, "Register", mock.Anything, mock.Anything)
}

func TestImportHandler_CreatesValidRows(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	serviceMock.On("Role", mock.Anything, "admin-1").Return(models.RoleAdmin, nil).Once()
	serviceMock.On("Register", mock.Anything, services.RegisterParams{
		Name: "Ana", Email: "ana@example.com", Password: "secreta123",
		Phone: "5512345678", Location: "Centro",
	}).Return("id-1", nil).Once()
	serviceMock.On("Register", mock.Anything, services.RegisterParams{
		Name: "Luis", Email: "luis@example.com", Password: "secreta456",
		Phone: "", Location: "",
	}).Return("id-2", nil).Once()

	content := csvHeader +
		"Ana,ana@example.com,secreta123,5512345678,Centro\n" +
		"Luis,luis@example.com,secreta456,,\n"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newImportRequest(t, "admin-1", content))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, "Importación completada.", got.Message)
	assert.Equal(t, 2, got.Created)
	assert.Empty(t, got.Errors)
	serviceMock.AssertExpectations(t)
}

func TestImportHandler_CollectsRowErrors(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	serviceMock.On("Role", mock.Anything, "admin-1").Return(models.RoleAdmin, nil).Once()
	serviceMock.On("Register", mock.Anything, mock.AnythingOfType("services.RegisterParams")).
		Return("", services.ErrEmailTaken).Once()

	// Строка 2 — занятый correo, строка 3 — невалидный correo,
	// строка 4 — слишком короткий пароль
	content := csvHeader +
		"Ana,ana@example.com,secreta123,,\n" +
		"Luis,no-es-un-correo,secreta456,,\n" +
		"Eva,eva@example.com,corta,,\n"

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, newImportRequest(t, "admin-1", content))

	assert.Equal(t, http.StatusOK, rec.Code)

	var got Result
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 0, got.Created)
	require.Len(t, got.Errors, 3)
	assert.Contains(t, got.Errors[0], "fila 2")
	assert.Contains(t, got.Errors[0], "El correo ya está registrado.")
	assert.Contains(t, got.Errors[1], "fila 3")
	assert.Contains(t, got.Errors[2], "fila 4")
	serviceMock.AssertExpectations(t)
}

func TestImportHandler_MissingFile(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	serviceMock.On("Role", mock.Anything, "admin-1").Return(models.RoleAdmin, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/usuarios/importar", bytes.NewReader(nil))
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserID, "admin-1"))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestImportHandler_MissingUserInContext(t *testing.T) {
	serviceMock := new(ServiceMock)
	handler := New(newNoopLogger(), serviceMock)

	req := httptest.NewRequest(http.MethodPost, "/usuarios/importar", bytes.NewReader(nil))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	serviceMock.AssertNotCalled(t, "Role", mock.Anything, mock.Anything)
}
