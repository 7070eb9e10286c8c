// Package importcsv реализует HTTP-обработчик массового импорта пользователей
// из CSV-файла. Доступен только пользователям с ролью admin.
//
// Файл принимается в multipart-поле "archivo". Ожидаются колонки
// nombre_usuario, correo, contrasena, telefono, ubicacion; первая строка —
// заголовок. В отличие от одиночной регистрации строки импорта валидируются:
// битую строку из большого файла иначе не найти.
package importcsv

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/vecindapp/backend/internal/http/middlewarectx"
	"github.com/vecindapp/backend/internal/http/response"
	"github.com/vecindapp/backend/internal/lib/sl"
	"github.com/vecindapp/backend/internal/metrics"
	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/services"
)

// maxUploadSize — предел размера загружаемого файла.
const maxUploadSize = 10 << 20

// errBadCSV означает, что файл не удалось разобрать как CSV.
var errBadCSV = errors.New("invalid csv")

// row — одна строка CSV после разбора.
type row struct {
	Name     string `validate:"required,min=1,max=100"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Phone    string
	Location string
}

// Result — итог импорта: количество созданных пользователей и ошибки по строкам.
type Result struct {
	Message string   `json:"message"`
	Created int      `json:"creados"`
	Errors  []string `json:"errores"`
}

// Service описывает интерфейс бизнес-логики, используемой импортом.
type Service interface {
	Register(ctx context.Context, p services.RegisterParams) (string, error)
	// Role читает роль из хранилища, минуя кэш профилей.
	Role(ctx context.Context, userID string) (string, error)
}

// Handler обрабатывает HTTP-запросы массового импорта.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Массовый импорт пользователей из CSV
// @Description Создает пользователей из CSV-файла. Доступно только администраторам. Строки с ошибками пропускаются и перечисляются в ответе.
// @Tags Usuarios
// @Accept  mpfd
// @Produce  json
// @Security BearerAuth
// @Param archivo formData file true "CSV-файл с пользователями"
// @Success 200 {object} Result "Итог импорта"
// @Failure 400 {object} response.Response "Файл отсутствует или не является CSV"
// @Failure 401 {object} response.Response "Токен отсутствует или недействителен"
// @Failure 403 {object} response.Response "Недостаточно прав"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /usuarios/importar [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.importcsv"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userID, ok := r.Context().Value(middlewarectx.UserID).(string)
	if !ok || userID == "" {
		log.Error("missing user id in context")
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, response.Msg(response.MsgUnauthorized))
		return
	}

	role, err := h.service.Role(r.Context(), userID)
	if err != nil {
		log.Error("failed to resolve caller role", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Msg(response.MsgInternalError))
		return
	}
	if role != models.RoleAdmin {
		log.Info("import rejected for non-admin", slog.String("user_id", userID))
		render.Status(r, http.StatusForbidden)
		render.JSON(w, r, response.Msg(response.MsgForbidden))
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	file, _, err := r.FormFile("archivo")
	if err != nil {
		log.Error("missing csv file", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Msg(response.MsgInvalidBody))
		return
	}
	defer func() { _ = file.Close() }()

	result, err := h.importRows(r.Context(), file)
	if err != nil {
		if errors.Is(err, errBadCSV) {
			log.Error("csv parsing failed", sl.Err(err))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Msg(response.MsgInvalidBody))
			return
		}
		log.Error("import failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Msg(response.MsgInternalError))
		return
	}

	log.Info("import finished",
		slog.Int("created", result.Created),
		slog.Int("failed", len(result.Errors)))
	render.JSON(w, r, result)
}

// importRows читает CSV построчно и регистрирует валидных пользователей.
// Ошибка возвращается только при нечитаемом файле; проблемы отдельных строк
// собираются в Result.Errors.
func (h *Handler) importRows(ctx context.Context, file io.Reader) (*Result, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 5

	// Первая строка — заголовок
	if _, err := reader.Read(); err != nil {
		return nil, fmt.Errorf("%w: read header: %v", errBadCSV, err)
	}

	result := &Result{
		Message: "Importación completada.",
		Errors:  []string{},
	}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}

		entry := row{
			Name:     record[0],
			Email:    record[1],
			Password: record[2],
			Phone:    record[3],
			Location: record[4],
		}
		if err := h.validate.Struct(entry); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %v", line, err))
			continue
		}

		_, err = h.service.Register(ctx, services.RegisterParams{
			Name:     entry.Name,
			Email:    entry.Email,
			Password: entry.Password,
			Phone:    entry.Phone,
			Location: entry.Location,
		})
		if err != nil {
			if errors.Is(err, services.ErrEmailTaken) {
				result.Errors = append(result.Errors, fmt.Sprintf("fila %d: %s", line, response.MsgEmailTaken))
				continue
			}
			return nil, fmt.Errorf("fila %d: %w", line, err)
		}
		result.Created++
		metrics.UsersRegisteredTotal.Inc()
	}
	return result, nil
}
