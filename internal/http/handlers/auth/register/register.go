// Package register реализует HTTP-обработчик регистрации пользователей.
//
// Декодирует JSON с данными нового пользователя и делегирует создание
// сервисному слою. Поля запроса не валидируются: мобильные клиенты
// исторически отправляют частично заполненные анкеты, и сервер их принимает.
package register

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vecindapp/backend/internal/http/response"
	"github.com/vecindapp/backend/internal/lib/sl"
	"github.com/vecindapp/backend/internal/metrics"
	"github.com/vecindapp/backend/internal/services"
)

// Request — входные данные для регистрации. Имена полей — контракт API.
type Request struct {
	Name       string `json:"nombre_usuario"`
	Email      string `json:"correo"`
	Password   string `json:"contrasena"`
	Phone      string `json:"telefono"`
	Location   string `json:"ubicacion"`
	FotoPerfil string `json:"foto_perfil"`
}

// Service описывает интерфейс бизнес-логики регистрации.
type Service interface {
	Register(ctx context.Context, p services.RegisterParams) (string, error)
}

// Handler обрабатывает HTTP-запросы регистрации.
type Handler struct {
	log     *slog.Logger
	service Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Регистрация пользователя
// @Description Создает нового пользователя с ролью usuario. Пароль хэшируется, фотография принимается в base64 (с data-URI префиксом или без).
// @Tags Usuarios
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового пользователя"
// @Success 201 {object} response.Response "Пользователь создан"
// @Failure 400 {object} response.Response "Correo уже зарегистрирован или некорректный JSON"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /usuarios [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.register"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, response.Msg(response.MsgInvalidBody))
		return
	}
	log.Info("request body decoded", slog.String("correo", req.Email))

	id, err := h.service.Register(r.Context(), services.RegisterParams{
		Name:       req.Name,
		Email:      req.Email,
		Password:   req.Password,
		Phone:      req.Phone,
		Location:   req.Location,
		FotoPerfil: req.FotoPerfil,
	})
	if err != nil {
		if errors.Is(err, services.ErrEmailTaken) {
			log.Info("email already registered", slog.String("correo", req.Email))
			render.Status(r, http.StatusBadRequest)
			render.JSON(w, r, response.Msg(response.MsgEmailTaken))
			return
		}
		log.Error("registration failed", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Msg(response.MsgInternalError))
		return
	}

	metrics.UsersRegisteredTotal.Inc()
	log.Info("user registered", slog.String("user_id", id))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.Msg(response.MsgUserCreated))
}
