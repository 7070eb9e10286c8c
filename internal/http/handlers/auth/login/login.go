// Package login реализует HTTP-обработчик аутентификации пользователей.
//
// Декодирует JSON с учётными данными и делегирует проверку сервисному слою.
// При успехе возвращает JWT и усечённый профиль пользователя; ответ 401
// одинаков для неизвестного correo и неверного пароля.
package login

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
	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/services"
)

// Request — структура входных данных для авторизации.
type Request struct {
	Email    string `json:"correo"`
	Password string `json:"contrasena"`
}

// Service описывает интерфейс бизнес-логики аутентификации.
type Service interface {
	Login(ctx context.Context, email, password string) (string, models.Summary, error)
}

// Handler обрабатывает HTTP-запросы авторизации.
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
// @Summary Авторизация пользователя
// @Description Аутентифицирует пользователя по correo и паролю. Возвращает JWT со сроком жизни из конфигурации и данные пользователя.
// @Tags Auth
// @Accept  json
// @Produce  json
// @Param request body Request true "Учетные данные пользователя"
// @Success 200 {object} response.LoginResponse "Успешная авторизация"
// @Failure 400 {object} response.Response "Некорректный JSON"
// @Failure 401 {object} response.Response "Неверные учетные данные"
// @Failure 403 {object} response.Response "Учётная запись заблокирована"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /login [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

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

	token, user, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		var suspended *services.SuspendedError
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			log.Info("invalid credentials", slog.String("correo", req.Email))
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, response.Msg(response.MsgInvalidCredentials))
		case errors.As(err, &suspended):
			log.Info("suspended user login rejected",
				slog.String("correo", req.Email),
				slog.Time("until", suspended.Until))
			render.Status(r, http.StatusForbidden)
			render.JSON(w, r, response.Suspended(suspended.Until))
		default:
			log.Error("login failed", sl.Err(err))
			render.Status(r, http.StatusInternalServerError)
			render.JSON(w, r, response.Msg(response.MsgInternalError))
		}
		return
	}

	log.Info("login success", slog.String("user_id", user.ID))
	render.JSON(w, r, response.LoginOK(token, user))
}
