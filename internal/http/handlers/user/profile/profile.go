// Package profile реализует HTTP-обработчик чтения собственного профиля.
package profile

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/vecindapp/backend/internal/http/middlewarectx"
	"github.com/vecindapp/backend/internal/http/response"
	"github.com/vecindapp/backend/internal/lib/sl"
	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/storage/repository"
)

// Service описывает интерфейс бизнес-логики чтения профиля.
type Service interface {
	Profile(ctx context.Context, userID string) (models.Summary, error)
}

// Handler обрабатывает HTTP-запросы чтения профиля.
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
// @Summary Профиль текущего пользователя
// @Description Возвращает усечённый профиль пользователя, идентифицированного по JWT.
// @Tags Usuarios
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} models.Summary "Профиль пользователя"
// @Failure 401 {object} response.Response "Токен отсутствует или недействителен"
// @Failure 404 {object} response.Response "Пользователь не найден"
// @Failure 500 {object} response.Response "Внутренняя ошибка сервера"
// @Router /usuarios/me [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.profile"

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

	summary, err := h.service.Profile(r.Context(), userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Токен валиден, но пользователь уже удалён
			log.Info("user not found", slog.String("user_id", userID))
			render.Status(r, http.StatusNotFound)
			render.JSON(w, r, response.Msg(response.MsgUserNotFound))
			return
		}
		log.Error("failed to read profile", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Msg(response.MsgInternalError))
		return
	}

	render.JSON(w, r, summary)
}
