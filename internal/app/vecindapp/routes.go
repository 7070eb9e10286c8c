// Package vecindapp предоставляет маршруты для основного приложения.
package vecindapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/vecindapp/backend/internal/http/handlers/auth/login"
	"github.com/vecindapp/backend/internal/http/handlers/auth/register"
	"github.com/vecindapp/backend/internal/http/handlers/health"
	"github.com/vecindapp/backend/internal/http/handlers/user/importcsv"
	"github.com/vecindapp/backend/internal/http/handlers/user/profile"
	"github.com/vecindapp/backend/internal/http/middlewarectx"
	"github.com/vecindapp/backend/internal/lib/jwt"
	"github.com/vecindapp/backend/internal/services"
	"github.com/vecindapp/backend/internal/storage/repository"
	"github.com/vecindapp/backend/internal/ws"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService, jwtMaker jwt.Maker, hub *ws.Hub, db *repository.Storage) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	// Открытые конечные точки
	r.Post("/usuarios", register.New(logger, authService).ServeHTTP)
	r.Post("/login", login.New(logger, authService).ServeHTTP)

	// Группа с JWT аутентификацией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
		r.Use(middlewarectx.RateLimitMiddleware(logger))
		r.Get("/usuarios/me", profile.New(logger, authService).ServeHTTP)
		r.Post("/usuarios/importar", importcsv.New(logger, authService).ServeHTTP)
	})

	// Канал реального времени: аутентификация не требуется, как и раньше
	r.Get("/ws", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWs(hub, logger, w, req)
	})

	r.Get("/health", health.New(logger, db).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
