// Package vecindapp собирает приложение: хранилище, миграции, кэш,
// публикацию событий, WebSocket-хаб и HTTP-сервер.
package vecindapp

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/streadway/amqp"

	"github.com/vecindapp/backend/internal/cache"
	"github.com/vecindapp/backend/internal/config"
	"github.com/vecindapp/backend/internal/lib/jwt"
	"github.com/vecindapp/backend/internal/lib/rabbitmq"
	"github.com/vecindapp/backend/internal/lib/sl"
	"github.com/vecindapp/backend/internal/migrations"
	"github.com/vecindapp/backend/internal/services"
	"github.com/vecindapp/backend/internal/storage/repository"
	"github.com/vecindapp/backend/internal/ws"
)

type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	hub    *ws.Hub
	amqp   *amqp.Connection // nil — события отключены
}

// New инициализирует все зависимости и собирает HTTP-сервер.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, "./migrations"); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	var events services.EventPublisher
	var amqpConn *amqp.Connection
	if cfg.AMQPConnectionString != "" {
		amqpConn, err = rabbitmq.Connect(cfg.AMQPConnectionString, 5, 2*time.Second)
		if err != nil {
			return nil, err
		}
		ch, err := rabbitmq.SetupChannel(amqpConn, rabbitmq.GetModerationQueues())
		if err != nil {
			return nil, err
		}
		events = rabbitmq.NewPublisher(ch)
	} else {
		logger.Info("amqp connection string is empty, registration events disabled")
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)
	authService := services.NewAuthService(db, jwtMaker, events, cacheRedis, logger)

	hub := ws.NewHub(logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, authService, jwtMaker, hub, db)

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		hub:    hub,
		amqp:   amqpConn,
	}, nil
}

// Run запускает хаб и HTTP-сервер и блокируется до отмены контекста
// либо ошибки сервера. При завершении соединения закрываются.
func (a *App) Run(ctx context.Context) error {
	go a.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		if closeErr := a.db.DB.Close(); closeErr != nil {
			a.logger.Error("failed to close database", sl.Err(closeErr))
		}
		if a.amqp != nil {
			if closeErr := a.amqp.Close(); closeErr != nil {
				a.logger.Error("failed to close amqp connection", sl.Err(closeErr))
			}
		}
		return err
	}
}
