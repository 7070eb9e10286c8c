// Package services содержит логику бизнес-уровня для работы с пользователями и аутентификацией.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/vecindapp/backend/internal/lib/imagen"
	"github.com/vecindapp/backend/internal/lib/jwt"
	"github.com/vecindapp/backend/internal/lib/password"
	"github.com/vecindapp/backend/internal/lib/rabbitmq"
	"github.com/vecindapp/backend/internal/lib/sl"
	"github.com/vecindapp/backend/internal/models"
	"github.com/vecindapp/backend/internal/storage/repository"
)

// ErrEmailTaken возвращается при попытке регистрации с уже занятым correo.
var ErrEmailTaken = errors.New("email already registered")

// ErrInvalidCredentials возвращается и для неизвестного correo, и для
// неверного пароля. Ответ одинаковый в обоих случаях, чтобы не раскрывать,
// какая именно проверка не прошла.
var ErrInvalidCredentials = errors.New("invalid credentials")

// SuspendedError возвращается при входе заблокированного пользователя.
type SuspendedError struct {
	Until time.Time
}

func (e *SuspendedError) Error() string {
	return fmt.Sprintf("user suspended until %s", e.Until.Format(time.RFC3339))
}

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его ID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по correo либо
	// repository.ErrUserNotFound.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUser возвращает пользователя по ID либо repository.ErrUserNotFound.
	GetUser(ctx context.Context, userID string) (*models.User, error)
}

// EventPublisher публикует события учётных записей для внешних потребителей.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// ProfileCache кэширует усечённые профили пользователей.
type ProfileCache interface {
	Get(key string, result any) (bool, error)
	Set(key string, value any, expiration time.Duration) error
}

// profileCacheTTL — срок жизни кэшированного профиля.
const profileCacheTTL = 5 * time.Minute

// RegisterParams — входные данные регистрации. FotoPerfil — строка base64,
// опционально с data-URI префиксом; пустая строка — без фотографии.
type RegisterParams struct {
	Name       string
	Email      string
	Password   string
	Phone      string
	Location   string
	FotoPerfil string
}

// AuthService отвечает за регистрацию, авторизацию и чтение профилей.
type AuthService struct {
	users    UserRepository
	jwtMaker jwt.Maker
	events   EventPublisher // nil — публикация событий отключена
	cache    ProfileCache   // nil — кэширование отключено
	log      *slog.Logger
}

// NewAuthService создает новый экземпляр AuthService.
func NewAuthService(users UserRepository, jwtMaker jwt.Maker, events EventPublisher, cache ProfileCache, log *slog.Logger) *AuthService {
	return &AuthService{
		users:    users,
		jwtMaker: jwtMaker,
		events:   events,
		cache:    cache,
		log:      log,
	}
}

// Register создает нового пользователя с хэшированием пароля и ролью "usuario".
//
// Сначала проверяется занятость correo (как это всегда делал бэкенд: SELECT,
// затем INSERT; гонку двух одновременных регистраций окончательно ловит
// уникальный индекс таблицы). Валидация полей здесь сознательно отсутствует.
func (s *AuthService) Register(ctx context.Context, p RegisterParams) (string, error) {
	_, err := s.users.GetUserByEmail(ctx, p.Email)
	if err == nil {
		return "", ErrEmailTaken
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return "", err
	}

	hashed, err := password.GetHash(p.Password)
	if err != nil {
		return "", err
	}

	photo, err := imagen.Decode(p.FotoPerfil)
	if err != nil {
		return "", err
	}

	user := models.User{
		Name:         p.Name,
		Email:        p.Email,
		PasswordHash: hashed,
		Role:         models.RoleUser, // дефолтная роль при регистрации
		Phone:        p.Phone,
		Location:     p.Location,
		ProfilePhoto: photo,
	}
	id, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return "", err
	}

	s.publishRegistered(id, user)
	return id, nil
}

// publishRegistered отправляет событие регистрации внешним потребителям
// (модерация, уведомления). Отправка best-effort: ошибка логируется,
// регистрация при этом считается успешной.
func (s *AuthService) publishRegistered(id string, user models.User) {
	if s.events == nil {
		return
	}
	event := map[string]string{
		"id_usuario":     id,
		"nombre_usuario": user.Name,
		"correo":         user.Email,
	}
	if err := s.events.Publish(rabbitmq.RoutingKeyRegistered, event); err != nil {
		s.log.Error("failed to publish registration event", sl.Err(err))
	}
}

// Login проверяет учётные данные и генерирует JWT с идентификатором пользователя.
//
// Возвращает ErrInvalidCredentials и для неизвестного correo, и для неверного
// пароля; *SuspendedError — если блокировка пользователя ещё действует.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (string, models.Summary, error) {
	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", models.Summary{}, ErrInvalidCredentials
		}
		return "", models.Summary{}, err
	}

	if user.IsSuspended(time.Now()) {
		return "", models.Summary{}, &SuspendedError{Until: *user.SuspendedUntil}
	}

	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return "", models.Summary{}, ErrInvalidCredentials
	}

	token, err := s.jwtMaker.GenerateToken(user.ID)
	if err != nil {
		return "", models.Summary{}, err
	}
	return token, user.Summary(), nil
}

// Profile возвращает усечённый профиль пользователя по его ID,
// отдавая кэшированное значение, когда оно ещё не протухло.
func (s *AuthService) Profile(ctx context.Context, userID string) (models.Summary, error) {
	key := "usuario:" + userID

	if s.cache != nil {
		var cached models.Summary
		found, err := s.cache.Get(key, &cached)
		if err != nil {
			s.log.Error("profile cache read failed", sl.Err(err))
		} else if found {
			return cached, nil
		}
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return models.Summary{}, err
	}

	summary := user.Summary()
	if s.cache != nil {
		if err := s.cache.Set(key, summary, profileCacheTTL); err != nil {
			s.log.Error("profile cache write failed", sl.Err(err))
		}
	}
	return summary, nil
}

// Role возвращает актуальную роль пользователя, всегда читая из хранилища.
// Решения об авторизации не должны опираться на кэш профилей: роль,
// отозванная модерацией, иначе действовала бы до протухания записи.
func (s *AuthService) Role(ctx context.Context, userID string) (string, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return "", err
	}
	return user.Role, nil
}
