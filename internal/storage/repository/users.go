package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/vecindapp/backend/internal/models"
)

// CreateUser сохраняет нового пользователя в базу данных и возвращает его ID.
// Дата создания выставляется базой (now()), роль берётся из переданной модели.
func (s *Storage) CreateUser(ctx context.Context, user models.User) (string, error) {
	const op = "storage.CreateUser"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newID string
	query := `INSERT INTO usuario (nombre_usuario, correo, rol, contrasena, telefono,
			      ubicacion, foto_perfil, creado_en)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			  RETURNING id_usuario;`
	if err := s.DB.QueryRowContext(ctx, query,
		user.Name, user.Email, user.Role, user.PasswordHash, user.Phone,
		user.Location, user.ProfilePhoto).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetUserByEmail возвращает пользователя по его correo.
// Если пользователь не найден, возвращается ErrUserNotFound.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_usuario, nombre_usuario, correo, rol, contrasena, telefono,
			      ubicacion, foto_perfil, creado_en, fecha_suspension
			  FROM usuario
			  WHERE correo = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, email), op)
}

// GetUser возвращает пользователя по его id_usuario.
// Если пользователь не найден, возвращается ErrUserNotFound.
func (s *Storage) GetUser(ctx context.Context, userID string) (*models.User, error) {
	const op = "storage.GetUser"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id_usuario, nombre_usuario, correo, rol, contrasena, telefono,
			      ubicacion, foto_perfil, creado_en, fecha_suspension
			  FROM usuario
			  WHERE id_usuario = $1`
	return s.scanUser(s.DB.QueryRowContext(ctx, query, userID), op)
}

func (s *Storage) scanUser(row *sql.Row, op string) (*models.User, error) {
	u := &models.User{}

	var phone, location sql.NullString
	var suspendedUntil sql.NullTime
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.Role, &u.PasswordHash,
		&phone, &location, &u.ProfilePhoto, &u.CreatedAt, &suspendedUntil); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrUserNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if phone.Valid {
		u.Phone = phone.String
	}
	if location.Valid {
		u.Location = location.String
	}
	if suspendedUntil.Valid {
		u.SuspendedUntil = &suspendedUntil.Time
	}
	return u, nil
}
