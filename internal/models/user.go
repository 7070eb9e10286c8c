// Package models содержит доменную модель пользователя системы,
// включающую данные учётной записи, хэш пароля и дату создания.
// Структура используется в бизнес‑логике и при работе с хранилищем.
package models

import "time"

// Роли пользователей. RoleUser назначается при регистрации; RoleAdmin
// выставляется только внешним процессом модерации.
const (
	RoleUser  = "usuario"
	RoleAdmin = "admin"
)

// User представляет зарегистрированного пользователя системы.
// Имена колонок таблицы usuario исторические, поэтому испанские.
type User struct {
	ID             string     // Уникальный идентификатор (id_usuario)
	Name           string     // Отображаемое имя (nombre_usuario)
	Email          string     // Электронная почта (correo, уникальная)
	Role           string     // Роль (rol): "usuario" либо привилегированная
	PasswordHash   string     // bcrypt-хэш пароля (contrasena)
	Phone          string     // Телефон (telefono)
	Location       string     // Местоположение (ubicacion)
	ProfilePhoto   []byte     // Фотография профиля (foto_perfil), опциональная
	CreatedAt      time.Time  // Дата создания записи (creado_en)
	SuspendedUntil *time.Time // Дата окончания блокировки (fecha_suspension)
}

// Summary — усечённое представление пользователя для ответов API.
// Хэш пароля и фотография никогда не попадают в ответ.
type Summary struct {
	ID    string `json:"id_usuario"`
	Name  string `json:"nombre_usuario"`
	Email string `json:"correo"`
	Role  string `json:"rol"`
}

// Summary возвращает усечённое представление пользователя.
func (u *User) Summary() Summary {
	return Summary{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

// IsSuspended сообщает, действует ли блокировка пользователя в момент now.
// Блокировка — точечная дата окончания: строго будущая дата запрещает вход.
func (u *User) IsSuspended(now time.Time) bool {
	return u.SuspendedUntil != nil && u.SuspendedUntil.After(now)
}
