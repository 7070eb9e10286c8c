// Package response содержит типы и функции для формирования JSON‑ответов
// HTTP‑обработчиков. Формат ответов и испанские тексты сообщений — часть
// публичного контракта API: мобильные клиенты разбирают их как есть.
package response

import (
	"fmt"
	"time"

	"github.com/vecindapp/backend/internal/models"
)

// Тексты сообщений API. Менять нельзя: клиенты сравнивают строки дословно
// (включая историческую опечатку в сообщении о блокировке).
const (
	MsgUserCreated        = "Usuario creado exitosamente."
	MsgEmailTaken         = "El correo ya está registrado."
	MsgInvalidCredentials = "Credenciales incorrectas."
	MsgInternalError      = "Error interno del servidor."
	MsgInvalidBody        = "Solicitud inválida."
	MsgLoginOK            = "Inicio de sesión exitoso"
	MsgUserNotFound       = "Usuario no encontrado."
	MsgForbidden          = "Acceso denegado."
	MsgUnauthorized       = "No autorizado."
	MsgTooManyRequests    = "Demasiadas solicitudes."
)

// Response — стандартная структура JSON‑ответа с одним сообщением.
type Response struct {
	Message string `json:"message"`
}

// Msg возвращает Response с переданным сообщением.
func Msg(msg string) Response {
	return Response{Message: msg}
}

// Suspended формирует сообщение о действующей блокировке с датой её окончания.
func Suspended(until time.Time) Response {
	return Response{
		Message: fmt.Sprintf("Tu cuenta está suspendida hasta el %s. Por acomulación de reportes.",
			until.Format(time.RFC3339)),
	}
}

// LoginResponse — тело успешного ответа на /login.
type LoginResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    models.Summary `json:"user"`
}

// LoginOK собирает успешный ответ на /login.
func LoginOK(token string, user models.Summary) LoginResponse {
	return LoginResponse{
		Message: MsgLoginOK,
		Token:   token,
		User:    user,
	}
}
