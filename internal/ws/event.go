package ws

import "encoding/json"

// EventNewMessage — единственное событие чата: новое сообщение.
// Имя унаследовано от старого бэкенда, клиенты на него завязаны.
const EventNewMessage = "nuevo-mensaje"

// Event — кадр канала реального времени. Поле Data непрозрачно:
// ретранслятор не интерпретирует и не изменяет содержимое сообщения.
type Event struct {
	Name string          `json:"evento"`
	Data json.RawMessage `json:"datos"`
}
