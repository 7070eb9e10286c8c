package ws

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vecindapp/backend/internal/lib/sl"
)

const (
	// Максимальное время записи сообщения клиенту.
	writeWait = 10 * time.Second

	// Максимальное время ожидания pong от клиента.
	pongWait = 60 * time.Second

	// Период отправки ping; должен быть меньше pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Максимальный размер входящего сообщения.
	maxMessageSize = 64 * 1024

	// Ёмкость буфера исходящих сообщений клиента.
	sendBufferSize = 256
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Клиенты подключаются с мобильных приложений и браузеров с разных
	// origin; проверка не выполнялась и в старом бэкенде.
	CheckOrigin: func(_ *http.Request) bool { return true },
}

// Client — посредник между WebSocket-соединением и Hub.
type Client struct {
	hub  *Hub
	conn *websocket.Conn

	// Буферизованный канал исходящих сообщений.
	send chan []byte

	remoteAddr string
	log        *slog.Logger
}

// readPump читает кадры из соединения и передаёт события чата хабу.
//
// Кадры с неизвестным именем события и некорректный JSON молча
// игнорируются — так вёл себя и старый бэкенд. Кадр пересылается в хаб
// как есть, без переразбора и пересборки.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		_ = c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Error("unexpected close", sl.Err(err))
			}
			break
		}

		var event Event
		if err := json.Unmarshal(raw, &event); err != nil || event.Name != EventNewMessage {
			continue
		}
		select {
		case c.hub.broadcast <- raw:
		case <-c.hub.done:
			return
		}
	}
}

// writePump пишет сообщения из канала send в соединение и пингует клиента.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()
	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал.
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs апгрейдит HTTP-запрос до WebSocket и регистрирует клиента в хабе.
func ServeWs(hub *Hub, log *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("websocket upgrade failed", sl.Err(err))
		return
	}
	client := &Client{
		hub:        hub,
		conn:       conn,
		send:       make(chan []byte, sendBufferSize),
		remoteAddr: r.RemoteAddr,
		log:        log,
	}
	select {
	case client.hub.register <- client:
	case <-hub.done:
		// Хаб уже остановлен, новые клиенты не принимаются
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
