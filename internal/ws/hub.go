// Package ws реализует канал реального времени: WebSocket-подключения
// клиентов и ретрансляцию событий чата всем подключённым клиентам.
package ws

import (
	"context"
	"log/slog"

	"github.com/vecindapp/backend/internal/metrics"
)

// Hub владеет множеством подключённых клиентов и рассылает каждое входящее
// сообщение всем подписчикам, включая отправителя. Сообщения нигде не
// сохраняются; порядок между конкурирующими отправителями не гарантируется.
//
// Всё состояние мутируется только из цикла Run, поэтому блокировки не нужны.
type Hub struct {
	// Подключённые клиенты.
	clients map[*Client]bool

	// Входящие сообщения от клиентов.
	broadcast chan []byte

	// Запросы на подключение.
	register chan *Client

	// Запросы на отключение.
	unregister chan *Client

	// Закрывается при выходе из Run; пампы выбирают между отправкой в хаб
	// и этим каналом, чтобы не зависнуть после остановки цикла.
	done chan struct{}

	log *slog.Logger
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan []byte),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run крутит цикл обслуживания до отмены контекста. При завершении все
// клиенты отключаются.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			return
		case client := <-h.register:
			h.clients[client] = true
			metrics.RelayConnectionsTotal.Inc()
			metrics.RelayConnectionsActive.Set(float64(len(h.clients)))
			h.log.Info("client connected", slog.String("remote", client.remoteAddr))
		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				metrics.RelayConnectionsActive.Set(float64(len(h.clients)))
				h.log.Info("client disconnected", slog.String("remote", client.remoteAddr))
			}
		case message := <-h.broadcast:
			metrics.RelayMessagesTotal.Inc()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Клиент не вычитывает — отцепляем, чтобы не копить буфер.
					close(client.send)
					delete(h.clients, client)
					metrics.RelayClientsDroppedTotal.Inc()
					metrics.RelayConnectionsActive.Set(float64(len(h.clients)))
				}
			}
		}
	}
}
