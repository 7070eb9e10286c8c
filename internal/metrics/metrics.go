// Package metrics определяет и регистрирует все кастомные метрики Prometheus
// бэкенда. Единственный источник имён метрик, меток и help-строк.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "vecindapp"

// RelayConnectionsActive — текущее число подключённых клиентов чата.
var RelayConnectionsActive = promauto.NewGauge(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "relay_connections_active",
		Help:      "Current number of connected chat relay clients.",
	},
)

// RelayConnectionsTotal — суммарное число подключений к чату за время работы процесса.
var RelayConnectionsTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_connections_total",
		Help:      "Total number of chat relay connections accepted.",
	},
)

// RelayMessagesTotal — число сообщений, разосланных всем подписчикам.
var RelayMessagesTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_messages_total",
		Help:      "Total number of chat messages broadcast to subscribers.",
	},
)

// RelayClientsDroppedTotal — число клиентов, отключённых из-за переполнения
// буфера отправки.
var RelayClientsDroppedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "relay_clients_dropped_total",
		Help:      "Total number of slow clients dropped because their send buffer filled up.",
	},
)

// UsersRegisteredTotal — число успешно зарегистрированных пользователей.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of successfully registered users.",
	},
)
