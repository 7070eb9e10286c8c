package rabbitmq

type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// RoutingKeyRegistered — ключ маршрутизации события "пользователь зарегистрирован".
const RoutingKeyRegistered = "registrado"

// GetModerationQueues возвращает очереди внешних потребителей событий
// учётных записей (модерация, уведомления).
func GetModerationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "usuarios.registrado", RoutingKey: RoutingKeyRegistered},
	}
}
