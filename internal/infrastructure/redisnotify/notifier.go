// Package redisnotify publica los cambios de estado de reportes en un
// canal Redis pub/sub; el hub de websockets del servidor reenvía los
// mensajes a los dashboards conectados.
package redisnotify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/cristhlr/ServiTrack-api/internal/application/ports"
)

var _ ports.StatusNotifier = (*Notifier)(nil)

// Notifier publica StatusChangeEvent serializados como JSON en un canal
// pub/sub. Permite correr varias réplicas del API: cada una suscribe el
// mismo canal y reparte a sus propios websockets.
type Notifier struct {
	client  *redis.Client
	channel string
}

// NewClient conecta a Redis a partir de la URL (redis://...) y verifica con Ping.
func NewClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar redis: %w", err)
	}
	return client, nil
}

// NewNotifier construye el publicador sobre un cliente ya conectado.
func NewNotifier(client *redis.Client, channel string) *Notifier {
	return &Notifier{client: client, channel: channel}
}

// PublishStatusChange publica el evento. El caller lo trata como best-effort.
func (n *Notifier) PublishStatusChange(ctx context.Context, ev ports.StatusChangeEvent) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	if err := n.client.Publish(ctx, n.channel, payload).Err(); err != nil {
		return fmt.Errorf("publicar en %s: %w", n.channel, err)
	}
	return nil
}

// Subscribe abre la suscripción al canal de notificaciones. El caller es
// dueño del PubSub y debe cerrarlo.
func Subscribe(ctx context.Context, client *redis.Client, channel string) *redis.PubSub {
	return client.Subscribe(ctx, channel)
}
