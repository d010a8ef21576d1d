// Package realtime implementa o feed de mudanças de assinatura sobre o
// pub/sub do redis. Cada usuário tem um canal próprio; quem assina recebe
// o snapshot mais recente da assinatura a cada mudança e cancela a
// inscrição explicitamente ao desmontar — a vida da inscrição acompanha a
// vida da tela, sem listeners órfãos.
package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/tsgomes9/coordenada-concursos-sub001/internal/models"
)

// Feed publica e assina eventos de mudança de assinatura.
type Feed struct {
	rdb *redis.Client
}

// NewFeed cria um Feed sobre o cliente redis informado.
func NewFeed(rdb *redis.Client) *Feed {
	return &Feed{rdb: rdb}
}

func channelFor(userUID string) string {
	return "subscription:" + userUID
}

// PublishSubscriptionChange publica o novo snapshot da assinatura no canal
// do usuário. Mensagens são entregues na ordem de publicação; como a
// decisão de acesso é função pura do último snapshot, uma entrega fora de
// ordem no consumidor é inofensiva.
func (f *Feed) PublishSubscriptionChange(ctx context.Context, userUID string, sub models.Subscription) error {
	const op = "realtime.PublishSubscriptionChange"
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := f.rdb.Publish(ctx, channelFor(userUID), payload).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// SubscribeSubscriptionChanges assina o canal do usuário e devolve um canal
// de snapshots e a função de cancelamento. O canal é fechado quando a
// inscrição é cancelada ou o contexto termina.
func (f *Feed) SubscribeSubscriptionChanges(ctx context.Context, userUID string) (<-chan models.Subscription, func(), error) {
	const op = "realtime.SubscribeSubscriptionChanges"

	pubsub := f.rdb.Subscribe(ctx, channelFor(userUID))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan models.Subscription)
	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			var sub models.Subscription
			if err := json.Unmarshal([]byte(msg.Payload), &sub); err != nil {
				continue
			}
			select {
			case out <- sub:
			case <-ctx.Done():
				return
			}
		}
	}()

	unsubscribe := func() {
		_ = pubsub.Close()
	}
	return out, unsubscribe, nil
}
