package realtime

import (
	"context"
	"log"
	"sync"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// RedisBroker carries pushes over redis pub/sub so the fan-out stream can be
// shared by more than one server process.
type RedisBroker struct {
	client *redis.Client

	mu      sync.Mutex
	pubsubs []*redis.PubSub
}

func NewRedisBroker(addr, password string) *RedisBroker {
	return &RedisBroker{
		client: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
		}),
	}
}

func (b *RedisBroker) Connect(ctx context.Context) error {
	if err := b.client.Ping(ctx).Err(); err != nil {
		return errors.Wrap(err, "pinging redis")
	}
	return nil
}

func (b *RedisBroker) Disconnect() error {
	b.mu.Lock()
	for _, ps := range b.pubsubs {
		ps.Close()
	}
	b.pubsubs = nil
	b.mu.Unlock()

	return b.client.Close()
}

func (b *RedisBroker) Publish(ctx context.Context, subject string, payload []byte) error {
	if err := b.client.Publish(ctx, subject, payload).Err(); err != nil {
		return errors.Wrapf(err, "publishing to %s", subject)
	}
	return nil
}

// Subscribe starts a goroutine that feeds every message on the subject into
// the handler until the context is cancelled or the broker disconnects.
func (b *RedisBroker) Subscribe(ctx context.Context, subject string, handler func(payload []byte)) error {
	pubsub := b.client.Subscribe(ctx, subject)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return errors.Wrapf(err, "subscribing to %s", subject)
	}

	b.mu.Lock()
	b.pubsubs = append(b.pubsubs, pubsub)
	b.mu.Unlock()

	ch := pubsub.Channel()
	go func() {
		for {
			select {
			case msg, ok := <-ch:
				if !ok {
					return
				}
				handler([]byte(msg.Payload))
			case <-ctx.Done():
				log.Printf("redis subscription for %s stopped: %v", subject, ctx.Err())
				pubsub.Close()
				return
			}
		}
	}()
	return nil
}
