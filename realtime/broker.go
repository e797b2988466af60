package realtime

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/pkg/errors"
)

// Subjects notification producers publish on.
const (
	SubjectNotify    = "opsconsole.notifications"
	SubjectBroadcast = "opsconsole.broadcast"
)

// Broker abstracts the transport that carries notification pushes from
// producers to the connection registry. The in-memory variant dispatches
// inside the process; the redis variant lets several server processes share
// one fan-out stream. The variant is chosen once at startup from config.
type Broker interface {
	Connect(ctx context.Context) error
	Disconnect() error
	Publish(ctx context.Context, subject string, payload []byte) error
	Subscribe(ctx context.Context, subject string, handler func(payload []byte)) error
}

// PushEnvelope wraps a serialized notification with its delivery address.
type PushEnvelope struct {
	UserID  string          `json:"user_id"`
	Payload json.RawMessage `json:"payload"`
}

// BindRegistry subscribes the notification subjects and routes everything
// that arrives into the registry. Malformed envelopes are logged and
// dropped; nothing on this path is fatal.
func BindRegistry(ctx context.Context, b Broker, r *Registry) error {
	err := b.Subscribe(ctx, SubjectNotify, func(payload []byte) {
		var env PushEnvelope
		if err := json.Unmarshal(payload, &env); err != nil {
			log.Printf("discarding malformed push envelope: %v", err)
			return
		}
		r.SendToUser(env.UserID, env.Payload)
	})
	if err != nil {
		return errors.Wrap(err, "subscribing notification subject")
	}

	err = b.Subscribe(ctx, SubjectBroadcast, func(payload []byte) {
		r.Broadcast(payload)
	})
	if err != nil {
		return errors.Wrap(err, "subscribing broadcast subject")
	}
	return nil
}

// MemoryBroker dispatches published payloads to in-process subscribers.
type MemoryBroker struct {
	mu       sync.RWMutex
	handlers map[string][]func(payload []byte)
}

func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{
		handlers: make(map[string][]func(payload []byte)),
	}
}

func (b *MemoryBroker) Connect(ctx context.Context) error { return nil }

func (b *MemoryBroker) Disconnect() error { return nil }

func (b *MemoryBroker) Publish(ctx context.Context, subject string, payload []byte) error {
	b.mu.RLock()
	handlers := b.handlers[subject]
	b.mu.RUnlock()

	for _, handler := range handlers {
		handler(payload)
	}
	return nil
}

func (b *MemoryBroker) Subscribe(ctx context.Context, subject string, handler func(payload []byte)) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[subject] = append(b.handlers[subject], handler)
	return nil
}
