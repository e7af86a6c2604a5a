package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// NewJSONEvent 는 payload 를 JSON 으로 인코딩하여 Event 를 구성한다.
// ID 는 uuid 로 생성된다.
func NewJSONEvent(eventType string, payload any, occurredAt time.Time) (Event, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("eventbus: marshal payload: %w", err)
	}
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt,
		Payload:    b,
		MaxRetry:   DefaultMaxRetry,
	}, nil
}

// DecodeJSON 은 Event.Payload 를 제네릭 타입으로 언마샬한다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, fmt.Errorf("eventbus: unmarshal payload: %w", err)
	}
	return out, nil
}

// SubscribeJSON 은 JSON 페이로드를 자동으로 디코딩해주는 Subscribe 헬퍼다.
// eventType 이 다른 이벤트는 건너뛴다.
func SubscribeJSON[T any](ctx context.Context, bus EventBus, groupID string, topic Topic, eventType string, handler func(ctx context.Context, payload T, meta Event) error) error {
	return bus.Subscribe(ctx, groupID, topic, func(ctx context.Context, evt Event) error {
		if eventType != "" && evt.Type != eventType {
			return nil
		}
		v, err := DecodeJSON[T](evt)
		if err != nil {
			return err
		}
		return handler(ctx, v, evt)
	})
}
