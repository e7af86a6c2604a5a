// Package eventbus publishes and consumes portal events.
package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// DefaultMaxRetry 는 핸들러 실패 시 기본 토픽으로 재발행하는 최대 횟수다.
const DefaultMaxRetry = 3

// Topic 은 기본 토픽과 DLQ 토픽 이름을 관리한다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ 는 DLQ 토픽 이름을 반환한다 (예: my_topic.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event 는 메시지 페이로드로 사용되는 envelope 이다.
type Event struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
	Retry      int             `json:"retry"` // 현재 재시도 횟수 (0부터 시작)
	MaxRetry   int             `json:"max_retry"`
	LastError  string          `json:"last_error,omitempty"`
}

// EventHandler 는 이벤트 처리 함수의 시그니처다.
type EventHandler func(ctx context.Context, event Event) error

// Publisher 는 이벤트 발행만 필요한 쪽(HTTP 서비스)이 의존하는 인터페이스다.
type Publisher interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// EventBus 는 발행과 구독을 모두 제공한다.
type EventBus interface {
	Publisher
	// Subscribe 는 ctx 가 끝날 때까지 topic 을 소비한다. 실패한 이벤트는
	// MaxRetry 까지 기본 토픽으로 재발행되고 이후 DLQ 로 보내진다.
	Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error
}

var ErrMaxRetryExceeded = errors.New("eventbus: max retry exceeded")

var ErrClosed = errors.New("eventbus: closed")

// nextTopic decides where a failed event goes next and bumps its retry counter.
func nextTopic(topic Topic, evt *Event, handlerErr error) (string, error) {
	evt.LastError = handlerErr.Error()
	maxRetry := evt.MaxRetry
	if maxRetry <= 0 {
		maxRetry = DefaultMaxRetry
	}
	if evt.Retry+1 > maxRetry {
		return topic.DLQ(), ErrMaxRetryExceeded
	}
	evt.Retry++
	return topic.Base(), nil
}
