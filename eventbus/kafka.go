package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"anime-news/config"
)

// KafkaEventBus 는 confluent-kafka-go 를 사용한 EventBus 구현체다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

var _ EventBus = (*KafkaEventBus)(nil)

// NewKafkaEventBus 는 Kafka Producer 를 초기화한다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5,
	})
	if err != nil {
		return nil, fmt.Errorf("eventbus: create kafka producer: %w", err)
	}

	// 전달 보고서 외의 producer 이벤트 처리
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger.Errorf("eventbus: delivery failed %v: %v", ev.TopicPartition, ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger.Errorf("eventbus: kafka error: %v", ev)
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close 는 남은 메시지를 5초 동안 플러시한 뒤 Producer 를 종료한다.
func (k *KafkaEventBus) Close() {
	if k.Producer == nil {
		return
	}
	if remaining := k.Producer.Flush(5000); remaining > 0 {
		config.Logger.Warnf("eventbus: %d messages left after flush", remaining)
	}
	k.Producer.Close()
	config.Logger.Info("eventbus: kafka producer closed")
}

// Publish 는 지정된 토픽에 이벤트를 발행하고 전달 보고서를 기다린다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("eventbus: marshal event: %w", err)
	}

	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("eventbus: produce to %s: %w", topic, err)
	}

	select {
	case ev := <-deliveryChan:
		m, ok := ev.(*kafka.Message)
		if !ok {
			return fmt.Errorf("eventbus: unexpected delivery event %v", ev)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("eventbus: deliver to %s: %w", topic, m.TopicPartition.Error)
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return nil
}

// Subscribe 는 기본 토픽을 구독하고 handler 를 실행한다. 오프셋은 처리 또는
// 재발행이 끝난 뒤에만 커밋한다.
func (k *KafkaEventBus) Subscribe(ctx context.Context, groupID string, topic Topic, handler EventHandler) error {
	c, err := kafka.NewConsumer(&kafka.ConfigMap{
		"bootstrap.servers":             k.Brokers,
		"group.id":                      groupID,
		"auto.offset.reset":             "earliest",
		"enable.auto.commit":            false,
		"partition.assignment.strategy": "range",
	})
	if err != nil {
		return fmt.Errorf("eventbus: create kafka consumer: %w", err)
	}
	defer c.Close()

	if err := c.SubscribeTopics([]string{topic.Base()}, nil); err != nil {
		return fmt.Errorf("eventbus: subscribe %s: %w", topic.Base(), err)
	}
	config.Logger.Infof("eventbus: consumer %s started on %s", groupID, topic.Base())

	for {
		select {
		case <-ctx.Done():
			config.Logger.Info("eventbus: consumer stopping")
			return ctx.Err()
		default:
		}

		msg, err := c.ReadMessage(100 * time.Millisecond)
		if err != nil {
			var kerr kafka.Error
			if errors.As(err, &kerr) {
				if kerr.Code() == kafka.ErrTimedOut {
					continue
				}
				if kerr.IsFatal() {
					return fmt.Errorf("eventbus: consumer fatal: %w", err)
				}
			}
			config.Logger.Errorf("eventbus: read message: %v", err)
			continue
		}

		var evt Event
		if err := json.Unmarshal(msg.Value, &evt); err != nil {
			config.Logger.Errorf("eventbus: bad payload on %s: %v, skipping", *msg.TopicPartition.Topic, err)
			_, _ = c.CommitMessage(msg)
			continue
		}

		if herr := handler(ctx, evt); herr != nil {
			next, maxErr := nextTopic(topic, &evt, herr)
			if errors.Is(maxErr, ErrMaxRetryExceeded) {
				config.Logger.Errorf("eventbus: event %s exhausted retries, sending to %s: %v", evt.ID, next, herr)
			} else {
				config.Logger.Warnf("eventbus: event %s failed, retry %d/%d: %v", evt.ID, evt.Retry, evt.MaxRetry, herr)
			}
			if perr := k.Publish(ctx, next, evt); perr != nil {
				config.Logger.Errorf("eventbus: republish %s to %s: %v, offset not committed", evt.ID, next, perr)
				continue
			}
		}

		if _, err := c.CommitMessage(msg); err != nil {
			config.Logger.Errorf("eventbus: commit offset: %v", err)
		}
	}
}
