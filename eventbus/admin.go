package eventbus

import (
	"context"
	"fmt"
	"time"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
)

// EnsureTopics 는 기본 토픽과 DLQ 토픽을 생성한다.
// 이미 존재하는 토픽은 성공으로 간주한다.
func EnsureTopics(brokers string, topic Topic, basePartitions int) error {
	admin, err := kafka.NewAdminClient(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
	})
	if err != nil {
		return fmt.Errorf("eventbus: create admin client: %w", err)
	}
	defer admin.Close()

	specs := []kafka.TopicSpecification{
		{Topic: topic.Base(), NumPartitions: basePartitions, ReplicationFactor: 1},
		{Topic: topic.DLQ(), NumPartitions: 1, ReplicationFactor: 1},
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	results, err := admin.CreateTopics(ctx, specs)
	if err != nil {
		return fmt.Errorf("eventbus: create topics: %w", err)
	}
	for _, r := range results {
		code := r.Error.Code()
		if code != kafka.ErrNoError && code != kafka.ErrTopicAlreadyExists {
			return fmt.Errorf("eventbus: create topic %s: %v", r.Topic, r.Error)
		}
	}
	return nil
}
