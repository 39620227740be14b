package broker

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
)

const reviewChannel = "reviews:created"

// RedisReviewEvents implements ReviewEvents over Redis pub/sub.
type RedisReviewEvents struct {
	client *redis.Client
	pubsub *redis.PubSub
	ctx    context.Context
}

func NewRedisReviewEvents(redisURL string) (*RedisReviewEvents, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opt)

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &RedisReviewEvents{
		client: client,
		ctx:    ctx,
	}, nil
}

func (r *RedisReviewEvents) Publish(event ReviewEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return r.client.Publish(r.ctx, reviewChannel, data).Err()
}

func (r *RedisReviewEvents) Subscribe() (<-chan ReviewEvent, error) {
	r.pubsub = r.client.Subscribe(r.ctx, reviewChannel)

	events := make(chan ReviewEvent, 100)

	go func() {
		defer close(events)

		for msg := range r.pubsub.Channel() {
			var event ReviewEvent

			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}

			events <- event
		}
	}()

	return events, nil
}

func (r *RedisReviewEvents) Close() error {
	if r.pubsub != nil {
		r.pubsub.Close()
	}
	return r.client.Close()
}
