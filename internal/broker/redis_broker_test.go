package broker

import (
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestBroker(t *testing.T) *RedisReviewEvents {
	mr := miniredis.RunT(t)

	events, err := NewRedisReviewEvents(fmt.Sprintf("redis://%s", mr.Addr()))
	require.NoError(t, err)
	t.Cleanup(func() { events.Close() })

	return events
}

func TestRedisReviewEvents_PublishSubscribe(t *testing.T) {
	events := setupTestBroker(t)

	ch, err := events.Subscribe()
	require.NoError(t, err)

	// miniredis delivers to subscribers registered before the publish;
	// give the subscription goroutine a moment to attach.
	time.Sleep(50 * time.Millisecond)

	sent := ReviewEvent{
		ReviewID:  42,
		TitleID:   7,
		TitleName: "Solaris",
		Author:    "alice",
		Score:     9,
		Timestamp: time.Now().Format(time.RFC3339),
	}
	require.NoError(t, events.Publish(sent))

	select {
	case got := <-ch:
		assert.Equal(t, sent.ReviewID, got.ReviewID)
		assert.Equal(t, sent.TitleName, got.TitleName)
		assert.Equal(t, sent.Author, got.Author)
		assert.Equal(t, sent.Score, got.Score)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for review event")
	}
}

func TestRedisReviewEvents_BadURL(t *testing.T) {
	_, err := NewRedisReviewEvents("not-a-redis-url")
	assert.Error(t, err)
}
