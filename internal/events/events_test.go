package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/dayboard/dayboard/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func TestRedisPublisher_DeliversToSubscriber(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sub := client.Subscribe(ctx, "test:events")
	defer sub.Close()
	// wait for the subscription confirmation before publishing
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	pub := NewRedisPublisher(client, "test:events")
	require.Equal(t, "test:events", pub.Channel())
	require.NoError(t, pub.Ping(ctx))

	ev := New(ViewRecorded, "hello-world", map[string]interface{}{"count": 3})
	require.NoError(t, pub.Publish(ctx, ev))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)
	require.Equal(t, "test:events", msg.Channel)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	require.Equal(t, ev.ID, got.ID)
	require.Equal(t, ViewRecorded, got.Type)
	require.Equal(t, "hello-world", got.Key)
	require.True(t, ev.At.Equal(got.At))
	require.Equal(t, map[string]interface{}{"count": float64(3)}, got.Data)
}

func TestRedisPublisher_DefaultChannel(t *testing.T) {
	p := NewRedisPublisher(nil, "")
	require.Equal(t, "dayboard:events", p.Channel())
}

func TestRedisPublisher_ErrorWhenServerGone(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	client := redis.NewClient(&redis.Options{Addr: m.Addr(), MaxRetries: -1})
	defer client.Close()
	m.Close()

	err = NewRedisPublisher(client, "x").Publish(context.Background(), New(MessagesCleared, "1_1_2027", nil))
	require.Error(t, err)
}

func TestEmit_CountsOutcome(t *testing.T) {
	ok := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("ok"))
	failed := testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("error"))

	p := NewMemoryPublisher()
	Emit(context.Background(), p, New(MessageCreated, "19_10_2026", nil))
	require.Equal(t, []Type{MessageCreated}, p.Types())
	require.Equal(t, ok+1, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("ok")))

	p.FailWith(errors.New("broker down"))
	Emit(context.Background(), p, New(MessageDeleted, "19_10_2026", nil))
	require.Len(t, p.Events(), 1)
	require.Equal(t, failed+1, testutil.ToFloat64(metrics.EventsPublished.WithLabelValues("error")))

	// nil publisher is a no-op
	Emit(context.Background(), nil, New(MessageDeleted, "19_10_2026", nil))
	require.NoError(t, NopPublisher{}.Publish(context.Background(), Event{}))
}
