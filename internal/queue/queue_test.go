package queue

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMessage(t *testing.T) {
	msg, err := NewMessage(TypeAttendanceUpdated, map[string]string{"student_id": "a"})
	require.NoError(t, err)
	assert.Equal(t, TypeAttendanceUpdated, msg.Type)
	assert.JSONEq(t, `{"student_id":"a"}`, string(msg.Body))
	assert.False(t, msg.PublishedAt.IsZero())
}

func TestInMemory_PublishConsume(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewInMemory(4)
	out, err := q.Consume(ctx)
	require.NoError(t, err)

	require.NoError(t, q.Publish(ctx, Message{Type: "a"}))
	require.NoError(t, q.Publish(ctx, Message{Type: "b"}))

	assert.Equal(t, "a", (<-out).Type)
	assert.Equal(t, "b", (<-out).Type)

	cancel()
	select {
	case _, ok := <-out:
		assert.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("consumer did not stop")
	}
}

func TestInMemory_FullDropsMessage(t *testing.T) {
	q := NewInMemory(1)
	ctx := context.Background()

	require.NoError(t, q.Publish(ctx, Message{Type: "a"}))
	assert.ErrorIs(t, q.Publish(ctx, Message{Type: "b"}), ErrFull)
}

func TestInMemory_PublishCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, NewInMemory(1).Publish(ctx, Message{}), context.Canceled)
}

func TestRedisQueue_Publish(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, "feed")

	msg := Message{Type: TypeAttendanceUpdated, Body: json.RawMessage(`{"x":1}`), PublishedAt: time.Date(2025, 5, 27, 10, 0, 0, 0, time.UTC)}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectLPush("feed", raw).SetVal(1)
	require.NoError(t, q.Publish(context.Background(), msg))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisQueue_Consume(t *testing.T) {
	client, mock := redismock.NewClientMock()
	q := NewRedisQueue(client, "")

	msg := Message{Type: TypeAttendanceUpdated, Body: json.RawMessage(`{"x":1}`), PublishedAt: time.Date(2025, 5, 27, 10, 0, 0, 0, time.UTC)}
	raw, err := json.Marshal(msg)
	require.NoError(t, err)

	mock.ExpectBRPop(5*time.Second, "rollbook:attendance").SetVal([]string{"rollbook:attendance", string(raw)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out, err := q.Consume(ctx)
	require.NoError(t, err)

	select {
	case got := <-out:
		assert.Equal(t, msg.Type, got.Type)
		assert.JSONEq(t, `{"x":1}`, string(got.Body))
		assert.True(t, msg.PublishedAt.Equal(got.PublishedAt))
	case <-time.After(2 * time.Second):
		t.Fatal("no message consumed")
	}

	cancel()
	for range out {
	}
}
