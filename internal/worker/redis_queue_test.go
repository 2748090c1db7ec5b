package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"barter-auth/internal/domain"
)

type mockRedisLister struct {
	pushedKey string
	pushed    []interface{}
	pushErr   error

	replies []brpopReply
}

type brpopReply struct {
	val []string
	err error
}

func (m *mockRedisLister) LPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	m.pushedKey = key
	m.pushed = append(m.pushed, values...)
	cmd := redis.NewIntCmd(ctx)
	if m.pushErr != nil {
		cmd.SetErr(m.pushErr)
		return cmd
	}
	cmd.SetVal(int64(len(m.pushed)))
	return cmd
}

func (m *mockRedisLister) BRPop(ctx context.Context, _ time.Duration, _ ...string) *redis.StringSliceCmd {
	cmd := redis.NewStringSliceCmd(ctx)
	if len(m.replies) == 0 {
		cmd.SetErr(redis.Nil)
		return cmd
	}
	next := m.replies[0]
	m.replies = m.replies[1:]
	if next.err != nil {
		cmd.SetErr(next.err)
		return cmd
	}
	cmd.SetVal(next.val)
	return cmd
}

func TestRedisQueueEnqueue(t *testing.T) {
	mock := &mockRedisLister{}
	q := &RedisQueue{client: mock, key: "auth:tasks", pollTimeout: time.Millisecond}

	task := Task{ID: "t-1", Kind: KindNotification, Notification: &domain.Notification{ID: "n-1", Message: "hi"}}
	require.NoError(t, q.Enqueue(context.Background(), task))

	require.Equal(t, "auth:tasks", mock.pushedKey)
	require.Len(t, mock.pushed, 1)
	payload, ok := mock.pushed[0].([]byte)
	require.True(t, ok)

	var decoded Task
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, task.ID, decoded.ID)
	assert.Equal(t, "hi", decoded.Notification.Message)

	mock.pushErr = errors.New("redis down")
	require.EqualError(t, q.Enqueue(context.Background(), task), "redis down")
}

func TestRedisQueueDequeue(t *testing.T) {
	raw, err := json.Marshal(Task{ID: "t-2", Kind: KindVerificationEmail, Verification: &domain.VerificationEmail{AccountID: "acc-1"}})
	require.NoError(t, err)

	mock := &mockRedisLister{replies: []brpopReply{
		{err: redis.Nil},
		{val: []string{"auth:tasks", string(raw)}},
	}}
	q := &RedisQueue{client: mock, key: "auth:tasks", pollTimeout: time.Millisecond}

	task, err := q.Dequeue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "t-2", task.ID)
	assert.Equal(t, "acc-1", task.Verification.AccountID)
}

func TestRedisQueueDequeueErrors(t *testing.T) {
	t.Run("bad payload", func(t *testing.T) {
		mock := &mockRedisLister{replies: []brpopReply{{val: []string{"auth:tasks", "{not json"}}}}
		q := &RedisQueue{client: mock, key: "auth:tasks", pollTimeout: time.Millisecond}
		_, err := q.Dequeue(context.Background())
		require.Error(t, err)
	})

	t.Run("driver error", func(t *testing.T) {
		mock := &mockRedisLister{replies: []brpopReply{{err: errors.New("connection refused")}}}
		q := &RedisQueue{client: mock, key: "auth:tasks", pollTimeout: time.Millisecond}
		_, err := q.Dequeue(context.Background())
		require.EqualError(t, err, "connection refused")
	})

	t.Run("canceled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		q := &RedisQueue{client: &mockRedisLister{}, key: "auth:tasks", pollTimeout: time.Millisecond}
		_, err := q.Dequeue(ctx)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestNewRedisQueueDefaultKey(t *testing.T) {
	q := NewRedisQueue(nil, "")
	assert.Equal(t, defaultRedisQueueKey, q.key)
}
