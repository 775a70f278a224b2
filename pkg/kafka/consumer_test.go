package kafka

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeReader struct {
	msgs      chan kafka.Message
	mu        sync.Mutex
	committed []int64
	closed    bool
}

func newFakeReader(msgs ...kafka.Message) *fakeReader {
	r := &fakeReader{msgs: make(chan kafka.Message, len(msgs))}
	for _, m := range msgs {
		r.msgs <- m
	}
	return r
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	select {
	case m := <-r.msgs:
		return m, nil
	case <-ctx.Done():
		return kafka.Message{}, ctx.Err()
	}
}

func (r *fakeReader) CommitMessages(_ context.Context, msgs ...kafka.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	r.closed = true
	r.mu.Unlock()
	return nil
}

func (r *fakeReader) commits() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]int64(nil), r.committed...)
}

type recordingHandler struct {
	mu     sync.Mutex
	seen   []string
	runIDs []string
	fail   map[string]int
}

func (h *recordingHandler) Topic() string { return "requests" }

func (h *recordingHandler) Handle(ctx context.Context, b []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seen = append(h.seen, string(b))
	h.runIDs = append(h.runIDs, RunIDFrom(ctx))
	if h.fail[string(b)] > 0 {
		h.fail[string(b)]--
		return errors.New("transient")
	}
	return nil
}

func (h *recordingHandler) count(v string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, s := range h.seen {
		if s == v {
			n++
		}
	}
	return n
}

func newTestConsumer(t *testing.T, r *fakeReader, retries int) *Consumer {
	t.Helper()
	c, err := NewConsumer(
		WithConsumerBrokers([]string{"localhost:9092"}),
		WithConsumerRetry(retries, time.Millisecond, 2*time.Millisecond),
		WithConsumerWorkers(2),
		func(cfg *ConsumerConfig) { cfg.newReader = func(string) messageReader { return r } },
	)
	require.NoError(t, err)
	return c
}

func TestConsumerHandlesAndCommits(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Offset: 1, Value: []byte("a"), Headers: []kafka.Header{{Key: RunIDHeader, Value: []byte("run-a")}}},
		kafka.Message{Offset: 2, Value: []byte("b")},
	)
	h := &recordingHandler{fail: map[string]int{"b": 1}}
	c := newTestConsumer(t, r, 3)
	c.RegisterHandler(h)
	c.WithConsumerHook(RunIDHook())
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	assert.ElementsMatch(t, []int64{1, 2}, r.commits())
	assert.Equal(t, 1, h.count("a"))
	assert.Equal(t, 2, h.count("b"), "one retry after the transient failure")
	assert.Contains(t, h.runIDs, "run-a")
	assert.True(t, r.closed)
}

func TestConsumerCommitsPoisonMessage(t *testing.T) {
	r := newFakeReader(kafka.Message{Offset: 7, Value: []byte("bad")})
	h := &recordingHandler{fail: map[string]int{"bad": 100}}
	c := newTestConsumer(t, r, 2)
	c.RegisterHandler(h)

	var failed sync.WaitGroup
	failed.Add(1)
	c.WithConsumerHook(HookFuncs{Err: func(context.Context, string, kafka.Message, []byte, error) { failed.Done() }})
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	failed.Wait()
	require.NoError(t, c.Stop(context.Background()))
	assert.Equal(t, 3, h.count("bad"))
}

type panicHandler struct{ calls int32 }

func (h *panicHandler) Topic() string { return "requests" }

func (h *panicHandler) Handle(context.Context, []byte) error {
	atomic.AddInt32(&h.calls, 1)
	panic("handler bug")
}

func TestConsumerCommitsAfterPanic(t *testing.T) {
	r := newFakeReader(
		kafka.Message{Offset: 11, Value: []byte("boom")},
		kafka.Message{Offset: 12, Value: []byte("boom")},
	)
	h := &panicHandler{}
	c := newTestConsumer(t, r, 2)
	c.RegisterHandler(h)
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return len(r.commits()) == 2 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))

	assert.ElementsMatch(t, []int64{11, 12}, r.commits())
	assert.Equal(t, int32(2), atomic.LoadInt32(&h.calls), "a panic is not retried")
}

func TestConsumerSkipHook(t *testing.T) {
	r := newFakeReader(kafka.Message{Offset: 3, Value: []byte("noise")})
	h := &recordingHandler{}
	c := newTestConsumer(t, r, 0)
	c.RegisterHandler(h)
	c.WithConsumerHook(HookFuncs{Before: func(ctx context.Context, _ string, km kafka.Message, b []byte) (context.Context, kafka.Message, []byte, error) {
		return ctx, km, b, ErrSkip
	}})
	require.NoError(t, c.Start())

	require.Eventually(t, func() bool { return len(r.commits()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, c.Stop(context.Background()))
	assert.Zero(t, h.count("noise"))
}

func TestConsumerRequiresBrokersAndHandlers(t *testing.T) {
	_, err := NewConsumer()
	assert.Error(t, err)

	c, err := NewConsumer(WithConsumerBrokers([]string{"k:9092"}))
	require.NoError(t, err)
	assert.Error(t, c.Start())
	assert.NoError(t, c.Stop(context.Background()))
}

func TestBackoffWithJitter(t *testing.T) {
	for attempt := 1; attempt < 40; attempt++ {
		d := backoffWithJitter(10*time.Millisecond, 100*time.Millisecond, attempt)
		assert.Greater(t, d, time.Duration(0))
		assert.LessOrEqual(t, d, 100*time.Millisecond)
	}
}
