package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return w.err
}

func (w *fakeWriter) Close() error { return nil }

func TestProducerPublishEncodesJSON(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "snappy")

	err := p.Publish(context.Background(), "results", []byte("TSLA"),
		map[string]interface{}{"symbol": "TSLA"},
		kafka.Header{Key: RunIDHeader, Value: []byte("r1")})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, "results", w.msgs[0].Topic)
	assert.Equal(t, "TSLA", string(w.msgs[0].Key))
	assert.JSONEq(t, `{"symbol":"TSLA"}`, string(w.msgs[0].Value))
	assert.Equal(t, "r1", HeaderValue(w.msgs[0], RunIDHeader))
}

func TestProducerPublishError(t *testing.T) {
	p := newProducer(&fakeWriter{err: errors.New("leader not available")}, "gzip")
	err := p.Publish(context.Background(), "results", nil, "raw")
	assert.ErrorContains(t, err, "publish to results")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer()
	assert.Error(t, err)
	assert.Equal(t, kafka.Zstd, parseCompression("zstd"))
	assert.Equal(t, kafka.Snappy, parseCompression(""))
}
