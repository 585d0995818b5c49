package kafka_middleware

import (
	"context"
	"errors"
	"testing"

	"roombook/pkg/kafka"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_CountsOutcomes(t *testing.T) {
	m := NewMetrics()
	publish := m.ProducerMiddleware()
	consume := m.ConsumerMiddleware()
	msg := kafka.NewMessage().WithKey("k").WithRawValue([]byte("v")).Build()

	ok := func(context.Context, kafka.Message) error { return nil }
	fail := func(context.Context, kafka.Message) error { return errors.New("boom") }

	assert.NoError(t, publish(context.Background(), msg, ok))
	assert.NoError(t, publish(context.Background(), msg, ok))
	assert.Error(t, publish(context.Background(), msg, fail))
	assert.Error(t, consume(context.Background(), msg, fail))

	s := m.Snapshot()
	assert.Equal(t, int64(2), s.Published)
	assert.Equal(t, int64(1), s.PublishFailed)
	assert.Equal(t, int64(0), s.Consumed)
	assert.Equal(t, int64(1), s.ConsumeFailed)
	assert.Len(t, s.LogArgs(), 12)
}
