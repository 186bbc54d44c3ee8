package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessagesAreKeyedByRecord(t *testing.T) {
	messages, err := Messages(
		Event{Type: TypePublished, Kind: "product", RemoteID: "42", LocalID: "abc"},
		Event{Type: TypeSyncCompleted, RunID: "run-1", Generation: 3},
	)
	require.NoError(t, err)
	require.Len(t, messages, 2)

	assert.Equal(t, "product:42", string(messages[0].Key))
	assert.Equal(t, TypeSyncCompleted, string(messages[1].Key))

	var decoded Event
	require.NoError(t, json.Unmarshal(messages[1].Value, &decoded))
	assert.Equal(t, "run-1", decoded.RunID)
	assert.EqualValues(t, 3, decoded.Generation)
	assert.False(t, decoded.Timestamp.IsZero())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	require.NoError(t, r.Publish(context.Background(),
		Event{Type: TypePublished}, Event{Type: TypeUnpublished}, Event{Type: TypePublished}))

	assert.Len(t, r.Events(), 3)
	assert.Len(t, r.OfType(TypePublished), 2)
	assert.NoError(t, NopPublisher{}.Publish(context.Background(), Event{Type: TypeSyncFailed}))
}

func TestAsyncPublisherReportsDeliveryFailures(t *testing.T) {
	var reported []int
	p := NewKafkaPublisher([]string{"localhost:9092"}, "catalog-events",
		Async(func(err error, count int) { reported = append(reported, count) }))

	assert.True(t, p.writer.Async)
	require.NotNil(t, p.writer.Completion)

	msgs, err := Messages(Event{Type: TypePublished}, Event{Type: TypeUnpublished})
	require.NoError(t, err)
	p.writer.Completion(msgs, nil)
	p.writer.Completion(msgs, errors.New("broker unavailable"))
	assert.Equal(t, []int{2}, reported)

	direct := NewKafkaPublisher([]string{"localhost:9092"}, "catalog-sync-requests")
	assert.False(t, direct.writer.Async)
}
