package publish

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopsync/internal/events"
	"shopsync/internal/logger"
	"shopsync/internal/models"
)

type versionLog struct {
	writes []int
	err    error
}

func (v *versionLog) SetPublishedVersion(_ context.Context, _ models.Entity, version int) error {
	if v.err != nil {
		return v.err
	}
	v.writes = append(v.writes, version)
	return nil
}

func newProduct(version int) *models.Product {
	p := &models.Product{Title: "Shirt"}
	p.ID = "local-1"
	p.RemoteID = "42"
	p.Version = version
	return p
}

func TestPublishIsIdempotent(t *testing.T) {
	store := &versionLog{}
	recorder := &events.Recorder{}
	gate := NewGate(store, recorder, logger.NewWithWriter("error", io.Discard))

	p := newProduct(3)
	assert.False(t, gate.IsPublished(p))

	published, err := gate.Publish(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, published)
	assert.True(t, gate.IsPublished(p))

	published, err = gate.Publish(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, published)

	assert.Equal(t, []int{3}, store.writes)
	require.Len(t, recorder.OfType(events.TypePublished), 1)
	assert.Equal(t, "product:42", recorder.Events()[0].Key())
}

func TestNewVersionNeedsPublishing(t *testing.T) {
	gate := NewGate(&versionLog{}, nil, logger.NewWithWriter("error", io.Discard))

	p := newProduct(1)
	p.PublishedVersion = 1
	assert.True(t, gate.IsPublished(p))

	p.Touch()
	assert.False(t, gate.IsPublished(p))
}

func TestUnpublish(t *testing.T) {
	store := &versionLog{}
	recorder := &events.Recorder{}
	gate := NewGate(store, recorder, logger.NewWithWriter("error", io.Discard))

	p := newProduct(2)
	p.PublishedVersion = 2

	unpublished, err := gate.Unpublish(context.Background(), p)
	require.NoError(t, err)
	assert.True(t, unpublished)
	assert.Zero(t, p.PublishedVersion)

	unpublished, err = gate.Unpublish(context.Background(), p)
	require.NoError(t, err)
	assert.False(t, unpublished)

	assert.Equal(t, []int{0}, store.writes)
	assert.Len(t, recorder.OfType(events.TypeUnpublished), 1)
}

func TestPublishFailureLeavesEntityUnpublished(t *testing.T) {
	gate := NewGate(&versionLog{err: errors.New("db down")}, nil, logger.NewWithWriter("error", io.Discard))

	p := newProduct(1)
	_, err := gate.Publish(context.Background(), p)
	assert.Error(t, err)
	assert.False(t, gate.IsPublished(p))
}
