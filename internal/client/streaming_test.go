package client

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextStream(t *testing.T) {
	got, err := TextStream("hello").Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestFailedStream(t *testing.T) {
	s := FailedStream(errors.New("down"))
	got, err := s.Collect(context.Background())
	assert.Empty(t, got)
	assert.EqualError(t, err, "down")
}

func TestCollectPreservesOrder(t *testing.T) {
	ch := make(chan Chunk, 3)
	ch <- Chunk{Text: "a"}
	ch <- Chunk{Text: "b"}
	ch <- Chunk{Text: "c"}
	close(ch)

	got, err := NewStream(ch).Collect(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc", got)
}

func TestCollectCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStream(make(chan Chunk)).Collect(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
