package client

import (
	"context"
	"strings"
)

// Chunk is one fragment of a streamed response. A chunk with Err set is
// terminal.
type Chunk struct {
	Text string
	Err  error
}

// Stream is a finite, ordered, non-restartable sequence of chunks. The
// channel is closed after the last chunk.
type Stream struct {
	chunks <-chan Chunk
	err    error
}

// NewStream wraps a chunk channel owned by a producer goroutine.
func NewStream(chunks <-chan Chunk) *Stream {
	return &Stream{chunks: chunks}
}

// TextStream returns a stream holding a single chunk.
func TextStream(text string) *Stream {
	ch := make(chan Chunk, 1)
	ch <- Chunk{Text: text}
	close(ch)
	return &Stream{chunks: ch}
}

// FailedStream returns an empty stream recording why the call could not
// start. Err reports the failure after the (already closed) channel drains.
func FailedStream(err error) *Stream {
	ch := make(chan Chunk)
	close(ch)
	return &Stream{chunks: ch, err: err}
}

// Chunks returns the receive side of the stream.
func (s *Stream) Chunks() <-chan Chunk {
	return s.chunks
}

// Err returns the start-up failure of a stream created by FailedStream.
func (s *Stream) Err() error {
	return s.err
}

// Collect concatenates all chunks in arrival order.
func (s *Stream) Collect(ctx context.Context) (string, error) {
	var b strings.Builder
	for {
		select {
		case <-ctx.Done():
			return b.String(), ctx.Err()
		case chunk, ok := <-s.chunks:
			if !ok {
				return b.String(), s.err
			}
			if chunk.Err != nil {
				return b.String(), chunk.Err
			}
			b.WriteString(chunk.Text)
		}
	}
}

// send delivers a chunk unless ctx is done first.
func send(ctx context.Context, ch chan<- Chunk, chunk Chunk) bool {
	select {
	case ch <- chunk:
		return true
	case <-ctx.Done():
		return false
	}
}
