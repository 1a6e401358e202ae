package input

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleReadLine(t *testing.T) {
	c := NewConsole(strings.NewReader("first\r\nsecond\nlast"))
	defer c.Close()
	ctx := context.Background()

	for _, want := range []string{"first", "second", "last"} {
		got, err := c.ReadLine(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := c.ReadLine(ctx)
	assert.ErrorIs(t, err, io.EOF)
}

func TestConsoleReadLineInterrupted(t *testing.T) {
	pr, pw := io.Pipe()
	defer pw.Close()
	c := NewConsole(pr)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.ReadLine(ctx)
	assert.ErrorIs(t, err, ErrInterrupted)

	// The abandoned read is picked up by the next call.
	go func() { _, _ = pw.Write([]byte("late\n")) }()
	got, err := c.ReadLine(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "late", got)
}
