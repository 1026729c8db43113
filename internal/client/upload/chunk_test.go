package upload

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitChunks_RoundTrip(t *testing.T) {
	payload := make([]byte, 1000)
	for i := range payload {
		payload[i] = byte(i)
	}

	chunks := SplitChunks(payload, 64)
	require.Len(t, chunks, 16) // ceil(1000/64)

	for i, chunk := range chunks[:len(chunks)-1] {
		assert.Len(t, chunk, 64, "chunk %d", i)
	}
	assert.Len(t, chunks[len(chunks)-1], 1000%64)

	assert.Equal(t, payload, bytes.Join(chunks, nil))
}

func TestSplitChunks_ExactMultiple(t *testing.T) {
	payload := make([]byte, 256)

	chunks := SplitChunks(payload, 64)
	require.Len(t, chunks, 4)
	for _, chunk := range chunks {
		assert.Len(t, chunk, 64)
	}
}

func TestSplitChunks_EmptyPayload(t *testing.T) {
	assert.Empty(t, SplitChunks(nil, 64))
	assert.Empty(t, SplitChunks([]byte{}, 64))
}

func TestSplitChunks_SmallerThanChunk(t *testing.T) {
	chunks := SplitChunks([]byte{1, 2, 3}, 64)
	require.Len(t, chunks, 1)
	assert.Equal(t, []byte{1, 2, 3}, chunks[0])
}

func TestSplitChunks_TwelveMiBDefaultChunking(t *testing.T) {
	const fiveMiB = 5 * 1024 * 1024
	payload := make([]byte, 12*1024*1024)

	chunks := SplitChunks(payload, DefaultChunkSize)
	require.Len(t, chunks, 2)

	total := 0
	for _, chunk := range chunks {
		assert.GreaterOrEqual(t, len(chunk), fiveMiB)
		total += len(chunk)
	}
	assert.Equal(t, len(payload), total)
}
