package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewChunkerRejectsBadConfig(t *testing.T) {
	_, err := NewChunker(0, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewChunker(-5, 0)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewChunker(1000, 1200)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewChunker(1000, 1000)
	require.ErrorIs(t, err, ErrInvalidConfig)

	_, err = NewChunker(1000, -1)
	require.ErrorIs(t, err, ErrInvalidConfig)
}

func TestChunkEmptyInput(t *testing.T) {
	chunker, err := NewChunker(1000, 200)
	require.NoError(t, err)

	chunks := chunker.Chunk(nil)
	require.NotNil(t, chunks)
	require.Empty(t, chunks)

	chunks = chunker.Chunk([]Page{})
	require.Empty(t, chunks)
}

func TestChunkExactWindowWalk(t *testing.T) {
	chunker, err := NewChunker(1000, 200)
	require.NoError(t, err)

	chunks := chunker.Chunk([]Page{{Number: 1, Text: strings.Repeat("A", 1500)}})
	require.Len(t, chunks, 2)

	require.Equal(t, 0, chunks[0].Index)
	require.Equal(t, 0, chunks[0].CharStart)
	require.Equal(t, 1000, chunks[0].CharEnd)
	require.Equal(t, 1, chunks[0].PageNumber)

	require.Equal(t, 1, chunks[1].Index)
	require.Equal(t, 800, chunks[1].CharStart)
	require.Equal(t, 1500, chunks[1].CharEnd)
}

func TestChunkIndexesContiguousAndOverlapExact(t *testing.T) {
	chunker, err := NewChunker(200, 40)
	require.NoError(t, err)

	text := strings.Repeat("lorem ipsum dolor sit amet, consectetur adipiscing elit. ", 40)
	chunks := chunker.Chunk([]Page{{Number: 1, Text: text}})
	require.NotEmpty(t, chunks)

	for i, ch := range chunks {
		require.Equal(t, i, ch.Index)
		require.Equal(t, ch.Text, text[ch.CharStart:ch.CharEnd])
		if i > 0 {
			require.Equal(t, 40, chunks[i-1].CharEnd-ch.CharStart)
		}
	}
}

func TestChunkPrefersSentenceBoundary(t *testing.T) {
	chunker, err := NewChunker(100, 20)
	require.NoError(t, err)

	first := strings.Repeat("a", 60) + ". "
	text := first + strings.Repeat("b", 200)
	chunks := chunker.Chunk([]Page{{Number: 1, Text: text}})
	require.True(t, len(chunks) >= 2)
	// cut lands just past ". " instead of at the nominal offset 100
	require.Equal(t, len(first), chunks[0].CharEnd)
}

func TestChunkPageAttribution(t *testing.T) {
	chunker, err := NewChunker(50, 10)
	require.NoError(t, err)

	pages := []Page{
		{Number: 1, Text: strings.Repeat("x", 40)},
		{Number: 2, Text: strings.Repeat("y", 80)},
	}
	chunks := chunker.Chunk(pages)
	require.NotEmpty(t, chunks)
	require.Equal(t, 1, chunks[0].PageNumber)
	last := chunks[len(chunks)-1]
	require.Equal(t, 2, last.PageNumber)
}

func TestChunkRoundTrip(t *testing.T) {
	chunker, err := NewChunker(120, 30)
	require.NoError(t, err)

	text := strings.Repeat("The parties agree to the following terms. Payment is due in thirty days.\n", 25)
	pages := []Page{
		{Number: 1, Text: text[:400]},
		{Number: 2, Text: text[400:900]},
		{Number: 3, Text: text[900:]},
	}
	chunks := chunker.Chunk(pages)
	require.NotEmpty(t, chunks)

	joined, _ := joinPages(pages)
	require.Equal(t, joined, Reassemble(chunks))
}

func TestChunkDeterministic(t *testing.T) {
	chunker, err := NewChunker(150, 30)
	require.NoError(t, err)

	pages := []Page{{Number: 1, Text: strings.Repeat("Some clause text ends here. ", 30)}}
	first := chunker.Chunk(pages)
	second := chunker.Chunk(pages)
	require.Equal(t, first, second)
}
