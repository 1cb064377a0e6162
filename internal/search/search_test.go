package search

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/model"
)

func mkChunk(idx int, text string) *model.DocumentChunk {
	return &model.DocumentChunk{DocumentID: "doc1", ChunkIndex: idx, Text: text}
}

func TestTopKRanksByOverlap(t *testing.T) {
	chunks := []*model.DocumentChunk{
		mkChunk(0, "This agreement covers the payment terms for each invoice."),
		mkChunk(1, "Termination may occur with thirty days notice."),
		mkChunk(2, "Payment is due within 30 days of the invoice date. Late payment accrues interest."),
	}
	hits := TopK("What are the payment terms for the invoice?", chunks, 5)
	require.Len(t, hits, 2)
	require.Equal(t, 0, hits[0].Chunk.ChunkIndex)
	require.Equal(t, 2, hits[1].Chunk.ChunkIndex)
	require.Greater(t, hits[0].Score, hits[1].Score)
}

func TestTopKLimitsResults(t *testing.T) {
	chunks := []*model.DocumentChunk{
		mkChunk(0, "liability cap"),
		mkChunk(1, "liability limit"),
		mkChunk(2, "liability exposure"),
	}
	hits := TopK("liability", chunks, 2)
	require.Len(t, hits, 2)
}

func TestTopKNoMatches(t *testing.T) {
	chunks := []*model.DocumentChunk{mkChunk(0, "confidentiality obligations survive")}
	require.Empty(t, TopK("zebra giraffe", chunks, 5))
}

func TestTopKIgnoresShortAndEmptyWords(t *testing.T) {
	chunks := []*model.DocumentChunk{mkChunk(0, "is an of to")}
	require.Empty(t, TopK("is an of to", chunks, 5))
	require.Empty(t, TopK("   ", chunks, 5))
}

func TestTopKCaseInsensitive(t *testing.T) {
	chunks := []*model.DocumentChunk{mkChunk(0, "GOVERNING LAW: State of California")}
	hits := TopK("governing law", chunks, 5)
	require.Len(t, hits, 1)
	require.Equal(t, 2, hits[0].Score)
}
