package repo_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/model"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

func TestChunkRepoBatchAndList(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(conn)
	docID := testID(t)
	now := timeutil.NowUnix()
	records := []*model.DocumentChunk{
		{DocumentID: docID, ChunkIndex: 1, PageNumber: 2, Text: "second", CharStart: 800, CharEnd: 1500, Ctime: now},
		{DocumentID: docID, ChunkIndex: 0, PageNumber: 1, Text: "first", CharStart: 0, CharEnd: 1000, Ctime: now},
	}
	require.NoError(t, chunks.CreateBatch(context.Background(), records))
	defer chunks.DeleteByDocument(context.Background(), docID)

	listed, err := chunks.ListByDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Len(t, listed, 2)
	require.Equal(t, 0, listed[0].ChunkIndex)
	require.Equal(t, "first", listed[0].Text)
	require.Equal(t, 1, listed[1].ChunkIndex)
	require.Equal(t, 2, listed[1].PageNumber)

	count, err := chunks.CountByDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Equal(t, 2, count)

	require.NoError(t, chunks.DeleteByDocument(context.Background(), docID))
	count, err = chunks.CountByDocument(context.Background(), docID)
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestChunkRepoEmptyBatchIsNoop(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()

	chunks := repo.NewChunkRepo(conn)
	require.NoError(t, chunks.CreateBatch(context.Background(), nil))
}
