package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/clauselens/clauselens/internal/config"
	"github.com/clauselens/clauselens/internal/db"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

func openTestDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	host := os.Getenv("TEST_DB_HOST")
	if host == "" {
		t.Skip("TEST_DB_HOST not set, skipping postgres test")
	}
	conn, err := db.Open(config.DatabaseConfig{
		Host:     host,
		Port:     5432,
		User:     "clauselens",
		Password: "clauselens_pass",
		DBName:   "clauselens_test",
		SSLMode:  "disable",
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(conn); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return conn, func() {
		_ = conn.Close()
	}
}

func testID(t *testing.T) string {
	t.Helper()
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		t.Fatalf("rand: %v", err)
	}
	return hex.EncodeToString(bytes)
}

func TestExtractRejectsDeletedDocument(t *testing.T) {
	conn, cleanup := openTestDB(t)
	defer cleanup()
	ctx := context.Background()

	docs := repo.NewDocumentRepo(conn)
	chunks := repo.NewChunkRepo(conn)
	extractions := repo.NewExtractionRepo(conn)
	svc := NewExtractionService(docs, chunks, extractions, extract.NewFieldExtractor(), 16, time.Hour)

	docID := testID(t)
	now := timeutil.NowUnix()
	require.NoError(t, docs.Create(ctx, &model.Document{
		ID:       docID,
		Filename: "contract.pdf",
		FileKey:  docID + "_contract.pdf",
		FileSize: 512,
		MimeType: "application/pdf",
		NumPages: 1,
		State:    repo.DocumentStateNormal,
		Ctime:    now,
		Mtime:    now,
	}))
	text := "This Agreement is governed by the laws of the State of Delaware."
	require.NoError(t, chunks.CreateBatch(ctx, []*model.DocumentChunk{{
		DocumentID: docID,
		ChunkIndex: 0,
		PageNumber: 1,
		Text:       text,
		CharStart:  0,
		CharEnd:    len(text),
		Ctime:      now,
	}}))

	_, err := svc.Extract(ctx, docID)
	require.NoError(t, err)

	// The entry stays in the cache and the row in the DB. Neither may be
	// served once the document itself is gone.
	require.NoError(t, docs.SoftDelete(ctx, docID, timeutil.NowUnix()))
	_, err = svc.Extract(ctx, docID)
	require.ErrorIs(t, err, appErr.ErrNotFound)
}
