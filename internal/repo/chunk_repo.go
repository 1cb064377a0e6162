package repo

import (
	"context"
	"database/sql"

	"github.com/didi/gendry/builder"

	"github.com/clauselens/clauselens/internal/model"
	"github.com/clauselens/clauselens/internal/pkg/dbutil"
)

var chunkColumns = []string{"document_id", "chunk_index", "page_number", "text_content", "char_start", "char_end", "ctime"}

type ChunkRepo struct {
	db *sql.DB
}

func NewChunkRepo(db *sql.DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

func (r *ChunkRepo) CreateBatch(ctx context.Context, chunks []*model.DocumentChunk) error {
	if len(chunks) == 0 {
		return nil
	}
	data := make([]map[string]interface{}, 0, len(chunks))
	for _, ch := range chunks {
		data = append(data, map[string]interface{}{
			"document_id":  ch.DocumentID,
			"chunk_index":  ch.ChunkIndex,
			"page_number":  ch.PageNumber,
			"text_content": ch.Text,
			"char_start":   ch.CharStart,
			"char_end":     ch.CharEnd,
			"ctime":        ch.Ctime,
		})
	}
	sqlStr, args, err := builder.BuildInsert("document_chunks", data)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *ChunkRepo) ListByDocument(ctx context.Context, docID string) ([]*model.DocumentChunk, error) {
	where := map[string]interface{}{
		"document_id": docID,
		"_orderby":    "chunk_index asc",
	}
	sqlStr, args, err := builder.BuildSelect("document_chunks", where, chunkColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	chunks := make([]*model.DocumentChunk, 0)
	for rows.Next() {
		var ch model.DocumentChunk
		if err := rows.Scan(&ch.DocumentID, &ch.ChunkIndex, &ch.PageNumber, &ch.Text, &ch.CharStart, &ch.CharEnd, &ch.Ctime); err != nil {
			return nil, err
		}
		chunks = append(chunks, &ch)
	}
	return chunks, rows.Err()
}

// ListByDocuments returns the chunks of every listed document, ordered by
// (document_id, chunk_index).
func (r *ChunkRepo) ListByDocuments(ctx context.Context, docIDs []string) ([]*model.DocumentChunk, error) {
	if len(docIDs) == 0 {
		return []*model.DocumentChunk{}, nil
	}
	ids := make([]interface{}, 0, len(docIDs))
	for _, id := range docIDs {
		ids = append(ids, id)
	}
	where := map[string]interface{}{
		"document_id in": ids,
		"_orderby":       "document_id asc, chunk_index asc",
	}
	sqlStr, args, err := builder.BuildSelect("document_chunks", where, chunkColumns)
	if err != nil {
		return nil, err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	rows, err := r.db.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	chunks := make([]*model.DocumentChunk, 0)
	for rows.Next() {
		var ch model.DocumentChunk
		if err := rows.Scan(&ch.DocumentID, &ch.ChunkIndex, &ch.PageNumber, &ch.Text, &ch.CharStart, &ch.CharEnd, &ch.Ctime); err != nil {
			return nil, err
		}
		chunks = append(chunks, &ch)
	}
	return chunks, rows.Err()
}

func (r *ChunkRepo) CountByDocument(ctx context.Context, docID string) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM document_chunks WHERE document_id = $1", docID)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChunkRepo) Count(ctx context.Context) (int, error) {
	row := r.db.QueryRowContext(ctx, "SELECT COUNT(1) FROM document_chunks")
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *ChunkRepo) DeleteByDocument(ctx context.Context, docID string) error {
	where := map[string]interface{}{
		"document_id": docID,
	}
	sqlStr, args, err := builder.BuildDelete("document_chunks", where)
	if err != nil {
		return err
	}
	sqlStr, args = dbutil.Finalize(sqlStr, args)
	_, err = r.db.ExecContext(ctx, sqlStr, args...)
	return err
}
