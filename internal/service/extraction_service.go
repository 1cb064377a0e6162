package service

import (
	"context"
	"errors"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

// ExtractionResult flattens the stored fields next to the document id.
type ExtractionResult struct {
	DocumentID string `json:"document_id"`
	extract.Fields
}

type ExtractionService struct {
	docs        *repo.DocumentRepo
	chunks      *repo.ChunkRepo
	extractions *repo.ExtractionRepo
	extractor   *extract.FieldExtractor
	cache       *expirable.LRU[string, *model.Extraction]
}

func NewExtractionService(docs *repo.DocumentRepo, chunks *repo.ChunkRepo, extractions *repo.ExtractionRepo, extractor *extract.FieldExtractor, cacheSize int, cacheTTL time.Duration) *ExtractionService {
	return &ExtractionService{
		docs:        docs,
		chunks:      chunks,
		extractions: extractions,
		extractor:   extractor,
		cache:       expirable.NewLRU[string, *model.Extraction](cacheSize, nil, cacheTTL),
	}
}

// Extract returns the structured fields for a document. The document must
// still exist; past that check, results are cached in memory and persisted,
// and a stored record is served as-is even if the document was re-ingested
// since.
func (s *ExtractionService) Extract(ctx context.Context, docID string) (*ExtractionResult, error) {
	if _, err := s.docs.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	if rec, ok := s.cache.Get(docID); ok {
		return toResult(rec), nil
	}
	rec, err := s.extractions.Get(ctx, docID)
	if err == nil {
		s.cache.Add(docID, rec)
		return toResult(rec), nil
	}
	if !errors.Is(err, appErr.ErrNotFound) {
		return nil, err
	}

	fullText, _, err := s.documentText(ctx, docID)
	if err != nil {
		return nil, err
	}

	fields := s.extractor.Extract(fullText)
	rec = &model.Extraction{
		DocumentID: docID,
		Fields:     fields,
		Ctime:      timeutil.NowUnix(),
	}
	if err := s.extractions.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.cache.Add(docID, rec)
	logutil.GetLogger(ctx).Info("fields extracted",
		zap.String("document_id", docID),
		zap.Float64("confidence_score", fields.ConfidenceScore))
	return toResult(rec), nil
}

// StoredFields returns the persisted extraction without computing one.
func (s *ExtractionService) StoredFields(ctx context.Context, docID string) (*extract.Fields, error) {
	if rec, ok := s.cache.Get(docID); ok {
		return &rec.Fields, nil
	}
	rec, err := s.extractions.Get(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &rec.Fields, nil
}

// Invalidate drops the in-memory entry, used after a document is deleted.
func (s *ExtractionService) Invalidate(docID string) {
	s.cache.Remove(docID)
}

func (s *ExtractionService) documentText(ctx context.Context, docID string) (string, []*model.DocumentChunk, error) {
	chunks, err := s.chunks.ListByDocument(ctx, docID)
	if err != nil {
		return "", nil, err
	}
	if len(chunks) == 0 {
		return "", nil, appErr.ErrNoContent
	}
	return reassembleText(chunks), chunks, nil
}

func reassembleText(chunks []*model.DocumentChunk) string {
	parts := make([]extract.Chunk, 0, len(chunks))
	for _, ch := range chunks {
		parts = append(parts, extract.Chunk{
			Index:      ch.ChunkIndex,
			PageNumber: ch.PageNumber,
			Text:       ch.Text,
			CharStart:  ch.CharStart,
			CharEnd:    ch.CharEnd,
		})
	}
	return extract.Reassemble(parts)
}

func toResult(rec *model.Extraction) *ExtractionResult {
	return &ExtractionResult{DocumentID: rec.DocumentID, Fields: rec.Fields}
}
