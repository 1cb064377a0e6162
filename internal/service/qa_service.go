package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/repo"
	"github.com/clauselens/clauselens/internal/search"
)

const (
	defaultMaxResults = 5
	maxMaxResults     = 20
	maxCitations      = 5
	searchAllLimit    = 1000
	excerptLimit      = 200
	answerLimit       = 400
	baseConfidence    = 0.5
	hitConfidence     = 0.1
	maxConfidence     = 0.95
)

type Citation struct {
	DocumentID  string `json:"document_id"`
	PageNumber  int    `json:"page_number"`
	CharStart   int    `json:"char_start"`
	CharEnd     int    `json:"char_end"`
	TextExcerpt string `json:"text_excerpt"`
}

type Answer struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Citations  []Citation `json:"citations"`
	Confidence float64    `json:"confidence"`
}

type QAService struct {
	docs   *repo.DocumentRepo
	chunks *repo.ChunkRepo
}

func NewQAService(docs *repo.DocumentRepo, chunks *repo.ChunkRepo) *QAService {
	return &QAService{docs: docs, chunks: chunks}
}

// Ask answers a question from the best-matching chunks. With no document ids
// every document is searched. The answer is extractive: the top passage is
// returned, with citations for the passages considered.
func (s *QAService) Ask(ctx context.Context, question string, documentIDs []string, maxResults int) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", appErr.ErrInvalid)
	}
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if maxResults > maxMaxResults {
		maxResults = maxMaxResults
	}

	targetIDs, err := s.resolveDocuments(ctx, documentIDs)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunks.ListByDocuments(ctx, targetIDs)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, appErr.ErrNoContent
	}

	hits := search.TopK(question, chunks, maxResults)
	answer := &Answer{
		Question:  question,
		Citations: []Citation{},
	}
	if len(hits) == 0 {
		answer.Answer = "I couldn't find relevant information to answer this question."
		return answer, nil
	}

	answer.Answer = excerpt(hits[0].Chunk.Text, answerLimit)
	for i, hit := range hits {
		if i >= maxCitations {
			break
		}
		answer.Citations = append(answer.Citations, Citation{
			DocumentID:  hit.Chunk.DocumentID,
			PageNumber:  hit.Chunk.PageNumber,
			CharStart:   hit.Chunk.CharStart,
			CharEnd:     hit.Chunk.CharEnd,
			TextExcerpt: excerpt(hit.Chunk.Text, excerptLimit),
		})
	}
	answer.Confidence = confidence(len(hits))
	return answer, nil
}

// resolveDocuments validates explicit ids, or falls back to every document.
// Unknown ids are skipped; it is an error only when nothing is left.
func (s *QAService) resolveDocuments(ctx context.Context, documentIDs []string) ([]string, error) {
	if len(documentIDs) > 0 {
		found := make([]string, 0, len(documentIDs))
		for _, id := range documentIDs {
			if _, err := s.docs.GetByID(ctx, id); err != nil {
				if errors.Is(err, appErr.ErrNotFound) {
					continue
				}
				return nil, err
			}
			found = append(found, id)
		}
		if len(found) == 0 {
			return nil, fmt.Errorf("%w: none of the specified documents were found", appErr.ErrNotFound)
		}
		return found, nil
	}
	docs, err := s.docs.List(ctx, searchAllLimit, 0)
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents available to search", appErr.ErrNotFound)
	}
	ids := make([]string, 0, len(docs))
	for _, doc := range docs {
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func confidence(hits int) float64 {
	c := baseConfidence + hitConfidence*float64(hits)
	if c > maxConfidence {
		return maxConfidence
	}
	return c
}

// excerpt trims the text to limit characters, cutting back to a word
// boundary and appending an ellipsis when something was dropped.
func excerpt(text string, limit int) string {
	text = strings.TrimSpace(text)
	if len(text) <= limit {
		return text
	}
	cut := strings.LastIndexAny(text[:limit-3], " \t\n")
	if cut <= 0 {
		cut = limit - 3
	}
	return strings.TrimSpace(text[:cut]) + "..."
}
