package service

import (
	"context"
	"errors"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/audit"
	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/model"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

type AuditResult struct {
	DocumentID    string                `json:"document_id"`
	Findings      []*model.AuditFinding `json:"findings"`
	TotalFindings int                   `json:"total_findings"`
	RiskScore     float64               `json:"risk_score"`
	Summary       string                `json:"summary"`
}

type AuditService struct {
	docs        *repo.DocumentRepo
	chunks      *repo.ChunkRepo
	findings    *repo.FindingRepo
	extractions *ExtractionService
	engine      *audit.Engine
}

func NewAuditService(docs *repo.DocumentRepo, chunks *repo.ChunkRepo, findings *repo.FindingRepo, extractions *ExtractionService, engine *audit.Engine) *AuditService {
	return &AuditService{docs: docs, chunks: chunks, findings: findings, extractions: extractions, engine: engine}
}

// Audit runs every risk rule over the document text and stores the findings.
// A document with stored findings is served from them without re-running the
// rules; a clean audit stores nothing, so clean documents are re-checked.
// Stored extraction fields, when present, sharpen the missing-clause checks.
func (s *AuditService) Audit(ctx context.Context, docID string) (*AuditResult, error) {
	if _, err := s.docs.GetByID(ctx, docID); err != nil {
		return nil, err
	}
	stored, err := s.findings.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if len(stored) > 0 {
		riskScore := audit.RiskScore(stored)
		return &AuditResult{
			DocumentID:    docID,
			Findings:      stored,
			TotalFindings: len(stored),
			RiskScore:     riskScore,
			Summary:       audit.Summary(stored, riskScore),
		}, nil
	}
	chunks, err := s.chunks.ListByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, appErr.ErrNoContent
	}
	fullText := reassembleText(chunks)

	var fields *extract.Fields
	if s.extractions != nil {
		fields, err = s.extractions.StoredFields(ctx, docID)
		if err != nil && !errors.Is(err, appErr.ErrNotFound) {
			return nil, err
		}
	}

	findings, riskScore := s.engine.Audit(fullText, fields)
	now := timeutil.NowUnix()
	for _, f := range findings {
		f.DocumentID = docID
		f.Ctime = now
		if f.CharStart != nil {
			f.PageNumber = pageForOffset(chunks, *f.CharStart)
		}
	}
	if err := s.findings.ReplaceForDocument(ctx, docID, findings); err != nil {
		return nil, err
	}
	logutil.GetLogger(ctx).Info("document audited",
		zap.String("document_id", docID),
		zap.Int("total_findings", len(findings)),
		zap.Float64("risk_score", riskScore))
	return &AuditResult{
		DocumentID:    docID,
		Findings:      findings,
		TotalFindings: len(findings),
		RiskScore:     riskScore,
		Summary:       audit.Summary(findings, riskScore),
	}, nil
}

// pageForOffset maps a character offset in the reassembled text to the page
// of the chunk that starts at or before it. Chunk page numbers are taken at
// the chunk start, so offsets near a page break may land on the prior page.
func pageForOffset(chunks []*model.DocumentChunk, offset int) *int {
	for i := len(chunks) - 1; i >= 0; i-- {
		if chunks[i].CharStart <= offset {
			page := chunks[i].PageNumber
			return &page
		}
	}
	if len(chunks) > 0 {
		page := chunks[0].PageNumber
		return &page
	}
	return nil
}
