package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/clauselens/clauselens/internal/repo"
)

type Stats struct {
	TotalDocuments     int   `json:"total_documents"`
	TotalChunks        int   `json:"total_chunks"`
	TotalExtractions   int   `json:"total_extractions"`
	TotalAuditFindings int   `json:"total_audit_findings"`
	UptimeSeconds      int64 `json:"uptime_seconds"`
}

type StatsService struct {
	db          *sql.DB
	docs        *repo.DocumentRepo
	chunks      *repo.ChunkRepo
	extractions *repo.ExtractionRepo
	findings    *repo.FindingRepo
	started     time.Time
}

func NewStatsService(db *sql.DB, docs *repo.DocumentRepo, chunks *repo.ChunkRepo, extractions *repo.ExtractionRepo, findings *repo.FindingRepo) *StatsService {
	return &StatsService{db: db, docs: docs, chunks: chunks, extractions: extractions, findings: findings, started: time.Now()}
}

func (s *StatsService) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	documents, err := s.docs.Count(ctx)
	if err != nil {
		return nil, err
	}
	chunks, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, err
	}
	extractions, err := s.extractions.Count(ctx)
	if err != nil {
		return nil, err
	}
	findings, err := s.findings.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &Stats{
		TotalDocuments:     documents,
		TotalChunks:        chunks,
		TotalExtractions:   extractions,
		TotalAuditFindings: findings,
		UptimeSeconds:      int64(time.Since(s.started).Seconds()),
	}, nil
}
