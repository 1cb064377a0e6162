package job

import (
	"context"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/filestore"
	"github.com/clauselens/clauselens/internal/repo"
)

// RetentionJob purges documents that have been soft-deleted for longer than
// maxAge, together with their stored files, chunks, extractions and audit
// findings.
type RetentionJob struct {
	docs        *repo.DocumentRepo
	chunks      *repo.ChunkRepo
	extractions *repo.ExtractionRepo
	findings    *repo.FindingRepo
	store       filestore.Store
	maxAge      time.Duration
}

func NewRetentionJob(docs *repo.DocumentRepo, chunks *repo.ChunkRepo, extractions *repo.ExtractionRepo, findings *repo.FindingRepo, store filestore.Store, maxAge time.Duration) *RetentionJob {
	return &RetentionJob{docs: docs, chunks: chunks, extractions: extractions, findings: findings, store: store, maxAge: maxAge}
}

func (j *RetentionJob) Name() string {
	return "retention_sweep"
}

func (j *RetentionJob) Run(ctx context.Context) error {
	maxAge := j.maxAge
	if maxAge <= 0 {
		maxAge = 30 * 24 * time.Hour
	}
	cutoff := time.Now().Add(-maxAge).Unix()
	docs, err := j.docs.ListDeletedBefore(ctx, cutoff)
	if err != nil {
		return err
	}
	logger := logutil.GetLogger(ctx)
	purged := 0
	for _, doc := range docs {
		if err := j.store.Delete(ctx, doc.FileKey); err != nil {
			// Keep the rows so a later sweep retries the file.
			logger.Warn("delete stored file failed",
				zap.String("document_id", doc.ID),
				zap.String("file_key", doc.FileKey),
				zap.Error(err))
			continue
		}
		if err := j.chunks.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := j.extractions.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := j.findings.DeleteByDocument(ctx, doc.ID); err != nil {
			return err
		}
		if err := j.docs.Purge(ctx, doc.ID); err != nil {
			return err
		}
		purged++
	}
	if purged > 0 {
		logger.Info("retention sweep purged documents", zap.Int("count", purged))
	}
	return nil
}
