package service

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/clauselens/clauselens/internal/extract"
	"github.com/clauselens/clauselens/internal/filestore"
	"github.com/clauselens/clauselens/internal/model"
	"github.com/clauselens/clauselens/internal/pdftext"
	appErr "github.com/clauselens/clauselens/internal/pkg/errors"
	"github.com/clauselens/clauselens/internal/pkg/timeutil"
	"github.com/clauselens/clauselens/internal/repo"
)

const mimeTypePDF = "application/pdf"

// UploadFile is one incoming document. The content must support random
// access so the PDF reader and the file store can both consume it.
type UploadFile struct {
	Filename string
	Content  UploadContent
	Size     int64
}

type UploadContent interface {
	io.Reader
	io.ReaderAt
	io.Seeker
	io.Closer
}

type IngestResult struct {
	DocumentIDs    []string `json:"document_ids"`
	TotalDocuments int      `json:"total_documents"`
	Message        string   `json:"message"`
	Errors         []string `json:"errors,omitempty"`
}

type DocumentService struct {
	docs        *repo.DocumentRepo
	chunks      *repo.ChunkRepo
	extractions *repo.ExtractionRepo
	findings    *repo.FindingRepo
	store       filestore.Store
	chunker     *extract.Chunker
}

func NewDocumentService(docs *repo.DocumentRepo, chunks *repo.ChunkRepo, extractions *repo.ExtractionRepo, findings *repo.FindingRepo, store filestore.Store, chunker *extract.Chunker) *DocumentService {
	return &DocumentService{docs: docs, chunks: chunks, extractions: extractions, findings: findings, store: store, chunker: chunker}
}

// Ingest stores each uploaded PDF, splits its text into chunks and persists
// the document record. Failures are collected per file; the call only fails
// outright when every file fails.
func (s *DocumentService) Ingest(ctx context.Context, files []UploadFile) (*IngestResult, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("%w: no files provided", appErr.ErrInvalid)
	}
	result := &IngestResult{DocumentIDs: []string{}}
	for _, file := range files {
		docID, err := s.ingestOne(ctx, file)
		if err != nil {
			logutil.GetLogger(ctx).Error("ingest file failed",
				zap.String("filename", file.Filename), zap.Error(err))
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", file.Filename, err))
			continue
		}
		result.DocumentIDs = append(result.DocumentIDs, docID)
	}
	result.TotalDocuments = len(result.DocumentIDs)
	if result.TotalDocuments == 0 {
		return nil, fmt.Errorf("%w: no files could be ingested: %s",
			appErr.ErrInvalid, strings.Join(result.Errors, "; "))
	}
	result.Message = fmt.Sprintf("Successfully ingested %d document(s)", result.TotalDocuments)
	return result, nil
}

func (s *DocumentService) ingestOne(ctx context.Context, file UploadFile) (string, error) {
	defer file.Content.Close()

	filename := sanitizeFilename(file.Filename)
	if !strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return "", fmt.Errorf("%w: only PDF files are supported", appErr.ErrInvalid)
	}
	if file.Size <= 0 {
		return "", fmt.Errorf("%w: empty file", appErr.ErrInvalid)
	}

	numPages, err := pdftext.NumPages(file.Content, file.Size)
	if err != nil {
		return "", err
	}
	pages, err := pdftext.Pages(ctx, file.Content, file.Size)
	if err != nil {
		return "", err
	}
	chunks := s.chunker.Chunk(pages)
	if len(chunks) == 0 {
		return "", fmt.Errorf("%w: no extractable text", appErr.ErrNoContent)
	}

	docID := newID()
	fileKey := fmt.Sprintf("%d_%s", time.Now().UnixNano(), filename)
	if err := s.store.Save(ctx, fileKey, file.Content, file.Size); err != nil {
		return "", fmt.Errorf("store file: %w", err)
	}

	now := timeutil.NowUnix()
	doc := &model.Document{
		ID:       docID,
		Filename: filename,
		FileKey:  fileKey,
		FileSize: file.Size,
		MimeType: mimeTypePDF,
		NumPages: numPages,
		State:    repo.DocumentStateNormal,
		Ctime:    now,
		Mtime:    now,
	}
	if err := s.docs.Create(ctx, doc); err != nil {
		return "", err
	}

	records := make([]*model.DocumentChunk, 0, len(chunks))
	for _, ch := range chunks {
		records = append(records, &model.DocumentChunk{
			DocumentID: docID,
			ChunkIndex: ch.Index,
			PageNumber: ch.PageNumber,
			Text:       ch.Text,
			CharStart:  ch.CharStart,
			CharEnd:    ch.CharEnd,
			Ctime:      now,
		})
	}
	if err := s.chunks.CreateBatch(ctx, records); err != nil {
		return "", err
	}
	logutil.GetLogger(ctx).Info("document ingested",
		zap.String("document_id", docID),
		zap.String("filename", filename),
		zap.Int("num_pages", numPages),
		zap.Int("num_chunks", len(records)))
	return docID, nil
}

type DocumentDetail struct {
	model.Document
	NumChunks int `json:"num_chunks"`
}

func (s *DocumentService) Get(ctx context.Context, docID string) (*DocumentDetail, error) {
	doc, err := s.docs.GetByID(ctx, docID)
	if err != nil {
		return nil, err
	}
	numChunks, err := s.chunks.CountByDocument(ctx, docID)
	if err != nil {
		return nil, err
	}
	return &DocumentDetail{Document: *doc, NumChunks: numChunks}, nil
}

type DocumentList struct {
	Documents []model.Document `json:"documents"`
	Total     int              `json:"total"`
}

func (s *DocumentService) List(ctx context.Context, skip, limit uint) (*DocumentList, error) {
	docs, err := s.docs.List(ctx, limit, skip)
	if err != nil {
		return nil, err
	}
	total, err := s.docs.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &DocumentList{Documents: docs, Total: total}, nil
}

// Delete soft-deletes the document. The stored file and dependent rows stay
// until the retention sweep purges them.
func (s *DocumentService) Delete(ctx context.Context, docID string) error {
	return s.docs.SoftDelete(ctx, docID, timeutil.NowUnix())
}

func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' || r == '-' || r == '_':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	out := b.String()
	if out == "" || out == "." {
		return "upload.pdf"
	}
	return out
}
