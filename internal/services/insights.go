package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/BerylCAtieno/resume-insights-api/internal/analyzer"
	"github.com/BerylCAtieno/resume-insights-api/internal/extractor"
	"github.com/BerylCAtieno/resume-insights-api/internal/models"
	"github.com/BerylCAtieno/resume-insights-api/internal/report"
	"github.com/BerylCAtieno/resume-insights-api/internal/repository"
	"github.com/BerylCAtieno/resume-insights-api/internal/storage"
	"github.com/BerylCAtieno/resume-insights-api/internal/utils"
)

const DefaultAnalysisTimeout = 60 * time.Second

type InsightService interface {
	UploadResume(ctx context.Context, req *models.UploadRequest) (*models.InsightRecord, error)
	GetInsight(ctx context.Context, id string) (*models.InsightRecord, error)
	ListInsights(ctx context.Context, query models.ListQuery) ([]models.InsightRecord, error)
	BuildReport(ctx context.Context, id string) (*models.Report, error)
	GetOriginal(ctx context.Context, id string) (*models.OriginalDocument, error)
}

// InsightGenerator produces a structured evaluation of resume text.
type InsightGenerator interface {
	Generate(ctx context.Context, text string) (*models.StructuredInsight, error)
}

type Option func(*insightService)

// WithArchive stores the original bytes of every successful upload.
func WithArchive(archive storage.Archive) Option {
	return func(s *insightService) { s.archive = archive }
}

// WithAnalysisTimeout bounds the completion call of each upload.
func WithAnalysisTimeout(d time.Duration) Option {
	return func(s *insightService) { s.analysisTimeout = d }
}

type insightService struct {
	repo            repository.Repository
	generator       InsightGenerator
	archive         storage.Archive
	analysisTimeout time.Duration
	logger          *utils.Logger
}

func NewService(repo repository.Repository, generator InsightGenerator, logger *utils.Logger, opts ...Option) InsightService {
	s := &insightService{
		repo:            repo,
		generator:       generator,
		analysisTimeout: DefaultAnalysisTimeout,
		logger:          logger.With("component", "service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// UploadResume extracts, analyzes and persists one resume. Analysis failures
// degrade to a keyword fallback; nothing is stored if ctx is cancelled first.
func (s *insightService) UploadResume(ctx context.Context, req *models.UploadRequest) (*models.InsightRecord, error) {
	format, err := extractor.FormatFromFilename(req.Filename)
	if err != nil {
		s.logger.Warn("Unsupported file type", "filename", req.Filename)
		return nil, utils.NewBadRequestError(fmt.Sprintf(
			"Unsupported file type. Only %s files are allowed", strings.Join(extractor.SupportedExtensions(), ", "))).WithCause(err)
	}

	text, err := extractor.Extract(format, req.File)
	if err != nil {
		s.logger.Warn("Failed to extract text", "error", err, "filename", req.Filename, "format", format)
		return nil, extractionError(err)
	}

	insight := s.analyze(ctx, text, req.Filename)

	if err := ctx.Err(); err != nil {
		s.logger.Warn("Upload cancelled before persistence", "filename", req.Filename, "error", err)
		return nil, utils.NewBadRequestError("Upload was cancelled").WithCause(err)
	}

	rec, err := s.repo.Create(ctx, req.Filename, insight)
	if err != nil {
		s.logger.Error("Failed to save insights", "error", err, "filename", req.Filename)
		return nil, utils.NewInternalError("Failed to save resume insights").WithCause(err)
	}

	if s.archive != nil {
		key := storage.ObjectKey(rec.ID, rec.Filename)
		if err := s.archive.Upload(ctx, key, req.File, extractor.ContentType(format)); err != nil {
			s.logger.Error("Failed to archive original document", "error", err, "id", rec.ID, "key", key)
		}
	}

	s.logger.Info("Resume analyzed successfully",
		"id", rec.ID,
		"filename", rec.Filename,
		"kind", rec.Insights.Kind,
		"text_length", len(text))

	return rec, nil
}

func (s *insightService) analyze(ctx context.Context, text, filename string) models.Insight {
	analysisCtx, cancel := context.WithTimeout(ctx, s.analysisTimeout)
	defer cancel()

	structured, err := s.generator.Generate(analysisCtx, text)
	if err != nil {
		s.logger.Warn("Structured analysis unavailable, using keyword fallback", "error", err, "filename", filename)
		return analyzer.Fallback(text)
	}
	return models.NewStructuredInsight(structured)
}

func extractionError(err error) *utils.AppError {
	switch {
	case errors.Is(err, extractor.ErrUnsupportedFormat):
		return utils.NewBadRequestError("Unsupported file type").WithCause(err)
	case errors.Is(err, extractor.ErrEmptyContent):
		return utils.NewBadRequestError("No text could be extracted from the document. The file may be empty or scanned").WithCause(err)
	default:
		return utils.NewBadRequestError("The document could not be read. The file may be corrupted").WithCause(err)
	}
}

func (s *insightService) GetInsight(ctx context.Context, id string) (*models.InsightRecord, error) {
	rec, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, utils.NewNotFoundError("Document not found").WithCause(err)
	}
	if err != nil {
		s.logger.Error("Failed to get insights", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve insights").WithCause(err)
	}

	return rec, nil
}

func (s *insightService) ListInsights(ctx context.Context, query models.ListQuery) ([]models.InsightRecord, error) {
	recs, err := s.repo.List(ctx, query)
	if err != nil {
		s.logger.Error("Failed to list insights", "error", err, "search", query.Search)
		return nil, utils.NewInternalError("Failed to list insights").WithCause(err)
	}

	return recs, nil
}

func (s *insightService) BuildReport(ctx context.Context, id string) (*models.Report, error) {
	rec, err := s.GetInsight(ctx, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := report.RenderPDF(report.Project(rec), &buf); err != nil {
		s.logger.Error("Failed to render report", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to generate report").WithCause(err)
	}

	return &models.Report{
		Filename:    report.Filename(rec),
		ContentType: "application/pdf",
		Data:        buf.Bytes(),
	}, nil
}

func (s *insightService) GetOriginal(ctx context.Context, id string) (*models.OriginalDocument, error) {
	if s.archive == nil {
		return nil, utils.NewNotFoundError("Original documents are not archived")
	}

	rec, err := s.GetInsight(ctx, id)
	if err != nil {
		return nil, err
	}

	data, err := s.archive.Download(ctx, storage.ObjectKey(rec.ID, rec.Filename))
	if errors.Is(err, storage.ErrObjectNotFound) {
		return nil, utils.NewNotFoundError("Original document not found").WithCause(err)
	}
	if err != nil {
		s.logger.Error("Failed to download original document", "error", err, "id", id)
		return nil, utils.NewInternalError("Failed to retrieve original document").WithCause(err)
	}

	contentType := "application/octet-stream"
	if format, err := extractor.FormatFromFilename(rec.Filename); err == nil {
		contentType = extractor.ContentType(format)
	}

	return &models.OriginalDocument{
		Filename:    rec.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
