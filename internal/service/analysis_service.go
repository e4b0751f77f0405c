package service

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"simdiag/internal/domain"
	"simdiag/internal/repository"
	"simdiag/pkg/utils"
)

// Analyzer produces a diagnostic for an upload.
type Analyzer interface {
	Analyze(ctx context.Context) (domain.AnalysisResult, error)
}

type AnalysisService interface {
	Analyze(ctx context.Context, upload domain.Upload) (*domain.UploadRecord, error)
	Recent(ctx context.Context) []domain.UploadRecord
	HistoryEnabled() bool
}

type Options struct {
	KeepImageData       bool
	HistoryEnabled      bool
	PreviewMaxDimension int
}

type analysisService struct {
	analyzer Analyzer
	history  repository.HistoryRepository
	archive  repository.ArchiveRepository
	opts     Options
	log      *zap.Logger
	proc     *utils.ImageProcessor
	now      func() time.Time
}

func NewAnalysisService(
	analyzer Analyzer,
	history repository.HistoryRepository,
	archive repository.ArchiveRepository,
	opts Options,
	log *zap.Logger,
) AnalysisService {
	if archive == nil {
		archive = repository.NewNopArchive()
	}
	return &analysisService{
		analyzer: analyzer,
		history:  history,
		archive:  archive,
		opts:     opts,
		log:      log,
		proc:     utils.NewImageProcessor(log),
		now:      time.Now,
	}
}

func (s *analysisService) Analyze(ctx context.Context, upload domain.Upload) (*domain.UploadRecord, error) {
	if upload.Filename == "" {
		return nil, domain.ErrEmptyFilename
	}

	contentType := utils.ResolveContentType(upload.ContentType, upload.Data)

	var imageData string
	if s.opts.KeepImageData {
		preview, previewType := s.proc.Preview(upload.Data, contentType, s.opts.PreviewMaxDimension)
		imageData = utils.DataURI(previewType, preview)
	}

	result, err := s.analyzer.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", upload.Filename, err)
	}

	record := domain.UploadRecord{
		ID:          uuid.New().String(),
		Filename:    upload.Filename,
		Diagnostic:  result.Diagnostic,
		Precision:   result.Precision,
		ImageData:   imageData,
		ContentType: contentType,
		Size:        int64(len(upload.Data)),
		CreatedAt:   s.now().UTC(),
	}

	key := "uploads/" + record.ID + filepath.Ext(upload.Filename)
	if err := s.archive.Store(ctx, key, upload.Data, contentType); err != nil {
		return nil, fmt.Errorf("archive %s: %w", upload.Filename, err)
	}

	if s.opts.HistoryEnabled {
		s.history.Append(record)
	}

	s.log.Info("Simulated analysis completed",
		zap.String("id", record.ID),
		zap.String("filename", record.Filename),
		zap.Int64("size", record.Size),
		zap.Duration("delay", result.Delay),
		zap.String("diagnostic", record.Diagnostic))

	return &record, nil
}

// Recent returns the stored records newest first, or nothing when history
// is disabled.
func (s *analysisService) Recent(_ context.Context) []domain.UploadRecord {
	if !s.opts.HistoryEnabled {
		return []domain.UploadRecord{}
	}
	return s.history.Recent()
}

func (s *analysisService) HistoryEnabled() bool {
	return s.opts.HistoryEnabled
}
