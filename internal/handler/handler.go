package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simdiag/internal/domain"
	"simdiag/internal/service"
)

const (
	fileField = "file"

	// multipart framing on top of the file itself
	multipartOverhead = 1 << 20
)

type Handler struct {
	service       service.AnalysisService
	maxUploadSize int64
	log           *zap.Logger
}

func NewHandler(service service.AnalysisService, maxUploadSize int64, log *zap.Logger) *Handler {
	return &Handler{
		service:       service,
		maxUploadSize: maxUploadSize,
		log:           log,
	}
}

func (h *Handler) UploadFile(c *gin.Context) {
	upload, err := h.readUpload(c)
	if err != nil {
		h.respondError(c, err)
		return
	}

	record, err := h.service.Analyze(c.Request.Context(), upload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := gin.H{
		"message":    fmt.Sprintf("File %s received. Simulating AI analysis...", record.Filename),
		"id":         record.ID,
		"diagnostic": record.Diagnostic,
		"precision":  record.Precision,
		"filename":   record.Filename,
	}
	if record.ImageData != "" {
		resp["image_data"] = record.ImageData
	}

	c.JSON(http.StatusOK, resp)
}

func (h *Handler) readUpload(c *gin.Context) (domain.Upload, error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize+multipartOverhead)

	file, err := c.FormFile(fileField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return domain.Upload{}, domain.ErrFileTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return domain.Upload{}, domain.ErrMissingFile
		case errors.Is(err, http.ErrMissingFile):
			// A part sent with filename="" is parsed as a plain form value.
			if _, ok := c.Request.PostForm[fileField]; ok {
				return domain.Upload{}, domain.ErrEmptyFilename
			}
			return domain.Upload{}, domain.ErrMissingFile
		}
		return domain.Upload{}, fmt.Errorf("parse multipart form: %w", err)
	}

	if file.Filename == "" {
		return domain.Upload{}, domain.ErrEmptyFilename
	}
	if file.Size > h.maxUploadSize {
		return domain.Upload{}, domain.ErrFileTooLarge
	}

	f, err := file.Open()
	if err != nil {
		return domain.Upload{}, fmt.Errorf("open %s: %w", file.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return domain.Upload{}, fmt.Errorf("read %s: %w", file.Filename, err)
	}

	return domain.Upload{
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingFile):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file part"})
	case errors.Is(err, domain.ErrEmptyFilename):
		c.JSON(http.StatusBadRequest, gin.H{"error": "No selected file"})
	case errors.Is(err, domain.ErrFileTooLarge):
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
	default:
		h.log.Error("Upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong with the upload"})
	}
}

func (h *Handler) ListHistory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"history": h.service.Recent(c.Request.Context())})
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "OK"})
}

func (h *Handler) GetUI(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{
		"history":         h.service.Recent(c.Request.Context()),
		"history_enabled": h.service.HistoryEnabled(),
	})
}
