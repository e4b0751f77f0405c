package domain

import (
	"errors"
	"time"
)

var (
	ErrMissingFile   = errors.New("no file part")
	ErrEmptyFilename = errors.New("no selected file")
	ErrFileTooLarge  = errors.New("file too large")
)

// Upload is a file received from the browser form.
type Upload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// AnalysisResult is what the simulated analyzer produced for one upload.
type AnalysisResult struct {
	Diagnostic string
	Precision  string
	Delay      time.Duration
}

// UploadRecord is one stored result of a simulated analysis. Records are
// never mutated once created.
type UploadRecord struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	Diagnostic  string    `json:"diagnostic"`
	Precision   string    `json:"precision"`
	ImageData   string    `json:"image_data,omitempty"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}
