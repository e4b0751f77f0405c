package utils

import (
	"bytes"
	"encoding/base64"
	"image"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

const octetStream = "application/octet-stream"

// DataURI encodes data as a base64 data URI tagged with contentType.
func DataURI(contentType string, data []byte) string {
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// ResolveContentType prefers the declared type and sniffs the bytes when the
// client sent none or a generic one.
func ResolveContentType(declared string, data []byte) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != octetStream {
		return declared
	}
	if len(data) == 0 {
		return octetStream
	}
	return mimetype.Detect(data).String()
}

type ImageProcessor struct {
	log *zap.Logger
}

func NewImageProcessor(log *zap.Logger) *ImageProcessor {
	return &ImageProcessor{log: log}
}

// Preview fits decodable images into a maxDim x maxDim box and re-encodes
// them. Anything that cannot be decoded, or already fits, is returned as is.
func (p *ImageProcessor) Preview(data []byte, contentType string, maxDim int) ([]byte, string) {
	if maxDim <= 0 {
		return data, contentType
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		p.log.Debug("Preview skipped, not a decodable image",
			zap.String("content_type", contentType),
			zap.Error(err))
		return data, contentType
	}

	b := img.Bounds()
	if b.Dx() <= maxDim && b.Dy() <= maxDim {
		return data, contentType
	}

	thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)

	outFormat, outType := imaging.JPEG, "image/jpeg"
	if format == "png" {
		outFormat, outType = imaging.PNG, "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, outFormat, imaging.JPEGQuality(80)); err != nil {
		p.log.Warn("Failed to encode preview", zap.Error(err))
		return data, contentType
	}

	p.log.Debug("Preview generated",
		zap.Int("original_size", len(data)),
		zap.Int("preview_size", buf.Len()),
		zap.Int("max_dimension", maxDim))

	return buf.Bytes(), outType
}
