package services

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"satinsights-backend/internal/models"
)

const previewChars = 1000

var (
	ErrUnsupportedFormat = errors.New("unsupported dataset format")
	ErrInvalidEncoding   = errors.New("dataset is not valid UTF-8")
)

// SupportedFormats lists the upload types the summarizer accepts. Content
// is never parsed, only read as text.
var SupportedFormats = []models.SupportedFormat{
	{Extension: ".csv", MimeType: "text/csv", Description: "Comma-separated values"},
	{Extension: ".json", MimeType: "application/json", Description: "JSON document"},
}

// Dataset is the decoded text of one uploaded file. It lives for a single
// summarize action.
type Dataset struct {
	Filename string
	Text     string
}

// ReadDataset reads an upload fully and decodes it as UTF-8. The text is
// kept byte-for-byte; line endings and whitespace are not normalized.
func ReadDataset(r io.Reader, filename string) (*Dataset, error) {
	if !isSupportedDataset(filename) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(filename))
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}

	if !utf8.Valid(b) {
		return nil, ErrInvalidEncoding
	}

	return &Dataset{Filename: filename, Text: string(b)}, nil
}

// Preview returns the first 1000 characters followed by "...", the
// snippet shown above the summary.
func (d *Dataset) Preview() models.DatasetPreview {
	text := d.Text
	if utf8.RuneCountInString(text) > previewChars {
		runes := []rune(text)
		text = string(runes[:previewChars])
	}

	return models.DatasetPreview{
		Filename:  d.Filename,
		SizeBytes: len(d.Text),
		Preview:   text + "...",
	}
}

func isSupportedDataset(filename string) bool {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, f := range SupportedFormats {
		if f.Extension == ext {
			return true
		}
	}
	return false
}
