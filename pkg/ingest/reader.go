package ingest

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/getprecis/precis/internal"
	"github.com/getprecis/precis/pkg/models"
)

var log = internal.GetLogger()

// ReadDocument extracts the text content of an uploaded file, dispatching
// on the file extension. Supported formats are plain text and DOCX.
func ReadDocument(r io.Reader, filename string) (*models.Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filename, err)
	}

	var content string
	var format string

	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt":
		format = "Plain Text"
		content, err = readText(data)
	case ".docx":
		format = "Word Document"
		content, err = extractDocxText(data)
	default:
		return nil, models.ErrUnsupportedFormat
	}
	if err != nil {
		return nil, fmt.Errorf("error extracting text from %s: %w", filename, err)
	}

	log.Debugf("extracted %d bytes of text from %s", len(content), filename)

	return &models.Document{
		Filename:  filepath.Base(filename),
		Format:    format,
		Content:   content,
		WordCount: internal.WordCount(content),
	}, nil
}

func readText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("file is not valid UTF-8 text")
	}
	return strings.TrimSpace(string(data)), nil
}
