// Package extractor turns uploaded documents into plain text.
package extractor

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

var (
	// ErrUnsupportedFormat is returned for a format tag outside the supported set.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrEmptyContent means the document parsed but held no text.
	ErrEmptyContent = errors.New("no text could be extracted from the document")
	// ErrUnreadable means the document could not be parsed as its declared format.
	ErrUnreadable = errors.New("document could not be read")
)

var contentTypes = map[Format]string{
	FormatPDF:  "application/pdf",
	FormatDOCX: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	FormatTXT:  "text/plain",
}

// SupportedExtensions lists accepted filename extensions in display order.
func SupportedExtensions() []string {
	return []string{".pdf", ".docx", ".txt"}
}

// FormatFromFilename derives the format tag from the filename extension.
func FormatFromFilename(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	case ".txt":
		return FormatTXT, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(filename))
}

// ContentType returns the MIME type for a supported format.
func ContentType(format Format) string {
	if ct, ok := contentTypes[format]; ok {
		return ct
	}
	return "application/octet-stream"
}

// Extract dispatches on the declared format only; content is never sniffed.
// The result is trimmed and never blank.
func Extract(format Format, data []byte) (string, error) {
	var (
		text string
		err  error
	)

	switch format {
	case FormatPDF:
		text, err = ExtractPDF(data)
	case FormatDOCX:
		text, err = ExtractDOCX(data)
	case FormatTXT:
		text, err = ExtractTXT(data)
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyContent
	}

	return text, nil
}
