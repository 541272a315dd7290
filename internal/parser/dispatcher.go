// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

var (
	// ErrUnsupportedType is returned when a document's extension is neither pdf nor docx.
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrExtraction wraps every failure raised by the underlying document libraries.
	ErrExtraction = errors.New("error extracting text")
)

// PDF backends selectable through configuration
const (
	BackendFitz = "fitz"
	BackendPure = "pure"
)

// FileTypeOf derives the declared file type from a filename's extension, lower-cased
func FileTypeOf(filename string) (FileType, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	switch FileType(ext) {
	case FileTypePDF:
		return FileTypePDF, true
	case FileTypeDOCX:
		return FileTypeDOCX, true
	default:
		return FileType(ext), false
	}
}

// IsSupportedFile checks if a file extension is supported
func IsSupportedFile(filename string) bool {
	_, ok := FileTypeOf(filename)
	return ok
}

// Label returns the upper-case name used in user-facing messages.
func (t FileType) Label() string {
	return strings.ToUpper(string(t))
}

// Extractor routes documents to the parser for their type.
type Extractor struct {
	pdf    Parser
	docx   Parser
	logger *zap.Logger
}

// NewExtractor creates an extractor using the named PDF backend ("fitz" or "pure").
func NewExtractor(pdfBackend string, logger *zap.Logger) (*Extractor, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var pdfParser Parser
	switch pdfBackend {
	case "", BackendFitz:
		pdfParser = NewFitzParser(logger)
	case BackendPure:
		pdfParser = NewPurePDFParser(logger)
	default:
		return nil, fmt.Errorf("unknown pdf backend: %s", pdfBackend)
	}

	return &Extractor{
		pdf:    pdfParser,
		docx:   NewDOCXParser(),
		logger: logger,
	}, nil
}

// ExtractDocument extracts text from an uploaded file, deriving its type from the filename.
// Unsupported extensions are rejected without an extraction attempt.
func (e *Extractor) ExtractDocument(filename string, data []byte) (string, error) {
	fileType, ok := FileTypeOf(filename)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, filepath.Ext(filename))
	}
	return e.Extract(fileType, data)
}

// Extract converts a document of the given type into plain text.
// The returned text is whatever was accumulated before a failure, possibly empty.
// Panics from the underlying libraries are reported as errors.
func (e *Extractor) Extract(fileType FileType, data []byte) (text string, err error) {
	var p Parser
	switch fileType {
	case FileTypePDF:
		p = e.pdf
	case FileTypeDOCX:
		p = e.docx
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedType, string(fileType))
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("parser panic: %v", r)
		}
		if err != nil {
			err = fmt.Errorf("%w from %s: %w", ErrExtraction, fileType.Label(), err)
			e.logger.Warn("text extraction failed",
				zap.String("file_type", string(fileType)),
				zap.Int("partial_chars", len(text)),
				zap.Error(err))
		}
	}()

	text, err = p.Parse(data)

	snippet := text
	if len(snippet) > 150 {
		snippet = snippet[:150] + "..."
	}
	e.logger.Debug("text extracted",
		zap.String("file_type", string(fileType)),
		zap.Int("chars", len(text)),
		zap.String("snippet", snippet))

	return text, err
}

// writeSegment appends a page of text ending in exactly one newline.
// Pages with no extractable text contribute nothing.
func writeSegment(b *strings.Builder, s string) {
	if strings.TrimSpace(s) == "" {
		return
	}
	b.WriteString(strings.TrimRight(s, "\r\n"))
	b.WriteByte('\n')
}
