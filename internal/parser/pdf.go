// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"
)

// FitzParser extracts PDF text using go-fitz (MuPDF)
// API reference: https://pkg.go.dev/github.com/gen2brain/go-fitz
type FitzParser struct {
	logger *zap.Logger
}

// NewFitzParser creates a MuPDF backed PDF parser
func NewFitzParser(logger *zap.Logger) *FitzParser {
	return &FitzParser{logger: logger}
}

// Parse walks the pages in document order, one newline-terminated segment per page.
func (p *FitzParser) Parse(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	var textBuilder strings.Builder
	var pageErrs []error
	numPages := doc.NumPage()

	for i := 0; i < numPages; i++ {
		pageText, err := doc.Text(i)
		if err != nil {
			// Keep going, the remaining pages may still have a text layer
			p.logger.Warn("failed to extract page text", zap.Int("page", i+1), zap.Error(err))
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", i+1, err))
			continue
		}
		writeSegment(&textBuilder, pageText)
	}

	return textBuilder.String(), errors.Join(pageErrs...)
}
