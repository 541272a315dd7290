package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"go.uber.org/zap"
)

// PurePDFParser implements Parser using github.com/ledongthuc/pdf, no cgo required
type PurePDFParser struct {
	logger *zap.Logger
}

// NewPurePDFParser creates a new instance of PurePDFParser
func NewPurePDFParser(logger *zap.Logger) *PurePDFParser {
	return &PurePDFParser{logger: logger}
}

// Parse extracts plain text page by page
func (p *PurePDFParser) Parse(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}

	var textBuilder strings.Builder
	var pageErrs []error

	// ledongthuc pages are 1-indexed
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		pageText, err := page.GetPlainText(nil)
		if err != nil {
			p.logger.Warn("failed to extract page text", zap.Int("page", i), zap.Error(err))
			pageErrs = append(pageErrs, fmt.Errorf("page %d: %w", i, err))
			continue
		}
		writeSegment(&textBuilder, pageText)
	}

	return textBuilder.String(), errors.Join(pageErrs...)
}
