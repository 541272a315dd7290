package parser

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/nguyenthenguyen/docx"
)

const wordprocessingNS = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// DOCXParser extracts paragraph text from word-processor documents
type DOCXParser struct{}

// NewDOCXParser creates a DOCX parser
func NewDOCXParser() *DOCXParser {
	return &DOCXParser{}
}

// Parse joins paragraph text in document order, each paragraph followed by a newline.
func (p *DOCXParser) Parse(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to open DOCX file: %w", err)
	}
	defer doc.Close()

	return paragraphText(doc.Editable().GetContent())
}

// paragraphText walks the WordprocessingML body. Nested paragraphs (text boxes)
// are folded into their enclosing paragraph.
func paragraphText(content string) (string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	var out, para strings.Builder
	depth := 0
	inText := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return out.String(), fmt.Errorf("failed to parse DOCX body: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "pPr":
				// Paragraph properties hold tab stop definitions, not content
				if err := dec.Skip(); err != nil {
					return out.String(), fmt.Errorf("failed to parse DOCX body: %w", err)
				}
			case "p":
				if depth == 0 {
					para.Reset()
				}
				depth++
			case "t":
				inText = true
			case "tab":
				if depth > 0 {
					para.WriteByte('\t')
				}
			case "br", "cr":
				if depth > 0 {
					para.WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space != wordprocessingNS {
				continue
			}
			switch t.Name.Local {
			case "p":
				depth--
				if depth == 0 {
					out.WriteString(para.String())
					out.WriteByte('\n')
				}
			case "t":
				inText = false
			}
		case xml.CharData:
			if inText && depth > 0 {
				para.Write(t)
			}
		}
	}

	return out.String(), nil
}
