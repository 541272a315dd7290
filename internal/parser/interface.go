package parser

// FileType is the declared type of an uploaded document.
type FileType string

const (
	FileTypePDF  FileType = "pdf"
	FileTypeDOCX FileType = "docx"
)

// Parser defines the interface for document parsers
type Parser interface {
	// Parse extracts the visible text of a document held in memory.
	// On failure it returns whatever text was accumulated so far.
	Parse(data []byte) (string, error)
}
