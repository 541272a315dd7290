package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/northbound/studynotes/internal/parser"
	"github.com/northbound/studynotes/internal/study"
)

type extractResponse struct {
	Text     string `json:"text"`
	FileType string `json:"file_type"`
	Error    string `json:"error,omitempty"`
}

type generateRequest struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Notes     string `json:"notes"`
	Questions string `json:"questions"`
	Artifact  string `json:"artifact"`
}

// handleAPIExtract handles POST /api/v1/extract (multipart "document")
func (s *Server) handleAPIExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	filename, data, err := s.readUpload(w, r)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, parser.ErrUnsupportedType) {
			status = http.StatusUnsupportedMediaType
		}
		writeJSON(w, status, map[string]string{"error": err.Error()})
		return
	}

	fileType, _ := parser.FileTypeOf(filename)
	text, err := s.extract("", filename, data)

	resp := extractResponse{Text: text, FileType: string(fileType)}
	status := http.StatusOK
	if err != nil {
		resp.Error = err.Error()
		if text == "" {
			status = http.StatusUnprocessableEntity
		}
	}
	writeJSON(w, status, resp)
}

// handleAPIGenerate handles POST /api/v1/generate {"text": "..."}
func (s *Server) handleAPIGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req generateRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.maxUpload)).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request: " + err.Error()})
		return
	}

	res, err := s.study.Generate(r.Context(), req.Text, nil)
	if errors.Is(err, study.ErrEmptyText) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, generateResponse{
		Notes:     res.Notes,
		Questions: res.Questions,
		Artifact:  res.Artifact(),
	})
}
