// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/russross/blackfriday/v2"
	"go.uber.org/zap"

	"github.com/northbound/studynotes/internal/parser"
	"github.com/northbound/studynotes/internal/session"
	"github.com/northbound/studynotes/internal/study"
)

//go:embed templates/*
var templatesFS embed.FS

// pageData is the view model for one render of the page
type pageData struct {
	State       *session.State
	Upload      bool
	HasResult   bool
	Notes       template.HTML
	Questions   template.HTML
	MaxUploadMB int64
}

func parsePages() (*template.Template, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/base.html", "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return tmpl, nil
}

// renderPage renders the session's state with the base layout
func (s *Server) renderPage(w http.ResponseWriter, st *session.State) {
	data := pageData{
		State:       st,
		Upload:      st.Mode != session.ModePaste,
		MaxUploadMB: s.maxUpload >> 20,
	}
	if st.Result != nil {
		data.HasResult = true
		data.Notes = renderMarkdown(st.Result.Notes)
		data.Questions = renderMarkdown(st.Result.Questions)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.pages.ExecuteTemplate(w, "base.html", data); err != nil {
		s.logger.Error("failed to execute template", zap.Error(err))
	}
}

// renderMarkdown formats model output. Raw HTML in the input is dropped.
func renderMarkdown(md string) template.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.CommonHTMLFlags | blackfriday.SkipHTML | blackfriday.Safelink,
	})
	md = strings.ReplaceAll(md, "\r\n", "\n")
	out := blackfriday.Run([]byte(md),
		blackfriday.WithRenderer(renderer),
		blackfriday.WithExtensions(blackfriday.CommonExtensions))
	return template.HTML(out)
}

// handleIndex serves a fresh render of the page. Previous results are not shown again.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.loadSession(w, r)
	st.ClearOutcome()
	s.saveSession(r.Context(), st)
	s.renderPage(w, st)
}

// handleMode switches between Upload Document and Paste Text
func (s *Server) handleMode(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.loadSession(w, r)
	st.Mode = session.ParseMode(r.FormValue("mode"))
	st.ClearOutcome()
	s.saveSession(r.Context(), st)

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleExtract accepts a .pdf or .docx upload and extracts its text
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.loadSession(w, r)
	st.Mode = session.ModeUpload
	st.ClearOutcome()

	filename, data, err := s.readUpload(w, r)
	if err != nil {
		st.SetUpload(filename, "", err)
	} else {
		text, err := s.extract(st.ID, filename, data)
		st.SetUpload(filename, text, err)
	}

	s.saveSession(r.Context(), st)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// readUpload reads the "document" part, rejecting unsupported types before reading it
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) (string, []byte, error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	file, header, err := r.FormFile("document")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return "", nil, fmt.Errorf("file exceeds the %d MB upload limit", s.maxUpload>>20)
		}
		return "", nil, fmt.Errorf("no document uploaded: %w", err)
	}
	defer file.Close()

	if !parser.IsSupportedFile(header.Filename) {
		return header.Filename, nil, fmt.Errorf("%w: only .pdf and .docx files are accepted", parser.ErrUnsupportedType)
	}

	data, err := io.ReadAll(file)
	if err != nil {
		return header.Filename, nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return header.Filename, data, nil
}

// handleGenerate runs both generation calls synchronously and renders the outcome.
// Pressing generate with no text content does nothing.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st := s.loadSession(w, r)
	if st.Mode == session.ModePaste {
		st.PastedText = r.FormValue("text")
	}
	st.ClearOutcome()

	s.saveSession(r.Context(), st)

	text := st.TextContent()
	if strings.TrimSpace(text) == "" {
		s.renderPage(w, st)
		return
	}

	res, err := s.generate(r.Context(), st.ID, text)

	// Requests handled while generating may have changed the inputs; keep them
	if latest, getErr := s.sessions.Get(r.Context(), st.ID); getErr == nil {
		st = latest
	}
	if err != nil {
		st.Error = "An error occurred: " + err.Error()
	} else {
		st.Result = &res
	}

	s.saveSession(r.Context(), st)
	s.renderPage(w, st)
}

// handleDownload serves the combined notes and questions as a text file
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	st, err := s.existingSession(r)
	if err != nil || st.Result == nil {
		http.Error(w, "No study materials to download", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", study.ArtifactMIME+"; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": study.ArtifactFilename}))
	io.WriteString(w, st.Result.Artifact())
}
