// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch
package server

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/northbound/studynotes/internal/parser"
	"github.com/northbound/studynotes/internal/progress"
	"github.com/northbound/studynotes/internal/server/middleware"
	"github.com/northbound/studynotes/internal/session"
	"github.com/northbound/studynotes/internal/study"
)

const sessionCookie = "studynotes_session"

// Options holds the collaborators owned by the composition root
type Options struct {
	Study          *study.Service
	Extractor      *parser.Extractor
	Sessions       session.Store
	Progress       *progress.Broadcaster
	Logger         *zap.Logger
	MaxUploadBytes int64
}

// Server handles the web UI, the download and the JSON API
type Server struct {
	study     *study.Service
	extractor *parser.Extractor
	sessions  session.Store
	progress  *progress.Broadcaster
	logger    *zap.Logger
	maxUpload int64
	pages     *template.Template
}

// New creates a new server instance
func New(opts Options) (*Server, error) {
	if opts.Study == nil || opts.Extractor == nil || opts.Sessions == nil {
		return nil, errors.New("server: study service, extractor and session store are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Progress == nil {
		opts.Progress = progress.NewBroadcaster()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 200 << 20
	}

	pages, err := parsePages()
	if err != nil {
		return nil, err
	}

	return &Server{
		study:     opts.Study,
		extractor: opts.Extractor,
		sessions:  opts.Sessions,
		progress:  opts.Progress,
		logger:    opts.Logger,
		maxUpload: opts.MaxUploadBytes,
		pages:     pages,
	}, nil
}

// Handler returns the HTTP handler
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Web UI
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/mode", s.handleMode)
	mux.HandleFunc("/extract", s.handleExtract)
	mux.HandleFunc("/generate", s.handleGenerate)
	mux.HandleFunc("/download", s.handleDownload)
	mux.HandleFunc("/ws/progress", s.handleProgressStream)

	// API endpoints
	mux.HandleFunc("/api/v1/health", HandleHealth)
	mux.HandleFunc("/api/v1/extract", s.handleAPIExtract)
	mux.HandleFunc("/api/v1/generate", s.handleAPIGenerate)

	return middleware.TrafficLogger(s.logger)(mux)
}

// loadSession returns the caller's state, issuing a new session when the
// cookie is missing, malformed or expired.
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.State {
	if c, err := r.Cookie(sessionCookie); err == nil && session.IsValidID(c.Value) {
		st, err := s.sessions.Get(r.Context(), c.Value)
		if err == nil {
			return st
		}
		if !errors.Is(err, session.ErrNotFound) {
			s.logger.Warn("failed to load session, starting a new one", zap.Error(err))
		}
	}

	st := session.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    st.ID,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return st
}

// existingSession returns the caller's state without creating one
func (s *Server) existingSession(r *http.Request) (*session.State, error) {
	c, err := r.Cookie(sessionCookie)
	if err != nil || !session.IsValidID(c.Value) {
		return nil, session.ErrNotFound
	}
	return s.sessions.Get(r.Context(), c.Value)
}

func (s *Server) saveSession(ctx context.Context, st *session.State) {
	if err := s.sessions.Save(ctx, st); err != nil {
		s.logger.Error("failed to save session", zap.String("session", st.ID), zap.Error(err))
	}
}

// generate runs the study service for a session, publishing progress as it goes
func (s *Server) generate(ctx context.Context, sessionID, text string) (study.Result, error) {
	s.progress.Notify(sessionID, progress.EventGeneratingNotes, "Generating study materials...")

	res, err := s.study.Generate(ctx, text, func(stage study.Stage) {
		if stage == study.StageQuestions {
			s.progress.Notify(sessionID, progress.EventGeneratingQuestions, "Generating quiz questions...")
		}
	})
	if err != nil {
		s.progress.Publish(sessionID, progress.Event{
			Type:    progress.EventError,
			Message: "Generation failed",
			Error:   err.Error(),
		})
		return study.Result{}, err
	}

	s.progress.Notify(sessionID, progress.EventComplete, "Study materials ready")
	return res, nil
}

// extract reads an uploaded document and extracts its text
func (s *Server) extract(sessionID, filename string, data []byte) (string, error) {
	s.progress.Notify(sessionID, progress.EventExtracting, "Extracting text from document...")
	start := time.Now()

	text, err := s.extractor.ExtractDocument(filename, data)

	s.logger.Info("document processed",
		zap.String("filename", filename),
		zap.Int("bytes", len(data)),
		zap.Int("chars", len(text)),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	s.progress.Notify(sessionID, progress.EventExtracted, fmt.Sprintf("Extracted %d characters", len(text)))
	return text, err
}
