// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package session holds the explicit per-browser UI state between requests.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/northbound/studynotes/internal/study"
)

// ErrNotFound is returned for unknown or expired sessions
var ErrNotFound = errors.New("session not found")

// Mode is the active input method. Exactly one is active at a time.
type Mode string

const (
	ModeUpload Mode = "upload"
	ModePaste  Mode = "paste"
)

// ParseMode maps a form value to a Mode, defaulting to upload
func ParseMode(s string) Mode {
	if Mode(s) == ModePaste {
		return ModePaste
	}
	return ModeUpload
}

// ExtractionStatus records the outcome of the last upload
type ExtractionStatus string

const (
	ExtractionNone      ExtractionStatus = ""
	ExtractionSucceeded ExtractionStatus = "succeeded"
	ExtractionFailed    ExtractionStatus = "failed"
)

// State is everything the page needs to render. Inputs survive between
// requests, outcomes (Result, Error) only until the next interaction.
type State struct {
	ID              string           `json:"id"`
	Mode            Mode             `json:"mode"`
	PastedText      string           `json:"pasted_text,omitempty"`
	Filename        string           `json:"filename,omitempty"`
	ExtractedText   string           `json:"extracted_text,omitempty"`
	Extraction      ExtractionStatus `json:"extraction,omitempty"`
	ExtractionError string           `json:"extraction_error,omitempty"`
	Result          *study.Result    `json:"result,omitempty"`
	Error           string           `json:"error,omitempty"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// New creates an empty state with a fresh id in upload mode
func New() *State {
	return &State{
		ID:        uuid.NewString(),
		Mode:      ModeUpload,
		UpdatedAt: time.Now(),
	}
}

// TextContent returns the text of the active mode only
func (s *State) TextContent() string {
	if s.Mode == ModePaste {
		return s.PastedText
	}
	return s.ExtractedText
}

// ClearOutcome drops the previous generation result and error
func (s *State) ClearOutcome() {
	s.Result = nil
	s.Error = ""
}

// SetUpload records an extraction outcome, replacing any earlier upload
func (s *State) SetUpload(filename, text string, extractErr error) {
	s.Filename = filename
	s.ExtractedText = text
	s.ExtractionError = ""
	if extractErr != nil {
		s.ExtractionError = extractErr.Error()
	}
	if text != "" {
		s.Extraction = ExtractionSucceeded
	} else {
		s.Extraction = ExtractionFailed
	}
}

// Store persists session state for a bounded time
type Store interface {
	Get(ctx context.Context, id string) (*State, error)
	Save(ctx context.Context, s *State) error
	Delete(ctx context.Context, id string) error
}

// IsValidID reports whether id looks like a session id we issued
func IsValidID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
