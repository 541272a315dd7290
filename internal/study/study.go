// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package study turns source text into study notes and quiz questions.
package study

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/northbound/studynotes/internal/ai"
	"github.com/northbound/studynotes/internal/prompts"
)

// ErrEmptyText is returned when there is no source text to generate from.
var ErrEmptyText = errors.New("no text content to generate from")

// Download artifact properties
const (
	ArtifactFilename = "study_materials.txt"
	ArtifactMIME     = "text/plain"
)

// Result holds the literal completions for the two prompts.
type Result struct {
	Notes     string `json:"notes"`
	Questions string `json:"questions"`
}

// Artifact combines both results under fixed section headers.
func (r Result) Artifact() string {
	return "STUDY NOTES\n\n" + r.Notes + "\n\nQUIZ QUESTIONS\n\n" + r.Questions
}

// Stage identifies a step of a generation run, reported to an Observer.
type Stage string

const (
	StageNotes     Stage = "generating_notes"
	StageQuestions Stage = "generating_questions"
)

// Observer is told when each stage starts. It may be nil.
type Observer func(stage Stage)

// Service orchestrates prompt building and the two completion calls
type Service struct {
	completer ai.Completer
	logger    *zap.Logger
}

// NewService creates a study service backed by completer
func NewService(completer ai.Completer, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{completer: completer, logger: logger}
}

// Generate makes one notes call then one questions call, synchronously.
// A failure in either call discards both results.
func (s *Service) Generate(ctx context.Context, text string, observe Observer) (Result, error) {
	if strings.TrimSpace(text) == "" {
		return Result{}, ErrEmptyText
	}
	if observe == nil {
		observe = func(Stage) {}
	}

	start := time.Now()

	notesPrompt, err := prompts.Notes(text)
	if err != nil {
		return Result{}, err
	}
	questionsPrompt, err := prompts.Questions(text)
	if err != nil {
		return Result{}, err
	}

	observe(StageNotes)
	notes, err := s.completer.Complete(ctx, notesPrompt)
	if err != nil {
		s.logger.Error("notes generation failed", zap.Int("text_chars", len(text)), zap.Error(err))
		return Result{}, fmt.Errorf("notes: %w", err)
	}

	observe(StageQuestions)
	questions, err := s.completer.Complete(ctx, questionsPrompt)
	if err != nil {
		s.logger.Error("questions generation failed", zap.Int("text_chars", len(text)), zap.Error(err))
		return Result{}, fmt.Errorf("questions: %w", err)
	}

	s.logger.Info("study materials generated",
		zap.Int("text_chars", len(text)),
		zap.Int("notes_chars", len(notes)),
		zap.Int("questions_chars", len(questions)),
		zap.Duration("elapsed", time.Since(start)))

	return Result{Notes: notes, Questions: questions}, nil
}
