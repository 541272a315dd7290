// Copyright (c) 2025 Northbound System
// Author: Nicholas Skitch

// Package prompts renders the two fixed instruction templates sent to the model.
package prompts

import (
	"fmt"

	"github.com/tmc/langchaingo/prompts"
)

// InputVariable is the single substitution slot shared by both templates.
const InputVariable = "text"

const notesTemplate = `Based on the following text, create concise and organized bullet point study notes:

{text}

Format the notes in a clear, hierarchical structure with main points and sub-points.`

const questionsTemplate = `Based on the following text, generate a mix of quiz questions including:
- 3 Multiple Choice Questions (MCQ)
- 2 True/False Questions
- 2 Short Answer Questions

Text: {text}

Format each question type separately and clearly.`

var (
	notesPrompt     = newTemplate(notesTemplate)
	questionsPrompt = newTemplate(questionsTemplate)
)

func newTemplate(tmpl string) prompts.PromptTemplate {
	return prompts.PromptTemplate{
		Template:       tmpl,
		InputVariables: []string{InputVariable},
		TemplateFormat: prompts.TemplateFormatFString,
	}
}

// Notes renders the hierarchical study-notes prompt for text.
// The text is embedded verbatim, with no truncation.
func Notes(text string) (string, error) {
	return render("notes", notesPrompt, text)
}

// Questions renders the quiz prompt: 3 multiple choice, 2 true/false, 2 short answer.
func Questions(text string) (string, error) {
	return render("questions", questionsPrompt, text)
}

func render(name string, tmpl prompts.PromptTemplate, text string) (string, error) {
	out, err := tmpl.Format(map[string]any{InputVariable: text})
	if err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", name, err)
	}
	return out, nil
}
