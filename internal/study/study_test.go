package study

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/northbound/studynotes/internal/ai"
)

// scriptedCompleter answers calls in order; a non-nil entry in errs fails that call.
type scriptedCompleter struct {
	replies []string
	errs    []error
	prompts []string
}

func (s *scriptedCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	i := len(s.prompts)
	s.prompts = append(s.prompts, prompt)
	if i < len(s.errs) && s.errs[i] != nil {
		return "", s.errs[i]
	}
	return s.replies[i], nil
}

func TestGenerate_PasteScenario(t *testing.T) {
	text := "Photosynthesis converts light into chemical energy."
	c := &scriptedCompleter{replies: []string{"- Light becomes chemical energy", "1. What does photosynthesis convert?"}}
	svc := NewService(c, nil)

	var stages []Stage
	res, err := svc.Generate(context.Background(), text, func(s Stage) { stages = append(stages, s) })
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	if res.Notes == "" || res.Questions == "" {
		t.Fatalf("Expected two non-empty results, got %+v", res)
	}
	if len(c.prompts) != 2 {
		t.Fatalf("Expected 2 completion calls, got %d", len(c.prompts))
	}
	if !strings.Contains(c.prompts[0], "study notes") || !strings.Contains(c.prompts[1], "quiz questions") {
		t.Errorf("Expected notes prompt first and questions prompt second")
	}
	for _, p := range c.prompts {
		if !strings.Contains(p, text) {
			t.Errorf("Prompt does not embed the source text: %q", p)
		}
	}
	if len(stages) != 2 || stages[0] != StageNotes || stages[1] != StageQuestions {
		t.Errorf("Unexpected stages %v", stages)
	}

	artifact := res.Artifact()
	if !strings.HasPrefix(artifact, "STUDY NOTES") {
		t.Errorf("Artifact should start with STUDY NOTES: %q", artifact)
	}
	if strings.Index(artifact, "QUIZ QUESTIONS") <= strings.Index(artifact, res.Notes) {
		t.Errorf("QUIZ QUESTIONS header should follow the notes: %q", artifact)
	}
}

func TestArtifact_Format(t *testing.T) {
	res := Result{Notes: "N", Questions: "Q"}
	expected := "STUDY NOTES\n\nN\n\nQUIZ QUESTIONS\n\nQ"
	if res.Artifact() != expected {
		t.Errorf("Expected %q, got %q", expected, res.Artifact())
	}
}

func TestGenerate_EmptyTextMakesNoCall(t *testing.T) {
	c := &scriptedCompleter{}
	svc := NewService(c, nil)

	for _, text := range []string{"", "   \n\t"} {
		_, err := svc.Generate(context.Background(), text, nil)
		if !errors.Is(err, ErrEmptyText) {
			t.Errorf("Expected ErrEmptyText for %q, got %v", text, err)
		}
	}
	if len(c.prompts) != 0 {
		t.Errorf("Expected no completion calls, got %d", len(c.prompts))
	}
}

func TestGenerate_FailureDiscardsBoth(t *testing.T) {
	boom := errors.New("quota exceeded")

	cases := map[string]*scriptedCompleter{
		"notes fail":     {replies: []string{"", ""}, errs: []error{boom}},
		"questions fail": {replies: []string{"- notes", ""}, errs: []error{nil, boom}},
	}

	for name, c := range cases {
		res, err := NewService(c, nil).Generate(context.Background(), "some text", nil)
		if !errors.Is(err, boom) {
			t.Errorf("%s: expected upstream error, got %v", name, err)
		}
		if res != (Result{}) {
			t.Errorf("%s: expected zero result, got %+v", name, res)
		}
	}
}

func TestGenerate_WithMockCompleter(t *testing.T) {
	res, err := NewService(ai.NewMockCompleter(), nil).Generate(context.Background(), "Cells divide by mitosis.", nil)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if res.Notes == res.Questions {
		t.Error("Expected different completions for the two prompts")
	}
}
