package services

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
)

func writeBank(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "questions.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}
	return path
}

func TestLoadQuestionsFromFileList(t *testing.T) {
	path := writeBank(t, `[
  {"id": "a", "question": "A?", "options": ["x", "y"], "answer": [0]},
  {"id": 7, "question": "B?", "options": ["p", "q", "r"], "answer": [1, 2]}
]`)

	questions, err := LoadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 {
		t.Fatalf("got %d questions, want 2", len(questions))
	}
	if questions[1].ID != "7" {
		t.Errorf("numeric id decoded as %q, want \"7\"", questions[1].ID)
	}
	if got := questions[1].Answer; len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("answer = %v, want [1 2]", got)
	}
}

func TestLoadQuestionsFromFileWrapped(t *testing.T) {
	path := writeBank(t, `{
  "questions": [{"id": "1.1", "question": "Q", "options": ["a"], "answer": []}],
  "metadata": {"totalQuestions": 1, "version": "1"}
}`)

	questions, err := LoadQuestionsFromFile(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 1 || questions[0].ID != "1.1" {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestLoadQuestionsFromFileErrors(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.json")
	if _, err := LoadQuestionsFromFile(missing); !errors.Is(err, ErrBankNotFound) {
		t.Fatalf("missing file: err = %v, want ErrBankNotFound", err)
	}

	tests := []struct {
		name    string
		content string
	}{
		{"empty", ""},
		{"not json", "hello"},
		{"truncated", `[{"id": "a"`},
		{"wrong type", `[{"id": "a", "options": "x"}]`},
		{"missing id", `[{"question": "Q", "options": ["a"], "answer": [0]}]`},
		{"duplicate id", `[{"id": "a", "options": ["x"]}, {"id": "a", "options": ["y"]}]`},
		{"duplicate numeric and string id", `[{"id": 1, "options": ["x"]}, {"id": "1", "options": ["y"]}]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadQuestionsFromFile(writeBank(t, tt.content))
			if !errors.Is(err, ErrBankInvalid) {
				t.Fatalf("err = %v, want ErrBankInvalid", err)
			}
		})
	}
}

func TestQuestionServiceLoadsFreshEachCall(t *testing.T) {
	path := writeBank(t, `[{"id": "a", "question": "A?", "options": ["x"], "answer": [0]}]`)
	svc := NewQuestionService(path, zap.NewNop())

	first, err := svc.LoadQuestions()
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if len(first) != 1 {
		t.Fatalf("first load: got %d questions", len(first))
	}

	if err := os.WriteFile(path, []byte(`[{"id": "a", "options": ["x"]}, {"id": "b", "options": ["y"]}]`), 0o644); err != nil {
		t.Fatalf("rewrite bank: %v", err)
	}
	second, err := svc.LoadQuestions()
	if err != nil {
		t.Fatalf("second load: %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("second load: got %d questions, want 2", len(second))
	}
}

func TestOutOfRangeAnswersAreReported(t *testing.T) {
	path := writeBank(t, `[{"id": "a", "question": "A?", "options": ["x", "y"], "answer": [1, 2, -1]}]`)
	questions, err := NewQuestionService(path, zap.NewNop()).LoadQuestions()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	bad := outOfRangeAnswers(questions[0])
	if len(bad) != 2 || bad[0] != 2 || bad[1] != -1 {
		t.Fatalf("outOfRangeAnswers = %v, want [2 -1]", bad)
	}
}
