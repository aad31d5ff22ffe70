package views

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/backsoul/quizform/pkg/models"
)

func sampleQuiz() []models.PreparedQuestion {
	return []models.PreparedQuestion{
		{ID: "q1", Question: "¿Capital de Francia?", Options: []string{"Roma", "París"}, CorrectDisplay: []int{1}, OptionOrder: []int{1, 0}},
		{ID: "q2", Question: "¿2 + 2?", Options: []string{"4", "5", "cuatro"}, CorrectDisplay: []int{0, 2}, OptionOrder: []int{0, 1, 2}},
	}
}

func TestRenderQuizForm(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderQuiz(&buf, QuizPage{Questions: sampleQuiz(), Notice: "aviso"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		`<form method="post" action="/submit">`,
		`name="q_q1" value="1"`,
		`name="q_q2" value="2"`,
		`aviso`,
		`<title>Examen</title>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("form missing %q", want)
		}
	}
	if strings.Contains(html, `class="option correct"`) {
		t.Errorf("form must not reveal correct options")
	}
}

func TestRenderReview(t *testing.T) {
	record := models.ResultRecord{
		Timestamp:  time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC),
		TotalScore: 1,
		MaxScore:   2,
		Percent:    50,
		Details: []models.QuestionDetail{
			{QID: "q1", CorrectDisplay: []int{1}, Chosen: []int{1}, Score: 1},
			{QID: "q2", CorrectDisplay: []int{0, 2}, Chosen: []int{1}, Score: 0},
		},
	}
	file := "results_20240517T093000Z_0123abcd.json"

	var buf bytes.Buffer
	if err := RenderQuiz(&buf, ReviewPage(sampleQuiz(), record, record.Summary(file))); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()

	for _, want := range []string{
		"Puntuación: 1 / 2 (50.0%)",
		`href="/results/` + file + `"`,
		`class="option correct"`,
		`class="option wrong"`,
		"✔",
		"✘",
		`<a href="/">Nuevo examen</a>`,
	} {
		if !strings.Contains(html, want) {
			t.Errorf("review missing %q", want)
		}
	}
	if strings.Contains(html, `type="submit"`) {
		t.Errorf("review page should not offer a submit button")
	}
}

func TestRenderDebugMarksCorrect(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderDebug(&buf, sampleQuiz()); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if got := strings.Count(html, `class="option correct"`); got != 3 {
		t.Fatalf("marked %d correct options, want 3", got)
	}
	if !strings.Contains(html, "campo q_q2") {
		t.Errorf("debug view should show form field names")
	}
}

func TestRenderError(t *testing.T) {
	var buf bytes.Buffer
	if err := RenderError(&buf, ErrorPage{Status: 404, Message: "<nada>"}); err != nil {
		t.Fatalf("render: %v", err)
	}
	html := buf.String()
	if !strings.Contains(html, "404 · Error") {
		t.Errorf("missing heading")
	}
	if !strings.Contains(html, "&lt;nada&gt;") {
		t.Errorf("message not escaped")
	}
}
