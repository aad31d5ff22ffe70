package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"slices"

	"github.com/backsoul/quizform/pkg/models"
)

//go:embed templates/*.html
var files embed.FS

var funcs = template.FuncMap{
	"contains": slices.Contains[[]int, int],
	"inc":      func(i int) int { return i + 1 },
	"percent":  func(p float64) string { return fmt.Sprintf("%.1f", p) },
}

var pages = map[string]*template.Template{
	"quiz":  parse("quiz.html"),
	"debug": parse("debug.html"),
	"error": parse("error.html"),
}

func parse(page string) *template.Template {
	return template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", "templates/"+page))
}

// QuizPage datos de la vista del examen. En modo revisión Details está indexado por id de pregunta.
type QuizPage struct {
	Title     string
	Questions []models.PreparedQuestion
	Notice    string
	Review    bool
	Summary   *models.ResultSummary
	Details   map[string]models.QuestionDetail
}

type ErrorPage struct {
	Title   string
	Status  int
	Message string
}

func RenderQuiz(w io.Writer, page QuizPage) error {
	if page.Title == "" {
		page.Title = "Examen"
	}
	return pages["quiz"].Execute(w, page)
}

func RenderDebug(w io.Writer, questions []models.PreparedQuestion) error {
	return pages["debug"].Execute(w, QuizPage{Title: "Examen (debug)", Questions: questions})
}

func RenderError(w io.Writer, page ErrorPage) error {
	if page.Title == "" {
		page.Title = "Error"
	}
	return pages["error"].Execute(w, page)
}

// ReviewPage construye la vista de revisión a partir de un envío corregido
func ReviewPage(quiz []models.PreparedQuestion, record models.ResultRecord, summary models.ResultSummary) QuizPage {
	details := make(map[string]models.QuestionDetail, len(record.Details))
	for _, d := range record.Details {
		details[d.QID] = d
	}
	return QuizPage{
		Title:     "Revisión",
		Questions: quiz,
		Review:    true,
		Summary:   &summary,
		Details:   details,
	}
}
