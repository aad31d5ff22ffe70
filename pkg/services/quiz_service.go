package services

import (
	"context"
	"fmt"
	"math/rand/v2"

	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/metrics"
	"github.com/backsoul/quizform/pkg/models"
	"github.com/backsoul/quizform/pkg/session"
)

// PrepareOptions controla el muestreo y barajado de un examen
type PrepareOptions struct {
	Count            int
	ShuffleQuestions bool
	ShuffleOptions   bool
	// Rand fuente aleatoria; nil usa una PCG recién sembrada
	Rand *rand.Rand
}

// Prepare selecciona Count preguntas sin repetir, las baraja junto con sus
// opciones y recalcula qué posiciones mostradas son correctas.
func Prepare(questions []models.Question, opts PrepareOptions) []models.PreparedQuestion {
	r := opts.Rand
	if r == nil {
		r = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	count := max(opts.Count, 0)

	var sample []models.Question
	if count >= len(questions) {
		sample = make([]models.Question, len(questions))
		copy(sample, questions)
	} else {
		sample = make([]models.Question, 0, count)
		for _, ix := range r.Perm(len(questions))[:count] {
			sample = append(sample, questions[ix])
		}
	}

	if opts.ShuffleQuestions {
		r.Shuffle(len(sample), func(i, j int) { sample[i], sample[j] = sample[j], sample[i] })
	}

	prepared := make([]models.PreparedQuestion, 0, len(sample))
	for _, q := range sample {
		prepared = append(prepared, prepareQuestion(q, opts.ShuffleOptions, r))
	}
	return prepared
}

func prepareQuestion(q models.Question, shuffleOptions bool, r *rand.Rand) models.PreparedQuestion {
	order := make([]int, len(q.Options))
	for i := range order {
		order[i] = i
	}
	if shuffleOptions {
		r.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	}

	correct := make(map[int]struct{}, len(q.Answer))
	for _, a := range q.Answer {
		correct[a] = struct{}{}
	}

	options := make([]string, len(order))
	display := make([]int, 0, len(correct))
	for d, orig := range order {
		options[d] = q.Options[orig]
		if _, ok := correct[orig]; ok {
			display = append(display, d)
		}
	}

	return models.PreparedQuestion{
		ID:             q.ID,
		Question:       q.Question,
		Options:        options,
		CorrectDisplay: display,
		OptionOrder:    order,
	}
}

// QuizService genera exámenes y los asocia a la sesión del usuario
type QuizService struct {
	questions *QuestionService
	store     session.Store
	metrics   *metrics.Metrics
	logger    *zap.Logger
	count     int
	shuffle   bool
}

func NewQuizService(questions *QuestionService, store session.Store, m *metrics.Metrics, logger *zap.Logger, count int, shuffle bool) *QuizService {
	return &QuizService{
		questions: questions,
		store:     store,
		metrics:   m,
		logger:    logger,
		count:     count,
		shuffle:   shuffle,
	}
}

// NewQuiz prepara un examen nuevo y lo guarda como el examen activo de la sesión,
// sustituyendo cualquier examen anterior sin corregir.
func (s *QuizService) NewQuiz(ctx context.Context, sessionID string) ([]models.PreparedQuestion, error) {
	questions, err := s.questions.LoadQuestions()
	if err != nil {
		return nil, err
	}

	prepared := Prepare(questions, PrepareOptions{
		Count:            s.count,
		ShuffleQuestions: s.shuffle,
		ShuffleOptions:   s.shuffle,
	})

	if err := s.store.Save(ctx, sessionID, prepared); err != nil {
		return nil, fmt.Errorf("error guardando examen en sesión: %w", err)
	}

	mode := "ordered"
	if s.shuffle {
		mode = "shuffled"
	}
	s.metrics.QuizGenerated(mode)
	s.logger.Debug("examen preparado",
		zap.String("session", sessionID),
		zap.Int("questions", len(prepared)),
		zap.Int("bank", len(questions)),
	)
	return prepared, nil
}

// DebugQuiz devuelve el banco completo sin barajar y sin tocar ninguna sesión
func (s *QuizService) DebugQuiz() ([]models.PreparedQuestion, error) {
	questions, err := s.questions.LoadQuestions()
	if err != nil {
		return nil, err
	}

	s.metrics.QuizGenerated("debug")
	return Prepare(questions, PrepareOptions{Count: len(questions)}), nil
}
