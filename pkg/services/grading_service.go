package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/metrics"
	"github.com/backsoul/quizform/pkg/models"
	"github.com/backsoul/quizform/pkg/session"
	"github.com/backsoul/quizform/pkg/storage"
)

const (
	resultTimeLayout = "20060102T150405Z"
	maxNameAttempts  = 5
)

// ErrNoActiveQuiz la sesión no tiene examen en curso; el cliente debe generar uno nuevo
var ErrNoActiveQuiz = errors.New("no hay examen en curso")

var resultNamePattern = regexp.MustCompile(`^results_\d{8}T\d{6}Z_[0-9a-f]{8}\.json$`)

// ResultPublisher recibe el resumen de cada resultado guardado
type ResultPublisher interface {
	PublishResult(summary models.ResultSummary)
}

// Grade corrige un examen preparado contra los valores enviados.
// Una pregunta puntúa 1 solo si el conjunto elegido es exactamente el correcto.
func Grade(prepared []models.PreparedQuestion, submission models.Submission, at time.Time) models.ResultRecord {
	record := models.ResultRecord{
		Timestamp: at,
		MaxScore:  len(prepared),
		Details:   make([]models.QuestionDetail, 0, len(prepared)),
	}

	for _, q := range prepared {
		chosen := parseChoices(submission[q.ID])
		correct := sortedSet(q.CorrectDisplay)

		score := 0
		if slices.Equal(chosen, correct) {
			score = 1
		}
		record.TotalScore += score

		record.Details = append(record.Details, models.QuestionDetail{
			QID:            q.ID,
			Question:       q.Question,
			Options:        q.Options,
			CorrectDisplay: correct,
			Chosen:         chosen,
			Score:          score,
		})
	}

	if record.MaxScore > 0 {
		record.Percent = float64(record.TotalScore) / float64(record.MaxScore) * 100
	}
	return record
}

// parseChoices descarta en silencio los valores que no son enteros
func parseChoices(raw []string) []int {
	chosen := make([]int, 0, len(raw))
	for _, v := range raw {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			continue
		}
		chosen = append(chosen, n)
	}
	return sortedSet(chosen)
}

func sortedSet(xs []int) []int {
	out := slices.Clone(xs)
	if out == nil {
		out = []int{}
	}
	slices.Sort(out)
	return slices.Compact(out)
}

// ResultFileName nombre del registro: marca de tiempo UTC más un sufijo aleatorio
func ResultFileName(at time.Time, suffix string) string {
	return fmt.Sprintf("results_%s_%s.json", at.UTC().Format(resultTimeLayout), suffix)
}

// ValidResultFileName indica si name pudo haber sido generado por ResultFileName
func ValidResultFileName(name string) bool {
	return resultNamePattern.MatchString(name)
}

func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// Outcome resultado de corregir y guardar un envío
type Outcome struct {
	Quiz   []models.PreparedQuestion
	Record models.ResultRecord
	File   string
}

// Summary resumen para la vista de revisión
func (o *Outcome) Summary() models.ResultSummary {
	return o.Record.Summary(o.File)
}

// GradingService corrige el examen activo de la sesión y persiste el resultado
type GradingService struct {
	store     session.Store
	results   storage.ResultStore
	publisher ResultPublisher
	metrics   *metrics.Metrics
	logger    *zap.Logger
	now       func() time.Time
	suffix    func() string
}

// NewGradingService publisher y m pueden ser nil
func NewGradingService(store session.Store, results storage.ResultStore, publisher ResultPublisher, m *metrics.Metrics, logger *zap.Logger) *GradingService {
	return &GradingService{
		store:     store,
		results:   results,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
		now:       time.Now,
		suffix:    randomSuffix,
	}
}

// Submit corrige el examen activo de sessionID. El examen se consume solo si el
// resultado queda guardado; si falla el guardado se puede reenviar.
func (s *GradingService) Submit(ctx context.Context, sessionID string, submission models.Submission) (*Outcome, error) {
	if sessionID == "" {
		s.metrics.Submission("no_quiz")
		return nil, ErrNoActiveQuiz
	}

	prepared, err := s.store.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			s.metrics.Submission("no_quiz")
			return nil, ErrNoActiveQuiz
		}
		s.metrics.Submission("error")
		return nil, fmt.Errorf("error recuperando examen de la sesión: %w", err)
	}
	if len(prepared) == 0 {
		s.metrics.Submission("no_quiz")
		return nil, ErrNoActiveQuiz
	}

	record := Grade(prepared, submission, s.now().UTC())

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		s.metrics.Submission("error")
		return nil, fmt.Errorf("error serializando resultado: %w", err)
	}

	name, err := s.persist(ctx, record.Timestamp, data)
	if err != nil {
		s.metrics.Submission("error")
		return nil, fmt.Errorf("error guardando resultado: %w", err)
	}

	if err := s.store.Delete(ctx, sessionID); err != nil {
		s.logger.Warn("⚠️ no se pudo cerrar el examen de la sesión", zap.String("session", sessionID), zap.Error(err))
	}

	outcome := &Outcome{Quiz: prepared, Record: record, File: name}

	s.metrics.Submission("graded")
	s.metrics.Score(record.Percent)
	if s.publisher != nil {
		s.publisher.PublishResult(outcome.Summary())
	}

	s.logger.Info("✅ resultado guardado",
		zap.String("file", name),
		zap.Int("total", record.TotalScore),
		zap.Int("max", record.MaxScore),
		zap.Float64("percent", record.Percent),
	)
	return outcome, nil
}

func (s *GradingService) persist(ctx context.Context, at time.Time, data []byte) (string, error) {
	for attempt := 1; attempt <= maxNameAttempts; attempt++ {
		name := ResultFileName(at, s.suffix())
		err := s.results.Create(ctx, name, data)
		if err == nil {
			return name, nil
		}
		if !errors.Is(err, storage.ErrExists) {
			return "", err
		}
		s.logger.Warn("nombre de resultado ocupado, reintentando", zap.String("file", name), zap.Int("attempt", attempt))
	}
	return "", fmt.Errorf("%w: sin nombre libre tras %d intentos", storage.ErrExists, maxNameAttempts)
}

// OpenResult abre un resultado guardado; solo acepta nombres generados por el servicio
func (s *GradingService) OpenResult(ctx context.Context, name string) (io.ReadCloser, error) {
	if !ValidResultFileName(name) {
		return nil, fmt.Errorf("%w: %q", storage.ErrInvalidName, name)
	}
	return s.results.Open(ctx, name)
}
