package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/models"
)

var (
	ErrBankNotFound = errors.New("banco de preguntas no encontrado")
	ErrBankInvalid  = errors.New("banco de preguntas inválido")
)

// QuestionService lee el banco de preguntas desde disco en cada llamada
type QuestionService struct {
	filePath string
	logger   *zap.Logger
}

// NewQuestionService crea una nueva instancia del servicio
func NewQuestionService(filePath string, logger *zap.Logger) *QuestionService {
	return &QuestionService{
		filePath: filePath,
		logger:   logger,
	}
}

// LoadQuestions carga el banco completo desde el fichero configurado
func (s *QuestionService) LoadQuestions() ([]models.Question, error) {
	questions, err := LoadQuestionsFromFile(s.filePath)
	if err != nil {
		return nil, err
	}

	for _, q := range questions {
		if bad := outOfRangeAnswers(q); len(bad) > 0 {
			s.logger.Warn("⚠️ respuestas fuera de rango, nunca se mostrarán como correctas",
				zap.String("question", q.ID),
				zap.Ints("answer", bad),
				zap.Int("options", len(q.Options)),
			)
		}
	}
	return questions, nil
}

// FilePath ruta del banco configurado
func (s *QuestionService) FilePath() string {
	return s.filePath
}

// LoadQuestionsFromFile lee y valida un banco de preguntas JSON
func LoadQuestionsFromFile(path string) ([]models.Question, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s: %w", ErrBankNotFound, path, err)
		}
		return nil, fmt.Errorf("error leyendo archivo %s: %w", path, err)
	}

	questions, err := ParseQuestions(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return questions, nil
}

// ParseQuestions acepta una lista JSON de preguntas o un objeto {"questions": [...]}
func ParseQuestions(data []byte) ([]models.Question, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: fichero vacío", ErrBankInvalid)
	}

	var questions []models.Question
	switch data[0] {
	case '[':
		if err := json.Unmarshal(data, &questions); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBankInvalid, err)
		}
	case '{':
		var wrapped models.QuestionsData
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrBankInvalid, err)
		}
		questions = wrapped.Questions
	default:
		return nil, fmt.Errorf("%w: se esperaba una lista u objeto JSON", ErrBankInvalid)
	}

	seen := make(map[string]int, len(questions))
	for i, q := range questions {
		if q.ID == "" {
			return nil, fmt.Errorf("%w: la pregunta %d no tiene id", ErrBankInvalid, i)
		}
		if prev, dup := seen[q.ID]; dup {
			return nil, fmt.Errorf("%w: id %q repetido en las preguntas %d y %d", ErrBankInvalid, q.ID, prev, i)
		}
		seen[q.ID] = i
	}
	return questions, nil
}

func outOfRangeAnswers(q models.Question) []int {
	var bad []int
	for _, a := range q.Answer {
		if a < 0 || a >= len(q.Options) {
			bad = append(bad, a)
		}
	}
	return bad
}
