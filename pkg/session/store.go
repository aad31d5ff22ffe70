package session

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/backsoul/quizform/pkg/models"
)

// ErrNotFound no hay examen preparado para la sesión (o ha caducado)
var ErrNotFound = errors.New("sesión sin examen preparado")

// Store guarda el examen preparado de cada sesión entre la generación y la corrección
type Store interface {
	Save(ctx context.Context, sessionID string, quiz []models.PreparedQuestion) error
	Load(ctx context.Context, sessionID string) ([]models.PreparedQuestion, error)
	Delete(ctx context.Context, sessionID string) error
	Ping(ctx context.Context) error
}

// NewSessionID genera un identificador de sesión nuevo
func NewSessionID() string {
	return uuid.NewString()
}
