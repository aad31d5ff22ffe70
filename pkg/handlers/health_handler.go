package handlers

import (
	"fmt"

	"github.com/valyala/fasthttp"

	"github.com/backsoul/quizform/pkg/services"
	"github.com/backsoul/quizform/pkg/session"
)

// HealthHandler comprueba el almacén de sesiones y el banco de preguntas
type HealthHandler struct {
	store     session.Store
	questions *services.QuestionService
}

func NewHealthHandler(store session.Store, questions *services.QuestionService) *HealthHandler {
	return &HealthHandler{store: store, questions: questions}
}

// HealthCheck maneja GET /api/health
func (h *HealthHandler) HealthCheck(ctx *fasthttp.RequestCtx) {
	if err := h.store.Ping(ctx); err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, fmt.Sprintf("Servicio no disponible: %v", err))
		return
	}

	questions, err := h.questions.LoadQuestions()
	if err != nil {
		respondWithError(ctx, fasthttp.StatusServiceUnavailable, fmt.Sprintf("Banco de preguntas no disponible: %v", err))
		return
	}

	respondWithSuccess(ctx, map[string]interface{}{
		"status":    "healthy",
		"questions": len(questions),
		"bank":      h.questions.FilePath(),
	}, "Servicio funcionando correctamente")
}
