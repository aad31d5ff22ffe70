package handlers

import (
	"bytes"
	"errors"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/models"
	"github.com/backsoul/quizform/pkg/services"
	"github.com/backsoul/quizform/pkg/session"
	"github.com/backsoul/quizform/pkg/views"
)

const (
	SessionCookie   = "quiz_session"
	noticeNoQuiz    = "no-active-quiz"
	noticeNoQuizMsg = "No hay examen en curso. Se ha generado uno nuevo."
)

// QuizHandler maneja la generación, depuración y corrección de exámenes
type QuizHandler struct {
	quizService    *services.QuizService
	gradingService *services.GradingService
	tokens         *session.Tokens
	cookieSecure   bool
	logger         *zap.Logger
}

func NewQuizHandler(quizService *services.QuizService, gradingService *services.GradingService, tokens *session.Tokens, cookieSecure bool, logger *zap.Logger) *QuizHandler {
	return &QuizHandler{
		quizService:    quizService,
		gradingService: gradingService,
		tokens:         tokens,
		cookieSecure:   cookieSecure,
		logger:         logger,
	}
}

// ShowQuiz maneja GET /
func (h *QuizHandler) ShowQuiz(ctx *fasthttp.RequestCtx) {
	sessionID := h.sessionID(ctx)
	if sessionID == "" {
		sessionID = session.NewSessionID()
	}

	prepared, err := h.quizService.NewQuiz(ctx, sessionID)
	if err != nil {
		h.logger.Error("error generando examen", zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo generar el examen.")
		return
	}

	if err := h.setSessionCookie(ctx, sessionID); err != nil {
		h.logger.Error("error emitiendo cookie de sesión", zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo iniciar la sesión.")
		return
	}

	page := views.QuizPage{Questions: prepared}
	if string(ctx.QueryArgs().Peek("notice")) == noticeNoQuiz {
		page.Notice = noticeNoQuizMsg
	}

	renderHTML(ctx, h.logger, fasthttp.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderQuiz(buf, page)
	})
}

// ShowDebug maneja GET /debug
func (h *QuizHandler) ShowDebug(ctx *fasthttp.RequestCtx) {
	prepared, err := h.quizService.DebugQuiz()
	if err != nil {
		h.logger.Error("error generando examen de depuración", zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo cargar el banco de preguntas.")
		return
	}

	renderHTML(ctx, h.logger, fasthttp.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderDebug(buf, prepared)
	})
}

// Submit maneja POST /submit
func (h *QuizHandler) Submit(ctx *fasthttp.RequestCtx) {
	outcome, err := h.gradingService.Submit(ctx, h.sessionID(ctx), readSubmission(ctx))
	if err != nil {
		if errors.Is(err, services.ErrNoActiveQuiz) {
			ctx.Response.Header.Set("Location", "/?notice="+noticeNoQuiz)
			ctx.SetStatusCode(fasthttp.StatusSeeOther)
			return
		}
		h.logger.Error("error corrigiendo examen", zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo guardar el resultado. Inténtalo de nuevo.")
		return
	}

	page := views.ReviewPage(outcome.Quiz, outcome.Record, outcome.Summary())
	renderHTML(ctx, h.logger, fasthttp.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderQuiz(buf, page)
	})
}

// sessionID id de la cookie firmada; vacío si no hay o no es válida
func (h *QuizHandler) sessionID(ctx *fasthttp.RequestCtx) string {
	token := ctx.Request.Header.Cookie(SessionCookie)
	if len(token) == 0 {
		return ""
	}
	sessionID, err := h.tokens.Parse(string(token))
	if err != nil {
		h.logger.Debug("cookie de sesión descartada", zap.Error(err))
		return ""
	}
	return sessionID
}

func (h *QuizHandler) setSessionCookie(ctx *fasthttp.RequestCtx, sessionID string) error {
	token, err := h.tokens.Issue(sessionID)
	if err != nil {
		return err
	}

	cookie := fasthttp.AcquireCookie()
	defer fasthttp.ReleaseCookie(cookie)

	cookie.SetKey(SessionCookie)
	cookie.SetValue(token)
	cookie.SetPath("/")
	cookie.SetHTTPOnly(true)
	cookie.SetSecure(h.cookieSecure)
	cookie.SetSameSite(fasthttp.CookieSameSiteLaxMode)
	cookie.SetMaxAge(int(h.tokens.TTL() / time.Second))
	ctx.Response.Header.SetCookie(cookie)
	return nil
}

// readSubmission agrupa los campos q_<id> del formulario (urlencoded o multipart)
func readSubmission(ctx *fasthttp.RequestCtx) models.Submission {
	submission := models.Submission{}
	add := func(key, value string) {
		if id, ok := strings.CutPrefix(key, models.FieldName("")); ok && id != "" {
			submission[id] = append(submission[id], value)
		}
	}

	if form, err := ctx.MultipartForm(); err == nil {
		for key, values := range form.Value {
			for _, v := range values {
				add(key, v)
			}
		}
		return submission
	}

	ctx.PostArgs().VisitAll(func(key, value []byte) {
		add(string(key), string(value))
	})
	return submission
}
