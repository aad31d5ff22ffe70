package handlers

import (
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/middleware"
)

const resultsPrefix = "/results/"

// Router agrupa los handlers que atiende el servidor
type Router struct {
	Quiz    *QuizHandler
	Results *ResultHandler
	Health  *HealthHandler
	Metrics fasthttp.RequestHandler
	Feed    fasthttp.RequestHandler
	Logger  *zap.Logger
}

// Handler enrutamiento por ruta y método
func (r *Router) Handler(ctx *fasthttp.RequestCtx) {
	path := string(ctx.Path())
	method := string(ctx.Method())

	ctx.Response.Header.Set("Server", "Quiz-FastHTTP/1.0")
	ctx.Response.Header.Set("Cache-Control", "no-store")

	route := path
	switch {
	case path == "/" && method == fasthttp.MethodGet:
		r.Quiz.ShowQuiz(ctx)
	case path == "/debug" && method == fasthttp.MethodGet:
		r.Quiz.ShowDebug(ctx)
	case path == "/submit" && method == fasthttp.MethodPost:
		r.Quiz.Submit(ctx)
	case strings.HasPrefix(path, resultsPrefix) && method == fasthttp.MethodGet:
		route = resultsPrefix + ":file"
		ctx.SetUserValue("filename", strings.TrimPrefix(path, resultsPrefix))
		r.Results.DownloadResult(ctx)
	case path == "/api/health" && method == fasthttp.MethodGet:
		r.Health.HealthCheck(ctx)
	case path == "/metrics" && method == fasthttp.MethodGet && r.Metrics != nil:
		r.Metrics(ctx)
	case path == "/ws/results" && method == fasthttp.MethodGet && r.Feed != nil:
		r.Feed(ctx)
	case path == "/" || path == "/debug" || path == "/submit":
		route = "method_not_allowed"
		ctx.SetStatusCode(fasthttp.StatusMethodNotAllowed)
	case path == "/favicon.ico":
		route = "favicon"
		ctx.SetStatusCode(fasthttp.StatusNoContent)
	default:
		route = "not_found"
		serve404(ctx, r.Logger)
	}

	ctx.SetUserValue(middleware.RouteKey, route)
}
