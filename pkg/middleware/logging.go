package middleware

import (
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/metrics"
)

// RouteKey clave de user value donde el router deja la ruta lógica (p.ej. /results/:file)
const RouteKey = "route"

// Logging registra cada petición con zap y alimenta las métricas HTTP
func Logging(logger *zap.Logger, m *metrics.Metrics, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		elapsed := time.Since(start)

		route, _ := ctx.UserValue(RouteKey).(string)
		if route == "" {
			route = "unmatched"
		}
		status := ctx.Response.StatusCode()
		method := string(ctx.Method())

		m.ObserveRequest(method, route, status, elapsed)
		logger.Info("📡 petición",
			zap.String("method", method),
			zap.ByteString("path", ctx.Path()),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.String("remote", ctx.RemoteIP().String()),
		)
	}
}
