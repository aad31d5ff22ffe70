package handlers

import (
	"bytes"
	"encoding/json"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/models"
	"github.com/backsoul/quizform/pkg/views"
)

// respondWithJSON envía una respuesta JSON
func respondWithJSON(ctx *fasthttp.RequestCtx, statusCode int, response interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(statusCode)

	jsonData, err := json.Marshal(response)
	if err != nil {
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetBodyString(`{"success": false, "error": "Error al serializar respuesta"}`)
		return
	}

	ctx.SetBody(jsonData)
}

func respondWithError(ctx *fasthttp.RequestCtx, statusCode int, message string) {
	respondWithJSON(ctx, statusCode, models.APIResponse{
		Success: false,
		Error:   message,
	})
}

func respondWithSuccess(ctx *fasthttp.RequestCtx, data interface{}, message string) {
	respondWithJSON(ctx, fasthttp.StatusOK, models.APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// renderHTML ejecuta la vista en un buffer para no dejar respuestas a medias si falla
func renderHTML(ctx *fasthttp.RequestCtx, logger *zap.Logger, statusCode int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		logger.Error("error renderizando vista", zap.ByteString("path", ctx.Path()), zap.Error(err))
		ctx.SetStatusCode(fasthttp.StatusInternalServerError)
		ctx.SetContentType("text/plain; charset=utf-8")
		ctx.SetBodyString("error interno")
		return
	}
	ctx.SetStatusCode(statusCode)
	ctx.SetContentType("text/html; charset=utf-8")
	ctx.SetBody(buf.Bytes())
}

func renderError(ctx *fasthttp.RequestCtx, logger *zap.Logger, statusCode int, title, message string) {
	renderHTML(ctx, logger, statusCode, func(buf *bytes.Buffer) error {
		return views.RenderError(buf, views.ErrorPage{Title: title, Status: statusCode, Message: message})
	})
}

func serve404(ctx *fasthttp.RequestCtx, logger *zap.Logger) {
	renderError(ctx, logger, fasthttp.StatusNotFound, "Página no encontrada", "La página que buscas no existe en este servidor.")
}
