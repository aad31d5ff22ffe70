package handlers

import (
	"errors"
	"fmt"
	"io"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/backsoul/quizform/pkg/services"
	"github.com/backsoul/quizform/pkg/storage"
)

// ResultHandler sirve los registros de resultados guardados
type ResultHandler struct {
	gradingService *services.GradingService
	logger         *zap.Logger
}

func NewResultHandler(gradingService *services.GradingService, logger *zap.Logger) *ResultHandler {
	return &ResultHandler{gradingService: gradingService, logger: logger}
}

// DownloadResult maneja GET /results/{filename}
func (h *ResultHandler) DownloadResult(ctx *fasthttp.RequestCtx) {
	name, _ := ctx.UserValue("filename").(string)

	rc, err := h.gradingService.OpenResult(ctx, name)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidName) {
			serve404(ctx, h.logger)
			return
		}
		h.logger.Error("error abriendo resultado", zap.String("file", name), zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo leer el resultado.")
		return
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		h.logger.Error("error leyendo resultado", zap.String("file", name), zap.Error(err))
		renderError(ctx, h.logger, fasthttp.StatusInternalServerError, "Error", "No se pudo leer el resultado.")
		return
	}

	ctx.SetContentType("application/json; charset=utf-8")
	ctx.Response.Header.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(data)
}
