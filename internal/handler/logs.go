package handler

import (
	"net/http"

	"facturas/internal/service"

	"github.com/gin-gonic/gin"
)

type LogsHandler struct{ svc service.AuditoriaService }

func NewLogsHandler(svc service.AuditoriaService) *LogsHandler { return &LogsHandler{svc: svc} }

// Listar returns the caller's audit trail, newest first.
func (h *LogsHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), usuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
