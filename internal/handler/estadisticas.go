package handler

import (
	"net/http"

	"facturas/internal/service"

	"github.com/gin-gonic/gin"
)

type EstadisticasHandler struct{ svc service.EstadisticasService }

func NewEstadisticasHandler(svc service.EstadisticasService) *EstadisticasHandler {
	return &EstadisticasHandler{svc: svc}
}

// Obtener godoc
// @Summary Panel de estadisticas
// @Tags estadisticas
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.EstadisticasResponse
// @Router /api/estadisticas [get]
func (h *EstadisticasHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), usuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
