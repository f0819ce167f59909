package handler

import (
	"errors"
	"net/http"

	"facturas/internal/dto"
	"facturas/internal/errs"
	"facturas/internal/service"

	"github.com/gin-gonic/gin"
)

type EmpresaHandler struct{ svc service.EmpresaService }

func NewEmpresaHandler(svc service.EmpresaService) *EmpresaHandler {
	return &EmpresaHandler{svc: svc}
}

// Obtener answers null until the profile is first saved.
func (h *EmpresaHandler) Obtener(c *gin.Context) {
	resp, err := h.svc.Obtener(c.Request.Context(), usuarioID(c))
	if errors.Is(err, errs.ErrNotFound) {
		c.JSON(http.StatusOK, nil)
		return
	}
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EmpresaHandler) Guardar(c *gin.Context) {
	var req dto.GuardarEmpresaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Guardar(reqCtx(c), usuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
