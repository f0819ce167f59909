package handler

import (
	"fmt"
	"net/http"

	"facturas/internal/dto"
	"facturas/internal/service"

	"github.com/gin-gonic/gin"
)

type FacturasHandler struct{ svc service.FacturaService }

func NewFacturasHandler(svc service.FacturaService) *FacturasHandler {
	return &FacturasHandler{svc: svc}
}

// Crear godoc
// @Summary Emitir factura
// @Description Numera la factura y calcula subtotal, IVA (21%) y total en el servidor.
// @Tags facturas
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body dto.CrearFacturaRequest true "Factura"
// @Success 201 {object} dto.FacturaResponse
// @Failure 404 {object} apierror.APIError
// @Failure 422 {object} apierror.ValidationError
// @Router /api/facturas [post]
func (h *FacturasHandler) Crear(c *gin.Context) {
	var req dto.CrearFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(reqCtx(c), usuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Listar godoc
// @Summary Listar facturas
// @Tags facturas
// @Produce json
// @Security BearerAuth
// @Param estado query string false "pendiente, pagada, vencida o cancelada"
// @Success 200 {array} dto.FacturaResponse
// @Router /api/facturas [get]
func (h *FacturasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context(), usuarioID(c), c.Query("estado"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) ProximoNumero(c *gin.Context) {
	numero, err := h.svc.ProximoNumero(c.Request.Context(), usuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ProximoNumeroResponse{Numero: numero})
}

func (h *FacturasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	resp, err := h.svc.Obtener(c.Request.Context(), id, usuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Actualizar changes estado, fecha_vencimiento and notas. Lines and totals
// are fixed once issued.
func (h *FacturasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.ActualizarFacturaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Actualizar(reqCtx(c), id, usuarioID(c), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *FacturasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.svc.Eliminar(reqCtx(c), id, usuarioID(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// DescargarPDF godoc
// @Summary Descargar PDF de la factura
// @Tags facturas
// @Produce application/pdf
// @Security BearerAuth
// @Param id path int true "ID de factura"
// @Success 200 {file} binary
// @Failure 404 {object} apierror.APIError
// @Router /api/facturas/{id}/pdf [get]
func (h *FacturasHandler) DescargarPDF(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	pdf, nombre, err := h.svc.PDF(c.Request.Context(), id, usuarioID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nombre))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// Enviar queues the PDF for delivery. The body is optional; without an
// email the client's address is used.
func (h *FacturasHandler) Enviar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req dto.EnviarFacturaRequest
	if !bindOptional(c, &req) {
		return
	}
	if err := h.svc.Enviar(reqCtx(c), id, usuarioID(c), req); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"factura_id": id, "encolada": true})
}
