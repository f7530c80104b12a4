package handler

import (
	"net/http"

	"machineshop/internal/dto"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
)

type PiezasHandler struct{ svc service.PiezaService }

func NewPiezasHandler(svc service.PiezaService) *PiezasHandler { return &PiezasHandler{svc: svc} }

// Listar GET /api/Piezas
func (h *PiezasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /api/Piezas/:id
func (h *PiezasHandler) ObtenerPorID(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerPorID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Crear godoc
// @Summary      Crear pieza
// @Tags         piezas
// @Accept       json
// @Produce      json
// @Param        body body     dto.GuardarPiezaRequest true "Pieza"
// @Success      201  {object} dto.PiezaResponse
// @Failure      400  {object} apierror.APIError "El ID de Área no existe"
// @Router       /api/Piezas [post]
func (h *PiezasHandler) Crear(c *gin.Context) {
	var req dto.GuardarPiezaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Actualizar PUT /api/Piezas/:id
func (h *PiezasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.GuardarPiezaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Actualizar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar DELETE /api/Piezas/:id
func (h *PiezasHandler) Eliminar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.Eliminar(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
