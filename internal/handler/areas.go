package handler

import (
	"net/http"

	"machineshop/internal/dto"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
)

type AreasHandler struct{ svc service.AreaService }

func NewAreasHandler(svc service.AreaService) *AreasHandler { return &AreasHandler{svc: svc} }

// Listar godoc
// @Summary      Listar áreas
// @Tags         areas
// @Produce      json
// @Success      200  {array}  dto.AreaResponse
// @Router       /api/Areas [get]
func (h *AreasHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /api/Areas/:id
func (h *AreasHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary      Crear área
// @Tags         areas
// @Accept       json
// @Produce      json
// @Param        body body     dto.GuardarAreaRequest true "Área"
// @Success      201  {object} dto.AreaResponse
// @Failure      400  {object} apierror.APIError
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/Areas [post]
func (h *AreasHandler) Crear(c *gin.Context) {
	var req dto.GuardarAreaRequest
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

// Actualizar PUT /api/Areas/:id
func (h *AreasHandler) Actualizar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.GuardarAreaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.Actualizar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Eliminar godoc
// @Summary      Eliminar área
// @Description  Elimina el área junto con sus piezas. 409 si alguna pieza tiene solicitudes.
// @Tags         areas
// @Param        id   path     int true "ID del área"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Failure      409  {object} apierror.APIError
// @Router       /api/Areas/{id} [delete]
func (h *AreasHandler) Eliminar(c *gin.Context) {
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
