package handler

import (
	"fmt"
	"net/http"

	"machineshop/internal/dto"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
)

type RevisionHandler struct{ svc service.RevisionService }

func NewRevisionHandler(svc service.RevisionService) *RevisionHandler {
	return &RevisionHandler{svc: svc}
}

// Crear godoc
// @Summary      Registrar revisión de ingeniería
// @Description  Fija la prioridad de la solicitud. Solo se admite una revisión por solicitud.
// @Tags         revision
// @Accept       json
// @Produce      json
// @Param        body body     dto.CrearRevisionRequest true "Revisión"
// @Success      201  {object} dto.RevisionResponse
// @Failure      400  {object} apierror.APIError "Solicitud o revisor inexistente"
// @Failure      409  {object} apierror.APIError "Ya existe una revisión"
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/Revision [post]
func (h *RevisionHandler) Crear(c *gin.Context) {
	var req dto.CrearRevisionRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/Revision/%d", resp.ID))
	c.JSON(http.StatusCreated, resp)
}

// ObtenerPorID GET /api/Revision/:id
func (h *RevisionHandler) ObtenerPorID(c *gin.Context) {
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
