package handler

import (
	"net/http"

	"machineshop/internal/dto"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
)

type EstadoTrabajoHandler struct{ svc service.EstadoTrabajoService }

func NewEstadoTrabajoHandler(svc service.EstadoTrabajoService) *EstadoTrabajoHandler {
	return &EstadoTrabajoHandler{svc: svc}
}

// Listar GET /api/EstadoTrabajo
func (h *EstadoTrabajoHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// HistorialPorSolicitud godoc
// @Summary      Historial de una solicitud
// @Description  Registros de trabajo de la solicitud, del más reciente al más antiguo.
// @Tags         estado-trabajo
// @Produce      json
// @Param        id   path     int true "ID de la solicitud"
// @Success      200  {array}  dto.EstadoTrabajoResponse
// @Failure      404  {object} apierror.APIError "Sin historial"
// @Router       /api/EstadoTrabajo/Solicitud/{id} [get]
func (h *EstadoTrabajoHandler) HistorialPorSolicitud(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.HistorialPorSolicitud(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Abrir godoc
// @Summary      Iniciar operación
// @Tags         estado-trabajo
// @Accept       json
// @Produce      json
// @Param        body body     dto.AbrirEstadoRequest true "Operación"
// @Success      201  {object} dto.EstadoTrabajoResponse
// @Failure      400  {object} apierror.APIError
// @Router       /api/EstadoTrabajo [post]
func (h *EstadoTrabajoHandler) Abrir(c *gin.Context) {
	var req dto.AbrirEstadoRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Abrir(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Cerrar godoc
// @Summary      Cerrar operación
// @Description  Registra la hora de fin y el tiempo de máquina. Sobre una operación ya cerrada solo actualiza las observaciones.
// @Tags         estado-trabajo
// @Accept       json
// @Param        id   path     int                     true  "ID del registro"
// @Param        body body     dto.CerrarEstadoRequest false "Observaciones"
// @Success      204
// @Failure      404  {object} apierror.APIError
// @Router       /api/EstadoTrabajo/{id} [put]
func (h *EstadoTrabajoHandler) Cerrar(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req dto.CerrarEstadoRequest
	if !bindOptional(c, &req) {
		return
	}
	if _, err := h.svc.Cerrar(c.Request.Context(), id, req); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
