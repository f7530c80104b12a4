package handler

import (
	"fmt"
	"net/http"

	"machineshop/internal/apierror"
	"machineshop/internal/dto"
	"machineshop/internal/service"

	"github.com/gin-gonic/gin"
)

type SolicitudesHandler struct{ svc service.SolicitudService }

func NewSolicitudesHandler(svc service.SolicitudService) *SolicitudesHandler {
	return &SolicitudesHandler{svc: svc}
}

// Listar godoc
// @Summary      Listar solicitudes
// @Description  Devuelve cada solicitud con su prioridad, estado operacional, maquinista y tiempo total derivados.
// @Tags         solicitudes
// @Produce      json
// @Success      200  {array}  dto.SolicitudResponse
// @Router       /api/Solicitudes [get]
func (h *SolicitudesHandler) Listar(c *gin.Context) {
	resp, err := h.svc.Listar(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerPorID GET /api/Solicitudes/:id
func (h *SolicitudesHandler) ObtenerPorID(c *gin.Context) {
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
// @Summary      Crear solicitud
// @Description  Crea la solicitud y su primer registro de historial "En Revisión" en una sola transacción.
// @Tags         solicitudes
// @Accept       json
// @Produce      json
// @Param        body body     dto.CrearSolicitudRequest true "Solicitud"
// @Success      201  {object} dto.SolicitudResponse
// @Failure      400  {object} apierror.APIError "Solicitante o pieza inexistente"
// @Failure      422  {object} apierror.ValidationError
// @Router       /api/Solicitudes [post]
func (h *SolicitudesHandler) Crear(c *gin.Context) {
	var req dto.CrearSolicitudRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Crear(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Location", fmt.Sprintf("/api/Solicitudes/%d", resp.ID))
	c.JSON(http.StatusCreated, resp)
}

// Eliminar DELETE /api/Solicitudes/:id
func (h *SolicitudesHandler) Eliminar(c *gin.Context) {
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

// Reporte godoc
// @Summary      Hoja de trabajo en PDF
// @Tags         solicitudes
// @Produce      application/pdf
// @Param        id   path     int true "ID de la solicitud"
// @Success      200  {file}   binary
// @Failure      404  {object} apierror.APIError
// @Router       /api/Solicitudes/{id}/Reporte [get]
func (h *SolicitudesHandler) Reporte(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	pdf, err := h.svc.GenerarReporte(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`inline; filename="solicitud_%d.pdf"`, id))
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// SubirDibujo godoc
// @Summary      Subir dibujo
// @Description  Guarda el archivo (PDF, PNG, JPG o DWG, máx. 10 MB) y lo asocia a la solicitud.
// @Tags         solicitudes
// @Accept       multipart/form-data
// @Produce      json
// @Param        id      path     int  true "ID de la solicitud"
// @Param        archivo formData file true "Dibujo"
// @Success      200  {object} dto.DibujoResponse
// @Failure      400  {object} apierror.APIError
// @Failure      503  {object} apierror.APIError
// @Router       /api/Solicitudes/{id}/Dibujo [post]
func (h *SolicitudesHandler) SubirDibujo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	fh, err := c.FormFile("archivo")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewCampo("Falta el archivo del dibujo.", "archivo"))
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, err)
		return
	}
	defer f.Close()

	resp, err := h.svc.SubirDibujo(c.Request.Context(), id, service.ArchivoDibujo{
		Nombre:    fh.Filename,
		Tamano:    fh.Size,
		Contenido: f,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ObtenerDibujo GET /api/Solicitudes/:id/Dibujo
func (h *SolicitudesHandler) ObtenerDibujo(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.ObtenerDibujo(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
