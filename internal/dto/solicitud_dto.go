package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearSolicitudRequest struct {
	SolicitanteID uint    `json:"solicitante_id" validate:"required,gt=0"`
	PiezaID       uint    `json:"pieza_id"       validate:"required,gt=0"`
	Turno         string  `json:"turno"          validate:"required,max=20"`
	Tipo          string  `json:"tipo"           validate:"required,max=50"`
	Detalles      string  `json:"detalles"       validate:"required"`
	Dibujo        *string `json:"dibujo"         validate:"omitempty,max=255"`
}

func (r *CrearSolicitudRequest) Normalizar() {
	r.Turno = strings.TrimSpace(r.Turno)
	r.Tipo = strings.TrimSpace(r.Tipo)
	r.Detalles = strings.TrimSpace(r.Detalles)
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

// SolicitudResponse is the read view of a Solicitud. The last four fields are
// derived from its Revision and work history, never stored.
type SolicitudResponse struct {
	ID                uint      `json:"id"`
	SolicitanteID     uint      `json:"solicitante_id"`
	SolicitanteNombre string    `json:"solicitante_nombre"`
	PiezaID           uint      `json:"pieza_id"`
	PiezaNombre       string    `json:"pieza_nombre"`
	FechaYHora        time.Time `json:"fecha_y_hora"`
	Turno             string    `json:"turno"`
	Tipo              string    `json:"tipo"`
	Detalles          string    `json:"detalles"`
	Dibujo            string    `json:"dibujo"`

	PrioridadActual    string          `json:"prioridad_actual"`
	EstadoOperacional  string          `json:"estado_operacional"`
	MaquinistaAsignado string          `json:"maquinista_asignado"`
	TiempoTotalMaquina decimal.Decimal `json:"tiempo_total_maquina"`
}

type DibujoResponse struct {
	SolicitudID uint   `json:"solicitud_id"`
	Dibujo      string `json:"dibujo"`
	URL         string `json:"url,omitempty"`
}
