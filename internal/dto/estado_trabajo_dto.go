package dto

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AbrirEstadoRequest struct {
	SolicitudID          uint    `json:"solicitud_id"          validate:"required,gt=0"`
	MaquinistaID         uint    `json:"maquinista_id"         validate:"required,gt=0"`
	MaquinaAsignada      string  `json:"maquina_asignada"      validate:"required,max=50"`
	DescripcionOperacion string  `json:"descripcion_operacion" validate:"required,max=100"`
	Observaciones        *string `json:"observaciones"`
}

func (r *AbrirEstadoRequest) Normalizar() {
	r.MaquinaAsignada = strings.TrimSpace(r.MaquinaAsignada)
	r.DescripcionOperacion = strings.TrimSpace(r.DescripcionOperacion)
}

type CerrarEstadoRequest struct {
	Observaciones *string `json:"observaciones"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type EstadoTrabajoResponse struct {
	ID                   uint            `json:"id"`
	SolicitudID          uint            `json:"solicitud_id"`
	MaquinistaID         uint            `json:"maquinista_id"`
	MaquinistaNombre     string          `json:"maquinista_nombre,omitempty"`
	FechaYHoraDeInicio   time.Time       `json:"fecha_y_hora_de_inicio"`
	FechaYHoraDeFin      *time.Time      `json:"fecha_y_hora_de_fin"`
	MaquinaAsignada      string          `json:"maquina_asignada"`
	DescripcionOperacion string          `json:"descripcion_operacion"`
	TiempoMaquina        decimal.Decimal `json:"tiempo_maquina"`
	Observaciones        *string         `json:"observaciones"`
	Solicitud            *SolicitudRef   `json:"solicitud,omitempty"`
}

// SolicitudRef is the short form of a Solicitud embedded in history listings.
type SolicitudRef struct {
	ID       uint   `json:"id"`
	Tipo     string `json:"tipo"`
	Turno    string `json:"turno"`
	Detalles string `json:"detalles"`
}
