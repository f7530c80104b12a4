package dto

import "strings"

// ── Request DTOs ──────────────────────────────────────────────────────────────

type GuardarPiezaRequest struct {
	AreaID      uint   `json:"area_id"      validate:"required,gt=0"`
	NombrePieza string `json:"nombre_pieza" validate:"required,min=1,max=100"`
	Maquina     string `json:"maquina"      validate:"max=50"`
}

func (r *GuardarPiezaRequest) Normalizar() {
	r.NombrePieza = strings.TrimSpace(r.NombrePieza)
	r.Maquina = strings.TrimSpace(r.Maquina)
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type PiezaResponse struct {
	ID          uint          `json:"id"`
	AreaID      uint          `json:"area_id"`
	NombrePieza string        `json:"nombre_pieza"`
	Maquina     string        `json:"maquina"`
	Area        *AreaResponse `json:"area,omitempty"`
}
