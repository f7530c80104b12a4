package dto

import "strings"

// ── Request DTOs ──────────────────────────────────────────────────────────────

// GuardarAreaRequest is used for both create and update.
type GuardarAreaRequest struct {
	NombreArea        string `json:"nombre_area"         validate:"required,min=2,max=100"`
	ResponsableAreaID *uint  `json:"responsable_area_id" validate:"omitempty,gt=0"`
}

func (r *GuardarAreaRequest) Normalizar() {
	r.NombreArea = strings.TrimSpace(r.NombreArea)
}

// ── Response DTOs ─────────────────────────────────────────────────────────────

type AreaResponse struct {
	ID                uint             `json:"id"`
	NombreArea        string           `json:"nombre_area"`
	ResponsableAreaID *uint            `json:"responsable_area_id"`
	ResponsableArea   *UsuarioResponse `json:"responsable_area,omitempty"`
}
