package dto

import "strings"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CrearUsuarioRequest struct {
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Email  string `json:"email"  validate:"required,email,max=150"`
	Area   string `json:"area"   validate:"required,max=50"`
	Rol    string `json:"rol"    validate:"required,max=50"`
	// Password is optional: accounts created without one cannot log in until reset
	Password string `json:"password" validate:"omitempty,min=8"`
}

func (r *CrearUsuarioRequest) Normalizar() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Email = strings.TrimSpace(r.Email)
	r.Area = strings.TrimSpace(r.Area)
	r.Rol = strings.TrimSpace(r.Rol)
}

// ActualizarUsuarioRequest replaces the editable fields; Activo toggles deactivation.
type ActualizarUsuarioRequest struct {
	ID     *uint  `json:"id"`
	Nombre string `json:"nombre" validate:"required,min=2,max=100"`
	Area   string `json:"area"   validate:"required,max=50"`
	Rol    string `json:"rol"    validate:"required,max=50"`
	Activo *bool  `json:"activo" validate:"required"`
}

func (r *ActualizarUsuarioRequest) Normalizar() {
	r.Nombre = strings.TrimSpace(r.Nombre)
	r.Area = strings.TrimSpace(r.Area)
	r.Rol = strings.TrimSpace(r.Rol)
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UsuarioResponse struct {
	ID     uint   `json:"id"`
	Nombre string `json:"nombre"`
	Email  string `json:"email"`
	Area   string `json:"area"`
	Rol    string `json:"rol"`
	Activo bool   `json:"activo"`
}
