package dto

import "time"

type CrearRevisionRequest struct {
	SolicitudID uint    `json:"solicitud_id" validate:"required,gt=0"`
	RevisorID   uint    `json:"revisor_id"   validate:"required,gt=0"`
	Prioridad   string  `json:"prioridad"    validate:"required,oneof=Baja Media Alta Urgente"`
	Comentarios *string `json:"comentarios"`
}

type RevisionResponse struct {
	ID                uint      `json:"id"`
	SolicitudID       uint      `json:"solicitud_id"`
	RevisorID         uint      `json:"revisor_id"`
	Prioridad         string    `json:"prioridad"`
	Comentarios       *string   `json:"comentarios"`
	FechaHoraRevision time.Time `json:"fecha_hora_revision"`
}
