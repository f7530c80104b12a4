package model

import "time"

// Prioridades accepted for an engineering review.
const (
	PrioridadBaja    = "Baja"
	PrioridadMedia   = "Media"
	PrioridadAlta    = "Alta"
	PrioridadUrgente = "Urgente"
)

// Revision is the one-time engineering triage of a Solicitud.
// The unique index on SolicitudID is what enforces the 1:1 relation under
// concurrent writers. Reviews are never updated or deleted.
type Revision struct {
	ID                uint   `gorm:"primaryKey"`
	SolicitudID       uint   `gorm:"not null;uniqueIndex"`
	RevisorID         uint   `gorm:"not null;index"`
	Prioridad         string `gorm:"size:20;not null"`
	Comentarios       *string
	FechaHoraRevision time.Time `gorm:"not null"`

	Solicitud *Solicitud `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE"`
	Revisor   *Usuario   `gorm:"foreignKey:RevisorID;constraint:OnDelete:RESTRICT"`
}

func (Revision) TableName() string { return "revisiones" }
