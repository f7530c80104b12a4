package model

import "time"

// Solicitud is a work order raised against a Pieza.
// There is no status column: priority, current operation and machine time are
// derived from Revision and the Operaciones history.
type Solicitud struct {
	ID            uint      `gorm:"primaryKey"`
	SolicitanteID uint      `gorm:"not null;index"`
	PiezaID       uint      `gorm:"not null;index"`
	FechaYHora    time.Time `gorm:"not null"`
	Turno         string    `gorm:"size:20;not null"`
	Tipo          string    `gorm:"size:50;not null"`
	Detalles      string    `gorm:"not null"`
	Dibujo        string    `gorm:"size:255;not null;default:''"`

	Solicitante *Usuario        `gorm:"foreignKey:SolicitanteID;constraint:OnDelete:RESTRICT"`
	Pieza       *Pieza          `gorm:"foreignKey:PiezaID;constraint:OnDelete:RESTRICT"`
	Revision    *Revision       `gorm:"foreignKey:SolicitudID"`
	Operaciones []EstadoTrabajo `gorm:"foreignKey:SolicitudID"`
}

func (Solicitud) TableName() string { return "solicitudes" }
