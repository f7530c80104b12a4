package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// EstadoTrabajo is one append-only row of a Solicitud's history.
// An entry is open while FechaYHoraDeFin is nil; closing it stamps the end time
// and TiempoMaquina (hours, 2 decimals). Closed entries are never reopened.
type EstadoTrabajo struct {
	ID                   uint      `gorm:"primaryKey"`
	SolicitudID          uint      `gorm:"not null;index:idx_estados_solicitud_inicio,priority:1"`
	MaquinistaID         uint      `gorm:"not null;index"`
	FechaYHoraDeInicio   time.Time `gorm:"not null;index:idx_estados_solicitud_inicio,priority:2"`
	FechaYHoraDeFin      *time.Time
	MaquinaAsignada      string          `gorm:"size:50;not null"`
	DescripcionOperacion string          `gorm:"size:100;not null"`
	TiempoMaquina        decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Observaciones        *string

	Solicitud  *Solicitud `gorm:"foreignKey:SolicitudID;constraint:OnDelete:CASCADE"`
	Maquinista *Usuario   `gorm:"foreignKey:MaquinistaID;constraint:OnDelete:RESTRICT"`
}

func (EstadoTrabajo) TableName() string { return "estados_trabajo" }

// Abierto reports whether the entry has not been closed yet.
func (e *EstadoTrabajo) Abierto() bool { return e.FechaYHoraDeFin == nil }
