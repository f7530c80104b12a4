package model

import "time"

// Usuario is any person using the shop floor system.
// Rol: "Operador" | "Supervisor" | "Ingeniero" | "Maquinista" | "Calidad" | "Sistema"
// Users are never hard-deleted; historical rows keep pointing at them.
type Usuario struct {
	ID           uint   `gorm:"primaryKey"`
	Nombre       string `gorm:"size:100;not null"`
	Email        string `gorm:"size:150;uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	Area         string `gorm:"size:50;not null"`
	Rol          string `gorm:"size:50;not null"`
	Activo       bool   `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (Usuario) TableName() string { return "usuarios" }
