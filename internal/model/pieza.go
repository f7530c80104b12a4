package model

// Pieza is a mold, tool or component tracked per Area.
type Pieza struct {
	ID          uint   `gorm:"primaryKey"`
	AreaID      uint   `gorm:"not null;index"`
	NombrePieza string `gorm:"size:100;not null"`
	// Maquina is the name or code of the machine the piece belongs to
	Maquina string `gorm:"size:50"`

	Area *Area `gorm:"foreignKey:AreaID"`
}

func (Pieza) TableName() string { return "piezas" }
