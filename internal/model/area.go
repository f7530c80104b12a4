package model

// Area is a physical or organizational zone of the plant that owns Piezas.
type Area struct {
	ID                uint   `gorm:"primaryKey"`
	NombreArea        string `gorm:"size:100;not null"`
	ResponsableAreaID *uint  `gorm:"index"`

	ResponsableArea *Usuario `gorm:"foreignKey:ResponsableAreaID;constraint:OnDelete:SET NULL"`
	Piezas          []Pieza  `gorm:"foreignKey:AreaID;constraint:OnDelete:CASCADE"`
}

func (Area) TableName() string { return "areas" }
