package repository

import (
	"context"

	"gorm.io/gorm"
)

// exists reports whether a row with the given primary key is present in m's table.
func exists(ctx context.Context, db *gorm.DB, m any, id uint) (bool, error) {
	var count int64
	err := db.WithContext(ctx).Model(m).Where("id = ?", id).Limit(1).Count(&count).Error
	return count > 0, err
}
