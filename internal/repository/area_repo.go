package repository

import (
	"context"

	"machineshop/internal/model"

	"gorm.io/gorm"
)

// AreaRepository defines CRUD operations for Area.
type AreaRepository interface {
	Create(ctx context.Context, a *model.Area) error
	List(ctx context.Context) ([]model.Area, error)
	FindByID(ctx context.Context, id uint) (*model.Area, error)
	Update(ctx context.Context, a *model.Area) error
	DeleteTx(tx *gorm.DB, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	DB() *gorm.DB
}

type areaRepository struct{ db *gorm.DB }

func NewAreaRepository(db *gorm.DB) AreaRepository {
	return &areaRepository{db: db}
}

func (r *areaRepository) DB() *gorm.DB { return r.db }

func (r *areaRepository) Create(ctx context.Context, a *model.Area) error {
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("ResponsableArea").First(a, a.ID).Error
}

func (r *areaRepository) List(ctx context.Context) ([]model.Area, error) {
	var list []model.Area
	err := r.db.WithContext(ctx).Preload("ResponsableArea").Order("nombre_area asc").Find(&list).Error
	return list, err
}

func (r *areaRepository) FindByID(ctx context.Context, id uint) (*model.Area, error) {
	var a model.Area
	err := r.db.WithContext(ctx).Preload("ResponsableArea").First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *areaRepository) Update(ctx context.Context, a *model.Area) error {
	res := r.db.WithContext(ctx).Model(&model.Area{}).Where("id = ?", a.ID).
		Select("nombre_area", "responsable_area_id").
		Updates(map[string]any{
			"nombre_area":         a.NombreArea,
			"responsable_area_id": a.ResponsableAreaID,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *areaRepository) DeleteTx(tx *gorm.DB, id uint) error {
	res := tx.Delete(&model.Area{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *areaRepository) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &model.Area{}, id)
}
