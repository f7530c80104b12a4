package repository

import (
	"context"

	"machineshop/internal/model"

	"gorm.io/gorm"
)

type PiezaRepository interface {
	Create(ctx context.Context, p *model.Pieza) error
	List(ctx context.Context) ([]model.Pieza, error)
	FindByID(ctx context.Context, id uint) (*model.Pieza, error)
	Update(ctx context.Context, p *model.Pieza) error
	Delete(ctx context.Context, id uint) error
	DeleteByAreaTx(tx *gorm.DB, areaID uint) error
	Exists(ctx context.Context, id uint) (bool, error)
}

type piezaRepo struct{ db *gorm.DB }

func NewPiezaRepository(db *gorm.DB) PiezaRepository { return &piezaRepo{db: db} }

func (r *piezaRepo) Create(ctx context.Context, p *model.Pieza) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Preload("Area").First(p, p.ID).Error
}

func (r *piezaRepo) List(ctx context.Context) ([]model.Pieza, error) {
	var piezas []model.Pieza
	err := r.db.WithContext(ctx).Preload("Area").Order("id asc").Find(&piezas).Error
	return piezas, err
}

func (r *piezaRepo) FindByID(ctx context.Context, id uint) (*model.Pieza, error) {
	var p model.Pieza
	err := r.db.WithContext(ctx).Preload("Area").First(&p, id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *piezaRepo) Update(ctx context.Context, p *model.Pieza) error {
	res := r.db.WithContext(ctx).Model(&model.Pieza{}).Where("id = ?", p.ID).
		Select("area_id", "nombre_pieza", "maquina").
		Updates(map[string]any{
			"area_id":      p.AreaID,
			"nombre_pieza": p.NombrePieza,
			"maquina":      p.Maquina,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *piezaRepo) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&model.Pieza{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *piezaRepo) DeleteByAreaTx(tx *gorm.DB, areaID uint) error {
	return tx.Where("area_id = ?", areaID).Delete(&model.Pieza{}).Error
}

func (r *piezaRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &model.Pieza{}, id)
}
