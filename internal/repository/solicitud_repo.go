package repository

import (
	"context"

	"machineshop/internal/model"

	"gorm.io/gorm"
)

type SolicitudRepository interface {
	CreateTx(tx *gorm.DB, s *model.Solicitud) error
	FindByID(ctx context.Context, id uint) (*model.Solicitud, error)
	List(ctx context.Context) ([]model.Solicitud, error)
	UpdateDibujo(ctx context.Context, id uint, dibujo string) error
	DeleteTx(tx *gorm.DB, id uint) error
	Exists(ctx context.Context, id uint) (bool, error)
	DB() *gorm.DB
}

type solicitudRepo struct{ db *gorm.DB }

func NewSolicitudRepository(db *gorm.DB) SolicitudRepository { return &solicitudRepo{db: db} }

func (r *solicitudRepo) DB() *gorm.DB { return r.db }

// withGrafo loads everything the derived view and the report need.
func withGrafo(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Solicitante").
		Preload("Pieza").
		Preload("Revision").
		Preload("Operaciones", func(db *gorm.DB) *gorm.DB {
			return db.Order("fecha_y_hora_de_inicio asc, id asc")
		}).
		Preload("Operaciones.Maquinista")
}

func (r *solicitudRepo) CreateTx(tx *gorm.DB, s *model.Solicitud) error {
	return tx.Omit("Solicitante", "Pieza", "Revision", "Operaciones").Create(s).Error
}

func (r *solicitudRepo) FindByID(ctx context.Context, id uint) (*model.Solicitud, error) {
	var s model.Solicitud
	if err := withGrafo(r.db.WithContext(ctx)).First(&s, id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *solicitudRepo) List(ctx context.Context) ([]model.Solicitud, error) {
	var list []model.Solicitud
	err := withGrafo(r.db.WithContext(ctx)).Order("fecha_y_hora desc, id desc").Find(&list).Error
	return list, err
}

func (r *solicitudRepo) UpdateDibujo(ctx context.Context, id uint, dibujo string) error {
	res := r.db.WithContext(ctx).Model(&model.Solicitud{}).Where("id = ?", id).Update("dibujo", dibujo)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *solicitudRepo) DeleteTx(tx *gorm.DB, id uint) error {
	res := tx.Delete(&model.Solicitud{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *solicitudRepo) Exists(ctx context.Context, id uint) (bool, error) {
	return exists(ctx, r.db, &model.Solicitud{}, id)
}
