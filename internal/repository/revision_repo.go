package repository

import (
	"context"

	"machineshop/internal/model"

	"gorm.io/gorm"
)

type RevisionRepository interface {
	CreateTx(tx *gorm.DB, rev *model.Revision) error
	FindByID(ctx context.Context, id uint) (*model.Revision, error)
	ExistsForSolicitud(ctx context.Context, solicitudID uint) (bool, error)
	DeleteBySolicitudTx(tx *gorm.DB, solicitudID uint) error
}

type revisionRepo struct{ db *gorm.DB }

func NewRevisionRepository(db *gorm.DB) RevisionRepository { return &revisionRepo{db: db} }

func (r *revisionRepo) CreateTx(tx *gorm.DB, rev *model.Revision) error {
	return tx.Omit("Solicitud", "Revisor").Create(rev).Error
}

func (r *revisionRepo) FindByID(ctx context.Context, id uint) (*model.Revision, error) {
	var rev model.Revision
	if err := r.db.WithContext(ctx).First(&rev, id).Error; err != nil {
		return nil, err
	}
	return &rev, nil
}

func (r *revisionRepo) ExistsForSolicitud(ctx context.Context, solicitudID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Revision{}).
		Where("solicitud_id = ?", solicitudID).Count(&count).Error
	return count > 0, err
}

func (r *revisionRepo) DeleteBySolicitudTx(tx *gorm.DB, solicitudID uint) error {
	return tx.Where("solicitud_id = ?", solicitudID).Delete(&model.Revision{}).Error
}
