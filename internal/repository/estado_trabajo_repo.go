package repository

import (
	"context"

	"machineshop/internal/model"

	"gorm.io/gorm"
)

// EstadoTrabajoRepository is the append-only work history store.
// The only in-place mutations allowed are closing an open entry and replacing its notes.
type EstadoTrabajoRepository interface {
	Create(ctx context.Context, e *model.EstadoTrabajo) error
	CreateTx(tx *gorm.DB, e *model.EstadoTrabajo) error
	FindByID(ctx context.Context, id uint) (*model.EstadoTrabajo, error)
	List(ctx context.Context) ([]model.EstadoTrabajo, error)
	ListBySolicitud(ctx context.Context, solicitudID uint) ([]model.EstadoTrabajo, error)
	Cerrar(ctx context.Context, e *model.EstadoTrabajo) (bool, error)
	ActualizarObservaciones(ctx context.Context, id uint, observaciones *string) error
	DeleteBySolicitudTx(tx *gorm.DB, solicitudID uint) error
}

type estadoTrabajoRepo struct{ db *gorm.DB }

func NewEstadoTrabajoRepository(db *gorm.DB) EstadoTrabajoRepository {
	return &estadoTrabajoRepo{db: db}
}

func (r *estadoTrabajoRepo) Create(ctx context.Context, e *model.EstadoTrabajo) error {
	return r.CreateTx(r.db.WithContext(ctx), e)
}

func (r *estadoTrabajoRepo) CreateTx(tx *gorm.DB, e *model.EstadoTrabajo) error {
	return tx.Omit("Solicitud", "Maquinista").Create(e).Error
}

func (r *estadoTrabajoRepo) FindByID(ctx context.Context, id uint) (*model.EstadoTrabajo, error) {
	var e model.EstadoTrabajo
	if err := r.db.WithContext(ctx).Preload("Maquinista").First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *estadoTrabajoRepo) List(ctx context.Context) ([]model.EstadoTrabajo, error) {
	var list []model.EstadoTrabajo
	err := r.db.WithContext(ctx).
		Preload("Solicitud").
		Preload("Maquinista").
		Order("fecha_y_hora_de_inicio desc, id desc").
		Find(&list).Error
	return list, err
}

// ListBySolicitud returns the history of one Solicitud, newest first.
func (r *estadoTrabajoRepo) ListBySolicitud(ctx context.Context, solicitudID uint) ([]model.EstadoTrabajo, error) {
	var list []model.EstadoTrabajo
	err := r.db.WithContext(ctx).
		Preload("Maquinista").
		Where("solicitud_id = ?", solicitudID).
		Order("fecha_y_hora_de_inicio desc, id desc").
		Find(&list).Error
	return list, err
}

// Cerrar stamps the closing columns only while the entry is still open.
// It reports false when no open row matched: the entry was closed by
// someone else or deleted after it was read.
func (r *estadoTrabajoRepo) Cerrar(ctx context.Context, e *model.EstadoTrabajo) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.EstadoTrabajo{}).
		Where("id = ? AND fecha_y_hora_de_fin IS NULL", e.ID).
		Select("fecha_y_hora_de_fin", "tiempo_maquina", "observaciones").
		Updates(map[string]any{
			"fecha_y_hora_de_fin": e.FechaYHoraDeFin,
			"tiempo_maquina":      e.TiempoMaquina,
			"observaciones":       e.Observaciones,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// ActualizarObservaciones replaces the notes and nothing else.
func (r *estadoTrabajoRepo) ActualizarObservaciones(ctx context.Context, id uint, observaciones *string) error {
	res := r.db.WithContext(ctx).Model(&model.EstadoTrabajo{}).Where("id = ?", id).
		Select("observaciones").
		Updates(map[string]any{"observaciones": observaciones})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *estadoTrabajoRepo) DeleteBySolicitudTx(tx *gorm.DB, solicitudID uint) error {
	return tx.Where("solicitud_id = ?", solicitudID).Delete(&model.EstadoTrabajo{}).Error
}
