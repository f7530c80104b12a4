package service

import (
	"context"
	"fmt"
	"strings"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"

	"gorm.io/gorm"
)

type AreaService interface {
	Listar(ctx context.Context) ([]dto.AreaResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.AreaResponse, error)
	Crear(ctx context.Context, req dto.GuardarAreaRequest) (*dto.AreaResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.GuardarAreaRequest) error
	Eliminar(ctx context.Context, id uint) error
}

type areaService struct {
	repo     repository.AreaRepository
	piezas   repository.PiezaRepository
	usuarios repository.UsuarioRepository
}

func NewAreaService(repo repository.AreaRepository, piezas repository.PiezaRepository, usuarios repository.UsuarioRepository) AreaService {
	return &areaService{repo: repo, piezas: piezas, usuarios: usuarios}
}

func (s *areaService) Listar(ctx context.Context) ([]dto.AreaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AreaResponse, 0, len(list))
	for i := range list {
		out = append(out, areaToResponse(&list[i]))
	}
	return out, nil
}

func (s *areaService) ObtenerPorID(ctx context.Context, id uint) (*dto.AreaResponse, error) {
	a, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Área no encontrada.")
	}
	resp := areaToResponse(a)
	return &resp, nil
}

func (s *areaService) Crear(ctx context.Context, req dto.GuardarAreaRequest) (*dto.AreaResponse, error) {
	if err := s.validarResponsable(ctx, req.ResponsableAreaID); err != nil {
		return nil, err
	}
	a := &model.Area{
		NombreArea:        strings.TrimSpace(req.NombreArea),
		ResponsableAreaID: req.ResponsableAreaID,
	}
	if err := s.repo.Create(ctx, a); err != nil {
		return nil, translate(err, "Área no encontrada.")
	}
	resp := areaToResponse(a)
	return &resp, nil
}

func (s *areaService) Actualizar(ctx context.Context, id uint, req dto.GuardarAreaRequest) error {
	if err := s.validarResponsable(ctx, req.ResponsableAreaID); err != nil {
		return err
	}
	a := &model.Area{
		ID:                id,
		NombreArea:        strings.TrimSpace(req.NombreArea),
		ResponsableAreaID: req.ResponsableAreaID,
	}
	return translate(s.repo.Update(ctx, a), "Área no encontrada.")
}

// Eliminar removes the area together with its piezas. Piezas still referenced
// by solicitudes make the whole delete fail with ErrConflicto.
func (s *areaService) Eliminar(ctx context.Context, id uint) error {
	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.piezas.DeleteByAreaTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	return translate(err, "Área no encontrada.")
}

func (s *areaService) validarResponsable(ctx context.Context, id *uint) error {
	if id == nil {
		return nil
	}
	ok, err := s.usuarios.Exists(ctx, *id)
	if err != nil {
		return err
	}
	if !ok {
		return referenciaInvalida("responsable_area_id", fmt.Sprintf("El ID de Usuario '%d' no existe.", *id))
	}
	return nil
}
