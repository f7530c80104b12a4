package service

import (
	"context"
	"fmt"
	"strings"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"
)

type PiezaService interface {
	Listar(ctx context.Context) ([]dto.PiezaResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.PiezaResponse, error)
	Crear(ctx context.Context, req dto.GuardarPiezaRequest) (*dto.PiezaResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.GuardarPiezaRequest) error
	Eliminar(ctx context.Context, id uint) error
}

type piezaService struct {
	repo  repository.PiezaRepository
	areas repository.AreaRepository
}

func NewPiezaService(repo repository.PiezaRepository, areas repository.AreaRepository) PiezaService {
	return &piezaService{repo: repo, areas: areas}
}

func (s *piezaService) Listar(ctx context.Context) ([]dto.PiezaResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PiezaResponse, 0, len(list))
	for i := range list {
		out = append(out, piezaToResponse(&list[i]))
	}
	return out, nil
}

func (s *piezaService) ObtenerPorID(ctx context.Context, id uint) (*dto.PiezaResponse, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Pieza no encontrada.")
	}
	resp := piezaToResponse(p)
	return &resp, nil
}

func (s *piezaService) Crear(ctx context.Context, req dto.GuardarPiezaRequest) (*dto.PiezaResponse, error) {
	if err := s.validarArea(ctx, req.AreaID); err != nil {
		return nil, err
	}
	p := &model.Pieza{
		AreaID:      req.AreaID,
		NombrePieza: strings.TrimSpace(req.NombrePieza),
		Maquina:     strings.TrimSpace(req.Maquina),
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, translate(err, "Pieza no encontrada.")
	}
	resp := piezaToResponse(p)
	return &resp, nil
}

func (s *piezaService) Actualizar(ctx context.Context, id uint, req dto.GuardarPiezaRequest) error {
	if err := s.validarArea(ctx, req.AreaID); err != nil {
		return err
	}
	p := &model.Pieza{
		ID:          id,
		AreaID:      req.AreaID,
		NombrePieza: strings.TrimSpace(req.NombrePieza),
		Maquina:     strings.TrimSpace(req.Maquina),
	}
	return translate(s.repo.Update(ctx, p), "Pieza no encontrada.")
}

func (s *piezaService) Eliminar(ctx context.Context, id uint) error {
	return translate(s.repo.Delete(ctx, id), "Pieza no encontrada.")
}

func (s *piezaService) validarArea(ctx context.Context, areaID uint) error {
	ok, err := s.areas.Exists(ctx, areaID)
	if err != nil {
		return err
	}
	if !ok {
		return referenciaInvalida("area_id", fmt.Sprintf("El ID de Área '%d' no existe.", areaID))
	}
	return nil
}
