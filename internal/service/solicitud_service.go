package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"machineshop/internal/dto"
	"machineshop/internal/infra"
	"machineshop/internal/model"
	"machineshop/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Initial history entry written with every new Solicitud.
const (
	DescripcionEnRevision    = "En Revisión"
	ObservacionesSolicitud   = "Solicitud creada. Pendiente de Revisión de Ingeniería."
	MaquinaNoAsignada        = "N/A"
	msgSolicitudNoEncontrada = "Solicitud no encontrada."
)

type SolicitudService interface {
	Listar(ctx context.Context) ([]dto.SolicitudResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.SolicitudResponse, error)
	Crear(ctx context.Context, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error)
	Eliminar(ctx context.Context, id uint) error
	GenerarReporte(ctx context.Context, id uint) ([]byte, error)
	SubirDibujo(ctx context.Context, id uint, archivo ArchivoDibujo) (*dto.DibujoResponse, error)
	ObtenerDibujo(ctx context.Context, id uint) (*dto.DibujoResponse, error)
}

type solicitudService struct {
	repo       repository.SolicitudRepository
	usuarios   repository.UsuarioRepository
	piezas     repository.PiezaRepository
	revisiones repository.RevisionRepository
	estados    repository.EstadoTrabajoRepository
	dibujos    infra.DibujoStore
	now        func() time.Time
}

// NewSolicitudService wires the workflow. dibujos may be nil when no bucket is configured.
func NewSolicitudService(
	repo repository.SolicitudRepository,
	usuarios repository.UsuarioRepository,
	piezas repository.PiezaRepository,
	revisiones repository.RevisionRepository,
	estados repository.EstadoTrabajoRepository,
	dibujos infra.DibujoStore,
) SolicitudService {
	return &solicitudService{
		repo:       repo,
		usuarios:   usuarios,
		piezas:     piezas,
		revisiones: revisiones,
		estados:    estados,
		dibujos:    dibujos,
		now:        time.Now,
	}
}

func (s *solicitudService) Listar(ctx context.Context) ([]dto.SolicitudResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.SolicitudResponse, 0, len(list))
	for i := range list {
		out = append(out, Derivar(list[i]))
	}
	return out, nil
}

func (s *solicitudService) ObtenerPorID(ctx context.Context, id uint) (*dto.SolicitudResponse, error) {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgSolicitudNoEncontrada)
	}
	resp := Derivar(*sol)
	return &resp, nil
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Validate solicitante and pieza exist
//   2. BEGIN TX: insert Solicitud, insert initial "En Revisión" entry
//   3. COMMIT, reload with relations and derive the view

func (s *solicitudService) Crear(ctx context.Context, req dto.CrearSolicitudRequest) (*dto.SolicitudResponse, error) {
	if err := s.validarReferencias(ctx, req.SolicitanteID, req.PiezaID); err != nil {
		return nil, err
	}

	ahora := s.now().UTC()
	sol := model.Solicitud{
		SolicitanteID: req.SolicitanteID,
		PiezaID:       req.PiezaID,
		FechaYHora:    ahora,
		Turno:         strings.TrimSpace(req.Turno),
		Tipo:          strings.TrimSpace(req.Tipo),
		Detalles:      req.Detalles,
	}
	if req.Dibujo != nil {
		sol.Dibujo = strings.TrimSpace(*req.Dibujo)
	}

	err := runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &sol); err != nil {
			return err
		}
		obs := ObservacionesSolicitud
		inicial := model.EstadoTrabajo{
			SolicitudID:          sol.ID,
			MaquinistaID:         req.SolicitanteID,
			FechaYHoraDeInicio:   ahora,
			MaquinaAsignada:      MaquinaNoAsignada,
			DescripcionOperacion: DescripcionEnRevision,
			TiempoMaquina:        decimal.Zero,
			Observaciones:        &obs,
		}
		return s.estados.CreateTx(tx, &inicial)
	})
	if err != nil {
		// a referenced row deleted between validation and insert
		return nil, translateReferencia(err)
	}

	log.Info().Uint("solicitud_id", sol.ID).Uint("solicitante_id", sol.SolicitanteID).Msg("solicitud creada")
	return s.ObtenerPorID(ctx, sol.ID)
}

func (s *solicitudService) validarReferencias(ctx context.Context, solicitanteID, piezaID uint) error {
	ok, err := s.usuarios.Exists(ctx, solicitanteID)
	if err != nil {
		return err
	}
	if !ok {
		return referenciaInvalida("solicitante_id", fmt.Sprintf("El ID de Usuario '%d' no existe.", solicitanteID))
	}
	ok, err = s.piezas.Exists(ctx, piezaID)
	if err != nil {
		return err
	}
	if !ok {
		return referenciaInvalida("pieza_id", fmt.Sprintf("El ID de Pieza '%d' no existe.", piezaID))
	}
	return nil
}

// Eliminar removes the Solicitud with its review and history in one transaction.
func (s *solicitudService) Eliminar(ctx context.Context, id uint) error {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return translate(err, msgSolicitudNoEncontrada)
	}
	err = runTx(ctx, s.repo.DB(), func(tx *gorm.DB) error {
		if err := s.estados.DeleteBySolicitudTx(tx, id); err != nil {
			return err
		}
		if err := s.revisiones.DeleteBySolicitudTx(tx, id); err != nil {
			return err
		}
		return s.repo.DeleteTx(tx, id)
	})
	if err != nil {
		return translate(err, msgSolicitudNoEncontrada)
	}

	if sol.Dibujo != "" && s.dibujos != nil && strings.HasPrefix(sol.Dibujo, prefijoDibujos) {
		if err := s.dibujos.Eliminar(ctx, sol.Dibujo); err != nil {
			log.Warn().Err(err).Str("key", sol.Dibujo).Msg("dibujo huérfano en almacenamiento")
		}
	}
	return nil
}

// translateReferencia maps an FK violation during insert onto ErrReferenciaInvalida.
func translateReferencia(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return referenciaInvalida("", "Una referencia de la solicitud ya no existe.")
	}
	return translate(err, msgSolicitudNoEncontrada)
}
