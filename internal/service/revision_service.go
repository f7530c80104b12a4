package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"
	"machineshop/internal/worker"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	msgRevisionRefInvalida = "El ID de Solicitud o Revisor proporcionado no es válido."
	msgRevisionDuplicada   = "Ya existe un registro de revisión para esta solicitud."
	ObservacionesRevision  = "Prioridad y comentarios de ingeniería establecidos."
)

// DescripcionRevision is the history description recorded for a review.
func DescripcionRevision(prioridad string) string {
	return "Revisión de Ingeniería: Prioridad " + prioridad
}

type RevisionService interface {
	Crear(ctx context.Context, req dto.CrearRevisionRequest) (*dto.RevisionResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.RevisionResponse, error)
}

type revisionService struct {
	repo         repository.RevisionRepository
	solicitudes  repository.SolicitudRepository
	usuarios     repository.UsuarioRepository
	estados      repository.EstadoTrabajoRepository
	notifier     Notifier
	systemUserID uint
	now          func() time.Time
}

// NewRevisionService builds the review workflow. systemUserID is the machinist
// the automated history entry is attributed to.
func NewRevisionService(
	repo repository.RevisionRepository,
	solicitudes repository.SolicitudRepository,
	usuarios repository.UsuarioRepository,
	estados repository.EstadoTrabajoRepository,
	notifier Notifier,
	systemUserID uint,
) RevisionService {
	return &revisionService{
		repo:         repo,
		solicitudes:  solicitudes,
		usuarios:     usuarios,
		estados:      estados,
		notifier:     notifier,
		systemUserID: systemUserID,
		now:          time.Now,
	}
}

// ── Crear ─────────────────────────────────────────────────────────────────────
//   1. Validate solicitud and revisor exist, reject a second review
//   2. BEGIN TX: insert Revision, insert the system "Revisión de Ingeniería" entry
//   3. COMMIT; a duplicate racing past step 1 hits the unique index and rolls back
//   4. (async) notify the requester

func (s *revisionService) Crear(ctx context.Context, req dto.CrearRevisionRequest) (*dto.RevisionResponse, error) {
	okSol, err := s.solicitudes.Exists(ctx, req.SolicitudID)
	if err != nil {
		return nil, err
	}
	okRev, err := s.usuarios.Exists(ctx, req.RevisorID)
	if err != nil {
		return nil, err
	}
	if !okSol || !okRev {
		campo := "solicitud_id"
		if okSol {
			campo = "revisor_id"
		}
		return nil, referenciaInvalida(campo, msgRevisionRefInvalida)
	}

	dup, err := s.repo.ExistsForSolicitud(ctx, req.SolicitudID)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, conflicto(msgRevisionDuplicada)
	}

	ahora := s.now().UTC()
	rev := model.Revision{
		SolicitudID:       req.SolicitudID,
		RevisorID:         req.RevisorID,
		Prioridad:         req.Prioridad,
		Comentarios:       req.Comentarios,
		FechaHoraRevision: ahora,
	}
	err = runTx(ctx, s.solicitudes.DB(), func(tx *gorm.DB) error {
		if err := s.repo.CreateTx(tx, &rev); err != nil {
			return err
		}
		obs := ObservacionesRevision
		entrada := model.EstadoTrabajo{
			SolicitudID:          req.SolicitudID,
			MaquinistaID:         s.systemUserID,
			FechaYHoraDeInicio:   ahora,
			MaquinaAsignada:      MaquinaNoAsignada,
			DescripcionOperacion: DescripcionRevision(req.Prioridad),
			TiempoMaquina:        decimal.Zero,
			Observaciones:        &obs,
		}
		return s.estados.CreateTx(tx, &entrada)
	})
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return nil, conflicto(msgRevisionDuplicada)
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return nil, referenciaInvalida("solicitud_id", msgRevisionRefInvalida)
	case err != nil:
		return nil, err
	}

	log.Info().
		Uint("solicitud_id", rev.SolicitudID).
		Str("prioridad", rev.Prioridad).
		Msg("revision registrada")

	s.notificar(ctx, &rev)
	resp := revisionToResponse(&rev)
	return &resp, nil
}

func (s *revisionService) ObtenerPorID(ctx context.Context, id uint) (*dto.RevisionResponse, error) {
	rev, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Revisión no encontrada.")
	}
	resp := revisionToResponse(rev)
	return &resp, nil
}

func (s *revisionService) notificar(ctx context.Context, rev *model.Revision) {
	sol, err := s.solicitudes.FindByID(ctx, rev.SolicitudID)
	if err != nil || sol.Solicitante == nil || sol.Solicitante.Email == "" {
		return
	}
	body := fmt.Sprintf(
		"Hola %s,\n\nTu solicitud #%d (%s) fue revisada por Ingeniería.\nPrioridad asignada: %s.\n",
		sol.Solicitante.Nombre, sol.ID, sol.Tipo, rev.Prioridad,
	)
	if rev.Comentarios != nil && *rev.Comentarios != "" {
		body += "Comentarios: " + *rev.Comentarios + "\n"
	}
	notify(ctx, s.notifier, worker.EmailJobPayload{
		ToEmail: sol.Solicitante.Email,
		Subject: fmt.Sprintf("Solicitud #%d revisada: prioridad %s", sol.ID, rev.Prioridad),
		Body:    body,
		Evento:  worker.EventoRevision,
	}, worker.EventoRevision)
}
