package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
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
	msgEstadoRefInvalida  = "El ID de Solicitud o Maquinista proporcionado no es válido."
	msgEstadoNoEncontrado = "Registro de estado no encontrado."
	msgSinHistorial       = "No se encontró historial para esta solicitud."
)

type EstadoTrabajoService interface {
	Listar(ctx context.Context) ([]dto.EstadoTrabajoResponse, error)
	HistorialPorSolicitud(ctx context.Context, solicitudID uint) ([]dto.EstadoTrabajoResponse, error)
	Abrir(ctx context.Context, req dto.AbrirEstadoRequest) (*dto.EstadoTrabajoResponse, error)
	Cerrar(ctx context.Context, id uint, req dto.CerrarEstadoRequest) (*dto.EstadoTrabajoResponse, error)
}

type estadoTrabajoService struct {
	repo        repository.EstadoTrabajoRepository
	solicitudes repository.SolicitudRepository
	usuarios    repository.UsuarioRepository
	notifier    Notifier
	now         func() time.Time
}

func NewEstadoTrabajoService(
	repo repository.EstadoTrabajoRepository,
	solicitudes repository.SolicitudRepository,
	usuarios repository.UsuarioRepository,
	notifier Notifier,
) EstadoTrabajoService {
	return &estadoTrabajoService{
		repo:        repo,
		solicitudes: solicitudes,
		usuarios:    usuarios,
		notifier:    notifier,
		now:         time.Now,
	}
}

func (s *estadoTrabajoService) Listar(ctx context.Context) ([]dto.EstadoTrabajoResponse, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return estadosToResponse(list), nil
}

// HistorialPorSolicitud returns the entries of one Solicitud, newest first.
// An empty history is reported as not found.
func (s *estadoTrabajoService) HistorialPorSolicitud(ctx context.Context, solicitudID uint) ([]dto.EstadoTrabajoResponse, error) {
	list, err := s.repo.ListBySolicitud(ctx, solicitudID)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, noEncontrado(msgSinHistorial)
	}
	return estadosToResponse(list), nil
}

// Abrir starts a new work session. Several sessions may be open at once on
// the same Solicitud.
func (s *estadoTrabajoService) Abrir(ctx context.Context, req dto.AbrirEstadoRequest) (*dto.EstadoTrabajoResponse, error) {
	okSol, err := s.solicitudes.Exists(ctx, req.SolicitudID)
	if err != nil {
		return nil, err
	}
	okMaq, err := s.usuarios.Exists(ctx, req.MaquinistaID)
	if err != nil {
		return nil, err
	}
	if !okSol || !okMaq {
		campo := "solicitud_id"
		if okSol {
			campo = "maquinista_id"
		}
		return nil, referenciaInvalida(campo, msgEstadoRefInvalida)
	}

	e := model.EstadoTrabajo{
		SolicitudID:          req.SolicitudID,
		MaquinistaID:         req.MaquinistaID,
		FechaYHoraDeInicio:   s.now().UTC(),
		MaquinaAsignada:      strings.TrimSpace(req.MaquinaAsignada),
		DescripcionOperacion: strings.TrimSpace(req.DescripcionOperacion),
		TiempoMaquina:        decimal.Zero,
		Observaciones:        req.Observaciones,
	}
	if err := s.repo.Create(ctx, &e); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			// a referenced row deleted between validation and insert
			return nil, referenciaInvalida("", msgEstadoRefInvalida)
		}
		return nil, err
	}
	return s.recargar(ctx, e.ID)
}

// Cerrar stamps the end time and machine hours of an open entry. Closing an
// already closed entry keeps its end time and hours and only replaces the notes
// when new ones are supplied. When two closes race, the first one to commit
// wins and the other falls back to the notes-only path.
func (s *estadoTrabajoService) Cerrar(ctx context.Context, id uint, req dto.CerrarEstadoRequest) (*dto.EstadoTrabajoResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgEstadoNoEncontrado)
	}

	if e.Abierto() {
		cierre := *e
		fin := s.now().UTC()
		cierre.FechaYHoraDeFin = &fin
		cierre.TiempoMaquina = TiempoEntre(e.FechaYHoraDeInicio, fin)
		if req.Observaciones != nil {
			cierre.Observaciones = req.Observaciones
		}
		cerrada, err := s.repo.Cerrar(ctx, &cierre)
		if err != nil {
			return nil, err
		}
		if cerrada {
			log.Info().
				Uint("estado_id", cierre.ID).
				Uint("solicitud_id", cierre.SolicitudID).
				Str("tiempo_maquina", cierre.TiempoMaquina.StringFixed(2)).
				Msg("operacion cerrada")
			s.notificar(ctx, &cierre)
			resp := estadoToResponse(&cierre)
			return &resp, nil
		}

		log.Warn().Uint("estado_id", id).Msg("operacion cerrada por otra solicitud, solo se actualizan observaciones")
		if e, err = s.repo.FindByID(ctx, id); err != nil {
			return nil, translate(err, msgEstadoNoEncontrado)
		}
	}

	if req.Observaciones != nil {
		if err := s.repo.ActualizarObservaciones(ctx, e.ID, req.Observaciones); err != nil {
			return nil, translate(err, msgEstadoNoEncontrado)
		}
		e.Observaciones = req.Observaciones
	}
	resp := estadoToResponse(e)
	return &resp, nil
}

func (s *estadoTrabajoService) recargar(ctx context.Context, id uint) (*dto.EstadoTrabajoResponse, error) {
	e, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgEstadoNoEncontrado)
	}
	resp := estadoToResponse(e)
	return &resp, nil
}

func (s *estadoTrabajoService) notificar(ctx context.Context, e *model.EstadoTrabajo) {
	sol, err := s.solicitudes.FindByID(ctx, e.SolicitudID)
	if err != nil || sol.Solicitante == nil || sol.Solicitante.Email == "" {
		return
	}
	view := Derivar(*sol)
	notify(ctx, s.notifier, worker.EmailJobPayload{
		ToEmail: sol.Solicitante.Email,
		Subject: fmt.Sprintf("Solicitud #%d: operación finalizada", sol.ID),
		Body: fmt.Sprintf(
			"Hola %s,\n\nSe cerró la operación \"%s\" en %s sobre tu solicitud #%d.\nTiempo de máquina: %s h (total acumulado %s h).\n",
			sol.Solicitante.Nombre, e.DescripcionOperacion, e.MaquinaAsignada, sol.ID,
			e.TiempoMaquina.StringFixed(2), view.TiempoTotalMaquina.StringFixed(2),
		),
		Evento: worker.EventoCierre,
	}, worker.EventoCierre)
}
