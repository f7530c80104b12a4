package service

import (
	"context"
	"errors"
	"testing"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"
	"machineshop/internal/worker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCrearRevision_AgregaEntradaDelSistema(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	f.clock.advance(time1m)

	com := "Urgente"
	rev, err := f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{
		SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Alta", Comentarios: &com,
	})
	require.NoError(t, err)
	assert.NotZero(t, rev.ID)
	assert.Equal(t, "Alta", rev.Prioridad)
	assert.True(t, rev.FechaHoraRevision.Equal(f.clock.now()))

	hist, err := f.estados.ListBySolicitud(ctx, sol.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	ultima := hist[0]
	assert.Equal(t, "Revisión de Ingeniería: Prioridad Alta", ultima.DescripcionOperacion)
	assert.Equal(t, f.sistema.ID, ultima.MaquinistaID)
	assert.Equal(t, "N/A", ultima.MaquinaAsignada)
	require.NotNil(t, ultima.Observaciones)
	assert.Equal(t, "Prioridad y comentarios de ingeniería establecidos.", *ultima.Observaciones)

	v, err := f.solicitudSvc.ObtenerPorID(ctx, sol.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alta", v.PrioridadActual)
	assert.Equal(t, "Revisión de Ingeniería: Prioridad Alta", v.EstadoOperacional)
}

func TestCrearRevision_Duplicada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	req := dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Media"}
	_, err = f.revisionSvc.Crear(ctx, req)
	require.NoError(t, err)

	req.Prioridad = "Baja"
	_, err = f.revisionSvc.Crear(ctx, req)

	assert.ErrorIs(t, err, ErrConflicto)
	assert.Equal(t, "Ya existe un registro de revisión para esta solicitud.", Mensaje(err))
	assert.EqualValues(t, 1, countRows(t, f, &model.Revision{}))
	assert.EqualValues(t, 2, countRows(t, f, &model.EstadoTrabajo{}))
}

// A second review that slips past the pre-check must be stopped by the unique
// index and leave no orphan history row behind.
func TestCrearRevision_CarreraContraIndiceUnico(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&model.Revision{
		SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Baja", FechaHoraRevision: f.clock.now(),
	}).Error)
	f.revisionSvc.repo = &ciegoRevisionRepo{RevisionRepository: f.revisiones}

	_, err = f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Alta"})

	assert.ErrorIs(t, err, ErrConflicto)
	assert.EqualValues(t, 1, countRows(t, f, &model.Revision{}))
	assert.EqualValues(t, 1, countRows(t, f, &model.EstadoTrabajo{}))
}

func TestCrearRevision_ReferenciasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	cases := []struct {
		name  string
		req   dto.CrearRevisionRequest
		campo string
	}{
		{"solicitud", dto.CrearRevisionRequest{SolicitudID: 999, RevisorID: f.revisor.ID, Prioridad: "Alta"}, "solicitud_id"},
		{"revisor", dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: 999, Prioridad: "Alta"}, "revisor_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.revisionSvc.Crear(ctx, tc.req)
			var ref *ReferenciaInvalidaError
			require.ErrorAs(t, err, &ref)
			assert.Equal(t, tc.campo, ref.Campo)
			assert.Equal(t, "El ID de Solicitud o Revisor proporcionado no es válido.", ref.Mensaje)
		})
	}
	assert.Zero(t, countRows(t, f, &model.Revision{}))
}

func TestCrearRevision_NotificaAlSolicitante(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	_, err = f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Urgente"})
	require.NoError(t, err)

	jobs := f.notifier.enviados()
	require.Len(t, jobs, 1)
	assert.Equal(t, f.solicitante.Email, jobs[0].ToEmail)
	assert.Equal(t, worker.EventoRevision, jobs[0].Evento)
	assert.Contains(t, jobs[0].Subject, "Urgente")
}

func TestCrearRevision_FalloDeColaNoFallaLaOperacion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.notifier.err = errors.New("redis down")
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	_, err = f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Media"})

	assert.NoError(t, err)
	assert.EqualValues(t, 1, countRows(t, f, &model.Revision{}))
}

func TestObtenerRevision(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	rev, err := f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Baja"})
	require.NoError(t, err)

	got, err := f.revisionSvc.ObtenerPorID(ctx, rev.ID)
	require.NoError(t, err)
	assert.Equal(t, rev.ID, got.ID)
	assert.Nil(t, got.Comentarios)

	_, err = f.revisionSvc.ObtenerPorID(ctx, rev.ID+100)
	assert.ErrorIs(t, err, ErrNoEncontrado)
}

// ciegoRevisionRepo never sees an existing review, simulating a concurrent writer.
type ciegoRevisionRepo struct {
	repository.RevisionRepository
}

func (ciegoRevisionRepo) ExistsForSolicitud(context.Context, uint) (bool, error) { return false, nil }
