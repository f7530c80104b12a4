package service

import (
	"context"
	"testing"
	"time"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"
	"machineshop/internal/worker"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func abrirReq(f *fixture, solicitudID uint) dto.AbrirEstadoRequest {
	return dto.AbrirEstadoRequest{
		SolicitudID:          solicitudID,
		MaquinistaID:         f.maquinista.ID,
		MaquinaAsignada:      "CNC-05",
		DescripcionOperacion: "Maquinado",
	}
}

func TestAbrirYCerrar_NoventaMinutos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	f.clock.advance(time.Hour)
	e, err := f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)
	assert.Nil(t, e.FechaYHoraDeFin)
	assert.True(t, e.TiempoMaquina.IsZero())
	assert.Equal(t, f.maquinista.Nombre, e.MaquinistaNombre)

	v, err := f.solicitudSvc.ObtenerPorID(ctx, sol.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maquinado", v.EstadoOperacional)
	assert.Equal(t, f.maquinista.Nombre, v.MaquinistaAsignado)

	f.clock.advance(90 * time.Minute)
	cerrada, err := f.estadoSvc.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{})
	require.NoError(t, err)
	require.NotNil(t, cerrada.FechaYHoraDeFin)
	assert.True(t, cerrada.FechaYHoraDeFin.Equal(f.clock.now()))
	assert.True(t, decimal.RequireFromString("1.50").Equal(cerrada.TiempoMaquina))

	v, err = f.solicitudSvc.ObtenerPorID(ctx, sol.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.50").Equal(v.TiempoTotalMaquina), v.TiempoTotalMaquina.String())
}

func TestCerrar_DosVecesConservaFinYTiempo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	obsInicial := "arranque"
	req := abrirReq(f, sol.ID)
	req.Observaciones = &obsInicial
	e, err := f.estadoSvc.Abrir(ctx, req)
	require.NoError(t, err)

	f.clock.advance(45 * time.Minute)
	primera, err := f.estadoSvc.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{})
	require.NoError(t, err)
	require.NotNil(t, primera.Observaciones)
	assert.Equal(t, "arranque", *primera.Observaciones, "notes survive when none are supplied")

	f.clock.advance(3 * time.Hour)
	notas := "pieza entregada a calidad"
	segunda, err := f.estadoSvc.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{Observaciones: &notas})
	require.NoError(t, err)

	assert.True(t, primera.FechaYHoraDeFin.Equal(*segunda.FechaYHoraDeFin))
	assert.True(t, decimal.RequireFromString("0.75").Equal(segunda.TiempoMaquina))
	require.NotNil(t, segunda.Observaciones)
	assert.Equal(t, notas, *segunda.Observaciones)

	assert.Len(t, f.notifier.enviados(), 1, "only the first close notifies")
}

// intercaladoEstadoRepo runs a hook right after the first read so a
// competing write lands between the read and the close update.
type intercaladoEstadoRepo struct {
	repository.EstadoTrabajoRepository
	antesDeEscribir func()
}

func (r *intercaladoEstadoRepo) FindByID(ctx context.Context, id uint) (*model.EstadoTrabajo, error) {
	e, err := r.EstadoTrabajoRepository.FindByID(ctx, id)
	if hook := r.antesDeEscribir; hook != nil {
		r.antesDeEscribir = nil
		hook()
	}
	return e, err
}

func TestCerrar_ConcurrenteConservaElPrimerCierre(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	e, err := f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)
	inicio := f.clock.now()

	rapido := NewEstadoTrabajoService(f.estados, f.solicitudes, f.usuarios, f.notifier).(*estadoTrabajoService)
	rapido.now = func() time.Time { return inicio.Add(90 * time.Minute) }

	repo := &intercaladoEstadoRepo{EstadoTrabajoRepository: f.estados}
	repo.antesDeEscribir = func() {
		_, err := rapido.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{})
		require.NoError(t, err)
	}
	lento := NewEstadoTrabajoService(repo, f.solicitudes, f.usuarios, f.notifier).(*estadoTrabajoService)
	lento.now = func() time.Time { return inicio.Add(150 * time.Minute) }

	notas := "cierre tardío"
	resp, err := lento.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{Observaciones: &notas})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1.50").Equal(resp.TiempoMaquina), resp.TiempoMaquina.String())
	require.NotNil(t, resp.Observaciones)
	assert.Equal(t, notas, *resp.Observaciones)

	guardado, err := f.estados.FindByID(ctx, e.ID)
	require.NoError(t, err)
	require.NotNil(t, guardado.FechaYHoraDeFin)
	assert.True(t, guardado.FechaYHoraDeFin.Equal(inicio.Add(90*time.Minute)))
	assert.True(t, decimal.RequireFromString("1.50").Equal(guardado.TiempoMaquina), guardado.TiempoMaquina.String())
	require.NotNil(t, guardado.Observaciones)
	assert.Equal(t, notas, *guardado.Observaciones)

	assert.Len(t, f.notifier.enviados(), 1, "only the winning close notifies")
}

func TestCerrar_BorradoTrasLeerEsNoEncontrado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	e, err := f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)

	repo := &intercaladoEstadoRepo{EstadoTrabajoRepository: f.estados}
	repo.antesDeEscribir = func() {
		require.NoError(t, f.db.Delete(&model.EstadoTrabajo{}, e.ID).Error)
	}
	svc := NewEstadoTrabajoService(repo, f.solicitudes, f.usuarios, f.notifier).(*estadoTrabajoService)
	svc.now = f.clock.now

	_, err = svc.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{})

	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.Empty(t, f.notifier.enviados())
}

func TestCerrar_NoEncontrado(t *testing.T) {
	f := newFixture(t)

	_, err := f.estadoSvc.Cerrar(context.Background(), 404, dto.CerrarEstadoRequest{})

	assert.ErrorIs(t, err, ErrNoEncontrado)
}

func TestCerrar_NotificaConTiempo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	e, err := f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)

	f.clock.advance(2 * time.Hour)
	_, err = f.estadoSvc.Cerrar(ctx, e.ID, dto.CerrarEstadoRequest{})
	require.NoError(t, err)

	jobs := f.notifier.enviados()
	require.Len(t, jobs, 1)
	assert.Equal(t, worker.EventoCierre, jobs[0].Evento)
	assert.Equal(t, f.solicitante.Email, jobs[0].ToEmail)
	assert.Contains(t, jobs[0].Body, "2.00 h")
}

func TestAbrir_ReferenciasInvalidas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	req := abrirReq(f, 999)
	_, err = f.estadoSvc.Abrir(ctx, req)
	var ref *ReferenciaInvalidaError
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "solicitud_id", ref.Campo)
	assert.Equal(t, "El ID de Solicitud o Maquinista proporcionado no es válido.", ref.Mensaje)

	req = abrirReq(f, sol.ID)
	req.MaquinistaID = 999
	_, err = f.estadoSvc.Abrir(ctx, req)
	require.ErrorAs(t, err, &ref)
	assert.Equal(t, "maquinista_id", ref.Campo)

	assert.EqualValues(t, 1, countRows(t, f, &model.EstadoTrabajo{}))
}

// usuarioFantasmaRepo reports every user as existing, so the insert is the
// first place a missing maquinista is noticed.
type usuarioFantasmaRepo struct {
	repository.UsuarioRepository
}

func (usuarioFantasmaRepo) Exists(context.Context, uint) (bool, error) { return true, nil }

func TestAbrir_ViolacionDeFKNoCulpaASolicitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	svc := NewEstadoTrabajoService(f.estados, f.solicitudes, usuarioFantasmaRepo{f.usuarios}, f.notifier).(*estadoTrabajoService)
	svc.now = f.clock.now
	req := abrirReq(f, sol.ID)
	req.MaquinistaID = 999

	_, err = svc.Abrir(ctx, req)

	assert.ErrorIs(t, err, ErrReferenciaInvalida)
	var ref *ReferenciaInvalidaError
	require.ErrorAs(t, err, &ref)
	assert.Empty(t, ref.Campo)
	assert.Equal(t, "El ID de Solicitud o Maquinista proporcionado no es válido.", ref.Mensaje)
}

func TestAbrir_VariasAbiertasALaVez(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	f.clock.advance(time1m)
	_, err = f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)
	f.clock.advance(time1m)
	req := abrirReq(f, sol.ID)
	req.DescripcionOperacion = "Electroerosión"
	_, err = f.estadoSvc.Abrir(ctx, req)
	require.NoError(t, err)

	v, err := f.solicitudSvc.ObtenerPorID(ctx, sol.ID)
	require.NoError(t, err)
	assert.Equal(t, "Electroerosión", v.EstadoOperacional)
}

func TestHistorialPorSolicitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)
	f.clock.advance(time1m)
	_, err = f.revisionSvc.Crear(ctx, dto.CrearRevisionRequest{SolicitudID: sol.ID, RevisorID: f.revisor.ID, Prioridad: "Alta"})
	require.NoError(t, err)
	f.clock.advance(time1m)
	_, err = f.estadoSvc.Abrir(ctx, abrirReq(f, sol.ID))
	require.NoError(t, err)

	hist, err := f.estadoSvc.HistorialPorSolicitud(ctx, sol.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, "Maquinado", hist[0].DescripcionOperacion)
	assert.Equal(t, "Revisión de Ingeniería: Prioridad Alta", hist[1].DescripcionOperacion)
	assert.Equal(t, "En Revisión", hist[2].DescripcionOperacion)

	_, err = f.estadoSvc.HistorialPorSolicitud(ctx, sol.ID+50)
	assert.ErrorIs(t, err, ErrNoEncontrado)
	assert.Equal(t, "No se encontró historial para esta solicitud.", Mensaje(err))
}

func TestListarEstados_IncluyeSolicitud(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sol, err := f.solicitudSvc.Crear(ctx, crearReq(f))
	require.NoError(t, err)

	list, err := f.estadoSvc.Listar(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].Solicitud)
	assert.Equal(t, sol.ID, list[0].Solicitud.ID)
	assert.Equal(t, "Daño físico", list[0].Solicitud.Tipo)
	assert.Equal(t, f.solicitante.Nombre, list[0].MaquinistaNombre)
}
