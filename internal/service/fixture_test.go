package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"machineshop/internal/infra"
	"machineshop/internal/model"
	"machineshop/internal/repository"
	"machineshop/internal/testutil"
	"machineshop/internal/worker"

	"gorm.io/gorm"
)

// recordingNotifier keeps every enqueued payload.
type recordingNotifier struct {
	mu   sync.Mutex
	jobs []worker.EmailJobPayload
	err  error
}

func (n *recordingNotifier) EnqueueEmail(_ context.Context, payload any) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if p, ok := payload.(worker.EmailJobPayload); ok {
		n.jobs = append(n.jobs, p)
	}
	return n.err
}

func (n *recordingNotifier) enviados() []worker.EmailJobPayload {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]worker.EmailJobPayload(nil), n.jobs...)
}

// clock is a settable time source.
type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type fixture struct {
	db       *gorm.DB
	clock    *clock
	notifier *recordingNotifier
	dibujos  *infra.MemoriaDibujoStore

	solicitante *model.Usuario
	revisor     *model.Usuario
	maquinista  *model.Usuario
	sistema     *model.Usuario
	area        *model.Area
	pieza       *model.Pieza

	usuarios    repository.UsuarioRepository
	areas       repository.AreaRepository
	piezas      repository.PiezaRepository
	solicitudes repository.SolicitudRepository
	revisiones  repository.RevisionRepository
	estados     repository.EstadoTrabajoRepository

	solicitudSvc *solicitudService
	revisionSvc  *revisionService
	estadoSvc    *estadoTrabajoService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	f := &fixture{
		db:       db,
		clock:    &clock{t: time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)},
		notifier: &recordingNotifier{},
		dibujos:  infra.NewMemoriaDibujoStore(),

		solicitante: testutil.Usuario(t, db, "Olga Operadora", "Operador"),
		revisor:     testutil.Usuario(t, db, "Iván Ingeniero", "Ingeniero"),
		maquinista:  testutil.Usuario(t, db, "Marta Maquinista", "Maquinista"),
		sistema:     testutil.Usuario(t, db, SistemaNombre, SistemaRol),
		area:        testutil.Area(t, db, "Inyección"),

		usuarios:    repository.NewUsuarioRepository(db),
		areas:       repository.NewAreaRepository(db),
		piezas:      repository.NewPiezaRepository(db),
		solicitudes: repository.NewSolicitudRepository(db),
		revisiones:  repository.NewRevisionRepository(db),
		estados:     repository.NewEstadoTrabajoRepository(db),
	}
	f.pieza = testutil.Pieza(t, db, f.area.ID, "Molde tapa 38mm")

	f.solicitudSvc = NewSolicitudService(f.solicitudes, f.usuarios, f.piezas, f.revisiones, f.estados, f.dibujos).(*solicitudService)
	f.solicitudSvc.now = f.clock.now
	f.revisionSvc = NewRevisionService(f.revisiones, f.solicitudes, f.usuarios, f.estados, f.notifier, f.sistema.ID).(*revisionService)
	f.revisionSvc.now = f.clock.now
	f.estadoSvc = NewEstadoTrabajoService(f.estados, f.solicitudes, f.usuarios, f.notifier).(*estadoTrabajoService)
	f.estadoSvc.now = f.clock.now
	return f
}

const time1m = time.Minute

func countRows(t *testing.T, f *fixture, m any) int64 {
	t.Helper()
	return testutil.Count(t, f.db, m)
}
