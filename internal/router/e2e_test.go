//go:build integration

package router

// End-to-end tests against real Postgres and Redis started with testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"machineshop/internal/config"
	"machineshop/internal/dto"
	"machineshop/internal/infra"
	"machineshop/internal/model"
	"machineshop/internal/repository"
	"machineshop/internal/service"
	"machineshop/internal/worker"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"gorm.io/gorm"
)

type e2eEnv struct {
	server *httptest.Server
	db     *gorm.DB
	rdb    *redis.Client

	solicitante *model.Usuario
	revisor     *model.Usuario
	maquinista  *model.Usuario
	pieza       *model.Pieza
}

func setupE2E(t *testing.T) *e2eEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.Run(ctx, "postgres:16-alpine",
		tcPostgres.WithDatabase("machineshop_test"),
		tcPostgres.WithUsername("machineshop"),
		tcPostgres.WithPassword("machineshop"),
		tcPostgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, pgC)
	require.NoError(t, err)
	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.Run(ctx, "redis:7-alpine")
	testcontainers.CleanupContainer(t, rdC)
	require.NoError(t, err)
	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	db, err := infra.NewDatabase("postgres", pgURL)
	require.NoError(t, err)
	rdb, err := infra.NewRedis(ctx, rdURL)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })

	systemID, err := service.EnsureSystemUser(ctx, repository.NewUsuarioRepository(db), 0, "system@e2e.test")
	require.NoError(t, err)

	env := &e2eEnv{db: db, rdb: rdb}
	seed := func(nombre, email, rol string) *model.Usuario {
		u := &model.Usuario{Nombre: nombre, Email: email, PasswordHash: "x", Area: "Producción", Rol: rol, Activo: true}
		require.NoError(t, db.Create(u).Error)
		return u
	}
	env.solicitante = seed("Olga Operadora", "olga@e2e.test", "Operador")
	env.revisor = seed("Iván Ingeniero", "ivan@e2e.test", "Ingeniero")
	env.maquinista = seed("Marta Maquinista", "marta@e2e.test", "Maquinista")
	area := &model.Area{NombreArea: "Inyección"}
	require.NoError(t, db.Create(area).Error)
	env.pieza = &model.Pieza{AreaID: area.ID, NombrePieza: "Molde tapa 38mm", Maquina: "CNC-01"}
	require.NoError(t, db.Create(env.pieza).Error)

	cfg := &config.Config{Env: "test", CORSOrigin: "*", SystemUserID: systemID}
	r := New(cfg, Deps{
		DB:       db,
		Rdb:      rdb,
		Notifier: worker.NewDispatcher(rdb),
		MailCB:   infra.NewCircuitBreaker(infra.MailCBConfig()),
		Dibujos:  infra.NewMemoriaDibujoStore(),
	})
	env.server = httptest.NewServer(r)
	t.Cleanup(env.server.Close)
	return env
}

func (env *e2eEnv) crearSolicitud(t *testing.T) dto.SolicitudResponse {
	t.Helper()
	resp := do(t, env.server, http.MethodPost, "/api/Solicitudes", jsonBody(t, map[string]any{
		"solicitante_id": env.solicitante.ID,
		"pieza_id":       env.pieza.ID,
		"turno":          "Mañana",
		"tipo":           "Daño físico",
		"detalles":       "Grieta",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sol dto.SolicitudResponse
	decodeJSON(t, resp, &sol)
	return sol
}

func TestE2E_CicloCompleto(t *testing.T) {
	env := setupE2E(t)
	sol := env.crearSolicitud(t)

	resp := do(t, env.server, http.MethodPost, "/api/Revision", jsonBody(t, map[string]any{
		"solicitud_id": sol.ID, "revisor_id": env.revisor.ID, "prioridad": "Alta", "comentarios": "Urgente",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/Revision", jsonBody(t, map[string]any{
		"solicitud_id": sol.ID, "revisor_id": env.revisor.ID, "prioridad": "Baja",
	}))
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodPost, "/api/EstadoTrabajo", jsonBody(t, map[string]any{
		"solicitud_id": sol.ID, "maquinista_id": env.maquinista.ID, "maquina_asignada": "CNC-05", "descripcion_operacion": "Maquinado",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var e dto.EstadoTrabajoResponse
	decodeJSON(t, resp, &e)

	require.NoError(t, env.db.Model(&model.EstadoTrabajo{}).Where("id = ?", e.ID).
		Update("fecha_y_hora_de_inicio", time.Now().UTC().Add(-90*time.Minute)).Error)
	resp = do(t, env.server, http.MethodPut, fmt.Sprintf("/api/EstadoTrabajo/%d", e.ID), nil)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp = do(t, env.server, http.MethodGet, fmt.Sprintf("/api/Solicitudes/%d", sol.ID), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SolicitudResponse
	decodeJSON(t, resp, &got)
	assert.Equal(t, "Alta", got.PrioridadActual)
	assert.Equal(t, "Maquinado", got.EstadoOperacional)
	assert.True(t, decimal.RequireFromString("1.50").Equal(got.TiempoTotalMaquina), got.TiempoTotalMaquina.String())

	// review and close each queued one notification
	n, err := env.rdb.LLen(context.Background(), worker.QueueNotificaciones).Result()
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	resp = do(t, env.server, http.MethodGet, "/health", nil)
	var health map[string]any
	decodeJSON(t, resp, &health)
	assert.Equal(t, "connected", health["redis"])
	assert.Equal(t, "closed", health["smtp"])
}

func TestE2E_PiezaInexistenteNoCreaSolicitud(t *testing.T) {
	env := setupE2E(t)

	resp := do(t, env.server, http.MethodPost, "/api/Solicitudes", jsonBody(t, map[string]any{
		"solicitante_id": env.solicitante.ID, "pieza_id": 99999, "turno": "Tarde", "tipo": "Ajuste", "detalles": "x",
	}))
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()

	var n int64
	require.NoError(t, env.db.Model(&model.Solicitud{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestE2E_PoolEntregaYDLQ(t *testing.T) {
	env := setupE2E(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var (
		mu       sync.Mutex
		entregas []worker.EmailJobPayload
		fallar   = true
	)
	pool := worker.StartWorkerPool(ctx, env.rdb, worker.PoolConfig{
		Workers:     1,
		MaxAttempts: 1,
		PopTimeout:  200 * time.Millisecond,
		Handlers: map[string]worker.Handler{
			worker.JobEmail: func(_ context.Context, raw json.RawMessage) error {
				mu.Lock()
				defer mu.Unlock()
				if fallar {
					return infra.ErrCircuitOpen
				}
				var p worker.EmailJobPayload
				if err := json.Unmarshal(raw, &p); err != nil {
					return err
				}
				entregas = append(entregas, p)
				return nil
			},
		},
	})
	defer pool.Wait()
	defer cancel()

	sol := env.crearSolicitud(t)
	resp := do(t, env.server, http.MethodPost, "/api/Revision", jsonBody(t, map[string]any{
		"solicitud_id": sol.ID, "revisor_id": env.revisor.ID, "prioridad": "Media",
	}))
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	resp.Body.Close()

	require.Eventually(t, func() bool {
		n, err := worker.DLQLength(context.Background(), env.rdb, worker.QueueNotificaciones)
		return err == nil && n == 1
	}, 10*time.Second, 100*time.Millisecond)

	mu.Lock()
	fallar = false
	mu.Unlock()

	moved, err := worker.ReplayDLQ(context.Background(), env.rdb, worker.QueueNotificaciones, 10)
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(entregas) == 1
	}, 10*time.Second, 100*time.Millisecond)

	mu.Lock()
	assert.Equal(t, env.solicitante.Email, entregas[0].ToEmail)
	assert.Equal(t, worker.EventoRevision, entregas[0].Evento)
	mu.Unlock()
}
