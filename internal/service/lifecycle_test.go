package service

import (
	"testing"
	"time"

	"machineshop/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

var t0 = time.Date(2026, 1, 10, 7, 30, 0, 0, time.UTC)

func entrada(id uint, inicio time.Time, desc string, maq string, horas string, cerrada bool) model.EstadoTrabajo {
	e := model.EstadoTrabajo{
		ID:                   id,
		FechaYHoraDeInicio:   inicio,
		DescripcionOperacion: desc,
		Maquinista:           &model.Usuario{Nombre: maq},
		TiempoMaquina:        decimal.RequireFromString(horas),
	}
	if cerrada {
		fin := inicio.Add(time.Hour)
		e.FechaYHoraDeFin = &fin
	}
	return e
}

func TestDerivar_SinRevisionNiHistorial(t *testing.T) {
	v := Derivar(model.Solicitud{ID: 1, Turno: "Mañana"})

	assert.Equal(t, "Pendiente de Revisión", v.PrioridadActual)
	assert.Equal(t, "Sin Estado Inicial", v.EstadoOperacional)
	assert.Equal(t, "N/A", v.MaquinistaAsignado)
	assert.True(t, v.TiempoTotalMaquina.IsZero())
}

func TestDerivar_PrioridadDeLaRevision(t *testing.T) {
	for _, p := range []string{model.PrioridadBaja, model.PrioridadMedia, model.PrioridadAlta, model.PrioridadUrgente} {
		v := Derivar(model.Solicitud{Revision: &model.Revision{Prioridad: p}})
		assert.Equal(t, p, v.PrioridadActual)
	}
}

func TestDerivar_UltimaEntradaPorInicio(t *testing.T) {
	s := model.Solicitud{Operaciones: []model.EstadoTrabajo{
		entrada(3, t0.Add(2*time.Hour), "Maquinado", "Marta", "0", false),
		entrada(1, t0, "En Revisión", "Olga", "0", true),
		entrada(2, t0.Add(time.Hour), "Revisión de Ingeniería: Prioridad Alta", "Sistema", "0", true),
	}}

	v := Derivar(s)

	assert.Equal(t, "Maquinado", v.EstadoOperacional)
	assert.Equal(t, "Marta", v.MaquinistaAsignado)
}

func TestDerivar_EmpateDeInicioGanaMayorID(t *testing.T) {
	s := model.Solicitud{Operaciones: []model.EstadoTrabajo{
		entrada(7, t0, "Rectificado", "Ana", "0", false),
		entrada(9, t0, "Pulido", "Beto", "0", false),
		entrada(8, t0, "Soldadura", "Carla", "0", false),
	}}

	v := Derivar(s)

	assert.Equal(t, "Pulido", v.EstadoOperacional)
	assert.Equal(t, "Beto", v.MaquinistaAsignado)
}

func TestDerivar_TotalSoloEntradasCerradas(t *testing.T) {
	s := model.Solicitud{Operaciones: []model.EstadoTrabajo{
		entrada(1, t0, "Torneado", "Ana", "1.50", true),
		entrada(2, t0.Add(time.Hour), "Fresado", "Ana", "0.25", true),
		// an open entry never contributes, whatever its column says
		entrada(3, t0.Add(2*time.Hour), "Pulido", "Ana", "9.99", false),
	}}

	v := Derivar(s)

	assert.True(t, decimal.RequireFromString("1.75").Equal(v.TiempoTotalMaquina), v.TiempoTotalMaquina.String())
}

func TestDerivar_Idempotente(t *testing.T) {
	s := model.Solicitud{
		ID:       4,
		Revision: &model.Revision{Prioridad: "Media"},
		Operaciones: []model.EstadoTrabajo{
			entrada(1, t0, "Torneado", "Ana", "2.00", true),
			entrada(2, t0.Add(time.Hour), "Pulido", "Beto", "0", false),
		},
	}

	assert.Equal(t, Derivar(s), Derivar(s))
	assert.Equal(t, "Pulido", s.Operaciones[1].DescripcionOperacion, "input must not be mutated")
}

func TestDerivar_EntradaSinMaquinistaCargado(t *testing.T) {
	e := entrada(1, t0, "Torneado", "", "0", false)
	e.Maquinista = nil

	v := Derivar(model.Solicitud{Operaciones: []model.EstadoTrabajo{e}})

	assert.Equal(t, "Torneado", v.EstadoOperacional)
	assert.Equal(t, "N/A", v.MaquinistaAsignado)
}

func TestTiempoEntre(t *testing.T) {
	cases := []struct {
		name string
		d    time.Duration
		want string
	}{
		{"noventa minutos", 90 * time.Minute, "1.5"},
		{"cero", 0, "0"},
		{"redondeo", 20 * time.Minute, "0.33"},
		{"medio centesimo hacia arriba", 27 * time.Second * 10, "0.08"},
		{"fin anterior al inicio", -time.Minute, "0"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := TiempoEntre(t0, t0.Add(tc.d))
			assert.True(t, decimal.RequireFromString(tc.want).Equal(got), "got %s", got)
		})
	}
}
