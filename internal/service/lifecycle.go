package service

import (
	"time"

	"machineshop/internal/dto"
	"machineshop/internal/model"

	"github.com/shopspring/decimal"
)

// Values reported when a Solicitud has no review or no work history yet.
const (
	PrioridadPendiente = "Pendiente de Revisión"
	EstadoSinInicial   = "Sin Estado Inicial"
	SinMaquinista      = "N/A"
)

// Derivar builds the read view of a Solicitud. Nothing here is stored: priority
// comes from the Revision, the operational state and machinist from the most
// recent history entry, and the total from the closed entries.
//
// The most recent entry is the one with the latest start time; equal start
// times resolve to the highest ID. Operaciones must be loaded with Maquinista
// for the machinist name to be reported.
func Derivar(s model.Solicitud) dto.SolicitudResponse {
	resp := dto.SolicitudResponse{
		ID:                 s.ID,
		SolicitanteID:      s.SolicitanteID,
		PiezaID:            s.PiezaID,
		FechaYHora:         s.FechaYHora,
		Turno:              s.Turno,
		Tipo:               s.Tipo,
		Detalles:           s.Detalles,
		Dibujo:             s.Dibujo,
		PrioridadActual:    PrioridadPendiente,
		EstadoOperacional:  EstadoSinInicial,
		MaquinistaAsignado: SinMaquinista,
		TiempoTotalMaquina: decimal.Zero,
	}
	if s.Solicitante != nil {
		resp.SolicitanteNombre = s.Solicitante.Nombre
	}
	if s.Pieza != nil {
		resp.PiezaNombre = s.Pieza.NombrePieza
	}
	if s.Revision != nil {
		resp.PrioridadActual = s.Revision.Prioridad
	}

	var ultimo *model.EstadoTrabajo
	for i := range s.Operaciones {
		op := &s.Operaciones[i]
		if !op.Abierto() {
			resp.TiempoTotalMaquina = resp.TiempoTotalMaquina.Add(op.TiempoMaquina)
		}
		if ultimo == nil || masReciente(op, ultimo) {
			ultimo = op
		}
	}
	if ultimo != nil {
		resp.EstadoOperacional = ultimo.DescripcionOperacion
		if ultimo.Maquinista != nil {
			resp.MaquinistaAsignado = ultimo.Maquinista.Nombre
		}
	}
	return resp
}

func masReciente(a, b *model.EstadoTrabajo) bool {
	if a.FechaYHoraDeInicio.Equal(b.FechaYHoraDeInicio) {
		return a.ID > b.ID
	}
	return a.FechaYHoraDeInicio.After(b.FechaYHoraDeInicio)
}

// TiempoEntre returns the elapsed hours between two instants rounded to two decimals.
// An end before the start counts as zero.
func TiempoEntre(inicio, fin time.Time) decimal.Decimal {
	if fin.Before(inicio) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(fin.Sub(inicio).Hours()).Round(2)
}
