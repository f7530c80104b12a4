package infra

// pdf.go: work-order sheet for one Solicitud using go-pdf/fpdf.
// Layout (A4 portrait):
//   - Header with the Solicitud number and creation time
//   - Request data block (requester, piece, shift, type, drawing)
//   - Derived status block (priority, current operation, machinist, total hours)
//   - Work history table, oldest entry first

import (
	"fmt"
	"io"

	"machineshop/internal/dto"

	"github.com/go-pdf/fpdf"
)

// ReporteSolicitud is everything printed on the sheet.
type ReporteSolicitud struct {
	Solicitud dto.SolicitudResponse
	Revision  *dto.RevisionResponse
	Historial []dto.EstadoTrabajoResponse
}

const fechaReporte = "02/01/2006 15:04"

// GenerarReporteSolicitud renders the sheet into w.
func GenerarReporteSolicitud(w io.Writer, rep ReporteSolicitud) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(12, 12, 12)
	pdf.SetTitle(fmt.Sprintf("Solicitud %d", rep.Solicitud.ID), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 24

	// ── Header ───────────────────────────────────────────────────────────────
	pdf.SetFont("Helvetica", "B", 15)
	pdf.CellFormat(contentW, 8, tr(fmt.Sprintf("Orden de Trabajo N° %d", rep.Solicitud.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, "Emitida: "+rep.Solicitud.FechaYHora.Local().Format(fechaReporte), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// ── Request data ─────────────────────────────────────────────────────────
	s := rep.Solicitud
	seccion(pdf, tr, contentW, "Datos de la solicitud")
	fila(pdf, tr, contentW, "Solicitante", s.SolicitanteNombre)
	fila(pdf, tr, contentW, "Pieza", s.PiezaNombre)
	fila(pdf, tr, contentW, "Turno", s.Turno)
	fila(pdf, tr, contentW, "Tipo", s.Tipo)
	if s.Dibujo != "" {
		fila(pdf, tr, contentW, "Dibujo", s.Dibujo)
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.MultiCell(contentW, 5, tr(s.Detalles), "", "L", false)
	pdf.Ln(3)

	// ── Derived status ───────────────────────────────────────────────────────
	seccion(pdf, tr, contentW, "Estado")
	fila(pdf, tr, contentW, "Prioridad", s.PrioridadActual)
	fila(pdf, tr, contentW, "Estado operacional", s.EstadoOperacional)
	fila(pdf, tr, contentW, "Maquinista", s.MaquinistaAsignado)
	fila(pdf, tr, contentW, "Tiempo total (h)", s.TiempoTotalMaquina.StringFixed(2))
	if rep.Revision != nil && rep.Revision.Comentarios != nil {
		fila(pdf, tr, contentW, "Comentarios", *rep.Revision.Comentarios)
	}
	pdf.Ln(3)

	// ── History ──────────────────────────────────────────────────────────────
	seccion(pdf, tr, contentW, "Historial")
	cols := []float64{contentW * 0.17, contentW * 0.17, contentW * 0.30, contentW * 0.14, contentW * 0.12, contentW * 0.10}
	pdf.SetFont("Helvetica", "B", 8)
	for i, h := range []string{"Inicio", "Fin", "Operación", "Máquina", "Maquinista", "Horas"} {
		pdf.CellFormat(cols[i], 6, tr(h), "B", 0, "L", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for i := len(rep.Historial) - 1; i >= 0; i-- {
		e := rep.Historial[i]
		fin := "abierta"
		if e.FechaYHoraDeFin != nil {
			fin = e.FechaYHoraDeFin.Local().Format(fechaReporte)
		}
		pdf.CellFormat(cols[0], 5, e.FechaYHoraDeInicio.Local().Format(fechaReporte), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[1], 5, fin, "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[2], 5, tr(recortar(e.DescripcionOperacion, 45)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[3], 5, tr(recortar(e.MaquinaAsignada, 18)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[4], 5, tr(recortar(e.MaquinistaNombre, 16)), "", 0, "L", false, 0, "")
		pdf.CellFormat(cols[5], 5, e.TiempoMaquina.StringFixed(2), "", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("pdf: render solicitud %d: %w", rep.Solicitud.ID, err)
	}
	return nil
}

func seccion(pdf *fpdf.Fpdf, tr func(string) string, w float64, titulo string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(w, 7, tr(titulo), "B", 1, "L", false, 0, "")
	pdf.Ln(1)
}

func fila(pdf *fpdf.Fpdf, tr func(string) string, w float64, etiqueta, valor string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(w*0.3, 5, tr(etiqueta+":"), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(w*0.7, 5, tr(valor), "", 1, "L", false, 0, "")
}

func recortar(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "."
}
