package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"machineshop/internal/dto"
	"machineshop/internal/infra"

	"github.com/rs/zerolog/log"
)

const (
	prefijoDibujos    = "dibujos/"
	MaxTamanoDibujo   = 10 << 20
	vigenciaURLDibujo = time.Hour
)

var extensionesDibujo = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".dwg":  "application/acad",
}

// ArchivoDibujo is an uploaded drawing file.
type ArchivoDibujo struct {
	Nombre    string
	Tamano    int64
	Contenido io.Reader
}

// GenerarReporte renders the work-order sheet of one Solicitud as PDF.
func (s *solicitudService) GenerarReporte(ctx context.Context, id uint) ([]byte, error) {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgSolicitudNoEncontrada)
	}
	historial, err := s.estados.ListBySolicitud(ctx, id)
	if err != nil {
		return nil, err
	}

	rep := infra.ReporteSolicitud{
		Solicitud: Derivar(*sol),
		Historial: estadosToResponse(historial),
	}
	if sol.Revision != nil {
		rev := revisionToResponse(sol.Revision)
		rep.Revision = &rev
	}

	var buf bytes.Buffer
	if err := infra.GenerarReporteSolicitud(&buf, rep); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SubirDibujo stores the file and points Solicitud.Dibujo at its key.
func (s *solicitudService) SubirDibujo(ctx context.Context, id uint, archivo ArchivoDibujo) (*dto.DibujoResponse, error) {
	if s.dibujos == nil {
		return nil, ErrAlmacenamientoNoConfigurado
	}
	ext := strings.ToLower(filepath.Ext(archivo.Nombre))
	contentType, ok := extensionesDibujo[ext]
	if !ok {
		return nil, validacion("Formato de dibujo no soportado. Use PDF, PNG, JPG o DWG.")
	}
	if archivo.Tamano <= 0 || archivo.Tamano > MaxTamanoDibujo {
		return nil, validacion("El dibujo debe pesar como máximo 10 MB.")
	}
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgSolicitudNoEncontrada)
	}

	key := fmt.Sprintf("%ssolicitudes/%d/%d_%s", prefijoDibujos, id, s.now().Unix(), filepath.Base(archivo.Nombre))
	if err := s.dibujos.Subir(ctx, key, contentType, io.LimitReader(archivo.Contenido, MaxTamanoDibujo)); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateDibujo(ctx, id, key); err != nil {
		_ = s.dibujos.Eliminar(ctx, key)
		return nil, translate(err, msgSolicitudNoEncontrada)
	}
	if strings.HasPrefix(sol.Dibujo, prefijoDibujos) && sol.Dibujo != key {
		if err := s.dibujos.Eliminar(ctx, sol.Dibujo); err != nil {
			log.Warn().Err(err).Str("key", sol.Dibujo).Msg("no se pudo borrar el dibujo anterior")
		}
	}

	url, err := s.dibujos.URLFirmada(ctx, key, vigenciaURLDibujo)
	if err != nil {
		return nil, err
	}
	return &dto.DibujoResponse{SolicitudID: id, Dibujo: key, URL: url}, nil
}

// ObtenerDibujo returns a presigned URL for a stored drawing. Free-text drawing
// references (not uploaded here) are returned without URL.
func (s *solicitudService) ObtenerDibujo(ctx context.Context, id uint) (*dto.DibujoResponse, error) {
	sol, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, msgSolicitudNoEncontrada)
	}
	if sol.Dibujo == "" {
		return nil, noEncontrado("La solicitud no tiene dibujo.")
	}
	resp := &dto.DibujoResponse{SolicitudID: id, Dibujo: sol.Dibujo}
	if !strings.HasPrefix(sol.Dibujo, prefijoDibujos) {
		return resp, nil
	}
	if s.dibujos == nil {
		return nil, ErrAlmacenamientoNoConfigurado
	}
	resp.URL, err = s.dibujos.URLFirmada(ctx, sol.Dibujo, vigenciaURLDibujo)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
