package service

import (
	"machineshop/internal/dto"
	"machineshop/internal/model"
)

func usuarioToResponse(u *model.Usuario) dto.UsuarioResponse {
	return dto.UsuarioResponse{
		ID:     u.ID,
		Nombre: u.Nombre,
		Email:  u.Email,
		Area:   u.Area,
		Rol:    u.Rol,
		Activo: u.Activo,
	}
}

func areaToResponse(a *model.Area) dto.AreaResponse {
	resp := dto.AreaResponse{
		ID:                a.ID,
		NombreArea:        a.NombreArea,
		ResponsableAreaID: a.ResponsableAreaID,
	}
	if a.ResponsableArea != nil {
		u := usuarioToResponse(a.ResponsableArea)
		resp.ResponsableArea = &u
	}
	return resp
}

func piezaToResponse(p *model.Pieza) dto.PiezaResponse {
	resp := dto.PiezaResponse{
		ID:          p.ID,
		AreaID:      p.AreaID,
		NombrePieza: p.NombrePieza,
		Maquina:     p.Maquina,
	}
	if p.Area != nil {
		a := areaToResponse(p.Area)
		resp.Area = &a
	}
	return resp
}

func revisionToResponse(r *model.Revision) dto.RevisionResponse {
	return dto.RevisionResponse{
		ID:                r.ID,
		SolicitudID:       r.SolicitudID,
		RevisorID:         r.RevisorID,
		Prioridad:         r.Prioridad,
		Comentarios:       r.Comentarios,
		FechaHoraRevision: r.FechaHoraRevision,
	}
}

func estadoToResponse(e *model.EstadoTrabajo) dto.EstadoTrabajoResponse {
	resp := dto.EstadoTrabajoResponse{
		ID:                   e.ID,
		SolicitudID:          e.SolicitudID,
		MaquinistaID:         e.MaquinistaID,
		FechaYHoraDeInicio:   e.FechaYHoraDeInicio,
		FechaYHoraDeFin:      e.FechaYHoraDeFin,
		MaquinaAsignada:      e.MaquinaAsignada,
		DescripcionOperacion: e.DescripcionOperacion,
		TiempoMaquina:        e.TiempoMaquina.Round(2),
		Observaciones:        e.Observaciones,
	}
	if e.Maquinista != nil {
		resp.MaquinistaNombre = e.Maquinista.Nombre
	}
	if e.Solicitud != nil {
		resp.Solicitud = &dto.SolicitudRef{
			ID:       e.Solicitud.ID,
			Tipo:     e.Solicitud.Tipo,
			Turno:    e.Solicitud.Turno,
			Detalles: e.Solicitud.Detalles,
		}
	}
	return resp
}

func estadosToResponse(list []model.EstadoTrabajo) []dto.EstadoTrabajoResponse {
	out := make([]dto.EstadoTrabajoResponse, 0, len(list))
	for i := range list {
		out = append(out, estadoToResponse(&list[i]))
	}
	return out
}
