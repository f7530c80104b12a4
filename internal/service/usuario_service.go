package service

import (
	"context"
	"strings"

	"machineshop/internal/dto"
	"machineshop/internal/model"
	"machineshop/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UsuarioService interface {
	Listar(ctx context.Context) ([]dto.UsuarioResponse, error)
	ObtenerPorID(ctx context.Context, id uint) (*dto.UsuarioResponse, error)
	Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error)
	Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) error
}

type usuarioService struct {
	repo repository.UsuarioRepository
}

func NewUsuarioService(repo repository.UsuarioRepository) UsuarioService {
	return &usuarioService{repo: repo}
}

func (s *usuarioService) Listar(ctx context.Context) ([]dto.UsuarioResponse, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.UsuarioResponse, 0, len(users))
	for i := range users {
		out = append(out, usuarioToResponse(&users[i]))
	}
	return out, nil
}

func (s *usuarioService) ObtenerPorID(ctx context.Context, id uint) (*dto.UsuarioResponse, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "Usuario no encontrado.")
	}
	resp := usuarioToResponse(u)
	return &resp, nil
}

func (s *usuarioService) Crear(ctx context.Context, req dto.CrearUsuarioRequest) (*dto.UsuarioResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, conflicto("Ya existe un usuario con ese email.")
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	u := &model.Usuario{
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        email,
		PasswordHash: hash,
		Area:         req.Area,
		Rol:          req.Rol,
		Activo:       true,
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, translate(err, "Usuario no encontrado.")
	}
	resp := usuarioToResponse(u)
	return &resp, nil
}

func (s *usuarioService) Actualizar(ctx context.Context, id uint, req dto.ActualizarUsuarioRequest) error {
	if req.ID != nil && *req.ID != id {
		return validacion("El ID de la URL no coincide con el del cuerpo.")
	}
	u := &model.Usuario{
		ID:     id,
		Nombre: strings.TrimSpace(req.Nombre),
		Area:   req.Area,
		Rol:    req.Rol,
		Activo: *req.Activo,
	}
	return translate(s.repo.Update(ctx, u), "Usuario no encontrado.")
}

// hashPassword bcrypt-hashes password. Accounts created without one get a random
// secret nobody knows, so the column is never empty.
func hashPassword(password string) (string, error) {
	if password == "" {
		password = uuid.NewString()
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
