package service

import (
	"context"
	"errors"
	"fmt"

	"machineshop/internal/model"
	"machineshop/internal/repository"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// Identity the automated review entries are attributed to.
const (
	SistemaNombre = "Revisión de Ingeniería"
	SistemaRol    = "Sistema"
	SistemaArea   = "Ingeniería"
)

// EnsureSystemUser resolves the reserved system user at startup.
// A non-zero id must exist; otherwise the user is looked up by e-mail and
// created when missing. Returns the resolved id.
func EnsureSystemUser(ctx context.Context, repo repository.UsuarioRepository, id uint, email string) (uint, error) {
	if id != 0 {
		u, err := repo.FindByID(ctx, id)
		if err != nil {
			return 0, fmt.Errorf("system user %d: %w", id, err)
		}
		return u.ID, nil
	}

	u, err := repo.FindByEmail(ctx, email)
	if err == nil {
		return u.ID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, fmt.Errorf("system user lookup: %w", err)
	}

	hash, err := hashPassword("")
	if err != nil {
		return 0, err
	}
	u = &model.Usuario{
		Nombre:       SistemaNombre,
		Email:        email,
		PasswordHash: hash,
		Area:         SistemaArea,
		Rol:          SistemaRol,
		Activo:       true,
	}
	if err := repo.Create(ctx, u); err != nil {
		return 0, fmt.Errorf("system user create: %w", err)
	}
	log.Info().Uint("id", u.ID).Str("email", email).Msg("system user seeded")
	return u.ID, nil
}
