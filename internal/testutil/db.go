// Package testutil builds throwaway databases and fixtures for tests.
package testutil

import (
	"fmt"
	"testing"

	"machineshop/internal/infra"
	"machineshop/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB returns a migrated in-memory SQLite database private to t.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := infra.NewDatabase("sqlite", "file:"+uuid.NewString()+"?mode=memory")
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func Usuario(t *testing.T, db *gorm.DB, nombre, rol string) *model.Usuario {
	t.Helper()
	u := &model.Usuario{
		Nombre:       nombre,
		Email:        fmt.Sprintf("%s@planta.test", uuid.NewString()[:8]),
		PasswordHash: "x",
		Area:         "Producción",
		Rol:          rol,
		Activo:       true,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func Area(t *testing.T, db *gorm.DB, nombre string) *model.Area {
	t.Helper()
	a := &model.Area{NombreArea: nombre}
	require.NoError(t, db.Create(a).Error)
	return a
}

func Pieza(t *testing.T, db *gorm.DB, areaID uint, nombre string) *model.Pieza {
	t.Helper()
	p := &model.Pieza{AreaID: areaID, NombrePieza: nombre, Maquina: "CNC-01"}
	require.NoError(t, db.Create(p).Error)
	return p
}

// Count returns the number of rows in m's table.
func Count(t *testing.T, db *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(m).Count(&n).Error)
	return n
}
