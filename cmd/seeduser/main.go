// cmd/seeduser/main.go: crea o actualiza un usuario (por email) con password bcrypt.
// Uso: go run ./cmd/seeduser -email ana@planta.local -nombre "Ana" -rol Ingeniero -area Ingeniería -password secreto123
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"machineshop/internal/config"
	"machineshop/internal/infra"
	"machineshop/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	email := flag.String("email", "", "email del usuario (obligatorio)")
	nombre := flag.String("nombre", "", "nombre completo")
	rol := flag.String("rol", "Operador", "Operador | Supervisor | Ingeniero | Maquinista | Calidad")
	area := flag.String("area", "Producción", "área de trabajo")
	password := flag.String("password", "", "password en texto plano (mínimo 8 caracteres)")
	flag.Parse()

	if *email == "" || len(*password) < 8 {
		flag.Usage()
		os.Exit(2)
	}
	if *nombre == "" {
		*nombre = strings.SplitN(*email, "@", 2)[0]
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config")
	}
	db, err := infra.NewDatabase(cfg.DBDriver, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	u := model.Usuario{
		Nombre:       *nombre,
		Email:        strings.ToLower(*email),
		PasswordHash: string(hash),
		Area:         *area,
		Rol:          *rol,
		Activo:       true,
	}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"nombre", "password_hash", "area", "rol", "activo", "updated_at"}),
	}).Create(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		log.Fatal().Err(err).Msg("upsert usuario")
	}
	fmt.Printf("Usuario '%s' (%s) creado/actualizado\n", u.Email, u.Rol)
}
