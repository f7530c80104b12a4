package infra

import (
	"fmt"
	"strings"

	"machineshop/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection for the configured driver ("postgres" or
// "sqlite"), migrates the schema and applies the patches AutoMigrate cannot express.
//
// TranslateError is enabled so that unique and foreign-key violations surface as
// gorm.ErrDuplicatedKey / gorm.ErrForeignKeyViolated regardless of the driver.
func NewDatabase(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "postgres", "":
		dialector = postgres.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(withSQLiteForeignKeys(dsn))
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if driver == "sqlite" {
		// SQLite allows a single writer; one connection also keeps :memory: databases alive.
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates every table and then applies schema patches.
// Safe to call repeatedly.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Area{},
		&model.Pieza{},
		&model.Solicitud{},
		&model.Revision{},
		&model.EstadoTrabajo{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL that GORM tags cannot describe.
// Only PostgreSQL gets them; SQLite is used for local runs and tests.
func applySchemaPatches(db *gorm.DB) error {
	if db.Dialector.Name() != "postgres" {
		return nil
	}
	patches := []string{
		// revisiones.prioridad is restricted to the four triage levels
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_revisiones_prioridad') THEN
		    ALTER TABLE revisiones
		      ADD CONSTRAINT chk_revisiones_prioridad
		      CHECK (prioridad IN ('Baja', 'Media', 'Alta', 'Urgente'));
		  END IF;
		END $$`,
		// a closed entry always carries a non-negative machine time
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_estados_trabajo_tiempo') THEN
		    ALTER TABLE estados_trabajo
		      ADD CONSTRAINT chk_estados_trabajo_tiempo CHECK (tiempo_maquina >= 0);
		  END IF;
		END $$`,
		// partial index for "what is still running" lookups
		`CREATE INDEX IF NOT EXISTS idx_estados_trabajo_abiertos
		    ON estados_trabajo (solicitud_id)
		    WHERE fecha_y_hora_de_fin IS NULL`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}

func withSQLiteForeignKeys(dsn string) string {
	if strings.Contains(dsn, "_foreign_keys") || strings.Contains(dsn, "_fk=") {
		return dsn
	}
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_foreign_keys=on"
}
