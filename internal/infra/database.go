package infra

import (
	"fmt"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection to PostgreSQL and brings the
// schema up to date with RunMigrations.
//
// TranslateError maps driver unique violations to gorm.ErrDuplicatedKey so the
// service layer can tell a concurrent double-open or ticket collision apart
// from an infrastructure failure.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
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
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates or updates every table and then applies the
// idempotent patches AutoMigrate cannot express. It works on PostgreSQL and
// on the SQLite databases used by repository tests.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Usuario{},
		&model.Producto{},
		&model.MovimientoStock{},
		&model.Caja{},
		&model.MovimientoCaja{},
		&model.Gasto{},
		&model.Venta{},
		&model.VentaItem{},
		&model.TicketSecuencia{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs DDL that GORM tags cannot describe. Each statement
// uses IF NOT EXISTS so re-running on an already-patched DB is safe.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// At most one register may be open at any time.
		{"una caja abierta", `CREATE UNIQUE INDEX IF NOT EXISTS idx_cajas_una_abierta
			ON cajas (estado) WHERE estado = 'abierta'`},
		{"movimientos por producto", `CREATE INDEX IF NOT EXISTS idx_movimientos_stock_producto_secuencia
			ON movimientos_stock (producto_id, secuencia)`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
