package repository_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/IvanYamil1/Pos-Abarrotes-sub000/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// The PostgreSQL statement is checked against a mocked connection; the SQLite
// tests above cover its behavior.
func TestNextTicketNumber_SQLPostgres(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO ticket_secuencias (fecha, ultimo) VALUES ($1, 1)`) +
		`\s+ON CONFLICT \(fecha\) DO UPDATE SET ultimo = ticket_secuencias\.ultimo \+ 1\s+RETURNING ultimo`).
		WithArgs("20240501").
		WillReturnRows(sqlmock.NewRows([]string{"ultimo"}).AddRow(7))

	n, err := repository.NewVentaRepository(db).NextTicketNumber(context.Background(), db, "20240501")
	require.NoError(t, err)
	assert.Equal(t, 7, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}
