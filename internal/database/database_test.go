package database_test

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"vaultd/internal/database"
)

func newMockDatabase(t *testing.T) (*database.Database, sqlmock.Sqlmock, func()) {
	t.Helper()
	dbsql, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	sqlxDB := sqlx.NewDb(dbsql, "postgres")
	d := database.New(sqlxDB)
	return d, mock, func() { sqlxDB.Close() }
}

func ptrInt64(i int64) *int64 { return &i }
