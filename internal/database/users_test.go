package database_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func TestCreateUser(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("Asha", "Researcher").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "name", "role"}).
			AddRow(int64(1), "Asha", "Researcher"))

	u, err := d.CreateUser(context.Background(), models.CreateUserInput{Name: "Asha", Role: "Researcher"})
	require.NoError(t, err)
	require.Equal(t, int64(1), u.ID)
	require.Equal(t, "Asha", u.Name)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_CascadesToCollaborators(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	userID := int64(6)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+collaborators\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE\s+FROM\s+users\s+WHERE\s+user_id\s*=\s*\$1`).
		WithArgs(userID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, d.DeleteUser(context.Background(), userID))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteUser_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE\s+FROM\s+collaborators`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE\s+FROM\s+users`).
		WithArgs(int64(404)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := d.DeleteUser(context.Background(), 404)
	require.True(t, apperr.IsNotFound(err), "expected NotFound, got %v", err)
	require.NoError(t, mock.ExpectationsWereMet())
}
