package database_test

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func TestCreateConcept_RoundTrip(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	in := models.CreateConceptInput{
		Type:       "Project",
		Title:      "Graph Databases",
		CategoryID: ptrInt64(3),
		UserID:     ptrInt64(7),
	}

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO concepts")).
		WithArgs(in.Type, in.Title, int64(3), int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{
			"entity_id", "type", "title", "created_on", "category_id", "user_id",
		}).AddRow(int64(1), in.Type, in.Title, today, in.CategoryID, in.UserID))

	c, err := d.CreateConcept(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, int64(1), c.ID)
	require.Equal(t, "Project", c.Type)
	require.Equal(t, "Graph Databases", c.Title)
	require.Equal(t, in.CategoryID, c.CategoryID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConcept_Cascade(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	conceptID := int64(42)

	mock.ExpectBegin()

	mock.ExpectQuery(`SELECT\s+file_path\s+FROM\s+attachments\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}).
			AddRow("static/a.pdf").
			AddRow("static/b.png"))

	mock.ExpectExec(`DELETE\s+FROM\s+notes\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+tasks\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE\s+FROM\s+collaborators\s+WHERE\s+concept_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+concept_tags\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE\s+FROM\s+attachments\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE\s+FROM\s+links\s+WHERE\s+\(src_concept_id\s*=\s*\$1\s+OR\s+dst_concept_id\s*=\s*\$2\)`).
		WithArgs(conceptID, conceptID).
		WillReturnResult(sqlmock.NewResult(0, 4))
	mock.ExpectExec(`DELETE\s+FROM\s+concepts\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectCommit()

	filePaths, err := d.DeleteConcept(context.Background(), conceptID)
	require.NoError(t, err)
	require.Equal(t, []string{"static/a.pdf", "static/b.png"}, filePaths)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteConcept_NotFound(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	conceptID := int64(99)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT\s+file_path\s+FROM\s+attachments`).
		WithArgs(conceptID).
		WillReturnRows(sqlmock.NewRows([]string{"file_path"}))
	for _, re := range []string{
		`DELETE\s+FROM\s+notes`,
		`DELETE\s+FROM\s+tasks`,
		`DELETE\s+FROM\s+collaborators`,
		`DELETE\s+FROM\s+concept_tags`,
		`DELETE\s+FROM\s+attachments`,
		`DELETE\s+FROM\s+links`,
	} {
		mock.ExpectExec(re).WillReturnResult(sqlmock.NewResult(0, 0))
	}
	mock.ExpectExec(`DELETE\s+FROM\s+concepts`).
		WithArgs(conceptID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	_, err := d.DeleteConcept(context.Background(), conceptID)
	require.True(t, apperr.IsNotFound(err), "expected NotFound, got %v", err)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConceptDetails_MissingConceptIsNotAnError(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+concepts\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	details, err := d.GetConceptDetails(context.Background(), 404)
	require.NoError(t, err)
	require.Nil(t, details)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetConceptDetails_Aggregate(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	id := int64(5)

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+concepts\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{
			"entity_id", "type", "title", "created_on", "category_id", "user_id",
		}).AddRow(id, "Paper", "CRDTs", today, nil, nil))

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+notes\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"note_id", "entity_id", "body", "created_on"}).
			AddRow(int64(1), id, "first impressions", today))

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+tasks\s+WHERE\s+entity_id\s*=\s*\$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"task_id", "entity_id", "description", "due_on", "status", "remind_on"}).
			AddRow(int64(9), id, "read section 3", today, "Pending", nil))

	mock.ExpectQuery(`SELECT\s+t\.tag_id,\s+t\.tag\s+FROM\s+concept_tags`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"tag_id", "tag"}).AddRow(int64(2), "distributed"))

	details, err := d.GetConceptDetails(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, details)
	require.Equal(t, "CRDTs", details.Concept.Title)
	require.Len(t, details.Notes, 1)
	require.Len(t, details.Tasks, 1)
	require.Len(t, details.Tags, 1)
	require.Equal(t, models.TaskPending, details.Tasks[0].Status)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLinkedConcepts_BothDirections(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	id := int64(7)
	mock.ExpectQuery(`(?s)SELECT\s+c\.entity_id,\s+c\.title,\s+l\.relation_type,\s+'outgoing'.*UNION ALL.*'incoming'`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"entity_id", "title", "relation_type", "direction"}).
			AddRow(int64(8), "Vector Clocks", "builds on", "outgoing").
			AddRow(int64(3), "Gossip Protocols", "related to", "incoming"))

	linked, err := d.GetLinkedConcepts(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, linked, 2)
	require.Equal(t, "outgoing", linked[0].Direction)
	require.Equal(t, "incoming", linked[1].Direction)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLinkedConcepts_EmptyNotError(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)SELECT\s+.*UNION ALL`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"entity_id", "title", "relation_type", "direction"}))

	linked, err := d.GetLinkedConcepts(context.Background(), 1)
	require.NoError(t, err)
	require.Empty(t, linked)

	require.NoError(t, mock.ExpectationsWereMet())
}
