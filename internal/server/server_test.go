package server_test

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"vaultd/internal/database"
	"vaultd/internal/server"
	"vaultd/internal/storage"
)

func newTestServer(t *testing.T) (http.Handler, sqlmock.Sqlmock, *storage.Store, string) {
	t.Helper()
	dbsql, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { dbsql.Close() })

	dir := t.TempDir()
	files, err := storage.New(dir)
	require.NoError(t, err)

	d := database.New(sqlx.NewDb(dbsql, "postgres"))
	s := server.New(d, files, zap.NewNop(), "localhost:0")
	return s.Router(), mock, files, dir
}

func TestCreateConcept_RoundTripThroughAPI(t *testing.T) {
	h, mock, _, _ := newTestServer(t)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	mock.ExpectQuery(`INSERT\s+INTO\s+concepts`).
		WithArgs("Project", "Graph Databases", nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{
			"entity_id", "type", "title", "created_on", "category_id", "user_id",
		}).AddRow(int64(1), "Project", "Graph Databases", today, nil, nil))

	body := `{"type": "Project", "title": "Graph Databases"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/concepts", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var got struct {
		ID    int64  `json:"entity_id"`
		Title string `json:"title"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Equal(t, int64(1), got.ID)
	require.Equal(t, "Graph Databases", got.Title)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateConcept_MissingTitleIsBadRequest(t *testing.T) {
	h, mock, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/concepts", strings.NewReader(`{"type": "Idea"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateLink_SelfLinkIsRejected(t *testing.T) {
	h, mock, _, _ := newTestServer(t)

	body := `{"src_concept_id": 3, "dst_concept_id": 3, "relation_type": "related to"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/links", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDaysRemaining_MissingTaskIs404(t *testing.T) {
	h, mock, _, _ := newTestServer(t)

	mock.ExpectQuery(`SELECT\s+\(due_on\s*-\s*CURRENT_DATE\)`).
		WithArgs(int64(404)).
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tasks/404/days-remaining", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListAttachments_ReportsReconciledRows(t *testing.T) {
	h, mock, files, dir := newTestServer(t)

	present, err := files.Save("kept.pdf", strings.NewReader("bytes"))
	require.NoError(t, err)
	missing := filepath.Join(dir, "gone.pdf")

	mock.ExpectQuery(`(?s)SELECT\s+a\.attachment_id,\s+c\.title\s+AS\s+concept_title.*FROM\s+attachments\s+a`).
		WillReturnRows(sqlmock.NewRows([]string{"attachment_id", "concept_title", "file_path", "file_type"}).
			AddRow(int64(1), "CRDTs", present, "application/pdf").
			AddRow(int64(2), "CRDTs", missing, "application/pdf"))
	mock.ExpectExec(`DELETE\s+FROM\s+attachments\s+WHERE\s+attachment_id\s*=\s*\$1`).
		WithArgs(int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/attachments", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var got struct {
		Attachments []struct {
			ID int64 `json:"attachment_id"`
		} `json:"attachments"`
		Removed []struct {
			ID int64 `json:"attachment_id"`
		} `json:"removed"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Attachments, 1)
	require.Len(t, got.Removed, 1)
	require.Equal(t, int64(2), got.Removed[0].ID)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateTaskStatus_UnknownStatusIs422(t *testing.T) {
	h, mock, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPut, "/api/v1/tasks/1/status", strings.NewReader(`{"status": "Done"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	require.NoError(t, mock.ExpectationsWereMet())
}
