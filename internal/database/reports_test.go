package database_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

func TestNotesPerConcept_IncludesZeroCounts(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)SELECT\s+c\.title,\s+COUNT\(n\.note_id\)\s+AS\s+note_count.*LEFT\s+JOIN\s+notes`).
		WillReturnRows(sqlmock.NewRows([]string{"title", "note_count"}).
			AddRow("A", int64(2)).
			AddRow("B", int64(0)))

	counts, err := d.NotesPerConcept(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 2)
	require.Equal(t, int64(2), counts[0].NoteCount)
	require.Equal(t, int64(0), counts[1].NoteCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

// The pending-tasks query filters the joined column in WHERE, which turns the
// LEFT JOIN into an inner join. The test pins that historical shape: the
// statement must carry both the LEFT JOIN and the WHERE on t.status.
func TestPendingTasksPerConcept_PreservesJoinQuirk(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)LEFT\s+JOIN\s+tasks\s+t\s+ON\s+c\.entity_id\s*=\s*t\.entity_id\s+WHERE\s+t\.status\s*=\s*'Pending'`).
		WillReturnRows(sqlmock.NewRows([]string{"title", "pending_tasks"}).
			AddRow("A", int64(3)))

	counts, err := d.PendingTasksPerConcept(context.Background())
	require.NoError(t, err)
	require.Len(t, counts, 1)
	require.Equal(t, int64(3), counts[0].PendingTasks)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConceptsWithMultipleNotes_GroupsInnerQueryByConcept(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)SELECT\s+title\s+FROM\s+concepts\s+WHERE\s+entity_id\s+IN\s+\(\s*SELECT\s+entity_id\s+FROM\s+notes\s+GROUP\s+BY\s+entity_id\s+HAVING\s+COUNT\(note_id\)\s*>\s*1`).
		WillReturnRows(sqlmock.NewRows([]string{"title"}).AddRow("A"))

	titles, err := d.ConceptsWithMultipleNotes(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"A"}, titles)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTasksWithOwner_InnerJoinSemantics(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)FROM\s+tasks\s+t\s+JOIN\s+concepts\s+c\s+ON\s+t\.entity_id\s*=\s*c\.entity_id\s+JOIN\s+users\s+u\s+ON\s+c\.user_id\s*=\s*u\.user_id`).
		WillReturnRows(sqlmock.NewRows([]string{"description", "status", "concept", "owner"}).
			AddRow("write draft", "Pending", "CRDTs", "Asha"))

	tasks, err := d.TasksWithOwner(context.Background())
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	require.Equal(t, "Asha", tasks[0].Owner)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestConceptSummaries(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)SELECT\s+entity_id,\s+title,\s+type,\s+note_count,\s+task_count\s+FROM\s+concept_summary`).
		WillReturnRows(sqlmock.NewRows([]string{"entity_id", "title", "type", "note_count", "task_count"}).
			AddRow(int64(1), "CRDTs", "Paper", int64(2), int64(1)))

	summaries, err := d.ConceptSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 1)
	require.Equal(t, int64(2), summaries[0].NoteCount)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAvgTasksPerConcept(t *testing.T) {
	d, mock, cleanup := newMockDatabase(t)
	defer cleanup()

	mock.ExpectQuery(`(?s)AVG\(CASE\s+WHEN\s+t\.task_id\s+IS\s+NOT\s+NULL\s+THEN\s+1\.0\s+ELSE\s+0\.0\s+END\)`).
		WillReturnRows(sqlmock.NewRows([]string{"title", "avg_tasks"}).
			AddRow("A", 1.0).
			AddRow("B", 0.0))

	avgs, err := d.AvgTasksPerConcept(context.Background())
	require.NoError(t, err)
	require.Len(t, avgs, 2)
	require.Equal(t, 1.0, avgs[0].AvgTasks)

	require.NoError(t, mock.ExpectationsWereMet())
}
