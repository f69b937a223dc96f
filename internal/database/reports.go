package database

import (
	"context"

	"vaultd/internal/models"
)

// Fixed-shape analytics queries. These are kept as raw SQL: their value is
// the exact aggregate semantics, including two long-standing quirks noted
// below.

const notesPerConceptQuery = `
SELECT c.title, COUNT(n.note_id) AS note_count
FROM concepts c
LEFT JOIN notes n ON c.entity_id = n.entity_id
GROUP BY c.title
ORDER BY c.title`

// Known quirk: filtering the joined column in WHERE collapses the LEFT JOIN,
// so concepts with no pending tasks drop out of the result instead of
// appearing with 0. Kept as-is; callers rely on the historical shape.
const pendingTasksPerConceptQuery = `
SELECT c.title, COUNT(t.task_id) AS pending_tasks
FROM concepts c
LEFT JOIN tasks t ON c.entity_id = t.entity_id
WHERE t.status = 'Pending'
GROUP BY c.title
ORDER BY c.title`

// Known quirk: averaging a task-existence expression yields 1.0 for any
// concept with at least one task, so the number says little. Kept as-is.
const avgTasksPerConceptQuery = `
SELECT c.title, AVG(CASE WHEN t.task_id IS NOT NULL THEN 1.0 ELSE 0.0 END) AS avg_tasks
FROM concepts c
LEFT JOIN tasks t ON c.entity_id = t.entity_id
GROUP BY c.title
ORDER BY c.title`

const multiNoteConceptsQuery = `
SELECT title FROM concepts
WHERE entity_id IN (
    SELECT entity_id FROM notes GROUP BY entity_id HAVING COUNT(note_id) > 1
)
ORDER BY title`

const tasksWithOwnerQuery = `
SELECT t.description, t.status, c.title AS concept, u.name AS owner
FROM tasks t
JOIN concepts c ON t.entity_id = c.entity_id
JOIN users u ON c.user_id = u.user_id
ORDER BY t.task_id`

const conceptSummaryQuery = `
SELECT entity_id, title, type, note_count, task_count
FROM concept_summary
ORDER BY entity_id`

// NotesPerConcept counts notes per concept; concepts without notes appear
// with a zero count.
func (d *Database) NotesPerConcept(ctx context.Context) ([]models.NoteCount, error) {
	counts := []models.NoteCount{}
	if err := d.DB.SelectContext(ctx, &counts, notesPerConceptQuery); err != nil {
		return nil, translate(err, "notes per concept")
	}
	return counts, nil
}

// PendingTasksPerConcept counts pending tasks per concept. Concepts with no
// pending tasks are absent from the result; see the query comment.
func (d *Database) PendingTasksPerConcept(ctx context.Context) ([]models.PendingTaskCount, error) {
	counts := []models.PendingTaskCount{}
	if err := d.DB.SelectContext(ctx, &counts, pendingTasksPerConceptQuery); err != nil {
		return nil, translate(err, "pending tasks per concept")
	}
	return counts, nil
}

func (d *Database) AvgTasksPerConcept(ctx context.Context) ([]models.AvgTasks, error) {
	avgs := []models.AvgTasks{}
	if err := d.DB.SelectContext(ctx, &avgs, avgTasksPerConceptQuery); err != nil {
		return nil, translate(err, "avg tasks per concept")
	}
	return avgs, nil
}

// ConceptsWithMultipleNotes returns titles of concepts owning more than one
// note; the inner query groups by the owning concept.
func (d *Database) ConceptsWithMultipleNotes(ctx context.Context) ([]string, error) {
	titles := []string{}
	if err := d.DB.SelectContext(ctx, &titles, multiNoteConceptsQuery); err != nil {
		return nil, translate(err, "concepts with multiple notes")
	}
	return titles, nil
}

// TasksWithOwner joins tasks through concepts to their owning users; tasks
// on ownerless concepts are excluded by the inner joins.
func (d *Database) TasksWithOwner(ctx context.Context) ([]models.TaskWithOwner, error) {
	tasks := []models.TaskWithOwner{}
	if err := d.DB.SelectContext(ctx, &tasks, tasksWithOwnerQuery); err != nil {
		return nil, translate(err, "tasks with owner")
	}
	return tasks, nil
}

func (d *Database) ConceptSummaries(ctx context.Context) ([]models.ConceptSummary, error) {
	summaries := []models.ConceptSummary{}
	if err := d.DB.SelectContext(ctx, &summaries, conceptSummaryQuery); err != nil {
		return nil, translate(err, "concept summary")
	}
	return summaries, nil
}
