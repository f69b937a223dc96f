package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) CreateConcept(ctx context.Context, in models.CreateConceptInput) (*models.Concept, error) {
	q := psql.Insert("concepts").
		Columns("type", "title", "created_on", "category_id", "user_id").
		Values(in.Type, in.Title, sq.Expr("CURRENT_DATE"), in.CategoryID, in.UserID).
		Suffix("RETURNING entity_id, type, title, created_on, category_id, user_id")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Concept
	if err := d.DB.GetContext(ctx, &c, sqlStr, args...); err != nil {
		return nil, translate(err, "create concept")
	}
	return &c, nil
}

func (d *Database) GetConcept(ctx context.Context, id int64) (*models.Concept, error) {
	sqlStr, args, err := psql.Select("entity_id", "type", "title", "created_on", "category_id", "user_id").
		From("concepts").
		Where(sq.Eq{"entity_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Concept
	if err := d.DB.GetContext(ctx, &c, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.NotFound("concept", id)
		}
		return nil, translate(err, "get concept")
	}
	return &c, nil
}

func (d *Database) ListConcepts(ctx context.Context) ([]models.Concept, error) {
	sqlStr, args, err := psql.Select("entity_id", "type", "title", "created_on", "category_id", "user_id").
		From("concepts").
		OrderBy("entity_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	concepts := []models.Concept{}
	if err := d.DB.SelectContext(ctx, &concepts, sqlStr, args...); err != nil {
		return nil, translate(err, "list concepts")
	}
	return concepts, nil
}

// DeleteConcept removes the concept and every dependent row in one
// transaction: notes, tasks, links in both directions, collaborators, tag
// assignments and attachments. It returns the file paths of the deleted
// attachment rows so the caller can remove the stored bytes after commit.
func (d *Database) DeleteConcept(ctx context.Context, id int64) ([]string, error) {
	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return nil, translate(err, "delete concept")
	}
	defer tx.Rollback()

	sqlStr, args, err := psql.Select("file_path").
		From("attachments").
		Where(sq.Eq{"entity_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var filePaths []string
	if err := tx.SelectContext(ctx, &filePaths, sqlStr, args...); err != nil {
		return nil, translate(err, "delete concept attachments")
	}

	childTables := []string{"notes", "tasks", "collaborators", "concept_tags", "attachments"}
	for _, t := range childTables {
		col := "entity_id"
		if t == "collaborators" {
			col = "concept_id"
		}
		sqlStr, args, err := psql.Delete(t).Where(sq.Eq{col: id}).ToSql()
		if err != nil {
			return nil, fmt.Errorf("building delete for %s: %w", t, err)
		}
		if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
			return nil, translate(err, "deleting from "+t)
		}
	}

	sqlStr, args, err = psql.Delete("links").
		Where(sq.Or{sq.Eq{"src_concept_id": id}, sq.Eq{"dst_concept_id": id}}).
		ToSql()
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return nil, translate(err, "deleting links")
	}

	sqlStr, args, err = psql.Delete("concepts").Where(sq.Eq{"entity_id": id}).ToSql()
	if err != nil {
		return nil, err
	}
	res, err := tx.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, translate(err, "delete concept")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return nil, translate(err, "delete concept")
	}
	if ra == 0 {
		return nil, apperr.NotFound("concept", id)
	}
	if err := tx.Commit(); err != nil {
		return nil, translate(err, "delete concept")
	}
	return filePaths, nil
}

// GetConceptDetails returns the concept with its notes, tasks and tags. A
// missing concept yields (nil, nil) rather than an error.
func (d *Database) GetConceptDetails(ctx context.Context, id int64) (*models.ConceptDetails, error) {
	concept, err := d.GetConcept(ctx, id)
	if err != nil {
		if apperr.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}

	details := &models.ConceptDetails{
		Concept: *concept,
		Notes:   []models.Note{},
		Tasks:   []models.Task{},
		Tags:    []models.Tag{},
	}

	sqlStr, args, err := psql.Select("note_id", "entity_id", "body", "created_on").
		From("notes").
		Where(sq.Eq{"entity_id": id}).
		OrderBy("note_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := d.DB.SelectContext(ctx, &details.Notes, sqlStr, args...); err != nil {
		return nil, translate(err, "concept details notes")
	}

	sqlStr, args, err = psql.Select("task_id", "entity_id", "description", "due_on", "status", "remind_on").
		From("tasks").
		Where(sq.Eq{"entity_id": id}).
		OrderBy("task_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := d.DB.SelectContext(ctx, &details.Tasks, sqlStr, args...); err != nil {
		return nil, translate(err, "concept details tasks")
	}

	sqlStr, args, err = psql.Select("t.tag_id", "t.tag").
		From("concept_tags ct").
		Join("tags t ON t.tag_id = ct.tag_id").
		Where(sq.Eq{"ct.entity_id": id}).
		OrderBy("t.tag").
		ToSql()
	if err != nil {
		return nil, err
	}
	if err := d.DB.SelectContext(ctx, &details.Tags, sqlStr, args...); err != nil {
		return nil, translate(err, "concept details tags")
	}

	return details, nil
}

const linkedConceptsQuery = `
SELECT c.entity_id, c.title, l.relation_type, 'outgoing' AS direction
FROM links l
JOIN concepts c ON c.entity_id = l.dst_concept_id
WHERE l.src_concept_id = $1
UNION ALL
SELECT c.entity_id, c.title, l.relation_type, 'incoming' AS direction
FROM links l
JOIN concepts c ON c.entity_id = l.src_concept_id
WHERE l.dst_concept_id = $1
ORDER BY entity_id`

// GetLinkedConcepts returns every concept linked to id, following links in
// both directions. No links yields an empty slice, not an error.
func (d *Database) GetLinkedConcepts(ctx context.Context, id int64) ([]models.LinkedConcept, error) {
	linked := []models.LinkedConcept{}
	if err := d.DB.SelectContext(ctx, &linked, linkedConceptsQuery, id); err != nil {
		return nil, translate(err, "linked concepts")
	}
	return linked, nil
}
