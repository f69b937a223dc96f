package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) CreateNote(ctx context.Context, in models.CreateNoteInput) (*models.Note, error) {
	q := psql.Insert("notes").
		Columns("entity_id", "body", "created_on").
		Values(in.ConceptID, in.Body, sq.Expr("CURRENT_DATE")).
		Suffix("RETURNING note_id, entity_id, body, created_on")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var n models.Note
	if err := d.DB.GetContext(ctx, &n, sqlStr, args...); err != nil {
		return nil, translate(err, "create note")
	}
	return &n, nil
}

// ListNotes returns all notes, or only the given concept's when conceptID is
// non-nil.
func (d *Database) ListNotes(ctx context.Context, conceptID *int64) ([]models.Note, error) {
	q := psql.Select("note_id", "entity_id", "body", "created_on").
		From("notes").
		OrderBy("note_id")
	if conceptID != nil {
		q = q.Where(sq.Eq{"entity_id": *conceptID})
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	notes := []models.Note{}
	if err := d.DB.SelectContext(ctx, &notes, sqlStr, args...); err != nil {
		return nil, translate(err, "list notes")
	}
	return notes, nil
}

func (d *Database) DeleteNote(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("notes").Where(sq.Eq{"note_id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "delete note")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete note")
	}
	if ra == 0 {
		return apperr.NotFound("note", id)
	}
	return nil
}
