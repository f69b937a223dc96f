package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/models"
)

func (d *Database) AddAttachment(ctx context.Context, in models.AddAttachmentInput) (*models.Attachment, error) {
	q := psql.Insert("attachments").
		Columns("entity_id", "file_path", "file_type").
		Values(in.ConceptID, in.FilePath, in.FileType).
		Suffix("RETURNING attachment_id, entity_id, file_path, file_type")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var a models.Attachment
	if err := d.DB.GetContext(ctx, &a, sqlStr, args...); err != nil {
		return nil, translate(err, "add attachment")
	}
	return &a, nil
}

// ListAttachments returns attachment rows joined with their concept titles,
// reconciling against stored files on the way: any row whose file_path fails
// the exists check is deleted and reported in removed instead. The pass is
// best effort; a row whose cleanup delete fails stays in the listing, and a
// second pass over clean state removes nothing.
func (d *Database) ListAttachments(ctx context.Context, exists func(string) bool) (kept, removed []models.AttachmentView, err error) {
	sqlStr, args, err := psql.Select(
		"a.attachment_id",
		"c.title AS concept_title",
		"a.file_path",
		"a.file_type",
	).
		From("attachments a").
		Join("concepts c ON a.entity_id = c.entity_id").
		OrderBy("a.attachment_id").
		ToSql()
	if err != nil {
		return nil, nil, err
	}
	rows := []models.AttachmentView{}
	if err := d.DB.SelectContext(ctx, &rows, sqlStr, args...); err != nil {
		return nil, nil, translate(err, "list attachments")
	}

	kept = []models.AttachmentView{}
	removed = []models.AttachmentView{}
	for _, a := range rows {
		if exists == nil || exists(a.FilePath) {
			kept = append(kept, a)
			continue
		}
		delStr, delArgs, err := psql.Delete("attachments").
			Where(sq.Eq{"attachment_id": a.ID}).
			ToSql()
		if err != nil {
			return nil, nil, err
		}
		if _, err := d.DB.ExecContext(ctx, delStr, delArgs...); err != nil {
			kept = append(kept, a)
			continue
		}
		removed = append(removed, a)
	}
	return kept, removed, nil
}

func (d *Database) GetAttachment(ctx context.Context, id int64) (*models.Attachment, error) {
	sqlStr, args, err := psql.Select("attachment_id", "entity_id", "file_path", "file_type").
		From("attachments").
		Where(sq.Eq{"attachment_id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	var a models.Attachment
	if err := d.DB.GetContext(ctx, &a, sqlStr, args...); err != nil {
		return nil, translateNoRows(err, "get attachment", "attachment", id)
	}
	return &a, nil
}

// DeleteAttachment removes the row and returns its file path so the caller
// can remove the stored bytes afterwards.
func (d *Database) DeleteAttachment(ctx context.Context, id int64) (string, error) {
	sqlStr, args, err := psql.Delete("attachments").
		Where(sq.Eq{"attachment_id": id}).
		Suffix("RETURNING file_path").
		ToSql()
	if err != nil {
		return "", err
	}
	var filePath string
	if err := d.DB.GetContext(ctx, &filePath, sqlStr, args...); err != nil {
		return "", translateNoRows(err, "delete attachment", "attachment", id)
	}
	return filePath, nil
}
