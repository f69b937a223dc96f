package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) CreateTag(ctx context.Context, label string) (*models.Tag, error) {
	sqlStr, args, err := psql.Insert("tags").
		Columns("tag").
		Values(label).
		Suffix("RETURNING tag_id, tag").
		ToSql()
	if err != nil {
		return nil, err
	}
	var t models.Tag
	if err := d.DB.GetContext(ctx, &t, sqlStr, args...); err != nil {
		return nil, translate(err, "create tag")
	}
	return &t, nil
}

func (d *Database) ListTags(ctx context.Context) ([]models.Tag, error) {
	sqlStr, args, err := psql.Select("tag_id", "tag").
		From("tags").
		OrderBy("tag").
		ToSql()
	if err != nil {
		return nil, err
	}
	tags := []models.Tag{}
	if err := d.DB.SelectContext(ctx, &tags, sqlStr, args...); err != nil {
		return nil, translate(err, "list tags")
	}
	return tags, nil
}

func (d *Database) AssignTag(ctx context.Context, conceptID, tagID int64) error {
	sqlStr, args, err := psql.Insert("concept_tags").
		Columns("entity_id", "tag_id").
		Values(conceptID, tagID).
		Suffix("ON CONFLICT DO NOTHING").
		ToSql()
	if err != nil {
		return err
	}
	if _, err := d.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return translate(err, "assign tag")
	}
	return nil
}

func (d *Database) UnassignTag(ctx context.Context, conceptID, tagID int64) error {
	sqlStr, args, err := psql.Delete("concept_tags").
		Where(sq.Eq{"entity_id": conceptID, "tag_id": tagID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "unassign tag")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "unassign tag")
	}
	if ra == 0 {
		return apperr.NotFound("tag assignment", tagID)
	}
	return nil
}

func (d *Database) ListTaggedConcepts(ctx context.Context) ([]models.TaggedConcept, error) {
	sqlStr, args, err := psql.Select(
		"c.title AS concept_title",
		"t.tag",
	).
		From("concept_tags ct").
		Join("concepts c ON ct.entity_id = c.entity_id").
		Join("tags t ON ct.tag_id = t.tag_id").
		OrderBy("c.title", "t.tag").
		ToSql()
	if err != nil {
		return nil, err
	}
	tagged := []models.TaggedConcept{}
	if err := d.DB.SelectContext(ctx, &tagged, sqlStr, args...); err != nil {
		return nil, translate(err, "list tagged concepts")
	}
	return tagged, nil
}
