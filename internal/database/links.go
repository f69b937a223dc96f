package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

// CreateLink rejects self-links before touching the database; links are
// directed and deliberately not deduplicated.
func (d *Database) CreateLink(ctx context.Context, in models.CreateLinkInput) (*models.Link, error) {
	if in.SrcConceptID == in.DstConceptID {
		return nil, apperr.Constraint("a concept cannot link to itself")
	}
	q := psql.Insert("links").
		Columns("src_concept_id", "dst_concept_id", "relation_type").
		Values(in.SrcConceptID, in.DstConceptID, in.RelationType).
		Suffix("RETURNING link_id, src_concept_id, dst_concept_id, relation_type")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var l models.Link
	if err := d.DB.GetContext(ctx, &l, sqlStr, args...); err != nil {
		return nil, translate(err, "create link")
	}
	return &l, nil
}

func (d *Database) ListLinks(ctx context.Context) ([]models.LinkView, error) {
	sqlStr, args, err := psql.Select(
		"l.link_id",
		"c1.title AS source",
		"c2.title AS destination",
		"l.relation_type",
	).
		From("links l").
		Join("concepts c1 ON l.src_concept_id = c1.entity_id").
		Join("concepts c2 ON l.dst_concept_id = c2.entity_id").
		OrderBy("l.link_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	links := []models.LinkView{}
	if err := d.DB.SelectContext(ctx, &links, sqlStr, args...); err != nil {
		return nil, translate(err, "list links")
	}
	return links, nil
}

func (d *Database) DeleteLink(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("links").Where(sq.Eq{"link_id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "delete link")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete link")
	}
	if ra == 0 {
		return apperr.NotFound("link", id)
	}
	return nil
}
