package database

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) AddCollaborator(ctx context.Context, c models.Collaborator) error {
	if !c.Role.Valid() {
		return apperr.Constraint(fmt.Sprintf("invalid collaborator role %q", c.Role))
	}
	sqlStr, args, err := psql.Insert("collaborators").
		Columns("user_id", "concept_id", "role").
		Values(c.UserID, c.ConceptID, c.Role).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := d.DB.ExecContext(ctx, sqlStr, args...); err != nil {
		return translate(err, "add collaborator")
	}
	return nil
}

func (d *Database) ListCollaborators(ctx context.Context) ([]models.CollaboratorView, error) {
	sqlStr, args, err := psql.Select(
		"u.name AS user_name",
		"c.title AS concept_title",
		"co.role",
	).
		From("collaborators co").
		Join("users u ON co.user_id = u.user_id").
		Join("concepts c ON co.concept_id = c.entity_id").
		OrderBy("u.name", "c.title").
		ToSql()
	if err != nil {
		return nil, err
	}
	collabs := []models.CollaboratorView{}
	if err := d.DB.SelectContext(ctx, &collabs, sqlStr, args...); err != nil {
		return nil, translate(err, "list collaborators")
	}
	return collabs, nil
}

func (d *Database) RemoveCollaborator(ctx context.Context, userID, conceptID int64) error {
	sqlStr, args, err := psql.Delete("collaborators").
		Where(sq.Eq{"user_id": userID, "concept_id": conceptID}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "remove collaborator")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "remove collaborator")
	}
	if ra == 0 {
		return apperr.NotFound("collaborator", userID)
	}
	return nil
}
