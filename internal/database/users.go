package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) CreateUser(ctx context.Context, in models.CreateUserInput) (*models.User, error) {
	q := psql.Insert("users").
		Columns("name", "role").
		Values(in.Name, in.Role).
		Suffix("RETURNING user_id, name, role")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var u models.User
	if err := d.DB.GetContext(ctx, &u, sqlStr, args...); err != nil {
		return nil, translate(err, "create user")
	}
	return &u, nil
}

func (d *Database) ListUsers(ctx context.Context) ([]models.User, error) {
	sqlStr, args, err := psql.Select("user_id", "name", "role").
		From("users").
		OrderBy("user_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	users := []models.User{}
	if err := d.DB.SelectContext(ctx, &users, sqlStr, args...); err != nil {
		return nil, translate(err, "list users")
	}
	return users, nil
}

// DeleteUser removes the user and every collaborator row referencing them.
// The schema's ON DELETE CASCADE would do the same; the explicit transaction
// keeps the cascade visible and testable without a live backend.
func (d *Database) DeleteUser(ctx context.Context, id int64) error {
	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err, "delete user")
	}
	defer tx.Rollback()

	sqlStr, args, err := psql.Delete("collaborators").Where(sq.Eq{"user_id": id}).ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return translate(err, "delete user collaborators")
	}

	sqlStr, args, err = psql.Delete("users").Where(sq.Eq{"user_id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "delete user")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete user")
	}
	if ra == 0 {
		return apperr.NotFound("user", id)
	}
	if err := tx.Commit(); err != nil {
		return translate(err, "delete user")
	}
	return nil
}
