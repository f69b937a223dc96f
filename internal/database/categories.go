package database

import (
	"context"

	sq "github.com/Masterminds/squirrel"

	"vaultd/internal/apperr"
	"vaultd/internal/models"
)

func (d *Database) CreateCategory(ctx context.Context, name string) (*models.Category, error) {
	sqlStr, args, err := psql.Insert("categories").
		Columns("name").
		Values(name).
		Suffix("RETURNING category_id, name").
		ToSql()
	if err != nil {
		return nil, err
	}
	var c models.Category
	if err := d.DB.GetContext(ctx, &c, sqlStr, args...); err != nil {
		return nil, translate(err, "create category")
	}
	return &c, nil
}

func (d *Database) ListCategories(ctx context.Context) ([]models.Category, error) {
	sqlStr, args, err := psql.Select("category_id", "name").
		From("categories").
		OrderBy("name").
		ToSql()
	if err != nil {
		return nil, err
	}
	cats := []models.Category{}
	if err := d.DB.SelectContext(ctx, &cats, sqlStr, args...); err != nil {
		return nil, translate(err, "list categories")
	}
	return cats, nil
}

func (d *Database) DeleteCategory(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("categories").Where(sq.Eq{"category_id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "delete category")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete category")
	}
	if ra == 0 {
		return apperr.NotFound("category", id)
	}
	return nil
}
