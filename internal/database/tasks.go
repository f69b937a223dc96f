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

func (d *Database) CreateTask(ctx context.Context, in models.CreateTaskInput) (*models.Task, error) {
	q := psql.Insert("tasks").
		Columns("entity_id", "description", "due_on", "status", "remind_on").
		Values(in.ConceptID, in.Description, in.DueOn, models.TaskPending, in.RemindOn).
		Suffix("RETURNING task_id, entity_id, description, due_on, status, remind_on")
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	var t models.Task
	if err := d.DB.GetContext(ctx, &t, sqlStr, args...); err != nil {
		return nil, translate(err, "create task")
	}
	return &t, nil
}

func (d *Database) ListTasks(ctx context.Context, conceptID *int64) ([]models.Task, error) {
	q := psql.Select("task_id", "entity_id", "description", "due_on", "status", "remind_on").
		From("tasks").
		OrderBy("task_id")
	if conceptID != nil {
		q = q.Where(sq.Eq{"entity_id": *conceptID})
	}
	sqlStr, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	tasks := []models.Task{}
	if err := d.DB.SelectContext(ctx, &tasks, sqlStr, args...); err != nil {
		return nil, translate(err, "list tasks")
	}
	return tasks, nil
}

func (d *Database) UpdateTaskStatus(ctx context.Context, id int64, status models.TaskStatus) error {
	if !status.Valid() {
		return apperr.Constraint(fmt.Sprintf("invalid task status %q", status))
	}
	sqlStr, args, err := psql.Update("tasks").
		Set("status", status).
		Where(sq.Eq{"task_id": id}).
		ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "update task status")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "update task status")
	}
	if ra == 0 {
		return apperr.NotFound("task", id)
	}
	return nil
}

func (d *Database) DeleteTask(ctx context.Context, id int64) error {
	sqlStr, args, err := psql.Delete("tasks").Where(sq.Eq{"task_id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := d.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return translate(err, "delete task")
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return translate(err, "delete task")
	}
	if ra == 0 {
		return apperr.NotFound("task", id)
	}
	return nil
}

// MarkTaskCompleted sets the task to Completed and records a note on the
// owning concept in the same transaction. A missing task leaves both tables
// untouched and reports NotFound.
func (d *Database) MarkTaskCompleted(ctx context.Context, id int64) error {
	tx, err := d.DB.BeginTxx(ctx, nil)
	if err != nil {
		return translate(err, "mark task completed")
	}
	defer tx.Rollback()

	sqlStr, args, err := psql.Update("tasks").
		Set("status", models.TaskCompleted).
		Where(sq.Eq{"task_id": id}).
		Suffix("RETURNING entity_id, description").
		ToSql()
	if err != nil {
		return err
	}
	var row struct {
		ConceptID   int64  `db:"entity_id"`
		Description string `db:"description"`
	}
	if err := tx.GetContext(ctx, &row, sqlStr, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return apperr.NotFound("task", id)
		}
		return translate(err, "mark task completed")
	}

	sqlStr, args, err = psql.Insert("notes").
		Columns("entity_id", "body", "created_on").
		Values(row.ConceptID, fmt.Sprintf("Task completed: %s", row.Description), sq.Expr("CURRENT_DATE")).
		ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, sqlStr, args...); err != nil {
		return translate(err, "completion note")
	}
	if err := tx.Commit(); err != nil {
		return translate(err, "mark task completed")
	}
	return nil
}

// DaysRemaining returns due_on minus today in days; negative means overdue.
// A missing task reports NotFound rather than zero days.
func (d *Database) DaysRemaining(ctx context.Context, id int64) (int, error) {
	var days int
	err := d.DB.GetContext(ctx, &days,
		`SELECT (due_on - CURRENT_DATE) AS days_left FROM tasks WHERE task_id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, apperr.NotFound("task", id)
		}
		return 0, translate(err, "days remaining")
	}
	return days, nil
}
