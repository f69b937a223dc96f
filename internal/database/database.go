package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"vaultd/internal/apperr"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

const ddl = `
CREATE TABLE IF NOT EXISTS users (
    user_id  BIGSERIAL PRIMARY KEY,
    name     TEXT NOT NULL,
    role     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS categories (
    category_id  BIGSERIAL PRIMARY KEY,
    name         TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS concepts (
    entity_id    BIGSERIAL PRIMARY KEY,
    type         TEXT NOT NULL,
    title        TEXT NOT NULL,
    created_on   DATE NOT NULL DEFAULT CURRENT_DATE,
    category_id  BIGINT REFERENCES categories(category_id) ON DELETE SET NULL,
    user_id      BIGINT REFERENCES users(user_id) ON DELETE SET NULL
);

CREATE TABLE IF NOT EXISTS notes (
    note_id     BIGSERIAL PRIMARY KEY,
    entity_id   BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    body        TEXT NOT NULL,
    created_on  DATE NOT NULL DEFAULT CURRENT_DATE
);

CREATE TABLE IF NOT EXISTS tasks (
    task_id      BIGSERIAL PRIMARY KEY,
    entity_id    BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    description  TEXT NOT NULL,
    due_on       DATE NOT NULL,
    status       TEXT NOT NULL DEFAULT 'Pending'
                 CHECK (status IN ('Pending', 'In Progress', 'Completed')),
    remind_on    DATE
);

CREATE TABLE IF NOT EXISTS links (
    link_id         BIGSERIAL PRIMARY KEY,
    src_concept_id  BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    dst_concept_id  BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    relation_type   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS collaborators (
    user_id     BIGINT NOT NULL REFERENCES users(user_id) ON DELETE CASCADE,
    concept_id  BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    role        TEXT NOT NULL CHECK (role IN ('Contributor', 'Editor', 'Viewer')),
    PRIMARY KEY (user_id, concept_id)
);

CREATE TABLE IF NOT EXISTS tags (
    tag_id  BIGSERIAL PRIMARY KEY,
    tag     TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS concept_tags (
    entity_id  BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    tag_id     BIGINT NOT NULL REFERENCES tags(tag_id) ON DELETE CASCADE,
    PRIMARY KEY (entity_id, tag_id)
);

CREATE TABLE IF NOT EXISTS attachments (
    attachment_id  BIGSERIAL PRIMARY KEY,
    entity_id      BIGINT NOT NULL REFERENCES concepts(entity_id) ON DELETE CASCADE,
    file_path      TEXT NOT NULL,
    file_type      TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notes_entity_id       ON notes(entity_id);
CREATE INDEX IF NOT EXISTS idx_tasks_entity_id       ON tasks(entity_id);
CREATE INDEX IF NOT EXISTS idx_tasks_status          ON tasks(status);
CREATE INDEX IF NOT EXISTS idx_links_src             ON links(src_concept_id);
CREATE INDEX IF NOT EXISTS idx_links_dst             ON links(dst_concept_id);
CREATE INDEX IF NOT EXISTS idx_attachments_entity_id ON attachments(entity_id);

CREATE OR REPLACE VIEW concept_summary AS
SELECT c.entity_id,
       c.title,
       c.type,
       COUNT(DISTINCT n.note_id) AS note_count,
       COUNT(DISTINCT t.task_id) AS task_count
FROM concepts c
LEFT JOIN notes n ON n.entity_id = c.entity_id
LEFT JOIN tasks t ON t.entity_id = c.entity_id
GROUP BY c.entity_id, c.title, c.type;
`

// Database is the query/command layer over the vault schema. All mutating
// operations that touch more than one table run inside a transaction.
type Database struct {
	DB *sqlx.DB
}

func New(db *sqlx.DB) *Database {
	return &Database{DB: db}
}

// Open connects to Postgres and applies the schema.
func Open(ctx context.Context, dsn string) (*Database, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, apperr.Connectivity("connecting to postgres").WithCause(err)
	}
	d := New(db)
	if err := d.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

func (d *Database) migrate(ctx context.Context) error {
	if _, err := d.DB.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.DB != nil {
		return d.DB.Close()
	}
	return nil
}

// translateNoRows is translate with sql.ErrNoRows mapped to NotFound for the
// given resource.
func translateNoRows(err error, op, resource string, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource, id)
	}
	return translate(err, op)
}

// translate classifies a driver error at the operation boundary. Postgres
// class 23 is an integrity violation, class 08 a connection failure.
func translate(err error, op string) error {
	if err == nil {
		return nil
	}
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Class() {
		case "23":
			return apperr.Constraint(fmt.Sprintf("%s: %s", op, pqErr.Message)).WithCause(err)
		case "08":
			return apperr.Connectivity(op).WithCause(err)
		}
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return apperr.Connectivity(op).WithCause(err)
	}
	return apperr.Internal(op).WithCause(err)
}
