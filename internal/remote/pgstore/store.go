// Package pgstore keeps remote documents as jsonb rows in PostgreSQL.
// The schema lives in internal/migrations/remote.
package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/schedkeeper/internal/common"
	"github.com/dmitrijs2005/schedkeeper/internal/dbx"
	"github.com/dmitrijs2005/schedkeeper/internal/remote"
	"github.com/jackc/pgx/v5/pgconn"
)

// invalid_text_representation: the id is not a uuid.
const codeInvalidText = "22P02"

type Store struct {
	db dbx.DBTX
}

func New(db dbx.DBTX) *Store {
	return &Store{db: db}
}

func (s *Store) Query(ctx context.Context, collection string, filter remote.Filter) ([]remote.Document, error) {
	query := `SELECT id, body FROM documents WHERE collection = $1 ORDER BY created_at, id`
	args := []any{collection}
	if filter.Field != "" {
		query = `SELECT id, body FROM documents WHERE collection = $1 AND body ->> $2 = $3 ORDER BY created_at, id`
		args = append(args, filter.Field, filter.Value)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var out []remote.Document
	for rows.Next() {
		var d remote.Document
		if err := rows.Scan(&d.ID, &d.Body); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate document rows: %w", err)
	}
	return out, nil
}

func (s *Store) Insert(ctx context.Context, collection string, body []byte) (string, error) {
	var id string
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO documents (collection, body) VALUES ($1, $2) RETURNING id`,
		collection, string(body)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, body []byte) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE documents SET body = $3, updated_at = now() WHERE collection = $1 AND id = $2`,
		collection, id, string(body))
	return affectedOne(res, err, collection, id)
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`,
		collection, id)
	return affectedOne(res, err, collection, id)
}

type rowsAffected interface {
	RowsAffected() (int64, error)
}

func affectedOne(res rowsAffected, err error, collection, id string) error {
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == codeInvalidText {
			return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrorNotFound)
		}
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("document %s/%s: %w", collection, id, common.ErrorNotFound)
	}
	return nil
}
