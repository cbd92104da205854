package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"garagy/internal/db"
)

// PostgresStore keeps every collection in one jsonb table (see db.Schema).
type PostgresStore struct {
	DB *sql.DB
}

// OpenPostgres opens and pings a connection pool for dsn.
func OpenPostgres(ctx context.Context, dsn string) (*PostgresStore, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	return NewPostgresStore(conn), nil
}

func NewPostgresStore(conn *sql.DB) *PostgresStore {
	return &PostgresStore{DB: conn}
}

// Migrate creates the documents table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.DB.ExecContext(ctx, db.Schema); err != nil {
		return fmt.Errorf("error applying schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (Document, error) {
	var raw []byte
	err := s.DB.QueryRowContext(ctx,
		`SELECT data FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(collection, id)
	}
	if err != nil {
		return nil, remoteIO(err, "get", collection)
	}
	return decodeRaw(raw, collection)
}

func (s *PostgresStore) Set(ctx context.Context, collection, id string, doc Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return remoteIO(err, "set", collection)
	}
	query := `
		INSERT INTO documents (collection, id, data, updated_at)
		VALUES ($1, $2, $3::jsonb, NOW())
		ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data, updated_at = NOW()`
	if _, err := s.DB.ExecContext(ctx, query, collection, id, string(raw)); err != nil {
		return remoteIO(err, "set", collection)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields Document) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return remoteIO(err, "update", collection)
	}
	query := `UPDATE documents SET data = data || $3::jsonb, updated_at = NOW() WHERE collection = $1 AND id = $2`
	result, err := s.DB.ExecContext(ctx, query, collection, id, string(raw))
	if err != nil {
		return remoteIO(err, "update", collection)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return remoteIO(err, "update", collection)
	}
	if n == 0 {
		return notFound(collection, id)
	}
	return nil
}

func (s *PostgresStore) Find(ctx context.Context, collection, field string, value any) ([]Record, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if field == "" {
		rows, err = s.DB.QueryContext(ctx,
			`SELECT id, data FROM documents WHERE collection = $1 ORDER BY id`, collection)
	} else {
		want, merr := json.Marshal(value)
		if merr != nil {
			return nil, remoteIO(merr, "find", collection)
		}
		rows, err = s.DB.QueryContext(ctx,
			`SELECT id, data FROM documents WHERE collection = $1 AND data -> $2 = $3::jsonb ORDER BY id`,
			collection, field, string(want))
	}
	if err != nil {
		return nil, remoteIO(err, "find", collection)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, remoteIO(err, "scan", collection)
		}
		doc, err := decodeRaw(raw, collection)
		if err != nil {
			return nil, err
		}
		out = append(out, Record{ID: id, Data: doc})
	}
	if err := rows.Err(); err != nil {
		return nil, remoteIO(err, "find", collection)
	}
	return out, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection string, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := s.DB.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = ANY($2)`, collection, pq.Array(ids))
	if err != nil {
		return remoteIO(err, "delete", collection)
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.DB.PingContext(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	return s.DB.Close()
}

func decodeRaw(raw []byte, collection string) (Document, error) {
	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, badDocument(err, collection)
	}
	return doc, nil
}
