package runtime

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

const schemaDDL = `
CREATE TABLE IF NOT EXISTS records (
	entity     TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL,
	updated_at TIMESTAMP NOT NULL,
	PRIMARY KEY (entity, id)
);
CREATE INDEX IF NOT EXISTS records_entity_created ON records (entity, created_at);
`

// SQLiteStore persists records as JSON documents in a single sqlite table.
// Entity schemas are only known at generation time, so fields live inside
// the document and search goes through json_extract.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle and ensures the schema
// exists.
func NewSQLiteStore(ctx context.Context, db *sql.DB) (*SQLiteStore, error) {
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		return nil, fmt.Errorf("create records table: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, entity string, rec Record) error {
	data, err := json.Marshal(rec.Data)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO records (entity, id, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		entity, rec.ID, string(data), rec.CreatedAt.UTC(), rec.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("insert %s/%s: %w", entity, rec.ID, err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, entity, id string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM records WHERE entity = ? AND id = ?`,
		entity, id,
	)
	return scanRecord(row)
}

func (s *SQLiteStore) Update(ctx context.Context, entity, id string, data map[string]any) (Record, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return Record{}, fmt.Errorf("marshal record: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET data = ?, updated_at = ? WHERE entity = ? AND id = ?`,
		string(raw), now, entity, id,
	)
	if err != nil {
		return Record{}, fmt.Errorf("update %s/%s: %w", entity, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, entity, id)
}

func (s *SQLiteStore) Delete(ctx context.Context, entity, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM records WHERE entity = ? AND id = ?`, entity, id,
	)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", entity, id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context, entity string, q Query) ([]Record, int, error) {
	where, args := listPredicate(entity, q)

	var total int
	countQuery := `SELECT COUNT(*) FROM records WHERE ` + where
	if err := s.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count %s: %w", entity, err)
	}

	query := `SELECT id, data, created_at, updated_at FROM records WHERE ` + where +
		` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	rows, err := s.db.QueryContext(ctx, query, append(args, q.Limit, q.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list %s: %w", entity, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, rec)
	}
	return out, total, rows.Err()
}

func (s *SQLiteStore) FindByField(ctx context.Context, entity, field, value string) (Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, data, created_at, updated_at FROM records
		 WHERE entity = ? AND json_extract(data, ?) = ? LIMIT 1`,
		entity, "$."+field, value,
	)
	return scanRecord(row)
}

// listPredicate builds the WHERE clause shared by the count and page
// queries. Search fields are OR-combined; filters are AND-combined exact
// matches.
func listPredicate(entity string, q Query) (string, []any) {
	var (
		clauses = []string{"entity = ?"}
		args    = []any{entity}
	)
	if q.Search != "" && len(q.SearchFields) > 0 {
		var terms []string
		for _, f := range q.SearchFields {
			terms = append(terms, `LOWER(COALESCE(json_extract(data, ?), '')) LIKE ?`)
			args = append(args, "$."+f, "%"+strings.ToLower(q.Search)+"%")
		}
		clauses = append(clauses, "("+strings.Join(terms, " OR ")+")")
	}
	filterKeys := make([]string, 0, len(q.Filter))
	for f := range q.Filter {
		filterKeys = append(filterKeys, f)
	}
	slices.Sort(filterKeys)
	for _, f := range filterKeys {
		clauses = append(clauses, `json_extract(data, ?) = ?`)
		args = append(args, "$."+f, q.Filter[f])
	}
	return strings.Join(clauses, " AND "), args
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (Record, error) {
	var (
		rec Record
		raw string
	)
	err := row.Scan(&rec.ID, &raw, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("scan record: %w", err)
	}
	if err := json.Unmarshal([]byte(raw), &rec.Data); err != nil {
		return Record{}, fmt.Errorf("decode record %s: %w", rec.ID, err)
	}
	return rec, nil
}
