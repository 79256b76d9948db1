package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "modernc.org/sqlite"

	"pdfcon/types"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS conversions (
	id                  TEXT PRIMARY KEY,
	file_name           TEXT NOT NULL,
	file_size           INTEGER NOT NULL,
	status              TEXT NOT NULL,
	input_url           TEXT NOT NULL DEFAULT '',
	output_url          TEXT NOT NULL DEFAULT '',
	method              TEXT NOT NULL DEFAULT '',
	tokens              INTEGER NOT NULL DEFAULT 0,
	has_structured_data INTEGER NOT NULL DEFAULT 0,
	created_at          TEXT NOT NULL,
	completed_at        TEXT
);

CREATE INDEX IF NOT EXISTS idx_conversions_created_at ON conversions(created_at);

CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	conversion_id TEXT NOT NULL UNIQUE REFERENCES conversions(id),
	data          TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	updated_at    TEXT NOT NULL
);
`

// SQLite persists conversions and documents in a single sqlite file.
// Timestamps are stored as RFC3339Nano text, document payloads as JSON.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating if needed) the database at path and applies
// the schema. WAL mode keeps concurrent reads cheap while a conversion
// is being written.
func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	log.Printf("[Store] sqlite store ready at %s", path)
	return &SQLite{db: db, now: time.Now}, nil
}

// Close closes the underlying database handle.
func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) Create(ctx context.Context, conv *types.Conversion) error {
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = s.now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO conversions (id, file_name, file_size, status, input_url, output_url, method, tokens, has_structured_data, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NULL)`,
		conv.ID, conv.FileName, conv.FileSize, string(conv.Status),
		conv.InputURL, conv.OutputURL, conv.Method, conv.Tokens,
		boolToInt(conv.HasStructuredData), conv.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert conversion: %w", err)
	}
	return nil
}

func (s *SQLite) MarkProcessing(ctx context.Context, id, inputURL string) error {
	return s.transition(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE conversions SET status = ?, input_url = ? WHERE id = ?`,
			string(types.StatusProcessing), inputURL, id)
		return err
	})
}

func (s *SQLite) Complete(ctx context.Context, id, outputURL, method string, tokens int, hasStructuredData bool) (*types.Conversion, error) {
	completedAt := s.now()
	err := s.transition(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			UPDATE conversions
			SET status = ?, output_url = ?, method = ?, tokens = ?, has_structured_data = ?, completed_at = ?
			WHERE id = ?`,
			string(types.StatusCompleted), outputURL, method, tokens,
			boolToInt(hasStructuredData), completedAt.Format(time.RFC3339Nano), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *SQLite) Fail(ctx context.Context, id string) (*types.Conversion, error) {
	completedAt := s.now()
	err := s.transition(ctx, id, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`UPDATE conversions SET status = ?, completed_at = ? WHERE id = ?`,
			string(types.StatusFailed), completedAt.Format(time.RFC3339Nano), id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

// transition runs update inside a transaction after checking that the
// row exists and has not already reached a terminal status.
func (s *SQLite) transition(ctx context.Context, id string, update func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	var status string
	err = tx.QueryRowContext(ctx, `SELECT status FROM conversions WHERE id = ?`, id).Scan(&status)
	if err == sql.ErrNoRows {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("query status: %w", err)
	}
	if types.Status(status).Terminal() {
		return ErrTerminal
	}

	if err := update(tx); err != nil {
		return fmt.Errorf("update conversion: %w", err)
	}
	return tx.Commit()
}

func (s *SQLite) Get(ctx context.Context, id string) (*types.Conversion, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, file_name, file_size, status, input_url, output_url, method, tokens, has_structured_data, created_at, completed_at
		FROM conversions WHERE id = ?`, id)
	conv, err := scanConversion(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan conversion: %w", err)
	}
	return conv, nil
}

func (s *SQLite) Recent(ctx context.Context, limit int) ([]types.Conversion, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, file_size, status, input_url, output_url, method, tokens, has_structured_data, created_at, completed_at
		FROM conversions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var out []types.Conversion
	for rows.Next() {
		conv, err := scanConversion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		out = append(out, *conv)
	}
	return out, rows.Err()
}

func (s *SQLite) Stats(ctx context.Context) (*types.Stats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, file_name, file_size, status, input_url, output_url, method, tokens, has_structured_data, created_at, completed_at
		FROM conversions`)
	if err != nil {
		return nil, fmt.Errorf("query conversions: %w", err)
	}
	defer rows.Close()

	var conversions []types.Conversion
	for rows.Next() {
		conv, err := scanConversion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan conversion: %w", err)
		}
		conversions = append(conversions, *conv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return computeStats(conversions, s.now()), nil
}

func (s *SQLite) Save(ctx context.Context, rec *types.DocumentRecord) error {
	data, err := json.Marshal(rec.Document)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	now := s.now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = now
	}
	rec.UpdatedAt = now

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO documents (id, conversion_id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(conversion_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		rec.ID, rec.ConversionID, string(data),
		rec.CreatedAt.Format(time.RFC3339Nano), rec.UpdatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *SQLite) GetByConversionID(ctx context.Context, conversionID string) (*types.DocumentRecord, error) {
	var (
		rec       types.DocumentRecord
		data      string
		createdAt string
		updatedAt string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, conversion_id, data, created_at, updated_at
		FROM documents WHERE conversion_id = ?`, conversionID).
		Scan(&rec.ID, &rec.ConversionID, &data, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}

	if err := json.Unmarshal([]byte(data), &rec.Document); err != nil {
		return nil, fmt.Errorf("unmarshal document: %w", err)
	}
	if rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if rec.UpdatedAt, err = time.Parse(time.RFC3339Nano, updatedAt); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &rec, nil
}

func (s *SQLite) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count documents: %w", err)
	}
	return count, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanConversion(row rowScanner) (*types.Conversion, error) {
	var (
		conv          types.Conversion
		status        string
		hasStructured int
		createdAt     string
		completedAt   sql.NullString
	)
	err := row.Scan(&conv.ID, &conv.FileName, &conv.FileSize, &status,
		&conv.InputURL, &conv.OutputURL, &conv.Method, &conv.Tokens,
		&hasStructured, &createdAt, &completedAt)
	if err != nil {
		return nil, err
	}

	conv.Status = types.Status(status)
	conv.HasStructuredData = hasStructured != 0
	if conv.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if completedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, completedAt.String)
		if err != nil {
			return nil, fmt.Errorf("parse completed_at: %w", err)
		}
		conv.CompletedAt = &t
	}
	return &conv, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
