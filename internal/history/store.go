package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"pix/internal/config"
)

// ErrNotFound is returned when no batch matches the requested ID.
var ErrNotFound = errors.New("batch not found")

// Store persists move batches in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database in the state directory.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.HistoryPath())
}

// OpenPath opens the database at dbPath directly.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RecordMove inserts batch and its file outcomes. A missing ID or CreatedAt is
// filled in and written back to batch.
func (s *Store) RecordMove(ctx context.Context, batch *Batch) error {
	if batch == nil {
		return errors.New("batch is nil")
	}
	if strings.TrimSpace(batch.ID) == "" {
		batch.ID = uuid.NewString()
	}
	if batch.CreatedAt.IsZero() {
		batch.CreatedAt = time.Now().UTC()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin record tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO move_batches (id, destination, requested, moved, error_message, created_at)
         VALUES (?, ?, ?, ?, ?, ?)`,
		batch.ID,
		batch.Destination,
		batch.Requested,
		batch.Moved,
		nullableString(batch.Error),
		batch.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	for i, file := range batch.Files {
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO move_files (batch_id, position, source_path, target_path, copied, error_message)
             VALUES (?, ?, ?, ?, ?, ?)`,
			batch.ID,
			i,
			file.Source,
			file.Target,
			boolToInt(file.Copied),
			nullableString(file.Error),
		); err != nil {
			return fmt.Errorf("insert file record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Recent returns up to limit batches, newest first, without file records.
// A limit <= 0 returns every batch.
func (s *Store) Recent(ctx context.Context, limit int) ([]Batch, error) {
	query := `SELECT ` + batchColumns + ` FROM move_batches ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query recent batches: %w", err)
	}
	defer rows.Close()

	var batches []Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return nil, err
		}
		batches = append(batches, batch)
	}
	return batches, rows.Err()
}

// Get returns the batch whose ID starts with idPrefix, with its file records.
// An ambiguous prefix is an error.
func (s *Store) Get(ctx context.Context, idPrefix string) (*Batch, error) {
	idPrefix = strings.TrimSpace(idPrefix)
	if idPrefix == "" {
		return nil, fmt.Errorf("%w: empty id", ErrNotFound)
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+batchColumns+` FROM move_batches WHERE id LIKE ? ESCAPE '\' LIMIT 2`,
		escapeLike(idPrefix)+"%",
	)
	if err != nil {
		return nil, fmt.Errorf("query batch: %w", err)
	}
	var matches []Batch
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		matches = append(matches, batch)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, idPrefix)
	case 1:
	default:
		return nil, fmt.Errorf("batch id prefix %q is ambiguous", idPrefix)
	}

	batch := matches[0]
	files, err := s.files(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	batch.Files = files
	return &batch, nil
}

// Count returns the number of recorded batches.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM move_batches`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count batches: %w", err)
	}
	return count, nil
}

func (s *Store) files(ctx context.Context, batchID string) ([]FileRecord, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT source_path, target_path, copied, error_message FROM move_files WHERE batch_id = ? ORDER BY position`,
		batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("query file records: %w", err)
	}
	defer rows.Close()

	var files []FileRecord
	for rows.Next() {
		var (
			record   FileRecord
			copied   int
			errorMsg sql.NullString
		)
		if err := rows.Scan(&record.Source, &record.Target, &copied, &errorMsg); err != nil {
			return nil, err
		}
		record.Copied = copied != 0
		record.Error = errorMsg.String
		files = append(files, record)
	}
	return files, rows.Err()
}

// timeLayout is fixed width so created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const batchColumns = "id, destination, requested, moved, error_message, created_at"

func scanBatch(scanner interface{ Scan(dest ...any) error }) (Batch, error) {
	var (
		batch      Batch
		errorMsg   sql.NullString
		createdRaw string
	)
	if err := scanner.Scan(&batch.ID, &batch.Destination, &batch.Requested, &batch.Moved, &errorMsg, &createdRaw); err != nil {
		return Batch{}, err
	}
	batch.Error = errorMsg.String
	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		batch.CreatedAt = created
	}
	return batch, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
