package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/agenthands/ppimap/internal/core/model"
)

// SQLiteStore is a ProvenanceStore in a SQLite database file. The unique
// index on the four source fields makes AddOrGetExisting safe across
// processes sharing the file.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

// OpenSQLite opens or creates the database at path and applies the schema.
// ":memory:" gives a private in-memory database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open provenance database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schemaQuery); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply provenance schema: %w", err)
	}
	return &SQLiteStore{db: db, now: time.Now}, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) GetByID(ctx context.Context, id int64) (*model.Provenance, error) {
	p, err := scanProvenance(s.db.QueryRowContext(ctx, selectByIDQuery, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get provenance %d: %w", id, err)
	}
	return p, nil
}

func (s *SQLiteStore) GetByName(ctx context.Context, name string) ([]model.Provenance, error) {
	rows, err := s.db.QueryContext(ctx, selectByNameQuery, name)
	if err != nil {
		return nil, fmt.Errorf("failed to query provenance by name: %w", err)
	}
	defer rows.Close()

	out := []model.Provenance{}
	for rows.Next() {
		p, err := scanProvenance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to read provenance row: %w", err)
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) AddOrGetExisting(ctx context.Context, p model.Provenance) (*model.Provenance, error) {
	if err := validate(p); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	created := s.now().UTC().Format(time.RFC3339Nano)
	if _, err := tx.ExecContext(ctx, insertProvenanceQuery,
		p.Name, p.URL, p.Category, p.BiologicalEntity, created); err != nil {
		return nil, fmt.Errorf("failed to insert provenance: %w", err)
	}
	stored, err := scanProvenance(tx.QueryRowContext(ctx, selectBySourceQuery,
		p.Name, p.URL, p.Category, p.BiologicalEntity))
	if err != nil {
		return nil, fmt.Errorf("failed to read back provenance: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit provenance: %w", err)
	}
	return stored, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProvenance(row scanner) (*model.Provenance, error) {
	var (
		p       model.Provenance
		created string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.URL, &p.Category, &p.BiologicalEntity, &created); err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return nil, fmt.Errorf("invalid created_at %q: %w", created, err)
	}
	p.CreatedAt = t
	return &p, nil
}
