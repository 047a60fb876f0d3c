package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by Get for an unknown run id.
var ErrNotFound = errors.New("store: run not found")

// Run is one ledger row.
type Run struct {
	ID               string
	CreatedAt        time.Time
	Lattice          string
	Size             int
	Species          int
	Fugacity         float64
	Seed             int64
	Sweeps           int
	EquilibriumSweep int
	TimedOut         bool
	Stopped          bool
	Samples          int
	CrystalMean      float64
	CrystalVariance  float64
	DensityMean      float64
	DemixedMean      float64
	Binder           *float64
	Autocorrelation  *float64
	OutputDir        string
}

// Filter narrows List; zero fields match everything.
type Filter struct {
	Lattice string
	Size    int
	Species int
}

// Store is the run ledger.
type Store struct {
	db *sql.DB
}

// Open creates or opens the ledger at path and applies the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Record appends r and returns its id, generating one when r.ID is empty.
// CreatedAt defaults to now.
func (s *Store) Record(ctx context.Context, r Run) (string, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, created_at, lattice, size, species, fugacity, seed,
			sweeps, equilibrium_sweep, timed_out, stopped, samples,
			crystal_mean, crystal_variance, density_mean, demixed_mean,
			binder, autocorrelation, output_dir)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, r.ID, r.CreatedAt.UTC().Format(time.RFC3339Nano), r.Lattice, r.Size, r.Species, r.Fugacity, r.Seed,
		r.Sweeps, r.EquilibriumSweep, r.TimedOut, r.Stopped, r.Samples,
		r.CrystalMean, r.CrystalVariance, r.DensityMean, r.DemixedMean,
		nullable(r.Binder), nullable(r.Autocorrelation), r.OutputDir)
	if err != nil {
		return "", fmt.Errorf("insert run %s: %w", r.ID, err)
	}
	return r.ID, nil
}

const selectRun = `
	SELECT id, created_at, lattice, size, species, fugacity, seed,
		sweeps, equilibrium_sweep, timed_out, stopped, samples,
		crystal_mean, crystal_variance, density_mean, demixed_mean,
		binder, autocorrelation, output_dir
	FROM runs`

// Get returns the run with the given id.
func (s *Store) Get(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, selectRun+` WHERE id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return r, err
}

// List returns the runs matching f in insertion order. Never nil.
func (s *Store) List(ctx context.Context, f Filter) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx, selectRun+`
		WHERE (? = '' OR lattice = ?)
		  AND (? = 0 OR size = ?)
		  AND (? = 0 OR species = ?)
		ORDER BY seq ASC
	`, f.Lattice, f.Lattice, f.Size, f.Size, f.Species, f.Species)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		r               Run
		created         string
		binder, autocor sql.NullFloat64
	)
	err := sc.Scan(&r.ID, &created, &r.Lattice, &r.Size, &r.Species, &r.Fugacity, &r.Seed,
		&r.Sweeps, &r.EquilibriumSweep, &r.TimedOut, &r.Stopped, &r.Samples,
		&r.CrystalMean, &r.CrystalVariance, &r.DensityMean, &r.DemixedMean,
		&binder, &autocor, &r.OutputDir)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, err
	}
	if err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	if r.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	if binder.Valid {
		r.Binder = &binder.Float64
	}
	if autocor.Valid {
		r.Autocorrelation = &autocor.Float64
	}
	return r, nil
}

func nullable(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}
