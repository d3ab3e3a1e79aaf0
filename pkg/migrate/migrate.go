// Package migrate applies the shop schema with goose. The SQL files target
// Postgres and are compiled into the binary.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	"github.com/pressly/goose/v3"
)

// DefaultDir is where new migrations are written by the migrate command.
const DefaultDir = "pkg/migrate/migrations"

//go:embed migrations/*.sql
var embedded embed.FS

// Embedded returns the migrations shipped with the binary.
func Embedded() fs.FS {
	sub, err := fs.Sub(embedded, "migrations")
	if err != nil {
		panic(err)
	}
	return sub
}

// Result describes one applied or reverted migration.
type Result struct {
	Version   int64
	Path      string
	Direction string
	Duration  time.Duration
}

// Status reports whether a known migration has been applied.
type Status struct {
	Version   int64
	Path      string
	Applied   bool
	AppliedAt time.Time
}

// Runner drives goose against a Postgres database.
type Runner struct {
	provider *goose.Provider
}

func NewRunner(db *sql.DB, migrations fs.FS) (*Runner, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	if migrations == nil {
		migrations = Embedded()
	}
	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations)
	if err != nil {
		return nil, fmt.Errorf("goose provider: %w", err)
	}
	return &Runner{provider: provider}, nil
}

// Up applies every pending migration.
func (r *Runner) Up(ctx context.Context) ([]Result, error) {
	res, err := r.provider.Up(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose up: %w", err)
	}
	return toResults(res), nil
}

// Down reverts the newest applied migration.
func (r *Runner) Down(ctx context.Context) (Result, error) {
	res, err := r.provider.Down(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("goose down: %w", err)
	}
	return toResult(res), nil
}

// To moves the schema up or down until target is the current version.
func (r *Runner) To(ctx context.Context, target int64) ([]Result, error) {
	current, err := r.Version(ctx)
	if err != nil {
		return nil, err
	}

	var res []*goose.MigrationResult
	switch {
	case current == target:
		return nil, nil
	case current < target:
		res, err = r.provider.UpTo(ctx, target)
	default:
		res, err = r.provider.DownTo(ctx, target)
	}
	if err != nil {
		return nil, fmt.Errorf("goose migrate %d -> %d: %w", current, target, err)
	}
	return toResults(res), nil
}

// Version returns the newest applied version, 0 for an empty database.
func (r *Runner) Version(ctx context.Context) (int64, error) {
	v, err := r.provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("goose version: %w", err)
	}
	return v, nil
}

func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	rows, err := r.provider.Status(ctx)
	if err != nil {
		return nil, fmt.Errorf("goose status: %w", err)
	}
	out := make([]Status, 0, len(rows))
	for _, row := range rows {
		st := Status{Applied: row.State == goose.StateApplied, AppliedAt: row.AppliedAt}
		if row.Source != nil {
			st.Version = row.Source.Version
			st.Path = row.Source.Path
		}
		out = append(out, st)
	}
	return out, nil
}

func toResults(in []*goose.MigrationResult) []Result {
	out := make([]Result, 0, len(in))
	for _, res := range in {
		out = append(out, toResult(res))
	}
	return out
}

func toResult(res *goose.MigrationResult) Result {
	if res == nil {
		return Result{}
	}
	out := Result{Direction: res.Direction, Duration: res.Duration}
	if res.Source != nil {
		out.Version = res.Source.Version
		out.Path = res.Source.Path
	}
	return out
}
