package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"slices"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaStep is one embedded SQL file, ordered by its numeric prefix.
type schemaStep struct {
	seq  int
	file string
}

// createSchema builds the schema on a fresh database. The sqlite backend is
// always in-memory, so every step runs on every open, inside a single
// transaction.
func createSchema(ctx context.Context, db *sql.DB) error {
	steps, err := schemaSteps(migrationsFS)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin schema transaction: %w", err)
	}
	defer tx.Rollback()

	for _, step := range steps {
		stmt, err := fs.ReadFile(migrationsFS, "migrations/"+step.file)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", step.file, err)
		}
		if _, err := tx.ExecContext(ctx, string(stmt)); err != nil {
			return fmt.Errorf("failed to apply %s: %w", step.file, err)
		}
	}

	return tx.Commit()
}

// schemaSteps lists the .sql files under migrations/ in execution order.
// Files must be named "<seq>_<name>.sql".
func schemaSteps(fsys fs.FS) ([]schemaStep, error) {
	names, err := fs.Glob(fsys, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("failed to list schema files: %w", err)
	}

	steps := make([]schemaStep, 0, len(names))
	for _, name := range names {
		file := strings.TrimPrefix(name, "migrations/")
		prefix, _, ok := strings.Cut(file, "_")
		if !ok {
			return nil, fmt.Errorf("schema file %q: want <seq>_<name>.sql", file)
		}
		seq, err := strconv.Atoi(prefix)
		if err != nil {
			return nil, fmt.Errorf("schema file %q: bad sequence: %w", file, err)
		}
		steps = append(steps, schemaStep{seq: seq, file: file})
	}

	slices.SortFunc(steps, func(a, b schemaStep) int { return a.seq - b.seq })
	for i := 1; i < len(steps); i++ {
		if steps[i].seq == steps[i-1].seq {
			return nil, fmt.Errorf("schema files %q and %q share sequence %d", steps[i-1].file, steps[i].file, steps[i].seq)
		}
	}
	return steps, nil
}
