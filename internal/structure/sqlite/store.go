// Package sqlite provides a structure database backed by a SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver

	"nucascade/internal/structure"
	"nucascade/pkg/nucleus"
)

// Store reads and writes nuclear structure data in a SQLite database.
type Store struct {
	db   *sql.DB
	path string
}

var _ structure.Database = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS nuclides (
	z INTEGER NOT NULL,
	a INTEGER NOT NULL,
	PRIMARY KEY (z, a)
);
CREATE TABLE IF NOT EXISTS levels (
	z INTEGER NOT NULL,
	a INTEGER NOT NULL,
	idx INTEGER NOT NULL,
	energy REAL NOT NULL,
	two_j INTEGER NOT NULL,
	parity INTEGER NOT NULL,
	PRIMARY KEY (z, a, idx)
);
CREATE TABLE IF NOT EXISTS gammas (
	z INTEGER NOT NULL,
	a INTEGER NOT NULL,
	level INTEGER NOT NULL,
	ord INTEGER NOT NULL,
	target INTEGER NOT NULL,
	probability REAL NOT NULL,
	PRIMARY KEY (z, a, level, ord)
);
CREATE TABLE IF NOT EXISTS transitions (
	z INTEGER NOT NULL,
	a INTEGER NOT NULL,
	ord INTEGER NOT NULL,
	energy REAL NOT NULL,
	bf REAL NOT NULL,
	bgt REAL NOT NULL,
	PRIMARY KEY (z, a, ord)
);
`

// Open opens (creating if needed) the structure database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = "nucascade.db"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create structure tables: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the configured database path.
func (s *Store) Path() string { return s.path }

// Scheme loads the decay scheme for n.
func (s *Store) Scheme(ctx context.Context, n nucleus.Nuclide) (*nucleus.DecayScheme, error) {
	var one int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM nuclides WHERE z=? AND a=?`, n.Z, n.A).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("scheme for %s: %w", n, structure.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("select nuclide: %w", err)
	}

	ds := &nucleus.DecayScheme{Nuclide: n}
	rows, err := s.db.QueryContext(ctx, `SELECT idx, energy, two_j, parity FROM levels WHERE z=? AND a=? ORDER BY idx`, n.Z, n.A)
	if err != nil {
		return nil, fmt.Errorf("select levels: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var idx, twoJ, parity int
		var energy float64
		if err := rows.Scan(&idx, &energy, &twoJ, &parity); err != nil {
			return nil, fmt.Errorf("scan level: %w", err)
		}
		if idx != len(ds.Levels) {
			return nil, fmt.Errorf("level indices for %s are not contiguous at %d", n, idx)
		}
		p := nucleus.Parity(parity)
		if !p.Valid() {
			return nil, fmt.Errorf("level %d of %s has invalid parity %d", idx, n, parity)
		}
		ds.Levels = append(ds.Levels, nucleus.Level{Energy: energy, TwoJ: twoJ, Parity: p})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate levels: %w", err)
	}

	brows, err := s.db.QueryContext(ctx, `SELECT level, target, probability FROM gammas WHERE z=? AND a=? ORDER BY level, ord`, n.Z, n.A)
	if err != nil {
		return nil, fmt.Errorf("select gammas: %w", err)
	}
	defer func() { _ = brows.Close() }()
	for brows.Next() {
		var level, target int
		var probability float64
		if err := brows.Scan(&level, &target, &probability); err != nil {
			return nil, fmt.Errorf("scan gamma branch: %w", err)
		}
		if level < 0 || level >= len(ds.Levels) {
			return nil, fmt.Errorf("gamma branch of %s references missing level %d", n, level)
		}
		ds.Levels[level].Branches = append(ds.Levels[level].Branches, nucleus.GammaBranch{
			Target:      target,
			Probability: probability,
		})
	}
	if err := brows.Err(); err != nil {
		return nil, fmt.Errorf("iterate gamma branches: %w", err)
	}
	return ds, nil
}

// Nuclides lists every stored nuclide, ordered by Z then A.
func (s *Store) Nuclides(ctx context.Context) ([]nucleus.Nuclide, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT z, a FROM nuclides ORDER BY z, a`)
	if err != nil {
		return nil, fmt.Errorf("select nuclides: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []nucleus.Nuclide
	for rows.Next() {
		var n nucleus.Nuclide
		if err := rows.Scan(&n.Z, &n.A); err != nil {
			return nil, fmt.Errorf("scan nuclide: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate nuclides: %w", err)
	}
	return out, nil
}

// Targets lists every reaction target with stored transitions, ordered by
// Z then A.
func (s *Store) Targets(ctx context.Context) ([]nucleus.Nuclide, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT z, a FROM transitions ORDER BY z, a`)
	if err != nil {
		return nil, fmt.Errorf("select targets: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []nucleus.Nuclide
	for rows.Next() {
		var n nucleus.Nuclide
		if err := rows.Scan(&n.Z, &n.A); err != nil {
			return nil, fmt.Errorf("scan target: %w", err)
		}
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate targets: %w", err)
	}
	return out, nil
}

// Transitions loads the transition strengths for reactions on target.
func (s *Store) Transitions(ctx context.Context, target nucleus.Nuclide) ([]structure.Transition, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT energy, bf, bgt FROM transitions WHERE z=? AND a=? ORDER BY ord`, target.Z, target.A)
	if err != nil {
		return nil, fmt.Errorf("select transitions: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []structure.Transition
	for rows.Next() {
		var tr structure.Transition
		if err := rows.Scan(&tr.Energy, &tr.BF, &tr.BGT); err != nil {
			return nil, fmt.Errorf("scan transition: %w", err)
		}
		out = append(out, tr)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transitions: %w", err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("transitions for target %s: %w", target, structure.ErrNotFound)
	}
	return out, nil
}

// Import validates src and replaces the store contents with its data.
func (s *Store) Import(ctx context.Context, src structure.Database) (retErr error) {
	if _, err := structure.Validate(ctx, src); err != nil {
		return fmt.Errorf("validating source database: %w", err)
	}
	nuclides, err := src.Nuclides(ctx)
	if err != nil {
		return fmt.Errorf("listing source nuclides: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	for _, table := range []string{"nuclides", "levels", "gammas", "transitions"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			retErr = fmt.Errorf("clear %s: %w", table, err)
			return retErr
		}
	}
	for _, n := range nuclides {
		ds, err := src.Scheme(ctx, n)
		if err != nil {
			retErr = fmt.Errorf("loading source scheme for %s: %w", n, err)
			return retErr
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO nuclides(z,a) VALUES(?,?)`, n.Z, n.A); err != nil {
			retErr = fmt.Errorf("insert nuclide %s: %w", n, err)
			return retErr
		}
		for idx, lv := range ds.Levels {
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO levels(z,a,idx,energy,two_j,parity) VALUES(?,?,?,?,?,?)`,
				n.Z, n.A, idx, lv.Energy, lv.TwoJ, int(lv.Parity)); err != nil {
				retErr = fmt.Errorf("insert level %d of %s: %w", idx, n, err)
				return retErr
			}
			for ord, br := range lv.Branches {
				if _, err := tx.ExecContext(ctx,
					`INSERT INTO gammas(z,a,level,ord,target,probability) VALUES(?,?,?,?,?,?)`,
					n.Z, n.A, idx, ord, br.Target, br.Probability); err != nil {
					retErr = fmt.Errorf("insert gamma branch of %s: %w", n, err)
					return retErr
				}
			}
		}
	}
	targets, err := src.Targets(ctx)
	if err != nil {
		retErr = fmt.Errorf("listing source targets: %w", err)
		return retErr
	}
	for _, target := range targets {
		trs, err := src.Transitions(ctx, target)
		if err != nil {
			retErr = fmt.Errorf("loading source transitions for %s: %w", target, err)
			return retErr
		}
		if err := s.insertTransitions(ctx, tx, target, trs); err != nil {
			retErr = err
			return retErr
		}
	}
	return tx.Commit()
}

// ImportTransitions stores transition strengths for a reaction target that
// has no scheme of its own, replacing any previous set for that target.
func (s *Store) ImportTransitions(ctx context.Context, target nucleus.Nuclide, trs []structure.Transition) (retErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if retErr != nil {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx, `DELETE FROM transitions WHERE z=? AND a=?`, target.Z, target.A); err != nil {
		retErr = fmt.Errorf("clear transitions for %s: %w", target, err)
		return retErr
	}
	if err := s.insertTransitions(ctx, tx, target, trs); err != nil {
		retErr = err
		return retErr
	}
	return tx.Commit()
}

func (s *Store) insertTransitions(ctx context.Context, tx *sql.Tx, target nucleus.Nuclide, trs []structure.Transition) error {
	for ord, tr := range trs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO transitions(z,a,ord,energy,bf,bgt) VALUES(?,?,?,?,?,?)`,
			target.Z, target.A, ord, tr.Energy, tr.BF, tr.BGT); err != nil {
			return fmt.Errorf("insert transition %d for %s: %w", ord, target, err)
		}
	}
	return nil
}
