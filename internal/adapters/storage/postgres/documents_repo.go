package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"automed-dashboard/internal/adapters/storage/tree"
)

// DocumentsRepo guarda cada nodo de primer nivel del árbol como una fila JSONB.
type DocumentsRepo struct {
	db  *sql.DB
	now func() time.Time
}

func NewDocumentsRepo(db *sql.DB) *DocumentsRepo {
	return &DocumentsRepo{db: db, now: time.Now}
}

// NewStore arma el árbol de documentos persistido en Postgres.
func NewStore(db *sql.DB) *tree.Store {
	return tree.NewStore(NewDocumentsRepo(db))
}

func (r *DocumentsRepo) Load(ctx context.Context, root string) (any, bool, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, false, nil
	}

	var raw []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT value FROM documents WHERE root = $1
	`, root).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, err
	}

	v, err := decode(raw)
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (r *DocumentsRepo) Mutate(ctx context.Context, root string, fn func(cur any, ok bool) (any, bool, error)) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	var (
		raw []byte
		cur any
		ok  bool
	)
	err = tx.QueryRowContext(ctx, `
		SELECT value FROM documents WHERE root = $1 FOR UPDATE
	`, root).Scan(&raw)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// fila nueva
	case err != nil:
		return err
	default:
		cur, err = decode(raw)
		if err != nil {
			return err
		}
		ok = true
	}

	next, keep, err := fn(cur, ok)
	if err != nil {
		return err
	}

	if !keep {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE root = $1`, root); err != nil {
			return err
		}
		return tx.Commit()
	}

	b, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("postgres: marshal document %s: %w", root, err)
	}

	// ON CONFLICT: si otra conexión insertó la misma raíz, gana la última escritura.
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO documents (root, value, updated_at)
		VALUES ($1, $2::jsonb, $3)
		ON CONFLICT (root) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`, root, string(b), r.now().UTC()); err != nil {
		return err
	}

	return tx.Commit()
}

func decode(raw []byte) (any, error) {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("postgres: invalid document json: %w", err)
	}
	return v, nil
}

// Close cierra el pool.
func (r *DocumentsRepo) Close() error {
	return r.db.Close()
}
