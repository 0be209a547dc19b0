package pool

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for pool persistence operations.
type Repository interface {
	// Create inserts a new pool. Returns ErrPoolExists if the name is taken,
	// ErrInvalidPool if validation fails.
	Create(ctx context.Context, p *Pool) error

	// List retrieves all pools ordered by name.
	List(ctx context.Context) ([]Pool, error)

	// GetByID retrieves a pool by id. Returns ErrPoolNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Pool, error)

	// Update modifies a pool's name and description.
	// Returns ErrPoolNotFound if the pool does not exist.
	Update(ctx context.Context, p *Pool) error

	// Delete removes a pool. Returns ErrDefaultPool for the Default Pool,
	// ErrPoolNotEmpty if the pool still contains devices, and
	// ErrPoolNotFound if the pool does not exist.
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed pool repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ValidateName checks that a pool name is non-empty after trimming.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: pool_name cannot be empty", ErrInvalidPool)
	}
	return nil
}

// Create inserts a new pool.
func (r *SQLiteRepository) Create(ctx context.Context, p *Pool) error {
	if err := ValidateName(p.PoolName); err != nil {
		return err
	}

	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	const query = `
		INSERT INTO pools (pool_name, description, created_at, updated_at)
		VALUES (?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		p.PoolName,
		nullableString(p.Description),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPoolExists
		}
		return fmt.Errorf("inserting pool: %w", err)
	}

	p.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading pool id: %w", err)
	}
	return nil
}

// List retrieves all pools ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Pool, error) {
	const query = `
		SELECT id, pool_name, description, created_at, updated_at
		FROM pools
		ORDER BY pool_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying pools: %w", err)
	}
	defer rows.Close()

	var pools []Pool
	for rows.Next() {
		p, err := scanPool(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning pool: %w", err)
		}
		pools = append(pools, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pools: %w", err)
	}
	return pools, nil
}

// GetByID retrieves a pool by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Pool, error) {
	const query = `
		SELECT id, pool_name, description, created_at, updated_at
		FROM pools
		WHERE id = ?`

	p, err := scanPool(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPoolNotFound
		}
		return nil, fmt.Errorf("querying pool by id: %w", err)
	}
	return p, nil
}

// Update modifies a pool's name and description.
func (r *SQLiteRepository) Update(ctx context.Context, p *Pool) error {
	if err := ValidateName(p.PoolName); err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE pools
		SET pool_name = ?, description = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		p.PoolName,
		nullableString(p.Description),
		p.UpdatedAt.Format(time.RFC3339),
		p.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrPoolExists
		}
		return fmt.Errorf("updating pool: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPoolNotFound
	}
	return nil
}

// Delete removes a pool.
//
// The Default Pool is never deletable, and a pool with devices cannot be
// removed. The device-count check and the delete run in one transaction so
// the guard cannot race with a concurrent device insert or move.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	if id == DefaultPoolID {
		return fmt.Errorf("%w: Default pool cannot be deleted", ErrDefaultPool)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var deviceCount int
	err = tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE pool_id = ?", id,
	).Scan(&deviceCount)
	if err != nil {
		return fmt.Errorf("counting pool devices: %w", err)
	}
	if deviceCount > 0 {
		return fmt.Errorf("%w: Cannot delete non-empty pool", ErrPoolNotEmpty)
	}

	result, err := tx.ExecContext(ctx, "DELETE FROM pools WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting pool: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrPoolNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing pool delete: %w", err)
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanPool scans a row into a Pool.
func scanPool(scanner rowScanner) (*Pool, error) {
	var p Pool
	var description sql.NullString
	var createdAt, updatedAt string

	if err := scanner.Scan(&p.ID, &p.PoolName, &description, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	if description.Valid {
		p.Description = &description.String
	}

	var parseErr error
	p.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	p.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &p, nil
}

// nullableString returns a sql.NullString for optional string pointers.
func nullableString(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// isUniqueConstraintError checks if an error is a SQLite unique constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "unique constraint")
}
