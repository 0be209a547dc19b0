package owner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for custom owner persistence operations.
type Repository interface {
	// Create inserts a new custom owner. Name and recipient are lowercased
	// before storage. Returns ErrOwnerExists if the name is taken,
	// ErrInvalidOwner if validation fails.
	Create(ctx context.Context, o *CustomOwner) error

	// List retrieves all custom owners ordered by name.
	List(ctx context.Context) ([]CustomOwner, error)

	// GetByID retrieves a custom owner by id. Returns ErrOwnerNotFound if absent.
	GetByID(ctx context.Context, id int64) (*CustomOwner, error)

	// GetByName retrieves a custom owner by name, case-insensitively.
	// Returns ErrOwnerNotFound if absent.
	GetByName(ctx context.Context, name string) (*CustomOwner, error)

	// NameExists reports whether a custom owner with the given name exists,
	// case-insensitively.
	NameExists(ctx context.Context, name string) (bool, error)

	// Update modifies a custom owner. A rename is rejected with ErrOwnerInUse
	// while any device is reserved under the current name.
	Update(ctx context.Context, o *CustomOwner) error

	// Delete removes a custom owner. Rejected with ErrOwnerInUse while any
	// device is reserved under its name.
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed custom owner repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

// ValidateOwner checks the editable fields of a custom owner.
func ValidateOwner(o *CustomOwner) error {
	if o == nil {
		return ErrInvalidOwner
	}
	if strings.TrimSpace(o.CustomOwnerName) == "" {
		return fmt.Errorf("%w: custom_owner_name cannot be empty", ErrInvalidOwner)
	}
	if strings.TrimSpace(o.Recipient) == "" {
		return fmt.Errorf("%w: recipient cannot be empty", ErrInvalidOwner)
	}
	return nil
}

// normalize lowercases and trims the stored identity fields.
func normalize(o *CustomOwner) {
	o.CustomOwnerName = strings.ToLower(strings.TrimSpace(o.CustomOwnerName))
	o.Recipient = strings.ToLower(strings.TrimSpace(o.Recipient))
}

// Create inserts a new custom owner.
func (r *SQLiteRepository) Create(ctx context.Context, o *CustomOwner) error {
	if err := ValidateOwner(o); err != nil {
		return err
	}
	normalize(o)

	now := time.Now().UTC()
	o.CreatedAt = now
	o.UpdatedAt = now

	const query = `
		INSERT INTO custom_owners (custom_owner_name, recipient, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		o.CustomOwnerName,
		o.Recipient,
		nullableString(o.Description),
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrOwnerExists
		}
		return fmt.Errorf("inserting custom owner: %w", err)
	}

	o.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading custom owner id: %w", err)
	}
	return nil
}

// List retrieves all custom owners ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]CustomOwner, error) {
	const query = `
		SELECT id, custom_owner_name, recipient, description, created_at, updated_at
		FROM custom_owners
		ORDER BY custom_owner_name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("querying custom owners: %w", err)
	}
	defer rows.Close()

	var owners []CustomOwner
	for rows.Next() {
		o, err := scanOwner(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning custom owner: %w", err)
		}
		owners = append(owners, *o)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating custom owners: %w", err)
	}
	return owners, nil
}

// GetByID retrieves a custom owner by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*CustomOwner, error) {
	const query = `
		SELECT id, custom_owner_name, recipient, description, created_at, updated_at
		FROM custom_owners
		WHERE id = ?`

	o, err := scanOwner(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("querying custom owner by id: %w", err)
	}
	return o, nil
}

// GetByName retrieves a custom owner by name, case-insensitively.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*CustomOwner, error) {
	const query = `
		SELECT id, custom_owner_name, recipient, description, created_at, updated_at
		FROM custom_owners
		WHERE lower(custom_owner_name) = lower(?)`

	o, err := scanOwner(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOwnerNotFound
		}
		return nil, fmt.Errorf("querying custom owner by name: %w", err)
	}
	return o, nil
}

// NameExists reports whether a custom owner with the given name exists.
func (r *SQLiteRepository) NameExists(ctx context.Context, name string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM custom_owners WHERE lower(custom_owner_name) = lower(?)", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("checking custom owner name: %w", err)
	}
	return count > 0, nil
}

// Update modifies a custom owner.
//
// Renames are only allowed while no device is reserved under the current
// name; otherwise the stored device_owner would dangle. The in-use check
// and the write share one transaction.
func (r *SQLiteRepository) Update(ctx context.Context, o *CustomOwner) error {
	if err := ValidateOwner(o); err != nil {
		return err
	}
	normalize(o)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var currentName string
	err = tx.QueryRowContext(ctx,
		"SELECT custom_owner_name FROM custom_owners WHERE id = ?", o.ID,
	).Scan(&currentName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("querying custom owner: %w", err)
	}

	if !strings.EqualFold(currentName, o.CustomOwnerName) {
		inUse, err := ownerHasDevices(ctx, tx, currentName)
		if err != nil {
			return err
		}
		if inUse {
			return fmt.Errorf("%w: Cannot modify name of custom_owner with devices reserved", ErrOwnerInUse)
		}
	}

	o.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE custom_owners
		SET custom_owner_name = ?, recipient = ?, description = ?, updated_at = ?
		WHERE id = ?`

	_, err = tx.ExecContext(ctx, query,
		o.CustomOwnerName,
		o.Recipient,
		nullableString(o.Description),
		o.UpdatedAt.Format(time.RFC3339),
		o.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrOwnerExists
		}
		return fmt.Errorf("updating custom owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing custom owner update: %w", err)
	}
	return nil
}

// Delete removes a custom owner.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback is no-op after commit

	var name string
	err = tx.QueryRowContext(ctx,
		"SELECT custom_owner_name FROM custom_owners WHERE id = ?", id,
	).Scan(&name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrOwnerNotFound
		}
		return fmt.Errorf("querying custom owner: %w", err)
	}

	inUse, err := ownerHasDevices(ctx, tx, name)
	if err != nil {
		return err
	}
	if inUse {
		return fmt.Errorf("%w: Cannot delete custom_owner with devices reserved", ErrOwnerInUse)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM custom_owners WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting custom owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing custom owner delete: %w", err)
	}
	return nil
}

// ownerHasDevices reports whether any device is reserved under name.
func ownerHasDevices(ctx context.Context, tx *sql.Tx, name string) (bool, error) {
	var count int
	err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM devices WHERE device_owner IS NOT NULL AND lower(device_owner) = lower(?)", name,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("counting owner devices: %w", err)
	}
	return count > 0, nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanOwner scans a row into a CustomOwner.
func scanOwner(scanner rowScanner) (*CustomOwner, error) {
	var o CustomOwner
	var description sql.NullString
	var createdAt, updatedAt string

	err := scanner.Scan(&o.ID, &o.CustomOwnerName, &o.Recipient, &description, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	if description.Valid {
		o.Description = &description.String
	}

	var parseErr error
	o.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	o.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &o, nil
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
