package device

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Repository defines the interface for device persistence operations.
type Repository interface {
	// Create inserts a new device. New devices start available.
	// Returns ErrDeviceExists if the name is taken, ErrInvalidDevice if
	// validation fails.
	Create(ctx context.Context, d *Device) error

	// List retrieves all devices ordered by name.
	List(ctx context.Context) ([]Device, error)

	// ListByPool retrieves all devices in a pool ordered by name.
	ListByPool(ctx context.Context, poolID int64) ([]Device, error)

	// ListByOwner retrieves all devices whose owner matches name
	// case-insensitively.
	ListByOwner(ctx context.Context, owner string) ([]Device, error)

	// GetByID retrieves a device by id. Returns ErrDeviceNotFound if absent.
	GetByID(ctx context.Context, id int64) (*Device, error)

	// GetByName retrieves a device by name, case-insensitively.
	// Returns ErrDeviceNotFound if absent.
	GetByName(ctx context.Context, name string) (*Device, error)

	// AvailableInPool picks one available device in the pool uniformly at
	// random. Returns ErrNoDeviceAvailable when the pool has none.
	AvailableInPool(ctx context.Context, poolID int64) (*Device, error)

	// UpdateDetails modifies a device's name, url, and pool. Reservation
	// fields are untouched. Returns ErrDeviceNotFound if the device does
	// not exist.
	UpdateDetails(ctx context.Context, d *Device) error

	// SetReservation conditionally updates a device's reservation fields.
	// The update only applies while the stored status still equals expected;
	// otherwise ErrReservationConflict is returned. Owner and comments must
	// be nil when status is StatusAvailable.
	SetReservation(ctx context.Context, id int64, expected, status Status, owner, comments *string) error

	// Delete removes a device. Returns ErrDeviceNotFound if absent.
	Delete(ctx context.Context, id int64) error
}

// SQLiteRepository implements Repository using SQLite.
type SQLiteRepository struct {
	db *sql.DB
}

// NewSQLiteRepository creates a new SQLite-backed device repository.
func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const deviceColumns = `id, device_name, device_url, device_owner, comments,
	reservation_status, pool_id, created_at, updated_at`

// Create inserts a new device. New devices always start available with no
// owner, regardless of what the caller set on d.
func (r *SQLiteRepository) Create(ctx context.Context, d *Device) error {
	if err := ValidateDevice(d); err != nil {
		return err
	}

	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	d.ReservationStatus = StatusAvailable
	d.DeviceOwner = nil
	d.Comments = nil

	const query = `
		INSERT INTO devices (device_name, device_url, reservation_status, pool_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	result, err := r.db.ExecContext(ctx, query,
		d.DeviceName,
		d.DeviceURL,
		string(StatusAvailable),
		d.PoolID,
		now.Format(time.RFC3339),
		now.Format(time.RFC3339),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("inserting device: %w", err)
	}

	d.ID, err = result.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading device id: %w", err)
	}
	return nil
}

// List retrieves all devices ordered by name.
func (r *SQLiteRepository) List(ctx context.Context) ([]Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices ORDER BY device_name"
	return r.queryDevices(ctx, query)
}

// ListByPool retrieves all devices in a pool ordered by name.
func (r *SQLiteRepository) ListByPool(ctx context.Context, poolID int64) ([]Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE pool_id = ? ORDER BY device_name"
	return r.queryDevices(ctx, query, poolID)
}

// ListByOwner retrieves all devices whose owner matches case-insensitively.
func (r *SQLiteRepository) ListByOwner(ctx context.Context, owner string) ([]Device, error) {
	query := "SELECT " + deviceColumns + ` FROM devices
		WHERE device_owner IS NOT NULL AND lower(device_owner) = lower(?)
		ORDER BY device_name`
	return r.queryDevices(ctx, query, owner)
}

func (r *SQLiteRepository) queryDevices(ctx context.Context, query string, args ...any) ([]Device, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		d, err := scanDevice(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning device: %w", err)
		}
		devices = append(devices, *d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating devices: %w", err)
	}
	return devices, nil
}

// GetByID retrieves a device by id.
func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE id = ?"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by id: %w", err)
	}
	return d, nil
}

// GetByName retrieves a device by name, case-insensitively.
func (r *SQLiteRepository) GetByName(ctx context.Context, name string) (*Device, error) {
	query := "SELECT " + deviceColumns + " FROM devices WHERE lower(device_name) = lower(?)"

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrDeviceNotFound
		}
		return nil, fmt.Errorf("querying device by name: %w", err)
	}
	return d, nil
}

// AvailableInPool picks one available device in the pool at random.
func (r *SQLiteRepository) AvailableInPool(ctx context.Context, poolID int64) (*Device, error) {
	query := "SELECT " + deviceColumns + ` FROM devices
		WHERE pool_id = ? AND reservation_status = ?
		ORDER BY RANDOM()
		LIMIT 1`

	d, err := scanDevice(r.db.QueryRowContext(ctx, query, poolID, string(StatusAvailable)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoDeviceAvailable
		}
		return nil, fmt.Errorf("querying available device: %w", err)
	}
	return d, nil
}

// UpdateDetails modifies a device's name, url, and pool.
func (r *SQLiteRepository) UpdateDetails(ctx context.Context, d *Device) error {
	if err := ValidateName(d.DeviceName); err != nil {
		return err
	}
	if err := ValidateURL(d.DeviceURL); err != nil {
		return err
	}

	d.UpdatedAt = time.Now().UTC()

	const query = `
		UPDATE devices
		SET device_name = ?, device_url = ?, pool_id = ?, updated_at = ?
		WHERE id = ?`

	result, err := r.db.ExecContext(ctx, query,
		d.DeviceName,
		d.DeviceURL,
		d.PoolID,
		d.UpdatedAt.Format(time.RFC3339),
		d.ID,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDeviceExists
		}
		return fmt.Errorf("updating device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// SetReservation conditionally updates reservation state.
//
// The WHERE clause carries the expected prior status, so a concurrent writer
// that already flipped the device makes this update match zero rows. That
// zero-row outcome is the entire concurrency story: no locks, no retries.
func (r *SQLiteRepository) SetReservation(ctx context.Context, id int64, expected, status Status, owner, comments *string) error {
	if !expected.Valid() || !status.Valid() {
		return fmt.Errorf("%w: unknown reservation status", ErrInvalidDevice)
	}
	if status == StatusAvailable && (owner != nil || comments != nil) {
		return fmt.Errorf("%w: available device cannot carry owner or comments", ErrInvalidDevice)
	}

	const query = `
		UPDATE devices
		SET reservation_status = ?, device_owner = ?, comments = ?, updated_at = ?
		WHERE id = ? AND reservation_status = ?`

	result, err := r.db.ExecContext(ctx, query,
		string(status),
		nullableString(owner),
		nullableString(comments),
		time.Now().UTC().Format(time.RFC3339),
		id,
		string(expected),
	)
	if err != nil {
		return fmt.Errorf("updating reservation: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrReservationConflict
	}
	return nil
}

// Delete removes a device.
func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM devices WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting device: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrDeviceNotFound
	}
	return nil
}

// rowScanner is an interface that sql.Row and sql.Rows both implement.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanDevice scans a row into a Device.
func scanDevice(scanner rowScanner) (*Device, error) {
	var d Device
	var owner, comments sql.NullString
	var status string
	var createdAt, updatedAt string

	err := scanner.Scan(
		&d.ID, &d.DeviceName, &d.DeviceURL, &owner, &comments,
		&status, &d.PoolID, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	d.ReservationStatus = Status(status)
	if owner.Valid {
		d.DeviceOwner = &owner.String
	}
	if comments.Valid {
		d.Comments = &comments.String
	}

	var parseErr error
	d.CreatedAt, parseErr = time.Parse(time.RFC3339, createdAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing created_at: %w", parseErr)
	}
	d.UpdatedAt, parseErr = time.Parse(time.RFC3339, updatedAt)
	if parseErr != nil {
		return nil, fmt.Errorf("parsing updated_at: %w", parseErr)
	}

	return &d, nil
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
