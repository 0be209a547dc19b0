package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/driftlab/device-checkout/internal/infrastructure/database"
)

// TestMigrationsSeedDefaultPool applies the real embedded migrations to a
// fresh database and checks the schema the application relies on.
func TestMigrationsSeedDefaultPool(t *testing.T) {
	ctx := context.Background()

	db, err := database.Open(ctx, database.Config{
		Path:        filepath.Join(t.TempDir(), "checkout.db"),
		WALMode:     true,
		BusyTimeout: 5,
	})
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close() //nolint:errcheck // test cleanup

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	var name string
	if err := db.QueryRowContext(ctx,
		"SELECT pool_name FROM pools WHERE id = 1",
	).Scan(&name); err != nil {
		t.Fatalf("default pool missing: %v", err)
	}
	if name != "Default Pool" {
		t.Errorf("pool 1 name = %q, want Default Pool", name)
	}

	for _, table := range []string{"devices", "custom_owners"} {
		var count int
		if err := db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?", table,
		).Scan(&count); err != nil {
			t.Fatalf("querying schema for %s: %v", table, err)
		}
		if count != 1 {
			t.Errorf("table %s not created", table)
		}
	}

	// A device insert picks up the defaults the board relies on.
	if _, err := db.ExecContext(ctx,
		"INSERT INTO devices (device_name, device_url) VALUES ('unit1', 'http://unit1.example.com')",
	); err != nil {
		t.Fatalf("inserting device: %v", err)
	}
	var status string
	var poolID int64
	if err := db.QueryRowContext(ctx,
		"SELECT reservation_status, pool_id FROM devices WHERE device_name = 'unit1'",
	).Scan(&status, &poolID); err != nil {
		t.Fatalf("reading device: %v", err)
	}
	if status != "available" || poolID != 1 {
		t.Errorf("defaults: status=%q pool_id=%d, want available/1", status, poolID)
	}
}
