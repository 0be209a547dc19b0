package owner

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// setupTestDB creates an in-memory SQLite database with the custom_owners
// and devices tables.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schema := `
		CREATE TABLE custom_owners (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			custom_owner_name TEXT NOT NULL UNIQUE,
			recipient TEXT NOT NULL,
			description TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);

		CREATE TABLE devices (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			device_name TEXT NOT NULL UNIQUE,
			device_url TEXT NOT NULL,
			device_owner TEXT,
			comments TEXT,
			reservation_status TEXT NOT NULL DEFAULT 'available',
			pool_id INTEGER NOT NULL DEFAULT 1,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		);
	`

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		t.Fatalf("failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// reserveDeviceFor seeds a device reserved under the given owner name.
func reserveDeviceFor(t *testing.T, db *sql.DB, deviceName, owner string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO devices (device_name, device_url, device_owner, reservation_status) VALUES (?, 'http://x.example.com', ?, 'reserved')",
		deviceName, owner,
	)
	if err != nil {
		t.Fatalf("seeding reserved device: %v", err)
	}
}

func TestCreateLowercasesFields(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "Build-Bot", Recipient: "Dev-Team"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if o.ID == 0 {
		t.Fatal("Create did not assign an id")
	}
	if o.CustomOwnerName != "build-bot" || o.Recipient != "dev-team" {
		t.Errorf("fields not lowercased: %+v", o)
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CustomOwnerName != "build-bot" {
		t.Errorf("stored name: got %q, want %q", got.CustomOwnerName, "build-bot")
	}
}

func TestCreateValidation(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	tests := []struct {
		name  string
		owner CustomOwner
	}{
		{"empty name", CustomOwner{CustomOwnerName: " ", Recipient: "none"}},
		{"empty recipient", CustomOwner{CustomOwnerName: "build-bot", Recipient: " "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.Create(ctx, &tt.owner)
			if !errors.Is(err, ErrInvalidOwner) {
				t.Fatalf("expected ErrInvalidOwner, got %v", err)
			}
		})
	}
}

func TestCreateDuplicateNameFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	// Lowercasing makes the duplicate collide regardless of case.
	err := repo.Create(ctx, &CustomOwner{CustomOwnerName: "Build-Bot", Recipient: "none"})
	if !errors.Is(err, ErrOwnerExists) {
		t.Fatalf("expected ErrOwnerExists, got %v", err)
	}
}

func TestGetByNameCaseInsensitive(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByName(ctx, "BUILD-BOT")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.CustomOwnerName != "build-bot" {
		t.Errorf("name: got %q, want %q", got.CustomOwnerName, "build-bot")
	}

	if _, err := repo.GetByName(ctx, "missing"); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestNameExists(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	if err := repo.Create(ctx, &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exists, err := repo.NameExists(ctx, "Build-Bot")
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if !exists {
		t.Error("expected name to exist case-insensitively")
	}

	exists, err = repo.NameExists(ctx, "missing")
	if err != nil {
		t.Fatalf("NameExists: %v", err)
	}
	if exists {
		t.Error("expected missing name to not exist")
	}
}

func TestListOwners(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	for _, name := range []string{"zeta-bot", "alpha-bot"} {
		if err := repo.Create(ctx, &CustomOwner{CustomOwnerName: name, Recipient: "none"}); err != nil {
			t.Fatalf("Create %s: %v", name, err)
		}
	}

	owners, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(owners) != 2 || owners[0].CustomOwnerName != "alpha-bot" {
		t.Errorf("unexpected list: %+v", owners)
	}
}

func TestUpdateRecipientWhileInUse(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	reserveDeviceFor(t, db, "unit1", "build-bot")

	// Changing only the recipient is fine while devices are held.
	o.Recipient = "dev-team"
	if err := repo.Update(ctx, o); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestUpdateRenameWhileInUseFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	reserveDeviceFor(t, db, "unit1", "Build-Bot")

	o.CustomOwnerName = "release-bot"
	err := repo.Update(ctx, o)
	if !errors.Is(err, ErrOwnerInUse) {
		t.Fatalf("expected ErrOwnerInUse, got %v", err)
	}
}

func TestUpdateRenameWhenFree(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	o.CustomOwnerName = "release-bot"
	if err := repo.Update(ctx, o); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := repo.GetByID(ctx, o.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.CustomOwnerName != "release-bot" {
		t.Errorf("name: got %q, want %q", got.CustomOwnerName, "release-bot")
	}
}

func TestUpdateMissingOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.Update(context.Background(), &CustomOwner{ID: 999, CustomOwnerName: "ghost", Recipient: "none"})
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}

func TestDeleteWhileInUseFails(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}
	reserveDeviceFor(t, db, "unit1", "build-bot")

	err := repo.Delete(ctx, o.ID)
	if !errors.Is(err, ErrOwnerInUse) {
		t.Fatalf("expected ErrOwnerInUse, got %v", err)
	}
}

func TestDeleteWhenFree(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := repo.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := repo.Delete(ctx, o.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, o.ID); !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected owner to be gone, got %v", err)
	}
}

func TestDeleteMissingOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)

	err := repo.Delete(context.Background(), 999)
	if !errors.Is(err, ErrOwnerNotFound) {
		t.Fatalf("expected ErrOwnerNotFound, got %v", err)
	}
}
