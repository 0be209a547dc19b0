package owner

import (
	"context"
	"errors"
	"testing"

	"github.com/driftlab/device-checkout/internal/directory"
	"github.com/driftlab/device-checkout/internal/infrastructure/config"
	"github.com/driftlab/device-checkout/internal/infrastructure/logging"
)

func setupTestService(t *testing.T) *Service {
	t.Helper()

	db := setupTestDB(t)
	repo := NewSQLiteRepository(db)
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	dir := &directory.Static{
		Users:    []string{"alice"},
		Channels: []string{"dev-team"},
	}
	return NewService(repo, dir, log)
}

func TestServiceCreateRecipientValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		recipient string
		wantErr   bool
	}{
		{"none literal", "none", false},
		{"none mixed case", "None", false},
		{"channel", "dev-team", false},
		{"channel mixed case", "Dev-Team", false},
		{"user", "alice", false},
		{"unknown", "nobody", true},
	}

	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &CustomOwner{
				CustomOwnerName: "bot-" + string(rune('a'+i)),
				Recipient:       tt.recipient,
			}
			err := svc.Create(ctx, o)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidOwner) {
					t.Fatalf("expected ErrInvalidOwner, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create: %v", err)
			}
		})
	}
}

func TestServiceUpdateRecipientValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	o := &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}
	if err := svc.Create(ctx, o); err != nil {
		t.Fatalf("Create: %v", err)
	}

	o.Recipient = "nobody"
	err := svc.Update(ctx, o)
	if !errors.Is(err, ErrInvalidOwner) {
		t.Fatalf("expected ErrInvalidOwner, got %v", err)
	}

	o.Recipient = "alice"
	if err := svc.Update(ctx, o); err != nil {
		t.Fatalf("Update: %v", err)
	}
}

func TestServiceGetByName(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	if err := svc.Create(ctx, &CustomOwner{CustomOwnerName: "build-bot", Recipient: "none"}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := svc.GetByName(ctx, "BUILD-BOT")
	if err != nil {
		t.Fatalf("GetByName: %v", err)
	}
	if got.CustomOwnerName != "build-bot" {
		t.Errorf("name: got %q, want %q", got.CustomOwnerName, "build-bot")
	}
}
