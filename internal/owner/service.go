package owner

import (
	"context"
	"fmt"
	"strings"

	"github.com/driftlab/device-checkout/internal/directory"
	"github.com/driftlab/device-checkout/internal/infrastructure/logging"
)

// Service wraps the repository with recipient validation against the
// directory.
type Service struct {
	repo   Repository
	dir    directory.Directory
	logger *logging.Logger
}

// NewService creates a custom owner service.
func NewService(repo Repository, dir directory.Directory, logger *logging.Logger) *Service {
	return &Service{repo: repo, dir: dir, logger: logger}
}

// Create validates the recipient and inserts the custom owner.
func (s *Service) Create(ctx context.Context, o *CustomOwner) error {
	if err := ValidateOwner(o); err != nil {
		return err
	}
	if err := s.validateRecipient(ctx, o.Recipient); err != nil {
		return err
	}
	if err := s.repo.Create(ctx, o); err != nil {
		return err
	}
	s.logger.Info("custom owner created", "name", o.CustomOwnerName, "recipient", o.Recipient)
	return nil
}

// Update validates the recipient and applies the change. The repository
// enforces the rename-while-in-use guard.
func (s *Service) Update(ctx context.Context, o *CustomOwner) error {
	if err := ValidateOwner(o); err != nil {
		return err
	}
	if err := s.validateRecipient(ctx, o.Recipient); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, o); err != nil {
		return err
	}
	s.logger.Info("custom owner updated", "name", o.CustomOwnerName, "recipient", o.Recipient)
	return nil
}

// Delete removes a custom owner. The repository enforces the in-use guard.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("custom owner deleted", "id", id)
	return nil
}

// List retrieves all custom owners.
func (s *Service) List(ctx context.Context) ([]CustomOwner, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves a custom owner by id.
func (s *Service) GetByID(ctx context.Context, id int64) (*CustomOwner, error) {
	return s.repo.GetByID(ctx, id)
}

// GetByName retrieves a custom owner by name, case-insensitively.
func (s *Service) GetByName(ctx context.Context, name string) (*CustomOwner, error) {
	return s.repo.GetByName(ctx, name)
}

// validateRecipient checks that a recipient is "none", a channel, or a user.
// Directory lookups fail open, so an outage never blocks registry edits.
func (s *Service) validateRecipient(ctx context.Context, recipient string) error {
	recipient = strings.ToLower(strings.TrimSpace(recipient))
	if recipient == RecipientNone {
		return nil
	}
	if s.dir.ChannelExists(ctx, recipient) || s.dir.UserExists(ctx, recipient) {
		return nil
	}
	return fmt.Errorf(`%w: Recipient must be valid Slack user, Slack channel or "none".`, ErrInvalidOwner)
}
