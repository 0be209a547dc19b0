package owner

import "time"

// RecipientNone marks a custom owner with no notification target.
const RecipientNone = "none"

// CustomOwner is a local alias that can hold device reservations.
//
// Recipient names the Slack user or channel to contact about devices held
// under this alias, or "none". Name and recipient are stored lowercased.
type CustomOwner struct {
	ID              int64     `json:"id"`
	CustomOwnerName string    `json:"custom_owner_name"`
	Recipient       string    `json:"recipient"`
	Description     *string   `json:"description,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
