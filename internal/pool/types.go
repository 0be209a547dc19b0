package pool

import "time"

// DefaultPoolID is the id of the seeded Default Pool, which always exists.
const DefaultPoolID int64 = 1

// Pool represents a named grouping of devices.
type Pool struct {
	ID          int64     `json:"id"`
	PoolName    string    `json:"pool_name"`
	Description *string   `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
