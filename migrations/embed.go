// Package migrations ships the SQL schema inside the binary, so a
// deployment needs nothing on disk beyond the executable and its config.
package migrations

import (
	"embed"

	"github.com/driftlab/device-checkout/internal/infrastructure/database"
)

//go:embed *.sql
var files embed.FS

func init() {
	database.MigrationsFS = files
	database.MigrationsDir = "."
}
