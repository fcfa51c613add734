// Package migrations embeds the schema of the two store tables.
//
// Production stores are provisioned externally; these files let a developer
// stand up an empty MySQL, Postgres or SQLite database with the same layout.
package migrations

import "embed"

// FS holds the goose SQL migrations.
//
//go:embed *.sql
var FS embed.FS
