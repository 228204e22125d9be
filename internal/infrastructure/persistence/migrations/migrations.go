// Package migrations embeds the journal schema.
package migrations

import "embed"

// FS holds the versioned SQL files applied by database.Migrator
//
//go:embed *.sql
var FS embed.FS
