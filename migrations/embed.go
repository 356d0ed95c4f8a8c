// Package migrations embeds the schema migrations applied by sitectl.
package migrations

import "embed"

// FS holds the versioned up/down SQL files.
//
//go:embed *.sql
var FS embed.FS
