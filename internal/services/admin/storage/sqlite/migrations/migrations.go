// Package migrations embeds the session token schema.
package migrations

import "embed"

// FS holds the ordered SQL migrations.
//
//go:embed *.sql
var FS embed.FS
