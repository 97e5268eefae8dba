// Package migrations embeds the CLI's local goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
