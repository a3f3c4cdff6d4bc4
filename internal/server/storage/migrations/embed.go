// Package migrations embeds the SQL schema migrations for the Postgres
// storage backend.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
