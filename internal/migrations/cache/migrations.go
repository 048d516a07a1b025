// Package cache embeds the goose migrations for the local SQLite cache.
package cache

import "embed"

//go:embed *.sql
var Migrations embed.FS
