// Package remote embeds the goose migrations for the PostgreSQL remote store
// and the local identity provider.
package remote

import "embed"

//go:embed *.sql
var Migrations embed.FS
