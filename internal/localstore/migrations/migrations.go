// Package migrations embeds the schema for the device-local store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
