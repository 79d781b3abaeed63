// Package migrations содержит SQL-миграции goose для Postgres-хранилища
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
