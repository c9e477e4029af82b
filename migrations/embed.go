// Package migrations holds the versioned SQL schema for the spend database.
package migrations

import "embed"

// FS contains every *.sql migration file in this directory.
//
//go:embed *.sql
var FS embed.FS
