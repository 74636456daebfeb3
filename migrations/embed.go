// Package migrations holds the versioned SQL schema.
// The files are embedded so the server binary can migrate on start.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
