// Package migrations embeds the SQL schema so the binaries can migrate
// without a checkout of the repository.
package migrations

import "embed"

// FS holds the numbered up/down migration pairs
//
//go:embed *.sql
var FS embed.FS
