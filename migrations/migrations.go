// Package migrations embeds the SQL schema applied to the refresh log database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
