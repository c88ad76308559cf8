// Package db holds the embedded goose migrations of the boardly schema.
package db

import (
	"embed"
	"io/fs"
)

//go:embed migrations/*.sql
var files embed.FS

// Migrations is the migrations directory as an fs.FS rooted at the SQL files.
var Migrations fs.FS = mustSub(files, "migrations")

func mustSub(f fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(f, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
