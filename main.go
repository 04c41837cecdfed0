package main

import (
	"embed"

	"github.com/tallybook/tally/cmd"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	cmd.Execute(migrationsFS)
}
