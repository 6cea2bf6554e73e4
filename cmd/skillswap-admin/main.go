package main

import (
	"os"

	"github.com/rajivgeraev/skillswap-api/cmd/skillswap-admin/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
