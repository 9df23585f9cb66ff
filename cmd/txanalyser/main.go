package main

import (
	"os"

	"github.com/cleared-dev/txanalyser/internal/commands"
)

func main() {
	os.Exit(commands.Execute())
}
