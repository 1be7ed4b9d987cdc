package main

import (
	"os"

	"co2form/internal/cli"
)

func main() {
	os.Exit(cli.Main())
}
