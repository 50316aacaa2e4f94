package main

import (
	"os"

	"RMGScale/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
