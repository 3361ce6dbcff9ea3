package main

import (
	"os"

	"paydesk/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
