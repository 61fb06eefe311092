package main

import (
	"os"

	"omopgate/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
