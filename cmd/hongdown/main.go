package main

import (
	"os"

	"github.com/CrazyForks/hongdown/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
