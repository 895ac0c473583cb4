// cmd/sentra/main.go
package main

import (
	"os"

	"github.com/sentra-ai/sentra/cmd/sentra/commands"
)

func main() {
	if err := commands.NewCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
