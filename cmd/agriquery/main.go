package main

import (
	"fmt"
	"os"

	"github.com/limoonouo/Haoshi-Fruits/cmd/agriquery/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
