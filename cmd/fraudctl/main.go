package main

import (
	"fmt"
	"os"

	"github.com/d0ughnat/Fruad-detection/cmd/fraudctl/commands"
)

func main() {
	if err := commands.NewRootCmd(commands.OpenRuntime).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
