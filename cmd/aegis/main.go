package main

import (
	"os"

	"github.com/bhardwajRahul/aegis-stack/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.NewCmd())
	rootCmd.AddCommand(commands.ValidateCmd())
	rootCmd.AddCommand(commands.ComponentsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
