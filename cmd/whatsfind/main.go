package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:     "whatsfind",
		Short:   "whatsfind - local full-text search over exported chat archives",
		Version: version,
	}

	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(searchCmd())
	rootCmd.AddCommand(threadCmd())
	rootCmd.AddCommand(chatsCmd())
	rootCmd.AddCommand(facetsCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(askCmd())
	rootCmd.AddCommand(clearCmd())
	rootCmd.AddCommand(doctorCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
