package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"whatsfind/internal/archive"
	"whatsfind/internal/config"
	"whatsfind/internal/importer"
	"whatsfind/internal/store"
)

func importCmd() *cobra.Command {
	var policy string
	var clearFirst bool

	cmd := &cobra.Command{
		Use:   "import <archive.zip>",
		Short: "Import an exported chat archive into the store",
		Long: `Reads a chat export ZIP (transcripts plus media), parses every transcript,
and loads the messages into the local store as one atomic unit. The duplicate
policy applies per chat title:
  skip     leave chats that already have messages untouched (default)
  replace  delete the chat's existing messages first
  append   insert unconditionally (duplicates possible)`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pol, err := importer.ParsePolicy(policy)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read archive: %w", err)
			}

			rd, err := archive.NewReader(data)
			if err != nil {
				return err
			}

			db, err := store.OpenDB(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open db: %w", err)
			}
			defer db.Close()

			if clearFirst {
				if err := db.ClearAll(); err != nil {
					return fmt.Errorf("clear store: %w", err)
				}
				fmt.Fprintln(os.Stderr, "Cleared existing data.")
			}

			fmt.Fprintf(os.Stderr, "Importing %s...\n", args[0])
			stats, err := importer.Import(db, rd, importer.Options{
				Policy:    pol,
				BatchSize: cfg.BatchSize,
			})
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}

			fmt.Fprintf(os.Stderr, "Done. %s\n", stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&policy, "policy", "skip", "Duplicate policy (skip/replace/append)")
	cmd.Flags().BoolVar(&clearFirst, "clear", false, "Clear all existing data before importing")

	return cmd
}
