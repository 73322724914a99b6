package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"whatsfind/internal/config"
	"whatsfind/internal/export"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

func exportCmd() *cobra.Command {
	var chatID int64
	var query, out string
	var limit int

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export messages as CSV",
		Long: `Exports a chat (--chat) or the results of a full-text query (--query) as
CSV. With neither flag, exports every message. Output goes to --out or stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			rows, err := search.Search(db, search.Options{
				Query:  query,
				ChatID: chatID,
				Limit:  limit,
			})
			if err != nil {
				return fmt.Errorf("collect rows: %w", err)
			}

			w := os.Stdout
			if out != "" {
				f, err := os.Create(out)
				if err != nil {
					return fmt.Errorf("create %s: %w", out, err)
				}
				defer f.Close()
				w = f
			}

			if err := export.WriteCSV(w, rows); err != nil {
				return fmt.Errorf("export: %w", err)
			}
			if out != "" {
				fmt.Fprintf(os.Stderr, "Wrote %d rows to %s\n", len(rows), out)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Export a single chat by id (0 = all)")
	cmd.Flags().StringVar(&query, "query", "", "Export full-text search results instead of whole chats")
	cmd.Flags().StringVar(&out, "out", "", "Output file (default stdout)")
	cmd.Flags().IntVar(&limit, "limit", 1000000, "Max rows")

	return cmd
}
