package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whatsfind/internal/config"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

func facetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "facets",
		Short: "List the filter facets: chats, senders, and years",
		Args:  cobra.NoArgs,
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

			facets, err := search.ListFacets(db)
			if err != nil {
				return fmt.Errorf("list facets: %w", err)
			}

			fmt.Println("=== Chats ===")
			for _, c := range facets.Chats {
				fmt.Printf("  %d\t%s\n", c.ID, c.Title)
			}

			fmt.Println("\n=== Senders ===")
			for _, s := range facets.Senders {
				fmt.Printf("  %s\n", s)
			}

			fmt.Println("\n=== Years ===")
			for _, y := range facets.Years {
				fmt.Printf("  %d\n", y)
			}
			return nil
		},
	}
}
