package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"whatsfind/internal/config"
	"whatsfind/internal/render"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
)

func threadCmd() *cobra.Command {
	var context int
	var query string

	cmd := &cobra.Command{
		Use:   "thread <messageId>",
		Short: "Show the conversation context around a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("bad message id %q", args[0])
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}

			db, err := store.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			thread, center, err := search.GetThread(db, id, context)
			if err != nil {
				return err
			}
			if center == nil {
				fmt.Printf("No message with id %d.\n", id)
				return nil
			}

			title := ""
			facets, err := search.ListFacets(db)
			if err == nil {
				for _, c := range facets.Chats {
					if c.ID == center.ChatID {
						title = c.Title
						break
					}
				}
			}

			out, _ := render.RenderThread(title, thread, render.Options{
				CenterID: id,
				Query:    query,
			})
			fmt.Print(out)
			return nil
		},
	}

	cmd.Flags().IntVar(&context, "context", 25, "Messages before/after the target to show")
	cmd.Flags().StringVar(&query, "query", "", "Search query for keyword highlighting")

	return cmd
}
