package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"whatsfind/internal/config"
	"whatsfind/internal/store"
)

func chatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chats",
		Short: "List imported chats with message counts and date ranges",
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

			stats, err := db.ChatsWithStats()
			if err != nil {
				return fmt.Errorf("list chats: %w", err)
			}
			if len(stats) == 0 {
				fmt.Println("No chats imported yet.")
				return nil
			}

			for _, s := range stats {
				span := "-"
				if s.MessageCount > 0 {
					span = fmt.Sprintf("%s .. %s",
						time.UnixMilli(s.FirstTS).UTC().Format("2006-01-02"),
						time.UnixMilli(s.LastTS).UTC().Format("2006-01-02"))
				}
				fmt.Printf("%d\t%s\t%d messages\t%d participants\t%s\n",
					s.ID, s.Title, s.MessageCount, s.ParticipantCount, span)
			}
			return nil
		},
	}
}
