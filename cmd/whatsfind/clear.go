package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whatsfind/internal/config"
	"whatsfind/internal/store"
)

func clearCmd() *cobra.Command {
	var chatID int64
	var all bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete imported data",
		Long:  `--chat <id> clears one chat's messages; --all removes every chat, participant, and message and resets id counters.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !all && chatID == 0 {
				return fmt.Errorf("nothing to do: pass --chat <id> or --all")
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

			if all {
				if err := db.ClearAll(); err != nil {
					return fmt.Errorf("clear all: %w", err)
				}
				fmt.Println("All data cleared.")
				return nil
			}

			if err := db.ClearMessages(chatID); err != nil {
				return fmt.Errorf("clear chat %d: %w", chatID, err)
			}
			fmt.Printf("Cleared messages of chat %d.\n", chatID)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Chat id to clear")
	cmd.Flags().BoolVar(&all, "all", false, "Clear everything")

	return cmd
}
