package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"whatsfind/internal/ai"
	"whatsfind/internal/config"
	"whatsfind/internal/store"
)

func askCmd() *cobra.Command {
	var chatID int64
	var limit int
	var model string

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question about the imported chats via a language model",
		Long: `Retrieves the most relevant messages from the store and asks the configured
language-model provider (see [ai] in ~/.whatsfind/config.toml) to answer. Only
the retrieved messages leave the machine.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			provider, err := ai.NewProvider(ai.ProviderConfig{
				Provider: cfg.AI.Provider,
				Model:    cfg.AI.Model,
				BaseURL:  cfg.AI.BaseURL,
				APIKey:   cfg.APIKey(),
			})
			if err != nil {
				return err
			}

			db, err := store.OpenDB(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			opts := []ai.Option{}
			if model != "" {
				opts = append(opts, ai.WithModel(model))
			}

			msgs, err := ai.Retrieve(db, args[0], chatID, limit)
			if err != nil {
				return err
			}
			answer, err := provider.Generate(cmd.Context(), ai.BuildPrompt(args[0], msgs), opts...)
			if err != nil {
				return fmt.Errorf("ask: %w", err)
			}

			fmt.Println(answer)
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Restrict retrieval to one chat id (0 = all)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Messages to retrieve as context")
	cmd.Flags().StringVar(&model, "model", "", "Override the configured model")

	return cmd
}
