package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"whatsfind/internal/config"
	"whatsfind/internal/search"
	"whatsfind/internal/store"
	"whatsfind/internal/tui"
)

const (
	sColorReset   = "\033[0m"
	sColorBlue    = "\033[1;34m"
	sColorMagenta = "\033[2;35m"
	sColorDim     = "\033[2m"
)

func colorizeSender(sender string) string {
	if sender == "" {
		return sColorMagenta + "system" + sColorReset
	}
	return sColorBlue + sender + sColorReset
}

// parseDayBound parses YYYY-MM-DD into an epoch-ms bound; end selects the
// last millisecond of the day so --to is inclusive.
func parseDayBound(s string, end bool) (*int64, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, fmt.Errorf("bad date %q (want YYYY-MM-DD)", s)
	}
	ms := t.UTC().UnixMilli()
	if end {
		ms = t.UTC().Add(24*time.Hour).UnixMilli() - 1
	}
	return &ms, nil
}

func parseMediaFlag(s string) (*bool, error) {
	switch s {
	case "", "any":
		return nil, nil
	case "yes":
		v := true
		return &v, nil
	case "no":
		v := false
		return &v, nil
	}
	return nil, fmt.Errorf("bad --media value %q (want any, yes, or no)", s)
}

func searchCmd() *cobra.Command {
	var chatID int64
	var sender, from, to, media string
	var limit, offset int

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search across imported messages",
		Long: `Search messages using FTS5 (quoted phrases, AND/OR, parentheses supported).
Interactive TUI when stdout is a terminal; TSV rows otherwise:
  id, chatId, timestamp, sender, text`,
		Args: cobra.ExactArgs(1),
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

			fromTS, err := parseDayBound(from, false)
			if err != nil {
				return err
			}
			toTS, err := parseDayBound(to, true)
			if err != nil {
				return err
			}
			hasMedia, err := parseMediaFlag(media)
			if err != nil {
				return err
			}

			opts := search.Options{
				ChatID:   chatID,
				Sender:   sender,
				From:     fromTS,
				To:       toTS,
				HasMedia: hasMedia,
				Limit:    limit,
				Offset:   offset,
			}

			// Interactive TUI when stdout is a terminal; TSV output for pipes
			if term.IsTerminal(int(os.Stdout.Fd())) {
				return tui.Run(db, args[0], opts)
			}

			opts.Query = args[0]
			results, err := search.Search(db, opts)
			if err != nil {
				return err
			}

			if len(results) == 0 {
				fmt.Fprintln(os.Stderr, "No results found.")
				return nil
			}

			for _, r := range results {
				text := strings.ReplaceAll(r.Text, "\t", " ")
				text = strings.ReplaceAll(text, "\n", " ")
				ts := time.UnixMilli(r.TS).UTC().Format("2006-01-02 15:04")
				fmt.Printf("%d\t%d\t%s%s%s\t%s\t%s\n",
					r.ID,
					r.ChatID,
					sColorDim, ts, sColorReset,
					colorizeSender(r.Sender),
					text,
				)
			}
			return nil
		},
	}

	cmd.Flags().Int64Var(&chatID, "chat", 0, "Filter by chat id (0 = all)")
	cmd.Flags().StringVar(&sender, "sender", "", "Filter by sender name")
	cmd.Flags().StringVar(&from, "from", "", "Only messages on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Only messages on or before this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&media, "media", "any", "Filter by media presence (any/yes/no)")
	cmd.Flags().IntVar(&limit, "limit", 100, "Max results")
	cmd.Flags().IntVar(&offset, "offset", 0, "Pagination offset")

	return cmd
}
