package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/eventcards/pkg/history"
)

// historyCommand lists recent batches from the configured history store.
func (c *CLI) historyCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recently rendered events",
		Long:  `List recently rendered events. Records are kept as JSON files in the state directory, or in MongoDB when [history] mongo_uri or EVENTCARDS_MONGO_URI is set.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store, err := c.openHistory(ctx)
			if err != nil {
				return err
			}
			defer store.Close(context.Background())

			records, err := store.List(ctx, limit)
			if err != nil {
				return err
			}
			printHistory(records)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", history.DefaultLimit, "number of records")
	return cmd
}

func printHistory(records []history.Record) {
	if len(records) == 0 {
		printInfo("No renders recorded yet")
		return
	}
	rows := make([][]string, len(records))
	for i, r := range records {
		rows[i] = []string{
			r.CreatedAt.Local().Format("2006-01-02 15:04"),
			strings.ReplaceAll(r.Title, "\n", " "),
			strings.Join(r.Formats, ", "),
			fmt.Sprintf("%d", len(r.Files)),
			shortID(r.ID),
		}
	}
	printTable([]string{"When", "Title", "Formats", "Files", "ID"}, rows)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
