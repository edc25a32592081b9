package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/entitykit/wikibase/pkg/feed"
)

var (
	changesLimit int
	changesSince string
)

// changesCmd prints the wiki's recent-changes feed.
var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Print recent changes",
	RunE:  runChanges,
}

func init() {
	changesCmd.Flags().IntVarP(&changesLimit, "limit", "n", 0, "maximum number of changes")
	changesCmd.Flags().StringVar(&changesSince, "since", "", "only changes after this time (RFC 3339)")
	rootCmd.AddCommand(changesCmd)
}

func runChanges(cmd *cobra.Command, _ []string) error {
	var opts []feed.Option
	if changesLimit > 0 {
		opts = append(opts, feed.WithLimit(changesLimit))
	}
	if changesSince != "" {
		since, err := time.Parse(time.RFC3339, changesSince)
		if err != nil {
			return fmt.Errorf("parsing --since: %w", err)
		}
		opts = append(opts, feed.WithFrom(since))
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	changes, err := client.RecentChanges(cmd.Context(), opts...)
	if err != nil {
		return err
	}
	if len(changes) == 0 {
		cmd.Println("No recent changes")
		return nil
	}

	for _, change := range changes {
		cmd.Printf("%s  %-12s  %s\n",
			change.Time.UTC().Format(time.RFC3339), change.Title, change.Author)
	}
	return nil
}
