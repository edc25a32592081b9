package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/entitykit/wikibase/pkg/entity"
)

var entityOutput string

// entityCmd groups entity subcommands.
var entityCmd = &cobra.Command{
	Use:   "entity",
	Short: "Inspect entities",
}

// entityGetCmd fetches and prints one entity.
var entityGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Fetch an entity and print its document",
	Args:  cobra.ExactArgs(1),
	RunE:  runEntityGet,
}

func init() {
	entityGetCmd.Flags().StringVarP(&entityOutput, "output", "o", "json", "output format (json or yaml)")
	entityCmd.AddCommand(entityGetCmd)
	rootCmd.AddCommand(entityCmd)
}

func runEntityGet(cmd *cobra.Command, args []string) error {
	id := args[0]
	if err := entity.ValidateID(id); err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	doc, err := client.Entity(cmd.Context(), id)
	if err != nil {
		return err
	}

	switch entityOutput {
	case "yaml":
		data, err := yaml.Marshal(doc)
		if err != nil {
			return fmt.Errorf("rendering entity: %w", err)
		}
		cmd.Print(string(data))
	default:
		data, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return fmt.Errorf("rendering entity: %w", err)
		}
		cmd.Println(string(data))
	}
	return nil
}
