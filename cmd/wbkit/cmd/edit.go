package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/entitykit/wikibase/pkg/config"
	"github.com/entitykit/wikibase/pkg/entity"
	"github.com/entitykit/wikibase/pkg/update"
)

var (
	editChangeFile string
	editSummary    string
	editDryRun     bool
)

// editCmd plans and submits one entity edit from a change file.
var editCmd = &cobra.Command{
	Use:   "edit [id]",
	Short: "Apply a change file to an entity",
	Long: `Edit loads a YAML change file, fetches the entity it names, and plans
the edit against the entity's current state. Changes already present on
the entity fall out of the plan; if nothing remains, nothing is
submitted. With --dry-run the payload is printed instead of submitted.

An entity ID given on the command line overrides the one in the change
file, so one file can be applied to several entities.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEdit,
}

func init() {
	editCmd.Flags().StringVarP(&editChangeFile, "file", "f", "", "change file (YAML)")
	editCmd.Flags().StringVarP(&editSummary, "summary", "m", "", "edit summary (overrides the change file)")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "print the payload instead of submitting")
	cobra.CheckErr(editCmd.MarkFlagRequired("file"))
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
	cf, err := config.LoadChangeFile(editChangeFile)
	if err != nil {
		return err
	}
	if len(args) == 1 {
		if err := entity.ValidateID(args[0]); err != nil {
			return err
		}
		cf.Entity = args[0]
	}
	opts, err := cf.Options()
	if err != nil {
		return err
	}

	client, err := newClient()
	if err != nil {
		return err
	}

	doc, err := client.Entity(cmd.Context(), cf.Entity)
	if err != nil {
		return err
	}

	u, err := update.New(doc, opts...)
	if err != nil {
		return err
	}

	if u.IsEmpty() {
		cmd.Printf("%s already matches the change file, nothing to do\n", cf.Entity)
		return nil
	}

	if editDryRun {
		payload, err := json.MarshalIndent(u.Payload(), "", "  ")
		if err != nil {
			return fmt.Errorf("rendering payload: %w", err)
		}
		cmd.Println(string(payload))
		return nil
	}

	summary := editSummary
	if summary == "" {
		summary = cf.Summary
	}
	result, err := client.SubmitEdit(cmd.Context(), u, summary)
	if err != nil {
		return err
	}
	cmd.Printf("Edited %s (revision %d)\n", result.EntityID, result.RevisionID)
	return nil
}
