package cmd

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/entitykit/wikibase/pkg/dump"
)

var (
	reportOutDir     string
	reportInstanceOf string
)

// reportCmd runs the usage statistics processor over an entity dump.
var reportCmd = &cobra.Command{
	Use:   "report <dump.json>",
	Short: "Compute property and class usage statistics from a dump",
	Long: `Report streams a JSON entity dump and counts, per property, how often
it appears in main snaks, qualifiers, and references, and per class, how
many entities are instances of it. Results are written as CSV files into
the output directory. Dumps ending in .gz are decompressed on the fly.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVarP(&reportOutDir, "out", "o", ".", "directory for the CSV reports")
	reportCmd.Flags().StringVar(&reportInstanceOf, "instance-of", dump.InstanceOfProperty,
		"property linking an entity to its class")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("opening dump: %w", err)
	}
	defer file.Close()

	var reader io.Reader = file
	if strings.HasSuffix(args[0], ".gz") {
		gz, err := gzip.NewReader(file)
		if err != nil {
			return fmt.Errorf("opening dump: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	stats := dump.NewUsageStatistics(reportInstanceOf)
	count, err := dump.Run(cmd.Context(), reader, stats)
	if err != nil {
		return err
	}

	if err := writeReport(filepath.Join(reportOutDir, "properties.csv"), stats.WritePropertyReport); err != nil {
		return err
	}
	if err := writeReport(filepath.Join(reportOutDir, "classes.csv"), stats.WriteClassReport); err != nil {
		return err
	}

	cmd.Printf("Processed %d entities; reports written to %s\n", count, reportOutDir)
	return nil
}

func writeReport(path string, write func(io.Writer) error) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(file); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
