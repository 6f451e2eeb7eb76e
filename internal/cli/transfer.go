package cli

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/nicolas44373/clientes/internal/csvio"
	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

// createFile opens the export target.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

func newImportCommand(o *options) *cobra.Command {
	var csvFile string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import customers from a CSV file",
		Long: `Import customers from a CSV file with a header line. Recognised columns are
code, description, status, reference_date and phone; others are ignored.
Rows that fail validation or whose code already exists are skipped.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := os.Open(csvFile)
			if err != nil {
				return fmt.Errorf("open CSV: %w", err)
			}
			defer f.Close()

			records, err := csvio.Decode(f)
			if err != nil {
				return fmt.Errorf("failed to parse CSV: %w", err)
			}
			log.Printf("Parsed %d customer records from %s", len(records), csvFile)

			svc, _, closeFn, err := o.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			imported, skipped := 0, 0
			for i, c := range records {
				if _, err := svc.Add(cmd.Context(), c); err != nil {
					if !errors.Is(err, domain.ErrValidation) && !errors.Is(err, domain.ErrConflict) {
						return fmt.Errorf("import record %d: %w", i+1, err)
					}
					log.Printf("Skipping record %d (code %d): %v", i+1, c.Code, err)
					skipped++
					continue
				}
				imported++
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Importados %d clientes, omitidos %d\n", imported, skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&csvFile, "csv", "c", "", "CSV file to import (required)")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func newExportCommand(o *options) *cobra.Command {
	var csvFile string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export customers with their due dates to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := o.loadView(cmd.Context(), due.Filter{})
			if err != nil {
				return err
			}

			if csvFile == "" || csvFile == "-" {
				return csvio.Encode(cmd.OutOrStdout(), view.Items)
			}

			f, err := createFile(csvFile)
			if err != nil {
				return fmt.Errorf("create CSV: %w", err)
			}
			if err := csvio.Encode(f, view.Items); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close CSV: %w", err)
			}
			log.Printf("Exported %d customers to %s", len(view.Items), csvFile)
			return nil
		},
	}
	cmd.Flags().StringVarP(&csvFile, "csv", "c", "-", "Output CSV file, - for stdout")
	return cmd
}
