package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/nicolas44373/clientes/internal/customers"
	"github.com/nicolas44373/clientes/internal/domain"
	"github.com/nicolas44373/clientes/internal/due"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Italic(true)
)

func newListCommand(o *options) *cobra.Command {
	var f due.Filter

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print customers with their due dates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := o.loadView(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printNotice(out, view)
			fmt.Fprintln(out, renderTable(view.Items))
			fmt.Fprintf(out, "%d de %d clientes, %d próximos a vencer\n", len(view.Items), view.Total, len(view.NearDue))
			return nil
		},
	}
	cmd.Flags().StringVarP(&f.Status, "status", "s", domain.StatusAll, "Only customers with this status")
	cmd.Flags().StringVarP(&f.Search, "search", "q", "", "Only customers whose code contains this text")
	return cmd
}

func newDueCommand(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "due",
		Short: "Print customers whose due date is within the next two days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view, err := o.loadView(cmd.Context(), due.Filter{})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			printNotice(out, view)
			if len(view.NearDue) == 0 {
				fmt.Fprintln(out, "Ningún cliente próximo a vencer.")
				return nil
			}
			fmt.Fprintln(out, renderTable(view.NearDue))
			return nil
		},
	}
}

// loadView reads the whole collection once. A failed read is reported only
// when no demonstration data replaced it.
func (o *options) loadView(ctx context.Context, f due.Filter) (customers.View, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	svc, _, closeFn, err := o.openService(ctx)
	if err != nil {
		return customers.View{}, err
	}
	defer closeFn()

	loadErr := svc.Load(ctx)
	view := svc.View(f)
	if loadErr != nil && view.Notice == "" {
		return view, loadErr
	}
	return view, nil
}

func printNotice(w io.Writer, view customers.View) {
	if view.Notice != "" {
		fmt.Fprintln(w, noticeStyle.Render(view.Notice))
	}
}

func renderTable(records []domain.Enriched) string {
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		ref := r.ReferenceDate
		if ref == "" {
			ref = due.NotApplicable
		}
		dueText := due.NotApplicable
		if r.DateKnown {
			dueText = due.FormatDate(r.DueDate)
		}
		rows = append(rows, []string{
			strconv.Itoa(r.Code), r.Description, r.Status, ref, dueText, due.StatusText(r), r.Phone,
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Código", "Nombre", "Tipo", "Referencia", "Vence", "Estado", "Teléfono").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}
