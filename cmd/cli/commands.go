package main

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/iho/ctacte/internal/adapter/http/dto"
	"github.com/iho/ctacte/internal/adapter/http/middleware"
	"github.com/iho/ctacte/internal/adapter/importfile"
	"github.com/iho/ctacte/internal/infrastructure/postgres"
)

// errInconsistent makes `balances check` exit non-zero.
var errInconsistent = errors.New("stored balances differ from the ledger")

const listPreview = 20

func importCmd(opts *options) *cobra.Command {
	var (
		fromDate       string
		idempotencyKey string
	)

	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Import a delivery-note export (CSV)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := importfile.ReadFile(args[0])
			if err != nil {
				return err
			}
			log := cliLogger(cmd)
			log.Info().Int("rows", len(rows)).Str("file", args[0]).Msg("file read")

			req := dto.ImportRequest{
				Rows:   make([]map[string]any, 0, len(rows)),
				Source: filepath.Base(args[0]),
			}
			for _, row := range rows {
				req.Rows = append(req.Rows, map[string]any(row))
			}
			if fromDate != "" {
				d, err := dto.ParseDate(fromDate)
				if err != nil {
					return err
				}
				from := dto.NewDate(d)
				req.FromDate = &from
			}

			var headers map[string]string
			if idempotencyKey != "" {
				headers = map[string]string{middleware.IdempotencyKeyHeader: idempotencyKey}
			}

			var report dto.ImportReportResponse
			if err := opts.client().post(cmd.Context(), "/imports", req, headers, &report); err != nil {
				return err
			}

			return opts.print(cmd, report, func(w io.Writer) error {
				printImportReport(w, &report)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&fromDate, "from-date", "", "Only import rows delivered on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&idempotencyKey, "idempotency-key", "", "Idempotency key for safe retries")

	return cmd
}

func printImportReport(w io.Writer, r *dto.ImportReportResponse) {
	printLine(w, "Rows read:          %d", r.RowsRead)
	printLine(w, "Rows accepted:      %d", r.RowsAccepted)
	printLine(w, "Groups processed:   %d", r.GroupsProcessed)
	printLine(w, "Orders created:     %d", r.Created)
	printLine(w, "Duplicates skipped: %d", r.DuplicatesSkipped)
	printLine(w, "Unresolved:         %d", r.Unresolved)
	printLine(w, "Warnings:           %d", r.WarningCount)
	printLine(w, "Errors:             %d", r.ErrorCount)

	printList(w, "Duplicates", r.Duplicates)
	printList(w, "Unresolved rows", r.UnresolvedRows)
	printList(w, "Warnings", r.Warnings)
	printList(w, "Errors", r.Errors)

	if r.Truncated {
		printLine(w, "\n(report lists were truncated)")
	}
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	printLine(w, "\n%s:", title)
	for i, item := range items {
		if i == listPreview {
			printLine(w, "  ... %d more", len(items)-listPreview)
			break
		}
		printLine(w, "  - %s", truncate(item, 120))
	}
}

func balanceCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Customer balance operations",
	}

	getCmd := &cobra.Command{
		Use:   "get CUSTOMER_ID",
		Short: "Show a customer's running balance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var balance dto.BalanceResponse
			if err := opts.client().get(cmd.Context(), "/customers/"+url.PathEscape(args[0])+"/balance", nil, &balance); err != nil {
				return err
			}

			return opts.print(cmd, balance, func(w io.Writer) error {
				printLine(w, "Customer: %s", balance.CustomerID)
				printLine(w, "Balance:  %s", balance.Balance.StringFixed(2))
				if balance.UpdatedAt != nil {
					printLine(w, "Updated:  %s", balance.UpdatedAt.Format("2006-01-02 15:04:05"))
				}
				return nil
			})
		},
	}

	cmd.AddCommand(getCmd)
	return cmd
}

func balancesCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "balances",
		Short: "Tenant-wide balance operations",
	}

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Compare stored balances with the movement ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var report dto.ConsistencyResponse
			if err := opts.client().get(cmd.Context(), "/balances/consistency", nil, &report); err != nil {
				return err
			}

			err := opts.print(cmd, report, func(w io.Writer) error {
				if report.Consistent {
					printLine(w, "Consistency check PASSED (%d customers)", report.CustomersChecked)
					return nil
				}

				printLine(w, "Consistency check FAILED (%d of %d customers differ)", len(report.Discrepancies), report.CustomersChecked)
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "CUSTOMER\tSTORED\tLEDGER\tDIFFERENCE")
				for _, d := range report.Discrepancies {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", d.CustomerID, d.Stored.StringFixed(2), d.FromLedger.StringFixed(2), d.Difference.StringFixed(2))
				}
				return tw.Flush()
			})
			if err != nil {
				return err
			}
			if !report.Consistent {
				return errInconsistent
			}
			return nil
		},
	}

	cmd.AddCommand(checkCmd)
	return cmd
}

func pendingCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Orders waiting for a customer",
	}

	var (
		page         int
		limit        int
		deliveryNote string
		article      string
	)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List orders assigned to a placeholder customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			query := url.Values{}
			query.Set("page", strconv.Itoa(page))
			query.Set("limit", strconv.Itoa(limit))
			if deliveryNote != "" {
				query.Set("delivery_note", deliveryNote)
			}
			if article != "" {
				query.Set("article", article)
			}

			var result dto.PageResponse[*dto.OrderResponse]
			if err := opts.client().get(cmd.Context(), "/orders/pending", query, &result); err != nil {
				return err
			}

			return opts.print(cmd, result, func(w io.Writer) error {
				tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tDATE\tNOTE\tARTICLE\tQTY\tKG\tNOTES")
				for _, o := range result.Data {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
						o.ID,
						o.DeliveryDate.Format("2006-01-02"),
						o.DeliveryNoteNo,
						truncate(o.Article, 30),
						o.Quantity.StringFixed(2),
						o.WeightKg.StringFixed(3),
						truncate(o.Notes, 40),
					)
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				printLine(w, "\nPage %d of %d (%d pending)", result.Meta.Page, result.Meta.TotalPages, result.Meta.Total)
				return nil
			})
		},
	}

	listCmd.Flags().IntVar(&page, "page", 1, "Page number")
	listCmd.Flags().IntVar(&limit, "limit", 20, "Page size (max 100)")
	listCmd.Flags().StringVar(&deliveryNote, "delivery-note", "", "Filter by delivery-note number")
	listCmd.Flags().StringVar(&article, "article", "", "Filter by article")

	cmd.AddCommand(listCmd)
	return cmd
}

func migrateCmd() *cobra.Command {
	var (
		databaseURL string
		path        string
		steps       int
	)

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Database schema migrations",
	}
	cmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection URL")
	cmd.PersistentFlags().StringVar(&path, "path", "", "Migrations directory (defaults to the embedded set)")

	requireURL := func() error {
		if databaseURL == "" {
			return errors.New("--database-url or DATABASE_URL is required")
		}
		return nil
	}

	upCmd := &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			m := postgres.NewMigrator(databaseURL, path)
			if err := m.Up(); err != nil {
				return err
			}
			return printVersion(cmd.OutOrStdout(), m)
		},
	}

	downCmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requireURL(); err != nil {
				return err
			}
			m := postgres.NewMigrator(databaseURL, path)
			if err := m.Down(steps); err != nil {
				return err
			}
			return printVersion(cmd.OutOrStdout(), m)
		},
	}
	downCmd.Flags().IntVar(&steps, "steps", 1, "Number of migrations to roll back")

	cmd.AddCommand(upCmd, downCmd)
	return cmd
}

func printVersion(w io.Writer, m *postgres.Migrator) error {
	version, dirty, err := m.Version()
	if err != nil {
		return err
	}
	if version == 0 {
		printLine(w, "Schema version: none")
		return nil
	}
	printLine(w, "Schema version: %d (dirty: %v)", version, dirty)
	return nil
}
