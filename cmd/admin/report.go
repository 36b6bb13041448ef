package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"bizledger/internal/domain/ledger"
	"bizledger/internal/domain/report"
	"bizledger/internal/infrastructure/postgres"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the income statement of a business",
	Example: `  # This month's report as text
  admin report --business-id=<id>

  # Last month as CSV
  admin report --business-id=<id> --period=last_month --format=csv

  # A custom range, end date exclusive
  admin report --business-id=<id> --period=custom --start=2024-01-01 --end=2024-04-01`,
	RunE: runReport,
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().String("business-id", "", "Business to report on (required)")
	reportCmd.Flags().String("period", report.PeriodThisMonth, "Period token (today, this_week, last_7_days, this_month, last_month, this_year, last_year, all_time, custom)")
	reportCmd.Flags().String("start", "", "Start date for --period=custom (YYYY-MM-DD)")
	reportCmd.Flags().String("end", "", "End date for --period=custom (YYYY-MM-DD, exclusive)")
	reportCmd.Flags().String("format", "text", "Output format: text, csv or json")
	_ = reportCmd.MarkFlagRequired("business-id")
}

func runReport(cmd *cobra.Command, args []string) error {
	businessID, _ := cmd.Flags().GetString("business-id")
	token, _ := cmd.Flags().GetString("period")
	start, _ := cmd.Flags().GetString("start")
	end, _ := cmd.Flags().GetString("end")
	format, _ := cmd.Flags().GetString("format")

	format = strings.ToLower(format)
	switch format {
	case "text", "csv", "json":
	default:
		return fmt.Errorf("unsupported format %q", format)
	}

	ctx, cancel := commandContext(cmd)
	defer cancel()

	db, err := openDB()
	if err != nil {
		return err
	}
	defer db.Close()

	service := report.NewService(
		postgres.NewTransactionRepository(db),
		postgres.NewInvoiceRepository(db),
		postgres.NewProductRepository(db),
		postgres.NewCustomerRepository(db),
		ledger.Options{IncludeIncomeTransactions: cfg.Reporting.IncludeIncomeTransactions},
		cfg.Reporting.Location,
	)

	period, err := service.Resolve(token, start, end)
	if err != nil {
		return err
	}

	rep, err := service.Build(ctx, businessID, period)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "csv":
		body, err := report.FormatCSV(rep)
		if err != nil {
			return err
		}
		_, err = out.Write(body)
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(rep)
	default:
		_, err = fmt.Fprint(out, report.FormatText(rep, cfg.Reporting.CurrencySymbol))
		return err
	}
}
