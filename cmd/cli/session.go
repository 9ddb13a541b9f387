package main

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/caja/internal/adapter/http/dto"
)

func sessionCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Open, close and report on cash sessions",
	}

	cmd.AddCommand(
		sessionOpenCmd(opts),
		sessionCloseCmd(opts),
		sessionReportCmd(opts),
	)

	return cmd
}

func sessionOpenCmd(opts *rootOptions) *cobra.Command {
	var operator, initial string

	cmd := &cobra.Command{
		Use:   "open",
		Short: "Open a cash session with an opening float",
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimal("initial", initial)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var session dto.SessionResponse
			err = newAPIClient(opts).post(ctx, "/api/v1/cash-sessions", dto.OpenSessionRequest{
				Operator:      operator,
				Currency:      opts.currency,
				InitialAmount: amount,
			}, &session)
			if err != nil {
				return err
			}

			printSession(cmd.OutOrStdout(), &session)
			return nil
		},
	}

	cmd.Flags().StringVar(&operator, "operator", "", "Cashier responsible for the drawer")
	cmd.Flags().StringVar(&initial, "initial", "0", "Opening float")
	_ = cmd.MarkFlagRequired("operator")

	return cmd
}

func sessionCloseCmd(opts *rootOptions) *cobra.Command {
	var counted, notes string

	cmd := &cobra.Command{
		Use:   "close <session-id>",
		Short: "Close a session with the physically counted cash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseDecimal("counted", counted)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var session dto.SessionResponse
			path := "/api/v1/cash-sessions/" + url.PathEscape(args[0]) + "/close"
			err = newAPIClient(opts).post(ctx, path, dto.CloseSessionRequest{
				CountedAmount: amount,
				Notes:         notes,
			}, &session)
			if err != nil {
				return err
			}

			printSession(cmd.OutOrStdout(), &session)
			return nil
		},
	}

	cmd.Flags().StringVar(&counted, "counted", "", "Counted cash in the drawer")
	cmd.Flags().StringVar(&notes, "notes", "", "Closing notes")
	_ = cmd.MarkFlagRequired("counted")

	return cmd
}

func sessionReportCmd(opts *rootOptions) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Arqueo report over recently closed sessions",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var report dto.ReconciliationReportResponse
			path := "/api/v1/cash-sessions/report?limit=" + strconv.Itoa(limit)
			if err := newAPIClient(opts).get(ctx, path, &report); err != nil {
				return err
			}

			if asJSON {
				return printJSON(cmd.OutOrStdout(), report)
			}
			return renderMarkdown(cmd.OutOrStdout(), reportMarkdown(&report, opts.currency), opts.style)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 100, "Number of closed sessions to include")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the raw JSON report")

	return cmd
}

func printSession(w io.Writer, s *dto.SessionResponse) {
	fmt.Fprintf(w, "Session:  %s\n", s.ID)
	fmt.Fprintf(w, "Operator: %s\n", s.Operator)
	fmt.Fprintf(w, "Status:   %s\n", s.Status)
	fmt.Fprintf(w, "Initial:  %s\n", formatMoneyString(s.InitialAmount, s.Currency))
	fmt.Fprintf(w, "Expected: %s\n", formatMoneyString(s.ExpectedBalance, s.Currency))
	if s.CountedAmount != nil {
		fmt.Fprintf(w, "Counted:  %s\n", formatMoneyString(*s.CountedAmount, s.Currency))
	}
	if s.Difference != nil {
		fmt.Fprintf(w, "Diff:     %s (%s)\n", formatMoneyString(*s.Difference, s.Currency), s.Reconciliation)
	}
}

// reportMarkdown renders the report as markdown. Rows use their session's
// currency; the totals, which span sessions, use currency.
func reportMarkdown(r *dto.ReconciliationReportResponse, currency string) string {
	var b strings.Builder

	b.WriteString("# Arqueo report\n\n")
	fmt.Fprintf(&b, "Checked at %s\n\n", r.CheckedAt.Format("2006-01-02 15:04 MST"))

	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Sessions | %d |\n", r.TotalSessions)
	fmt.Fprintf(&b, "| Balanced | %d |\n", r.BalancedSessions)
	fmt.Fprintf(&b, "| Surpluses | %d |\n", r.Surpluses)
	fmt.Fprintf(&b, "| Shortages | %d |\n", r.Shortages)
	fmt.Fprintf(&b, "| Total surplus | %s |\n", formatMoneyString(r.TotalSurplus, currency))
	fmt.Fprintf(&b, "| Total shortage | %s |\n", formatMoneyString(r.TotalShortage, currency))
	fmt.Fprintf(&b, "| Net difference | %s |\n", formatMoneyString(r.NetDifference, currency))

	if len(r.Discrepancies) == 0 {
		b.WriteString("\nAll drawers balanced.\n")
		return b.String()
	}

	b.WriteString("\n## Discrepancies\n\n")
	b.WriteString("| Session | Operator | Expected | Counted | Difference | Status |\n")
	b.WriteString("|---|---|---:|---:|---:|---|\n")
	for _, d := range r.Discrepancies {
		rowCurrency := d.Currency
		if rowCurrency == "" {
			rowCurrency = currency
		}

		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			markdownCell(d.SessionID),
			markdownCell(d.Operator),
			formatMoneyString(d.ExpectedBalance, rowCurrency),
			formatMoneyString(d.CountedAmount, rowCurrency),
			formatMoneyString(d.Difference, rowCurrency),
			d.Status,
		)
	}

	return b.String()
}

// markdownCell escapes text for a single markdown table cell.
func markdownCell(s string) string {
	return cellEscaper.Replace(s)
}

var cellEscaper = strings.NewReplacer(`\`, `\\`, "|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")
