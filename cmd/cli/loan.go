package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/iho/caja/internal/adapter/http/dto"
)

func loanCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loan",
		Short: "Manage supplier loans",
	}

	cmd.AddCommand(loanMoveCmd(opts))

	return cmd
}

func loanMoveCmd(opts *rootOptions) *cobra.Command {
	var kind, amount, note string

	cmd := &cobra.Command{
		Use:   "move <loan-id>",
		Short: "Record a disbursement or repayment against a loan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := parseDecimal("amount", amount)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var movement dto.LoanMovementResponse
			path := "/api/v1/loans/" + url.PathEscape(args[0]) + "/movements"
			err = newAPIClient(opts).post(ctx, path, dto.LoanMovementRequest{
				Kind:   kind,
				Amount: a,
				Note:   note,
			}, &movement)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s -> %s\n",
				movement.Kind,
				formatMoneyString(movement.Amount, opts.currency),
				formatMoneyString(movement.PreviousBalance, opts.currency),
				formatMoneyString(movement.ResultingBalance, opts.currency),
			)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", "", "disbursement or repayment")
	cmd.Flags().StringVar(&amount, "amount", "", "Movement amount")
	cmd.Flags().StringVar(&note, "note", "", "Free-text note")
	_ = cmd.MarkFlagRequired("kind")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
