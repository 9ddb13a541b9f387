package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iho/caja/internal/domain"
)

func calcCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "calc",
		Short: "Offline drawer and scale arithmetic",
		Long:  `Runs the calculation engine locally without contacting the API.`,
	}

	cmd.AddCommand(
		calcExpectedCmd(),
		calcDifferenceCmd(),
		calcNetWeightCmd(),
		calcTotalCmd(),
		calcLoanBalanceCmd(),
	)

	return cmd
}

func calcExpectedCmd() *cobra.Command {
	var initial, inflows, outflows string

	cmd := &cobra.Command{
		Use:   "expected",
		Short: "Expected drawer balance: initial + inflows - outflows",
		RunE: func(cmd *cobra.Command, args []string) error {
			i, err := parseDecimal("initial", initial)
			if err != nil {
				return err
			}
			in, err := parseDecimal("inflows", inflows)
			if err != nil {
				return err
			}
			out, err := parseDecimal("outflows", outflows)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), domain.ExpectedBalance(i, in, out).StringFixed(domain.MoneyPlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&initial, "initial", "0", "Opening float")
	cmd.Flags().StringVar(&inflows, "inflows", "0", "Sum of inflows")
	cmd.Flags().StringVar(&outflows, "outflows", "0", "Sum of outflows")

	return cmd
}

func calcDifferenceCmd() *cobra.Command {
	var counted, expected string

	cmd := &cobra.Command{
		Use:   "difference",
		Short: "Arqueo difference: counted - expected",
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := parseDecimal("counted", counted)
			if err != nil {
				return err
			}
			e, err := parseDecimal("expected", expected)
			if err != nil {
				return err
			}

			diff := domain.Difference(c, e)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", diff.StringFixed(domain.MoneyPlaces), domain.ClassifyDifference(diff))
			return nil
		},
	}

	cmd.Flags().StringVar(&counted, "counted", "", "Physically counted cash")
	cmd.Flags().StringVar(&expected, "expected", "", "Expected balance")
	_ = cmd.MarkFlagRequired("counted")
	_ = cmd.MarkFlagRequired("expected")

	return cmd
}

func calcNetWeightCmd() *cobra.Command {
	var gross, deduction string

	cmd := &cobra.Command{
		Use:   "net-weight",
		Short: "Net weight: gross - deduction, one decimal",
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseDecimal("gross", gross)
			if err != nil {
				return err
			}
			d, err := parseDecimal("deduction", deduction)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), domain.NetWeight(g, d).StringFixed(domain.WeightPlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&gross, "gross", "", "Gross scale reading")
	cmd.Flags().StringVar(&deduction, "deduction", "0", "Tare, moisture or impurity deduction")
	_ = cmd.MarkFlagRequired("gross")

	return cmd
}

func calcTotalCmd() *cobra.Command {
	var weight, price string

	cmd := &cobra.Command{
		Use:   "total",
		Short: "Transaction total: weight x unit price",
		RunE: func(cmd *cobra.Command, args []string) error {
			w, err := parseDecimal("weight", weight)
			if err != nil {
				return err
			}
			p, err := parseDecimal("price", price)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), domain.TransactionTotal(w, p).StringFixed(domain.MoneyPlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&weight, "weight", "", "Net weight")
	cmd.Flags().StringVar(&price, "price", "", "Unit price")
	_ = cmd.MarkFlagRequired("weight")
	_ = cmd.MarkFlagRequired("price")

	return cmd
}

func calcLoanBalanceCmd() *cobra.Command {
	var balance, amount, kind string

	cmd := &cobra.Command{
		Use:   "loan-balance",
		Short: "Loan balance after a disbursement or repayment",
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := parseDecimal("balance", balance)
			if err != nil {
				return err
			}
			a, err := parseDecimal("amount", amount)
			if err != nil {
				return err
			}

			k := domain.MovementKind(kind)
			if !k.IsValid() {
				return fmt.Errorf("invalid --kind %q: %w", kind, domain.ErrInvalidMovementKind)
			}

			result := domain.LoanBalanceAfter(b, a, k == domain.MovementKindDisbursement)
			fmt.Fprintln(cmd.OutOrStdout(), result.StringFixed(domain.MoneyPlaces))
			return nil
		},
	}

	cmd.Flags().StringVar(&balance, "balance", "0", "Current loan balance")
	cmd.Flags().StringVar(&amount, "amount", "", "Movement amount")
	cmd.Flags().StringVar(&kind, "kind", string(domain.MovementKindDisbursement), "disbursement or repayment")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}
