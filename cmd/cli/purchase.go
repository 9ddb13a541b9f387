package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/iho/caja/internal/adapter/http/dto"
)

func purchaseCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record produce purchases",
	}

	cmd.AddCommand(purchaseCreateCmd(opts))

	return cmd
}

func purchaseCreateCmd(opts *rootOptions) *cobra.Command {
	var sessionID, supplier, product, gross, deduction, price string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Weigh, price and record a purchase",
		Long: `Records a purchase from scale readings. When --session is set the total
is paid out of that drawer as an outflow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := parseDecimal("gross", gross)
			if err != nil {
				return err
			}
			d, err := parseDecimal("deduction", deduction)
			if err != nil {
				return err
			}
			p, err := parseDecimal("price", price)
			if err != nil {
				return err
			}

			req := dto.CreatePurchaseRequest{
				Supplier: supplier,
				Product:  product,
				QuoteRequest: dto.QuoteRequest{
					GrossWeight:     g,
					DeductionWeight: d,
					UnitPrice:       p,
				},
			}
			if sessionID != "" {
				req.SessionID = &sessionID
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), opts.timeout)
			defer cancel()

			var purchase dto.PurchaseResponse
			if err := newAPIClient(opts).post(ctx, "/api/v1/purchases", req, &purchase); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Purchase: %s\n", purchase.ID)
			fmt.Fprintf(w, "Net:      %s\n", purchase.NetWeight)
			fmt.Fprintf(w, "Price:    %s\n", purchase.UnitPrice)
			fmt.Fprintf(w, "Total:    %s\n", formatMoneyString(purchase.Total, opts.currency))
			if purchase.SessionID != nil {
				fmt.Fprintf(w, "Paid from session %s\n", *purchase.SessionID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionID, "session", "", "Pay from this open cash session")
	cmd.Flags().StringVar(&supplier, "supplier", "", "Supplier name")
	cmd.Flags().StringVar(&product, "product", "", "Product name")
	cmd.Flags().StringVar(&gross, "gross", "", "Gross weight")
	cmd.Flags().StringVar(&deduction, "deduction", "0", "Weight deduction")
	cmd.Flags().StringVar(&price, "price", "", "Unit price")
	for _, name := range []string{"supplier", "product", "gross", "price"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}
