package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"github.com/iho/caja/internal/domain"
)

// formatMoney renders amount with the currency's symbol and minor units.
// Unknown currencies fall back to "<amount> <code>".
func formatMoney(amount decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return domain.RoundMoney(amount).StringFixed(domain.MoneyPlaces) + " " + currency
	}

	minor := domain.RoundMoney(amount).Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}

// formatMoneyString formats an API money string, passing unparsable values through.
func formatMoneyString(amount, currency string) string {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return amount
	}
	return formatMoney(d, currency)
}

func parseDecimal(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	if err := domain.ValidatePrecision(d); err != nil {
		return decimal.Zero, fmt.Errorf("invalid --%s %q: %w", name, value, err)
	}
	return d, nil
}

func renderMarkdown(w io.Writer, markdown, style string) error {
	option := glamour.WithStandardStyle(style)
	if style == "" || style == "auto" {
		option = glamour.WithAutoStyle()
	}

	renderer, err := glamour.NewTermRenderer(option, glamour.WithWordWrap(100))
	if err != nil {
		return err
	}

	out, err := renderer.Render(markdown)
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, out)
	return err
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
