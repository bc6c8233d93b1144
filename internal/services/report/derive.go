// Package report renders a finished plan for the terminal, as a chart, and as PDF.
package report

import (
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/saveplan/internal/models"
)

var hundred = decimal.NewFromInt(100)

// Totals are the figures shown for a plan, computed in decimal.
type Totals struct {
	TotalAmount   decimal.Decimal
	ISAAmount     decimal.Decimal
	Accounts      int
	GrossInterest decimal.Decimal
	NetInterest   decimal.Decimal
	// WeightedAER is the amount-weighted gross rate, in percent.
	WeightedAER decimal.Decimal
	// NetAER is the backend's net effective rate when available.
	NetAER decimal.Decimal
	// FromSummary is true when net figures come from the backend summary.
	FromSummary bool
}

// Derive computes display totals from the investments. When the result has a
// summary its net figures are used; otherwise net equals gross.
func Derive(result *models.OptimizationResult) Totals {
	var t Totals
	if result == nil {
		return t
	}

	weighted := decimal.Zero
	for _, inv := range result.Investments {
		amount := decimal.NewFromFloat(inv.Amount)
		aer := decimal.NewFromFloat(inv.AER)

		t.TotalAmount = t.TotalAmount.Add(amount)
		if inv.IsISA {
			t.ISAAmount = t.ISAAmount.Add(amount)
		}
		weighted = weighted.Add(amount.Mul(aer))
		t.Accounts++
	}

	t.GrossInterest = weighted.Div(hundred).Round(2)
	if !t.TotalAmount.IsZero() {
		t.WeightedAER = weighted.Div(t.TotalAmount).Round(3)
	}

	if s := result.Summary; s != nil {
		t.FromSummary = true
		t.NetInterest = decimal.NewFromFloat(s.NetAnnualInterest).Round(2)
		t.NetAER = decimal.NewFromFloat(s.NetEffectiveAER).Round(3)
	} else {
		t.NetInterest = t.GrossInterest
		t.NetAER = t.WeightedAER
	}
	return t
}
