package explain

import (
	"fmt"
	"strings"

	"github.com/bobmcallan/saveplan/internal/models"
)

const systemPrompt = "You are a friendly UK savings adviser. Explain savings plans in plain English " +
	"for a non-expert. Be concise, use short paragraphs, and do not recommend products " +
	"that are not in the plan."

// buildPrompt interpolates the inputs, summary and investments into the user prompt.
func buildPrompt(req *models.OptimizationRequest, result *models.OptimizationResult) string {
	var b strings.Builder

	b.WriteString("Explain why this savings plan was recommended.\n\n")
	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "- Annual earnings: £%.2f\n", req.Earnings)
	fmt.Fprintf(&b, "- ISA allowance already used this tax year: £%.2f\n", req.ISAAllowanceUsed)
	if req.OtherSavingsIncome > 0 {
		fmt.Fprintf(&b, "- Other savings income: £%.2f\n", req.OtherSavingsIncome)
	}
	for _, g := range req.SavingsGoals {
		fmt.Fprintf(&b, "- Goal: £%.2f for %s\n", g.Amount, g.Horizon)
	}

	if s := result.Summary; s != nil {
		b.WriteString("\nSummary:\n")
		fmt.Fprintf(&b, "- Total invested: £%.2f\n", s.TotalInvestment)
		fmt.Fprintf(&b, "- Gross annual interest: £%.2f\n", s.GrossAnnualInterest)
		fmt.Fprintf(&b, "- Net annual interest after tax: £%.2f\n", s.NetAnnualInterest)
		fmt.Fprintf(&b, "- Net effective AER: %.2f%%\n", s.NetEffectiveAER)
		fmt.Fprintf(&b, "- Tax-free allowance remaining: £%.2f\n", s.TaxFreeAllowanceRemaining)
		fmt.Fprintf(&b, "- Marginal tax rate: %.0f%%\n", s.TaxRate)
	}

	b.WriteString("\nInvestments:\n")
	for _, inv := range result.Investments {
		kind := "taxable"
		if inv.IsISA {
			kind = "ISA"
		}
		fmt.Fprintf(&b, "- %s (%s, %s): £%.2f at %.2f%% AER", inv.AccountName, kind, inv.Term, inv.Amount, inv.AER)
		if inv.Platform != "" {
			fmt.Fprintf(&b, " via %s", inv.Platform)
		}
		b.WriteString("\n")
	}

	return b.String()
}
