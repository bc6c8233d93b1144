package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/models"
)

// RenderText writes a plain-text plan summary for the terminal.
func RenderText(w io.Writer, req *models.OptimizationRequest, result *models.OptimizationResult) error {
	t := Derive(result)

	var sb strings.Builder
	sb.WriteString("Your savings plan\n")
	sb.WriteString("=================\n\n")
	if result.Mock {
		sb.WriteString("(Example plan: the optimiser could not be reached)\n\n")
	}
	if result.Horizon != nil {
		fmt.Fprintf(&sb, "Best time period: %s\n", result.Horizon)
	}
	if req != nil {
		fmt.Fprintf(&sb, "Earnings:         %s\n", common.FormatMoney(req.Earnings))
	}
	fmt.Fprintf(&sb, "Total invested:   %s across %d account(s)\n", common.FormatMoneyDecimal(t.TotalAmount), t.Accounts)
	fmt.Fprintf(&sb, "In ISAs:          %s\n", common.FormatMoneyDecimal(t.ISAAmount))
	fmt.Fprintf(&sb, "Gross interest:   %s a year (%s%%)\n", common.FormatMoneyDecimal(t.GrossInterest), t.WeightedAER.StringFixed(2))
	fmt.Fprintf(&sb, "Net interest:     %s a year (%s%%)\n", common.FormatMoneyDecimal(t.NetInterest), t.NetAER.StringFixed(2))
	if s := result.Summary; s != nil {
		fmt.Fprintf(&sb, "Tax-free allowance left: %s\n", common.FormatMoney(s.TaxFreeAllowanceRemaining))
	}
	sb.WriteString("\n")

	if _, err := io.WriteString(w, sb.String()); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ACCOUNT\tAMOUNT\tAER\tTERM\tISA\tPLATFORM")
	for _, inv := range result.Investments {
		isa := ""
		if inv.IsISA {
			isa = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			inv.AccountName, common.FormatMoney(inv.Amount), common.FormatPct(inv.AER), inv.Term, isa, inv.Platform)
	}
	return tw.Flush()
}
