// Package form validates and persists the savings input form.
package form

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/bobmcallan/saveplan/internal/models"
)

// Field limits, in pounds.
var (
	MaxEarnings   = decimal.NewFromInt(10_000_000)
	MaxGoalAmount = decimal.NewFromInt(1_000_000)
	ISAAllowance  = decimal.NewFromInt(20_000)
)

var zero = decimal.Zero

// plainAmount accepts optionally negative digits with an optional fraction.
// Exponent forms are rejected: decimal rescales them to full width on compare.
var plainAmount = regexp.MustCompile(`^-?[0-9]+(\.[0-9]+)?$`)

// maxAmountLen bounds the text parsed as a decimal.
const maxAmountLen = 32

// Field names used in FieldErrors.
const (
	FieldEarnings           = "earnings"
	FieldTotalSavings       = "total_savings"
	FieldISAAllowanceUsed   = "isa_allowance_used"
	FieldOtherSavingsIncome = "other_savings_income"
	FieldGoals              = "goals"
)

// GoalField returns the FieldErrors key for part of breakdown row i.
func GoalField(i int, part string) string {
	return fmt.Sprintf("goals[%d].%s", i, part)
}

// FieldErrors maps field names to a message for that field.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fe[k])
	}
	return "invalid input: " + strings.Join(parts, "; ")
}

// Validation messages.
const (
	MsgRequired = "This field is required"
	MsgNumber   = "Enter a number"
	MsgNegative = "Must be zero or more"
	MsgHorizon  = "Choose a valid time period"
)

func msgMax(limit decimal.Decimal) string {
	return "Must be no more than £" + limit.StringFixedBank(0)
}

// parseAmount parses s as a non-negative decimal no greater than max. A zero
// max means unbounded.
func parseAmount(s string, required bool, max decimal.Decimal) (decimal.Decimal, string) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	s = strings.TrimSpace(strings.TrimPrefix(s, "£"))
	if s == "" {
		if required {
			return zero, MsgRequired
		}
		return zero, ""
	}
	if len(s) > maxAmountLen || !plainAmount.MatchString(s) {
		return zero, MsgNumber
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return zero, MsgNumber
	}
	if d.IsNegative() {
		return zero, MsgNegative
	}
	if !max.IsZero() && d.GreaterThan(max) {
		return zero, msgMax(max)
	}
	return d, ""
}

// ValidateAmount checks a single amount field; exported for field-level
// validation as the user types.
func ValidateAmount(field, value string) string {
	switch field {
	case FieldEarnings:
		_, msg := parseAmount(value, true, MaxEarnings)
		return msg
	case FieldTotalSavings:
		_, msg := parseAmount(value, true, MaxGoalAmount)
		return msg
	case FieldISAAllowanceUsed:
		_, msg := parseAmount(value, false, ISAAllowance)
		return msg
	case FieldOtherSavingsIncome:
		_, msg := parseAmount(value, false, zero)
		return msg
	}
	return ""
}

// ToRequest validates d and converts it to an OptimizationRequest. On failure
// the returned error is FieldErrors.
func ToRequest(d *models.Draft) (*models.OptimizationRequest, error) {
	errs := FieldErrors{}
	set := func(field, msg string) {
		if msg != "" {
			errs[field] = msg
		}
	}

	earnings, msg := parseAmount(d.Earnings, true, MaxEarnings)
	set(FieldEarnings, msg)
	isa, msg := parseAmount(d.ISAAllowanceUsed, false, ISAAllowance)
	set(FieldISAAllowanceUsed, msg)
	other, msg := parseAmount(d.OtherSavingsIncome, false, zero)
	set(FieldOtherSavingsIncome, msg)

	req := &models.OptimizationRequest{
		Earnings:           earnings.InexactFloat64(),
		ISAAllowanceUsed:   isa.InexactFloat64(),
		OtherSavingsIncome: other.InexactFloat64(),
	}

	switch d.Mode {
	case models.ModeBreakdown:
		if len(d.Goals) == 0 {
			errs[FieldGoals] = "Add at least one savings goal"
		}
		for i, g := range d.Goals {
			amount, msg := parseAmount(g.Amount, true, MaxGoalAmount)
			set(GoalField(i, "amount"), msg)
			h, err := models.ParseHorizon(strings.TrimSpace(g.Horizon))
			if err != nil {
				errs[GoalField(i, "horizon")] = MsgHorizon
			}
			req.SavingsGoals = append(req.SavingsGoals, models.SavingsGoal{Amount: amount.InexactFloat64(), Horizon: h})
		}
	default:
		total, msg := parseAmount(d.TotalSavings, true, MaxGoalAmount)
		set(FieldTotalSavings, msg)
		req.SavingsGoals = []models.SavingsGoal{{Amount: total.InexactFloat64(), Horizon: models.HorizonInstant}}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return req, nil
}

// FromRequest renders req back into form text, for restoring prior inputs.
func FromRequest(mode string, req *models.OptimizationRequest) models.Draft {
	d := models.Draft{
		Mode:             mode,
		Earnings:         formatAmount(req.Earnings),
		ISAAllowanceUsed: formatAmount(req.ISAAllowanceUsed),
	}
	if req.OtherSavingsIncome > 0 {
		d.OtherSavingsIncome = formatAmount(req.OtherSavingsIncome)
	}
	if mode == models.ModeBreakdown {
		for _, g := range req.SavingsGoals {
			d.Goals = append(d.Goals, models.DraftGoal{
				Amount:  formatAmount(g.Amount),
				Horizon: fmt.Sprint(int(g.Horizon)),
			})
		}
	} else {
		d.TotalSavings = formatAmount(req.TotalSavings())
	}
	return d
}

func formatAmount(v float64) string {
	return decimal.NewFromFloat(v).String()
}
