// Package models defines the request and response records exchanged with the
// savings optimisation backend.
package models

import (
	"fmt"
	"strconv"
)

// Horizon is the number of months a savings goal is locked away for.
type Horizon int

// Valid horizons, in months.
const (
	HorizonInstant   Horizon = 0
	HorizonOneMonth  Horizon = 1
	HorizonQuarter   Horizon = 3
	HorizonHalfYear  Horizon = 6
	HorizonOneYear   Horizon = 12
	HorizonTwoYear   Horizon = 24
	HorizonThreeYear Horizon = 36
	HorizonFiveYear  Horizon = 60
)

// Horizons is the full enumerated set, shortest first.
var Horizons = []Horizon{
	HorizonInstant, HorizonOneMonth, HorizonQuarter, HorizonHalfYear,
	HorizonOneYear, HorizonTwoYear, HorizonThreeYear, HorizonFiveYear,
}

// SimpleHorizons are the candidates scanned when the user gives a single total.
var SimpleHorizons = []Horizon{
	HorizonInstant, HorizonHalfYear, HorizonOneYear, HorizonThreeYear, HorizonFiveYear,
}

var horizonLabels = map[Horizon]string{
	HorizonInstant:   "Instant access",
	HorizonOneMonth:  "1 month",
	HorizonQuarter:   "3 months",
	HorizonHalfYear:  "6 months",
	HorizonOneYear:   "1 year",
	HorizonTwoYear:   "2 years",
	HorizonThreeYear: "3 years",
	HorizonFiveYear:  "5 years",
}

// Valid reports whether h is one of the enumerated horizons.
func (h Horizon) Valid() bool {
	_, ok := horizonLabels[h]
	return ok
}

// String returns the display label for h.
func (h Horizon) String() string {
	if l, ok := horizonLabels[h]; ok {
		return l
	}
	return strconv.Itoa(int(h)) + " months"
}

// ParseHorizon parses a month count and checks it against the enumerated set.
func ParseHorizon(s string) (Horizon, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid horizon %q", s)
	}
	h := Horizon(n)
	if !h.Valid() {
		return 0, fmt.Errorf("unsupported horizon %d months", n)
	}
	return h, nil
}

// SavingsGoal is an amount the user wants to save for a given horizon.
type SavingsGoal struct {
	Amount  float64 `json:"amount" yaml:"amount"`
	Horizon Horizon `json:"horizon" yaml:"horizon"`
}

// OptimizationRequest is the body of POST /optimize.
type OptimizationRequest struct {
	Earnings           float64       `json:"earnings"`
	SavingsGoals       []SavingsGoal `json:"savings_goals"`
	ISAAllowanceUsed   float64       `json:"isa_allowance_used"`
	OtherSavingsIncome float64       `json:"other_savings_income,omitempty"`
	SessionID          string        `json:"session_id,omitempty"`
	BatchID            string        `json:"batch_id,omitempty"`
}

// TotalSavings sums the goal amounts.
func (r *OptimizationRequest) TotalSavings() float64 {
	total := 0.0
	for _, g := range r.SavingsGoals {
		total += g.Amount
	}
	return total
}

// WithHorizon returns a copy of r holding a single goal of the total amount at h.
func (r *OptimizationRequest) WithHorizon(h Horizon) *OptimizationRequest {
	c := *r
	c.SavingsGoals = []SavingsGoal{{Amount: r.TotalSavings(), Horizon: h}}
	return &c
}

// Investment is one recommended account in a plan.
type Investment struct {
	AccountName string  `json:"account_name" yaml:"account_name"`
	Amount      float64 `json:"amount" yaml:"amount"`
	AER         float64 `json:"aer" yaml:"aer"` // annual rate, percent
	Term        string  `json:"term" yaml:"term"`
	IsISA       bool    `json:"is_isa" yaml:"is_isa"`
	Platform    string  `json:"platform,omitempty" yaml:"platform"`
	URL         string  `json:"url,omitempty" yaml:"url"`
}

// Summary is the backend's aggregate view of a plan.
type Summary struct {
	TotalInvestment           float64 `json:"total_investment" yaml:"total_investment"`
	NetAnnualInterest         float64 `json:"net_annual_interest" yaml:"net_annual_interest"`
	GrossAnnualInterest       float64 `json:"gross_annual_interest" yaml:"gross_annual_interest"`
	NetEffectiveAER           float64 `json:"net_effective_aer" yaml:"net_effective_aer"`
	TaxFreeAllowanceRemaining float64 `json:"tax_free_allowance_remaining" yaml:"tax_free_allowance_remaining"`
	TaxRate                   float64 `json:"tax_rate" yaml:"tax_rate"`
}

// OptimizationResult is the backend response, plus client-side annotations.
type OptimizationResult struct {
	Investments          []Investment `json:"investments" yaml:"investments"`
	Summary              *Summary     `json:"summary,omitempty" yaml:"summary"`
	OptimizationRecordID string       `json:"optimization_record_id,omitempty" yaml:"optimization_record_id"`

	// Horizon is the winning candidate in a simple-mode scan.
	Horizon *Horizon `json:"horizon,omitempty" yaml:"-"`
	// Mock is set when the demo payload stood in for a failed backend call.
	Mock bool `json:"mock,omitempty" yaml:"-"`
}

// NetAnnualInterest is the comparison key for best-of-N selection; a missing
// summary counts as zero.
func (r *OptimizationResult) NetAnnualInterest() float64 {
	if r == nil || r.Summary == nil {
		return 0
	}
	return r.Summary.NetAnnualInterest
}
