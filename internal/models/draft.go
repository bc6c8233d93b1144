package models

// Input modes of the savings form.
const (
	ModeSimple    = "simple"
	ModeBreakdown = "breakdown"
)

// DraftGoal is one row of the breakdown form, kept as typed text.
type DraftGoal struct {
	Amount  string `json:"amount"`
	Horizon string `json:"horizon"`
}

// Draft is the in-progress savings form, stored as the user typed it.
type Draft struct {
	Mode               string      `json:"mode"`
	Earnings           string      `json:"earnings"`
	TotalSavings       string      `json:"total_savings"`
	Goals              []DraftGoal `json:"goals,omitempty"`
	ISAAllowanceUsed   string      `json:"isa_allowance_used"`
	OtherSavingsIncome string      `json:"other_savings_income,omitempty"`
}

// StoredDraft is the persisted envelope; Timestamp is Unix epoch milliseconds.
type StoredDraft struct {
	Form      Draft `json:"form"`
	Timestamp int64 `json:"timestamp"`
}
