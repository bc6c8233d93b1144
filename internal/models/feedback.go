package models

// FeedbackSubmission is the body of POST /feedback.
// NPSScore is a pointer so an unanswered question is distinguishable from 0.
type FeedbackSubmission struct {
	OptimizationRecordID string `json:"optimization_record_id"`
	NPSScore             *int   `json:"nps_score"`
	Useful               string `json:"useful"`
	Improvements         string `json:"improvements,omitempty"`
}

// Usefulness ratings.
const (
	UsefulYes      = "yes"
	UsefulSomewhat = "somewhat"
	UsefulNo       = "no"
)

// ValidUsefulRatings is the set of allowed usefulness values.
var ValidUsefulRatings = map[string]bool{
	UsefulYes:      true,
	UsefulSomewhat: true,
	UsefulNo:       true,
}

// NPS bounds.
const (
	NPSMin = 0
	NPSMax = 10
)
