package models

// EmailRequest is the body of POST /email.
type EmailRequest struct {
	Email                string               `json:"email"`
	Inputs               *OptimizationRequest `json:"inputs"`
	Summary              *Summary             `json:"summary"`
	Investments          []Investment         `json:"investments"`
	SessionID            string               `json:"session_id,omitempty"`
	OptimizationRecordID string               `json:"optimization_record_id,omitempty"`
	BatchID              string               `json:"batch_id,omitempty"`
}
