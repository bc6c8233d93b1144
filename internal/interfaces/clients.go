// Package interfaces defines service contracts for saveplan
package interfaces

import (
	"context"
	"iter"

	"github.com/bobmcallan/saveplan/internal/models"
)

// OptimizerClient talks to the external savings optimisation backend
type OptimizerClient interface {
	// Optimize requests an allocation for one set of inputs
	Optimize(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationResult, error)

	// SendEmail asks the backend to email a plan to the user
	SendEmail(ctx context.Context, req *models.EmailRequest) error

	// SubmitFeedback posts a feedback form for a plan
	SubmitFeedback(ctx context.Context, fb *models.FeedbackSubmission) error
}

// CompletionStreamer produces incremental text for a prompt.
// The sequence ends after the last delta; a non-nil error ends it early.
type CompletionStreamer interface {
	StreamCompletion(ctx context.Context, system, prompt string) iter.Seq2[string, error]
}
