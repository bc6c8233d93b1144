package interfaces

import (
	"context"

	"github.com/bobmcallan/saveplan/internal/models"
)

// PlanService resolves a submission into one winning plan
type PlanService interface {
	// Simple scans the fixed candidate horizons and keeps the best plan
	Simple(ctx context.Context, proto *models.OptimizationRequest) (*models.OptimizationResult, error)

	// Breakdown sends the user's own goals as a single request
	Breakdown(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationResult, error)
}

// ExplainService writes a natural-language explanation of a plan.
// onDelta receives the accumulated text after every fragment.
type ExplainService interface {
	Explain(ctx context.Context, req *models.OptimizationRequest, result *models.OptimizationResult, onDelta func(text string)) (string, error)
}

// FeedbackService validates and forwards feedback and email requests
type FeedbackService interface {
	Submit(ctx context.Context, fb *models.FeedbackSubmission) error
	EmailResults(ctx context.Context, req *models.EmailRequest) error
}
