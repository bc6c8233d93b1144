// Package feedback validates and forwards post-plan feedback and email requests.
package feedback

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/form"
)

// Field names used in validation errors.
const (
	FieldNPS    = "nps_score"
	FieldUseful = "useful"
	FieldEmail  = "email"
)

// Service implements FeedbackService
type Service struct {
	client interfaces.OptimizerClient
	logger *common.Logger
}

// NewService creates a new feedback service
func NewService(client interfaces.OptimizerClient, logger *common.Logger) *Service {
	return &Service{client: client, logger: logger}
}

// Validate checks that both required answers are present and in range.
func Validate(fb *models.FeedbackSubmission) error {
	errs := form.FieldErrors{}
	switch {
	case fb.NPSScore == nil:
		errs[FieldNPS] = "Please choose a score from 0 to 10"
	case *fb.NPSScore < models.NPSMin || *fb.NPSScore > models.NPSMax:
		errs[FieldNPS] = fmt.Sprintf("Score must be between %d and %d", models.NPSMin, models.NPSMax)
	}
	if fb.Useful == "" {
		errs[FieldUseful] = "Please tell us whether the plan was useful"
	} else if !models.ValidUsefulRatings[fb.Useful] {
		errs[FieldUseful] = "Choose yes, somewhat or no"
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Submit validates fb and posts it. Nothing is sent when validation fails.
func (s *Service) Submit(ctx context.Context, fb *models.FeedbackSubmission) error {
	if err := Validate(fb); err != nil {
		return err
	}
	fb.Improvements = strings.TrimSpace(fb.Improvements)

	if err := s.client.SubmitFeedback(ctx, fb); err != nil {
		s.logger.Warn().Str("optimization_record_id", fb.OptimizationRecordID).Err(err).Msg("Feedback submission failed")
		return fmt.Errorf("failed to submit feedback: %w", err)
	}
	s.logger.Info().
		Str("optimization_record_id", fb.OptimizationRecordID).
		Int("nps", *fb.NPSScore).
		Str("useful", fb.Useful).
		Msg("Feedback submitted")
	return nil
}

// EmailResults validates the address and asks the backend to send the plan.
func (s *Service) EmailResults(ctx context.Context, req *models.EmailRequest) error {
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil || addr.Name != "" {
		return form.FieldErrors{FieldEmail: "Enter a valid email address"}
	}
	req.Email = addr.Address

	if err := s.client.SendEmail(ctx, req); err != nil {
		s.logger.Warn().Str("optimization_record_id", req.OptimizationRecordID).Err(err).Msg("Email request failed")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
