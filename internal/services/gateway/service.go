// Package gateway resolves a savings submission into a single plan by calling
// the optimisation backend.
package gateway

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/bobmcallan/saveplan/internal/clients/optimizer"
	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/models"
)

// Service implements PlanService
type Service struct {
	client interfaces.OptimizerClient
	logger *common.Logger
	// fallback supplies the stand-in result for a failed call
	fallback func() *models.OptimizationResult
}

// NewService creates a new gateway service
func NewService(client interfaces.OptimizerClient, logger *common.Logger) *Service {
	return &Service{
		client:   client,
		logger:   logger,
		fallback: optimizer.MockResult,
	}
}

// Simple sends one request per candidate horizon, each holding the full total
// as a single goal, and returns the plan with the highest net annual interest.
// All requests are awaited before selection.
func (s *Service) Simple(ctx context.Context, proto *models.OptimizationRequest) (*models.OptimizationResult, error) {
	base := withIDs(ctx, proto)
	if base.BatchID == "" {
		base.BatchID = common.NewSessionID()
	}

	horizons := models.SimpleHorizons
	results := make([]*models.OptimizationResult, len(horizons))

	var g errgroup.Group
	for i, h := range horizons {
		req := base.WithHorizon(h)
		g.Go(func() error {
			results[i] = s.optimize(ctx, req)
			return nil
		})
	}
	// optimize never fails; substitution happens per request
	_ = g.Wait()

	best, idx := SelectBest(results)
	if best == nil {
		return s.fallback(), nil
	}
	h := horizons[idx]
	best.Horizon = &h

	s.logger.Info().
		Str("batch_id", base.BatchID).
		Int("horizon", int(h)).
		Float64("net_annual_interest", best.NetAnnualInterest()).
		Bool("mock", best.Mock).
		Msg("Selected best plan")

	return best, nil
}

// Breakdown sends the user's own goals as a single request.
func (s *Service) Breakdown(ctx context.Context, req *models.OptimizationRequest) (*models.OptimizationResult, error) {
	return s.optimize(ctx, withIDs(ctx, req)), nil
}

// optimize calls the backend and swaps in the fallback on any error.
func (s *Service) optimize(ctx context.Context, req *models.OptimizationRequest) *models.OptimizationResult {
	result, err := s.client.Optimize(ctx, req)
	if err != nil || result == nil {
		ev := s.logger.Warn().Str("session_id", req.SessionID)
		if len(req.SavingsGoals) == 1 {
			ev = ev.Int("horizon", int(req.SavingsGoals[0].Horizon))
		}
		ev.Err(err).Msg("Optimize failed, using mock result")
		return s.fallback()
	}
	return result
}

// SelectBest scans left to right and keeps the result whose net annual
// interest is strictly greater than the best so far. Ties keep the earliest and
// a missing summary counts as zero. Returns the winner and its index, or
// (nil, -1) when results is empty.
func SelectBest(results []*models.OptimizationResult) (*models.OptimizationResult, int) {
	var best *models.OptimizationResult
	idx := -1
	for i, r := range results {
		if r == nil {
			continue
		}
		if best == nil || r.NetAnnualInterest() > best.NetAnnualInterest() {
			best, idx = r, i
		}
	}
	return best, idx
}

// withIDs returns a copy of req with session ids filled from ctx or generated.
func withIDs(ctx context.Context, req *models.OptimizationRequest) *models.OptimizationRequest {
	c := *req
	if sess := common.SessionFromContext(ctx); sess != nil {
		if c.SessionID == "" {
			c.SessionID = sess.SessionID
		}
		if c.BatchID == "" {
			c.BatchID = sess.BatchID
		}
	}
	if c.SessionID == "" {
		c.SessionID = common.NewSessionID()
	}
	return &c
}
