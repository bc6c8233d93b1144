// Package explain produces streamed natural-language explanations of a plan.
package explain

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/interfaces"
	"github.com/bobmcallan/saveplan/internal/models"
)

// Service implements ExplainService
type Service struct {
	streamer interfaces.CompletionStreamer
	cache    interfaces.ExplanationCache
	ttl      time.Duration
	logger   *common.Logger
	// inflight joins concurrent requests for the same plan onto one stream
	inflight singleflight.Group
}

// NewService creates a new explain service. A nil streamer yields
// ErrNotConfigured on every call.
func NewService(streamer interfaces.CompletionStreamer, cache interfaces.ExplanationCache, ttl time.Duration, logger *common.Logger) *Service {
	return &Service{
		streamer: streamer,
		cache:    cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Explain streams an explanation of result, calling onDelta with the
// accumulated text after every fragment. Finished explanations are memoised by
// content, and a cached one is delivered through a single onDelta call.
// Concurrent requests for the same plan share one provider stream.
func (s *Service) Explain(ctx context.Context, req *models.OptimizationRequest, result *models.OptimizationResult, onDelta func(text string)) (string, error) {
	if s.streamer == nil {
		return "", ErrNotConfigured
	}
	if req == nil || result == nil || len(result.Investments) == 0 {
		return "", ErrMissingData
	}
	if onDelta == nil {
		onDelta = func(string) {}
	}

	key := CacheKey(req, result)
	if s.cache != nil {
		if text, ok := s.cache.Get(ctx, key); ok {
			s.logger.Debug().Str("key", key[:12]).Msg("Explanation served from cache")
			onDelta(text)
			return text, nil
		}
	}

	led := false
	v, err, _ := s.inflight.Do(key, func() (interface{}, error) {
		led = true
		return s.stream(ctx, key, req, result, onDelta)
	})
	text := v.(string)
	if !led && err == nil {
		// Joined another caller's stream; deliver the finished text at once
		onDelta(text)
	}
	return text, err
}

// stream runs one provider completion and caches it on success.
func (s *Service) stream(ctx context.Context, key string, req *models.OptimizationRequest, result *models.OptimizationResult, onDelta func(string)) (string, error) {
	var b strings.Builder
	for delta, err := range s.streamer.StreamCompletion(ctx, systemPrompt, buildPrompt(req, result)) {
		if err != nil {
			s.logger.Warn().Err(err).Msg("Explanation stream failed")
			return b.String(), &StreamError{Err: err}
		}
		b.WriteString(delta)
		onDelta(b.String())
	}

	text := b.String()
	if s.cache != nil && text != "" {
		if err := s.cache.Set(ctx, key, text, s.ttl); err != nil {
			s.logger.Warn().Err(err).Msg("Failed to cache explanation")
		}
	}
	return text, nil
}

// cacheKeyInput is the memoisation identity of an explanation.
type cacheKeyInput struct {
	Inputs      *models.OptimizationRequest `json:"inputs"`
	Summary     *models.Summary             `json:"summary"`
	Investments []models.Investment         `json:"investments"`
}

// CacheKey hashes the JSON of (inputs, summary, investments). Session ids are
// excluded so identical plans from different visits share an entry.
func CacheKey(req *models.OptimizationRequest, result *models.OptimizationResult) string {
	inputs := *req
	inputs.SessionID = ""
	inputs.BatchID = ""
	data, _ := json.Marshal(cacheKeyInput{
		Inputs:      &inputs,
		Summary:     result.Summary,
		Investments: result.Investments,
	})
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
