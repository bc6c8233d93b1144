package server

import (
	"errors"
	"net/http"

	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/explain"
	"github.com/bobmcallan/saveplan/internal/sse"
)

// explainRequest is the body of POST /api/explain and the report endpoints.
type explainRequest struct {
	Inputs      *models.OptimizationRequest `json:"inputs"`
	Result      *models.OptimizationResult  `json:"result"`
	Explanation string                      `json:"explanation,omitempty"`
}

// textEvent is one relayed explanation update.
type textEvent struct {
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// handleExplain handles POST /api/explain. The explanation is relayed as an
// event stream with the accumulated text in each event, ending with [DONE].
// Failures before the first fragment are plain JSON errors.
func (s *Server) handleExplain(w http.ResponseWriter, r *http.Request) {
	var body explainRequest
	if !DecodeJSON(w, r, &body) {
		return
	}

	var stream *sse.Writer
	onDelta := func(text string) {
		if stream == nil {
			stream = sse.NewWriter(w)
		}
		if err := stream.Data(textEvent{Text: text}); err != nil {
			s.logger.Debug().Err(err).Msg("Explanation client went away")
		}
	}

	_, err := s.app.ExplainService.Explain(r.Context(), body.Inputs, body.Result, onDelta)
	if err != nil && stream == nil {
		status := http.StatusBadGateway
		switch {
		case errors.Is(err, explain.ErrNotConfigured):
			status = http.StatusServiceUnavailable
		case errors.Is(err, explain.ErrMissingData):
			status = http.StatusBadRequest
		}
		WriteError(w, status, explain.UserMessage(err))
		return
	}

	if stream == nil {
		stream = sse.NewWriter(w)
	}
	if err != nil {
		if werr := stream.Data(textEvent{Error: explain.UserMessage(err)}); werr != nil {
			s.logger.Debug().Err(werr).Msg("Failed to relay explanation error")
		}
	}
	if werr := stream.Done(); werr != nil {
		s.logger.Debug().Err(werr).Msg("Failed to end explanation stream")
	}
}
