package server

import (
	"net/http"
	"regexp"

	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/form"
)

// handleHealth responds to GET /api/health with {"status":"ok"}.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleVersion responds to GET /api/version with version info.
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]string{
		"version": common.GetVersion(),
		"build":   common.GetBuild(),
		"commit":  common.GetGitCommit(),
	})
}

// planRequest is the body of POST /api/plan. Either the typed request or the
// raw form text may be given; form text is validated field by field.
type planRequest struct {
	Mode    string                      `json:"mode"`
	Request *models.OptimizationRequest `json:"request,omitempty"`
	Form    *models.Draft               `json:"form,omitempty"`
}

// handlePlan handles POST /api/plan.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var body planRequest
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.Mode == "" {
		body.Mode = models.ModeSimple
	}
	if body.Mode != models.ModeSimple && body.Mode != models.ModeBreakdown {
		WriteError(w, http.StatusBadRequest, "mode must be simple or breakdown")
		return
	}

	var draft models.Draft
	switch {
	case body.Form != nil:
		draft = *body.Form
	case body.Request != nil:
		draft = form.FromRequest(body.Mode, body.Request)
	default:
		WriteError(w, http.StatusBadRequest, "request or form is required")
		return
	}
	draft.Mode = body.Mode

	req, err := form.ToRequest(&draft)
	if err != nil {
		writeServiceError(w, err, "")
		return
	}
	if body.Request != nil {
		req.SessionID = body.Request.SessionID
		req.BatchID = body.Request.BatchID
	}

	var result *models.OptimizationResult
	if body.Mode == models.ModeBreakdown {
		result, err = s.app.PlanService.Breakdown(r.Context(), req)
	} else {
		result, err = s.app.PlanService.Simple(r.Context(), req)
	}
	if err != nil {
		WriteError(w, http.StatusBadGateway, "Failed to build plan")
		return
	}
	WriteJSON(w, http.StatusOK, result)
}

// validSessionID bounds the session ids accepted as draft storage scopes.
var validSessionID = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// requireSession returns the caller's session id, or writes 400 when the
// request has none. Drafts and the share flag are stored per session.
func requireSession(w http.ResponseWriter, r *http.Request) (string, bool) {
	sess := common.SessionFromContext(r.Context())
	if sess == nil || !validSessionID.MatchString(sess.SessionID) {
		WriteError(w, http.StatusBadRequest, headerSessionID+" header is required")
		return "", false
	}
	return sess.SessionID, true
}

// handleDraftGet handles GET /api/draft. An edit still inside its autosave
// delay is returned ahead of the stored draft.
func (s *Server) handleDraftGet(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	if d, ok := s.app.Autosaver.Pending(id); ok {
		WriteJSON(w, http.StatusOK, d)
		return
	}
	d, err := s.app.Drafts.Load(r.Context())
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to load form draft")
		WriteError(w, http.StatusInternalServerError, "Failed to load draft")
		return
	}
	if d == nil {
		WriteError(w, http.StatusNotFound, "No saved draft")
		return
	}
	WriteJSON(w, http.StatusOK, d)
}

// handleDraftPut handles PUT /api/draft. The draft is written once the
// session's edits pause for the autosave delay.
func (s *Server) handleDraftPut(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	var d models.Draft
	if !DecodeJSON(w, r, &d) {
		return
	}
	s.app.Autosaver.Edit(id, d)
	w.WriteHeader(http.StatusAccepted)
}

// handleDraftDelete handles DELETE /api/draft.
func (s *Server) handleDraftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireSession(w, r)
	if !ok {
		return
	}
	s.app.Autosaver.Discard(id)
	if err := s.app.Drafts.Clear(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to clear draft")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSharePromptGet handles GET /api/share-prompt.
func (s *Server) handleSharePromptGet(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	dismissed, err := s.app.Drafts.ShareDismissed(r.Context())
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to read share prompt state")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"dismissed": dismissed})
}

// handleSharePromptDismiss handles POST /api/share-prompt.
func (s *Server) handleSharePromptDismiss(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireSession(w, r); !ok {
		return
	}
	if err := s.app.Drafts.DismissShare(r.Context()); err != nil {
		WriteError(w, http.StatusInternalServerError, "Failed to save share prompt state")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]bool{"dismissed": true})
}

// handleFeedback handles POST /api/feedback.
func (s *Server) handleFeedback(w http.ResponseWriter, r *http.Request) {
	var fb models.FeedbackSubmission
	if !DecodeJSON(w, r, &fb) {
		return
	}
	if err := s.app.FeedbackService.Submit(r.Context(), &fb); err != nil {
		writeServiceError(w, err, "We couldn't send your feedback. Please try again.")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "submitted"})
}

// handleEmail handles POST /api/email.
func (s *Server) handleEmail(w http.ResponseWriter, r *http.Request) {
	var req models.EmailRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	if sess := common.SessionFromContext(r.Context()); sess != nil {
		if req.SessionID == "" {
			req.SessionID = sess.SessionID
		}
		if req.BatchID == "" {
			req.BatchID = sess.BatchID
		}
	}
	if err := s.app.FeedbackService.EmailResults(r.Context(), &req); err != nil {
		writeServiceError(w, err, "We couldn't email your plan. Please try again.")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
