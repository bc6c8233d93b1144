package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/saveplan/internal/app"
	"github.com/bobmcallan/saveplan/internal/common"
	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/progress"
	"github.com/bobmcallan/saveplan/internal/storage"
)

func newTestApp(t *testing.T, backend http.Handler) *app.App {
	t.Helper()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	cfg := common.NewDefaultConfig()
	cfg.Storage.Backend = storage.BackendMemory
	cfg.Clients.Optimizer.BaseURL = srv.URL

	a, err := app.New(cfg, common.NewSilentLogger())
	require.NoError(t, err)
	t.Cleanup(a.Close)
	return a
}

func okBackend(feedback *[]models.FeedbackSubmission) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/optimize", func(w http.ResponseWriter, r *http.Request) {
		var req models.OptimizationRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(models.OptimizationResult{
			Investments: []models.Investment{{AccountName: "Regular Saver", Amount: req.TotalSavings(), AER: 5, IsISA: true}},
			Summary:     &models.Summary{NetAnnualInterest: float64(req.SavingsGoals[0].Horizon)},
		})
	})
	mux.HandleFunc("/feedback", func(w http.ResponseWriter, r *http.Request) {
		var fb models.FeedbackSubmission
		json.NewDecoder(r.Body).Decode(&fb)
		if feedback != nil {
			*feedback = append(*feedback, fb)
		}
	})
	return mux
}

func parse(t *testing.T, args ...string) *options {
	t.Helper()
	o, err := parseFlags(args, io.Discard)
	require.NoError(t, err)
	o.progressOpts = []progress.Option{progress.WithMinDisplay(0)}
	return o
}

func TestParseFlags_Goals(t *testing.T) {
	o := parse(t, "-earnings", "40000", "-goal", "1000:0", "-goal", "5000 : 36")
	assert.Equal(t, models.ModeBreakdown, o.draft.Mode)
	assert.Equal(t, []models.DraftGoal{{Amount: "1000", Horizon: "0"}, {Amount: "5000", Horizon: "36"}}, o.draft.Goals)

	_, err := parseFlags([]string{"-goal", "1000"}, io.Discard)
	assert.Error(t, err)

	o = parse(t, "-earnings", "1", "-savings", "2")
	assert.Equal(t, models.ModeSimple, o.draft.Mode)
	assert.Equal(t, -1, o.nps)
}

func TestRun_SimplePlanAndFeedback(t *testing.T) {
	var feedback []models.FeedbackSubmission
	a := newTestApp(t, okBackend(&feedback))
	dir := t.TempDir()

	o := parse(t,
		"-earnings", "52000", "-savings", "12000",
		"-chart", filepath.Join(dir, "plan.png"),
		"-pdf", filepath.Join(dir, "plan.pdf"),
		"-nps", "9", "-useful", "yes",
	)
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), a, o, &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	out := stdout.String()
	assert.Contains(t, out, "Best time period: 5 years")
	assert.Contains(t, out, "Regular Saver")
	assert.Contains(t, out, "Thanks for your feedback!")
	assert.Contains(t, out, "Share saveplan")
	require.Len(t, feedback, 1)
	assert.Equal(t, 9, *feedback[0].NPSScore)

	for _, name := range []string{"plan.png", "plan.pdf"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	// Inputs were saved as a draft
	d, err := a.Drafts.Load(context.Background())
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "52000", d.Earnings)

	// Share prompt only once
	stdout.Reset()
	run(context.Background(), a, parse(t, "-earnings", "1", "-savings", "1"), &stdout, &stderr)
	assert.NotContains(t, stdout.String(), "Share saveplan")
}

func TestRun_InvalidInputs(t *testing.T) {
	a := newTestApp(t, okBackend(nil))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), a, parse(t, "-earnings", "-5", "-savings", ""), &stdout, &stderr)
	assert.Equal(t, exitInvalid, code)
	assert.Contains(t, stderr.String(), "earnings: Must be zero or more")
	assert.Contains(t, stderr.String(), "total savings: This field is required")
}

func TestRun_ResumeFromDraft(t *testing.T) {
	a := newTestApp(t, okBackend(nil))
	require.NoError(t, a.Drafts.Save(context.Background(), models.Draft{
		Mode: models.ModeSimple, Earnings: "61000", TotalSavings: "3000",
	}))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), a, parse(t, "-resume"), &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "£61,000.00")
}

func TestRun_FeedbackMissingUseful(t *testing.T) {
	var feedback []models.FeedbackSubmission
	a := newTestApp(t, okBackend(&feedback))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), a, parse(t, "-earnings", "1", "-savings", "1", "-nps", "3"), &stdout, &stderr)
	assert.Equal(t, exitError, code)
	assert.Contains(t, stderr.String(), "useful")
	assert.Empty(t, feedback)
}

func TestRun_ExplainNotConfigured(t *testing.T) {
	a := newTestApp(t, okBackend(nil))

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), a, parse(t, "-earnings", "1", "-savings", "1", "-explain"), &stdout, &stderr)
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stderr.String(), "not available")
}

func TestRun_CancelledBeforeResult(t *testing.T) {
	block := make(chan struct{})
	t.Cleanup(func() { close(block) })
	a := newTestApp(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var stdout, stderr bytes.Buffer
	code := run(ctx, a, parse(t, "-earnings", "1", "-savings", "1"), &stdout, &stderr)
	assert.Equal(t, exitCanceled, code)
	assert.NotContains(t, stdout.String(), "Your savings plan")
}

func TestRun_LoadingScreenHoldsForMinimumDisplay(t *testing.T) {
	a := newTestApp(t, okBackend(nil))
	clock := clockwork.NewFakeClock()
	a.Clock = clock

	// Default loading options: three second minimum display
	o, err := parseFlags([]string{"-earnings", "1", "-savings", "1"}, io.Discard)
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var stdout, stderr bytes.Buffer
	done := make(chan int, 1)
	go func() { done <- run(ctx, a, o, &stdout, &stderr) }()

	// The redraw ticker plus the navigation wait
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
	select {
	case <-done:
		t.Fatal("plan shown before the minimum display time")
	default:
	}

	clock.Advance(progress.DefaultMinDisplay)
	select {
	case code := <-done:
		assert.Equal(t, exitOK, code, stderr.String())
		assert.Contains(t, stdout.String(), "Your savings plan")
	case <-ctx.Done():
		t.Fatal("run did not finish after the minimum display time")
	}
}
