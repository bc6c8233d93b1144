package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bobmcallan/saveplan/internal/app"
	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/explain"
	"github.com/bobmcallan/saveplan/internal/services/form"
	"github.com/bobmcallan/saveplan/internal/services/progress"
	"github.com/bobmcallan/saveplan/internal/services/report"
)

// Exit codes.
const (
	exitOK       = 0
	exitError    = 1
	exitInvalid  = 2
	exitCanceled = 130
)

// progressInterval is how often the loading line redraws.
const progressInterval = 250 * time.Millisecond

// run executes one planning session and returns the process exit code.
func run(ctx context.Context, a *app.App, o *options, stdout, stderr io.Writer) int {
	draft, err := resolveDraft(ctx, a, o)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to load saved inputs: %v\n", err)
		return exitError
	}

	a.Autosaver.Edit(form.LocalSession, *draft)
	if err := a.Autosaver.Flush(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to save form draft")
	}

	req, err := form.ToRequest(draft)
	if err != nil {
		var fe form.FieldErrors
		if errors.As(err, &fe) {
			printFieldErrors(stderr, fe)
			return exitInvalid
		}
		fmt.Fprintln(stderr, err)
		return exitError
	}

	result, ok := fetchPlan(ctx, a, draft.Mode, req, stderr, o.progressOpts...)
	if !ok {
		fmt.Fprintln(stderr, "Cancelled.")
		return exitCanceled
	}

	if err := report.RenderText(stdout, req, result); err != nil {
		return exitError
	}

	var explanation string
	if o.explain {
		explanation = streamExplanation(ctx, a, req, result, stdout, stderr)
	}

	if o.chartPath != "" {
		if err := writeChart(o.chartPath, result); err != nil {
			fmt.Fprintf(stderr, "Failed to write chart: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stdout, "Chart written to %s\n", o.chartPath)
	}
	if o.pdfPath != "" {
		if err := writePDF(o.pdfPath, req, result, explanation, a.Clock.Now()); err != nil {
			fmt.Fprintf(stderr, "Failed to write PDF: %v\n", err)
			return exitError
		}
		fmt.Fprintf(stdout, "PDF written to %s\n", o.pdfPath)
	}

	code := exitOK
	if o.email != "" {
		if err := a.FeedbackService.EmailResults(ctx, &models.EmailRequest{
			Email:                o.email,
			Inputs:               req,
			Summary:              result.Summary,
			Investments:          result.Investments,
			SessionID:            req.SessionID,
			OptimizationRecordID: result.OptimizationRecordID,
			BatchID:              req.BatchID,
		}); err != nil {
			reportError(stderr, "email", err)
			code = exitError
		} else {
			fmt.Fprintf(stdout, "Plan emailed to %s\n", o.email)
		}
	}

	if o.nps >= 0 || o.useful != "" {
		fb := &models.FeedbackSubmission{
			OptimizationRecordID: result.OptimizationRecordID,
			Useful:               o.useful,
			Improvements:         o.improve,
		}
		if o.nps >= 0 {
			n := o.nps
			fb.NPSScore = &n
		}
		if err := a.FeedbackService.Submit(ctx, fb); err != nil {
			reportError(stderr, "feedback", err)
			code = exitError
		} else {
			fmt.Fprintln(stdout, "Thanks for your feedback!")
		}
	}

	showSharePrompt(ctx, a, stdout)
	return code
}

// resolveDraft uses the flags when any input was given, otherwise the
// stored draft if -resume is set.
func resolveDraft(ctx context.Context, a *app.App, o *options) (*models.Draft, error) {
	given := o.draft.Earnings != "" || o.draft.TotalSavings != "" || len(o.draft.Goals) > 0
	if given || !o.resume {
		return form.Restore(ctx, &o.draft, a.Drafts)
	}
	d, err := form.Restore(ctx, nil, a.Drafts)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return &o.draft, nil
	}
	return d, nil
}

// fetchPlan runs the plan request behind the loading display. It returns false
// when the user interrupts before the result may be shown.
func fetchPlan(ctx context.Context, a *app.App, mode string, req *models.OptimizationRequest, w io.Writer, opts ...progress.Option) (*models.OptimizationResult, bool) {
	tracker := progress.New(a.Clock, opts...)

	type outcome struct {
		result *models.OptimizationResult
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		var o outcome
		if mode == models.ModeBreakdown {
			o.result, o.err = a.PlanService.Breakdown(ctx, req)
		} else {
			o.result, o.err = a.PlanService.Simple(ctx, req)
		}
		done <- o
	}()

	ticker := a.Clock.NewTicker(progressInterval)
	defer ticker.Stop()

	var got outcome
	waiting := true
	for waiting {
		drawProgress(w, tracker.Snapshot())
		select {
		case <-ctx.Done():
			tracker.Cancel()
		case got = <-done:
			// A result that lands after an interrupt must not be shown
			if ctx.Err() != nil {
				tracker.Cancel()
			}
			tracker.Complete()
			waiting = false
		case <-ticker.Chan():
		}
		if tracker.Snapshot().Cancelled {
			fmt.Fprintln(w)
			return nil, false
		}
	}

	// Keep the display moving until the minimum display time has passed
	stopDraw := make(chan struct{})
	drawDone := make(chan struct{})
	go func() {
		defer close(drawDone)
		for {
			select {
			case <-stopDraw:
				return
			case <-ticker.Chan():
				drawProgress(w, tracker.Snapshot())
			}
		}
	}()
	navigate := tracker.WaitNavigate(ctx)
	close(stopDraw)
	<-drawDone
	if !navigate {
		tracker.Cancel()
		fmt.Fprintln(w)
		return nil, false
	}
	drawProgress(w, tracker.Snapshot())
	fmt.Fprint(w, "\n\n")

	if got.err != nil || got.result == nil {
		// Plan services substitute mock data, so this is unexpected
		a.Logger.Error().Err(got.err).Msg("Plan request failed")
		return nil, false
	}
	return got.result, true
}

func drawProgress(w io.Writer, s progress.Snapshot) {
	fmt.Fprintf(w, "\r\033[K%3d%%  %s  (checking %s)", s.Percent, s.StageLabel, s.Bank)
}

// streamExplanation prints the explanation as it arrives and returns the final text.
func streamExplanation(ctx context.Context, a *app.App, req *models.OptimizationRequest, result *models.OptimizationResult, stdout, stderr io.Writer) string {
	fmt.Fprint(stdout, "\nWhy this plan\n-------------\n")
	printed := 0
	text, err := a.ExplainService.Explain(ctx, req, result, func(acc string) {
		if len(acc) > printed {
			fmt.Fprint(stdout, acc[printed:])
			printed = len(acc)
		}
	})
	fmt.Fprint(stdout, "\n\n")
	if err != nil {
		fmt.Fprintln(stderr, explain.UserMessage(err))
		return ""
	}
	return text
}

func writeChart(path string, result *models.OptimizationResult) error {
	png, err := report.RenderAllocationChart(result)
	if err != nil {
		return err
	}
	return os.WriteFile(path, png, 0644)
}

func writePDF(path string, req *models.OptimizationRequest, result *models.OptimizationResult, explanation string, now time.Time) error {
	data, err := report.RenderPDF(req, result, explanation, now)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func printFieldErrors(w io.Writer, fe form.FieldErrors) {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	fmt.Fprintln(w, "Please fix the following:")
	for _, k := range keys {
		fmt.Fprintf(w, "  %s: %s\n", strings.ReplaceAll(k, "_", " "), fe[k])
	}
}

func reportError(w io.Writer, what string, err error) {
	var fe form.FieldErrors
	if errors.As(err, &fe) {
		printFieldErrors(w, fe)
		return
	}
	fmt.Fprintf(w, "Sorry, we couldn't send your %s: %v\n", what, err)
}

// showSharePrompt prints the share prompt once, then remembers it was shown.
func showSharePrompt(ctx context.Context, a *app.App, w io.Writer) {
	dismissed, err := a.Drafts.ShareDismissed(ctx)
	if err != nil || dismissed {
		return
	}
	fmt.Fprintln(w, "Found this useful? Share saveplan with a friend.")
	if err := a.Drafts.DismissShare(ctx); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to save share prompt state")
	}
}
