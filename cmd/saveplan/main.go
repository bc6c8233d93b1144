// Command saveplan runs the savings planner from the terminal: it validates the
// inputs, fetches the best plan, and optionally explains, exports, emails,
// and rates it.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/bobmcallan/saveplan/internal/app"
	"github.com/bobmcallan/saveplan/internal/models"
	"github.com/bobmcallan/saveplan/internal/services/progress"
)

// goalFlags collects repeated -goal amount:months values.
type goalFlags []models.DraftGoal

func (g *goalFlags) String() string {
	parts := make([]string, len(*g))
	for i, goal := range *g {
		parts[i] = goal.Amount + ":" + goal.Horizon
	}
	return strings.Join(parts, ",")
}

func (g *goalFlags) Set(v string) error {
	amount, horizon, ok := strings.Cut(v, ":")
	if !ok {
		return fmt.Errorf("goal must be amount:months, got %q", v)
	}
	*g = append(*g, models.DraftGoal{Amount: strings.TrimSpace(amount), Horizon: strings.TrimSpace(horizon)})
	return nil
}

// options are the parsed command-line flags.
type options struct {
	configPath string
	draft      models.Draft
	resume     bool
	explain    bool
	pdfPath    string
	chartPath  string
	email      string
	nps        int
	useful     string
	improve    string
	// loading screen overrides, used by tests
	progressOpts []progress.Option
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	fs := flag.NewFlagSet("saveplan", flag.ContinueOnError)
	fs.SetOutput(stderr)

	var o options
	var goals goalFlags
	fs.StringVar(&o.configPath, "config", "", "path to saveplan.toml")
	fs.StringVar(&o.draft.Earnings, "earnings", "", "annual earnings before tax")
	fs.StringVar(&o.draft.TotalSavings, "savings", "", "total amount to save (simple mode)")
	fs.Var(&goals, "goal", "savings goal as amount:months, repeatable (breakdown mode)")
	fs.StringVar(&o.draft.ISAAllowanceUsed, "isa-used", "0", "ISA allowance already used this tax year")
	fs.StringVar(&o.draft.OtherSavingsIncome, "other-income", "", "other savings interest this year")
	fs.BoolVar(&o.resume, "resume", false, "resume from the saved draft when no inputs are given")
	fs.BoolVar(&o.explain, "explain", false, "stream an AI explanation of the plan")
	fs.StringVar(&o.pdfPath, "pdf", "", "write the plan as PDF to this path")
	fs.StringVar(&o.chartPath, "chart", "", "write an allocation chart PNG to this path")
	fs.StringVar(&o.email, "email", "", "email the plan to this address")
	fs.IntVar(&o.nps, "nps", -1, "how likely are you to recommend us, 0-10")
	fs.StringVar(&o.useful, "useful", "", "was the plan useful: yes, somewhat or no")
	fs.StringVar(&o.improve, "improve", "", "what could be better")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	o.draft.Goals = goals
	o.draft.Mode = models.ModeSimple
	if len(goals) > 0 {
		o.draft.Mode = models.ModeBreakdown
	}
	return &o, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		os.Exit(2)
	}

	a, err := app.NewApp(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize app: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, a, opts, os.Stdout, os.Stderr)
	stop()
	a.Close()
	os.Exit(code)
}
