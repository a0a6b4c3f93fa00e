package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"uiHarness/internal/cli/ui"
	"uiHarness/internal/database"
)

type HistoryStore interface {
	ListRuns(ctx context.Context, limit, offset int) ([]database.Run, error)
	GetRun(ctx context.Context, id uuid.UUID) (*database.Run, error)
	ListScenarioResults(ctx context.Context, runID uuid.UUID) ([]database.ScenarioResult, error)
}

// HistoryHandler prints recorded runs.
type HistoryHandler struct {
	store HistoryStore
	log   *zap.Logger
	out   io.Writer
}

func NewHistoryHandler(store HistoryStore, log *zap.Logger, out io.Writer) *HistoryHandler {
	return &HistoryHandler{
		store: store,
		log:   log,
		out:   out,
	}
}

// List prints the most recent runs.
func (h *HistoryHandler) List(ctx context.Context, limit int) error {
	runs, err := h.store.ListRuns(ctx, limit, 0)
	if err != nil {
		h.log.Error("list runs", zap.Error(err))
		return fmt.Errorf("list runs: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(h.out, ui.ColorGray+"No runs recorded yet"+ui.ColorReset)
		return nil
	}

	fmt.Fprintf(h.out, ui.ColorYellow+ui.IconList+" Recent runs (%d):"+ui.ColorReset+"\n", len(runs))
	for _, run := range runs {
		icon, color, text := ui.FormatStatus(run.Status)
		fmt.Fprintf(h.out, "  %s "+color+"%s %-7s"+ui.ColorReset+" %-6s %-9s attempts %d  %s\n",
			run.ID.String()[:8], icon, text, run.Env, run.Browser, run.Attempts,
			run.StartedAt.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// Show prints one run with its scenario results.
func (h *HistoryHandler) Show(ctx context.Context, idStr string) error {
	id, err := uuid.Parse(idStr)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Invalid run id"+ui.ColorReset)
		return fmt.Errorf("parse run id: %w", err)
	}
	run, err := h.store.GetRun(ctx, id)
	if err != nil {
		fmt.Fprintln(h.out, ui.ColorRed+ui.IconCross+" Run not found"+ui.ColorReset)
		return fmt.Errorf("get run: %w", err)
	}

	_, _, statusText := ui.FormatStatus(run.Status)
	fmt.Fprintf(h.out, "\n"+ui.ColorBold+"=== Run %s ==="+ui.ColorReset+"\n", run.ID)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconGlobe+" Env:"+ui.ColorReset+" %s, %s\n", run.Env, run.Browser)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconChart+" Status:"+ui.ColorReset+" %s (exit %d, %d attempt(s))\n", statusText, run.ExitCode, run.Attempts)
	fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Started:"+ui.ColorReset+" %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
	if run.FinishedAt != nil {
		fmt.Fprintf(h.out, ui.ColorCyan+ui.IconTime+" Took:"+ui.ColorReset+" %s\n", ui.FormatDuration(run.FinishedAt.Sub(run.StartedAt)))
	}

	results, err := h.store.ListScenarioResults(ctx, id)
	if err != nil {
		h.log.Error("list scenario results", zap.Error(err))
		return fmt.Errorf("list scenario results: %w", err)
	}
	if len(results) == 0 {
		return nil
	}

	fmt.Fprintf(h.out, "\n"+ui.ColorYellow+ui.IconLoop+" Scenarios (%d):"+ui.ColorReset+"\n", len(results))
	for _, r := range results {
		icon, color, _ := ui.FormatStatus(r.Status)
		fmt.Fprintf(h.out, "  "+color+icon+ui.ColorReset+" %s "+ui.ColorGray+"(%s)"+ui.ColorReset+"\n",
			r.Name, ui.FormatDuration(time.Duration(r.DurationMs)*time.Millisecond))
		if r.Error != "" {
			fmt.Fprintf(h.out, "      "+ui.ColorRed+"%s"+ui.ColorReset+"\n", r.Error)
		}
		if r.ScreenshotPath != "" {
			fmt.Fprintf(h.out, "      "+ui.IconCamera+" %s\n", r.ScreenshotPath)
		}
		if r.TracePath != "" {
			fmt.Fprintf(h.out, "      "+ui.IconDocument+" %s\n", r.TracePath)
		}
	}
	return nil
}
