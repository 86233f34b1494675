package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/yangwenmai/herogen/internal/config"
	"github.com/yangwenmai/herogen/internal/store"
)

var errHistoryDisabled = errors.New("run history is disabled; set HISTORY_DB or --history-db")

// history prints the most recent runs, newest first.
func history(ctx context.Context, cfg config.Config, stdout io.Writer) error {
	if !cfg.HistoryEnabled() {
		return errHistoryDisabled
	}
	s, err := store.Open(cfg.HistoryDB)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(ctx, cfg.HistoryLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(stdout, "no runs recorded")
		return nil
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "STARTED\tVARIANT\tDURATION\tARTIFACT\tFAILURE")
	for _, r := range runs {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format(time.DateTime),
			r.Variant,
			r.Duration().Round(time.Millisecond),
			r.ArtifactPath,
			r.FailureReason,
		)
	}
	return tw.Flush()
}
