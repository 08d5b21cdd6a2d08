package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/culler"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/state"
)

func newCheckCmd(o *options) *cobra.Command {
	var (
		concurrency int
		timeout     time.Duration
		prune       bool
	)

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Check every bookmark URL for dead links",
		Long: `Request every bookmark URL and report the ones that are dead (404 or
410), unreachable, or possibly private (a 404 on a domain listed in
cullExcludeDomains). With --prune dead bookmarks are deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := o.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			opts := culler.Options{
				Concurrency:    e.cfg.CullConcurrency,
				Timeout:        e.cfg.CullTimeout.Std(),
				ExcludeDomains: e.cfg.CullExcludeDomains,
			}
			if cmd.Flags().Changed("concurrency") {
				opts.Concurrency = concurrency
			}
			if cmd.Flags().Changed("timeout") {
				opts.Timeout = timeout
			}

			bookmarks := e.state.Snapshot().Bookmarks
			errOut := cmd.ErrOrStderr()
			start := time.Now()
			results := culler.New(opts, e.log).Check(ctx, bookmarks, func(done, total int) {
				fmt.Fprintf(errOut, "\rChecking %d/%d", done, total)
			})
			if len(results) > 0 {
				fmt.Fprintln(errOut)
			}

			out := cmd.OutOrStdout()
			for _, r := range results {
				if r.Status == culler.Healthy {
					continue
				}
				detail := r.Error
				if r.StatusCode != 0 {
					detail = fmt.Sprintf("HTTP %d", r.StatusCode)
				}
				fmt.Fprintf(out, "%-11s %s  %s  %s (%s)\n",
					r.Status, shortID(r.Bookmark.ID), r.Bookmark.Title, r.Bookmark.URL, detail)
			}

			sum := culler.Summarize(results)
			fmt.Fprintf(out, "%d checked: %d healthy, %d dead, %d unreachable, %d possibly private\n",
				len(results), sum[culler.Healthy], sum[culler.Dead], sum[culler.Unreachable], sum[culler.PossiblyPrivate])
			e.log.Info("check finished",
				logger.Int("checked", len(results)),
				logger.Int("dead", sum[culler.Dead]),
				logger.Duration("took", time.Since(start)))

			if !prune {
				return nil
			}
			dead := culler.Filter(results, culler.Dead)
			for _, r := range dead {
				if err := e.state.Dispatch(ctx, state.DeleteBookmark{ID: r.Bookmark.ID}); err != nil {
					return fmt.Errorf("prune %s: %w", r.Bookmark.URL, err)
				}
			}
			fmt.Fprintf(out, "Pruned %d dead bookmarks\n", len(dead))
			return nil
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 10, "parallel requests (default from config)")
	cmd.Flags().DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout (default from config)")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete dead bookmarks")
	return cmd
}
