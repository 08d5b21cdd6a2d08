package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/httpapi"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/tabinfo"
)

func newServeCmd(o *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the local HTTP API for the browser extension",
		Long: `Serve the JSON API on a loopback address. The browser extension posts
the active tab to /api/tab and reads a prefilled draft from /api/draft.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := o.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if addr == "" {
				addr = e.cfg.ListenAddr
			}
			srv := httpapi.New(addr, httpapi.Deps{
				State:        e.state,
				Tabs:         &tabinfo.Mailbox{},
				Pages:        tabinfo.NewPageFetcher(e.cfg.CullTimeout.Std()),
				Logger:       e.log,
				StartTime:    time.Now(),
				Version:      version,
				DefaultColor: e.cfg.DefaultColor,
			})

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Start()
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-ctx.Done():
				e.log.Info("shutdown signal received")
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Stop(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
				e.log.Error("http shutdown", logger.Error(err))
				return err
			}
			return <-errCh
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}
