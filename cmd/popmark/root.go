package main

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/picker"
	"github.com/nikbrunner/popmark/internal/search"
	"github.com/nikbrunner/popmark/internal/tabinfo"
	"github.com/nikbrunner/popmark/internal/tui"
)

// newRootCmd builds the command tree. Running it without arguments opens
// the TUI; any other words are a quick search.
func newRootCmd(o *options) *cobra.Command {
	root := &cobra.Command{
		Use:   "popmark [query]",
		Short: "Bookmark manager with a folder tree, a TUI and a local API",
		Long: `popmark keeps bookmarks in a folder tree.

Run it without arguments for the interactive TUI, or pass words to fuzzy
search titles and open the match in the browser.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		Version:      version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return runQuickSearch(cmd, o, strings.Join(args, " "))
			}
			return runTUI(cmd, o)
		},
	}

	root.PersistentFlags().StringVarP(&o.configPath, "config", "c", "", "config file (default ~/.config/popmark/config.json)")
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "", "log level: debug, info, warn, error")
	root.PersistentFlags().BoolVar(&o.ephemeral, "ephemeral", false, "keep bookmarks in memory only")

	root.AddCommand(
		newAddCmd(o),
		newRmCmd(o),
		newFavCmd(o),
		newLsCmd(o),
		newTagsCmd(o),
		newFolderCmd(o),
		newImportCmd(o),
		newExportCmd(o),
		newCheckCmd(o),
		newServeCmd(o),
	)
	return root
}

// runTUI runs the full interactive TUI. Every change is saved as it
// happens, so nothing is written on exit.
func runTUI(cmd *cobra.Command, o *options) error {
	e, err := o.open(cmd.Context(), true)
	if err != nil {
		return err
	}
	defer e.Close()

	app := tui.NewApp(tui.AppParams{
		State: e.state,
		Tabs: tabinfo.Enriched{
			Base:    tabinfo.Clipboard{},
			Fetcher: tabinfo.NewPageFetcher(5 * time.Second),
		},
		Logger:       e.log,
		DefaultColor: e.cfg.DefaultColor,
		OpenURL:      o.opener(),
	})

	e.log.Info("tui started", logger.String("backend", e.cfg.Backend))
	if _, err := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}

// runQuickSearch performs a fuzzy search and opens the selected bookmark.
func runQuickSearch(cmd *cobra.Command, o *options, query string) error {
	e, err := o.open(cmd.Context(), false)
	if err != nil {
		return err
	}
	defer e.Close()

	out := cmd.OutOrStdout()
	results := search.FuzzySearchBookmarks(e.state.Snapshot(), query)
	if len(results) == 0 {
		fmt.Fprintf(out, "No bookmarks found for '%s'\n", query)
		return nil
	}

	var selected *model.Bookmark
	if len(results) == 1 {
		// Single result - select it directly
		selected = results[0].Bookmark
		fmt.Fprintf(out, "Opening: %s\n", selected.Title)
	} else {
		p := tea.NewProgram(picker.New(results, query),
			tea.WithInput(cmd.InOrStdin()),
			tea.WithOutput(out),
			tea.WithContext(cmd.Context()))
		final, err := p.Run()
		if err != nil {
			return fmt.Errorf("run picker: %w", err)
		}
		selected = final.(picker.Picker).SelectedBookmark()
	}

	if selected == nil {
		return nil
	}
	if err := o.opener()(selected.URL); err != nil {
		return fmt.Errorf("open %s: %w", selected.URL, err)
	}
	return nil
}
