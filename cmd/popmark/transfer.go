package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/exporter"
	"github.com/nikbrunner/popmark/internal/importer"
	"github.com/nikbrunner/popmark/internal/logger"
	"github.com/nikbrunner/popmark/internal/state"
)

func newImportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import a browser bookmark HTML export",
		Long: `Import bookmarks from a Netscape bookmark HTML file as written by
Chrome, Firefox and Safari. Folders are merged by name and bookmarks whose
URL is already saved are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open import file: %w", err)
			}
			defer f.Close()

			folders, bookmarks, err := importer.ParseHTMLBookmarks(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			before := len(e.state.Snapshot().Folders)
			res, err := e.state.Apply(cmd.Context(), state.Import{Folders: folders, Bookmarks: bookmarks})
			if err != nil {
				return err
			}
			newFolders := len(e.state.Snapshot().Folders) - before

			e.log.Info("import finished",
				logger.String("file", args[0]),
				logger.Int("bookmarks", res.Imported),
				logger.Int("skipped", res.Skipped))

			msg := fmt.Sprintf("Imported %d bookmarks, %d folders", res.Imported, newFolders)
			if res.Skipped > 0 {
				msg += fmt.Sprintf(" (%d duplicates skipped)", res.Skipped)
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}

func newExportCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export all bookmarks as bookmark HTML",
		Long: `Export every folder and bookmark as Netscape bookmark HTML that
browsers can import. The default file is ~/Downloads/popmark-export-DATE.html.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			} else {
				p, err := exporter.DefaultExportPath()
				if err != nil {
					return fmt.Errorf("default export path: %w", err)
				}
				path = p
			}

			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			store := e.state.Snapshot()
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("create export dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(exporter.ExportHTML(store)), 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d bookmarks, %d folders to %s\n",
				len(store.Bookmarks), len(store.Folders), path)
			return nil
		},
	}
}
