package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/form"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/tabinfo"
)

func newAddCmd(o *options) *cobra.Command {
	var (
		title, folder, tags, description, color string
		noFetch, favorite                       bool
	)

	cmd := &cobra.Command{
		Use:   "add <url>",
		Short: "Add a bookmark",
		Long: `Add a bookmark. A missing title and favicon are read from the page
unless --no-fetch is given. Without --folder the bookmark goes into the
quick-add folder from the config, which is created on first use.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := o.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			url, err := model.NormalizeURL(args[0])
			if err != nil {
				return err
			}

			folderID, err := targetFolder(cmd, e, folder)
			if err != nil {
				return err
			}

			var provider tabinfo.Provider = tabinfo.Static{URL: url, Title: title}
			if !noFetch {
				provider = tabinfo.Enriched{
					Base:    provider,
					Fetcher: tabinfo.NewPageFetcher(e.cfg.CullTimeout.Std()),
				}
			}
			draft := form.Open(ctx, form.Options{
				Initial: form.BookmarkDraft{
					Title:       title,
					URL:         url,
					FolderID:    folderID,
					Description: description,
					Tags:        tags,
					Color:       color,
				},
				Provider:     provider,
				DefaultColor: e.cfg.DefaultColor,
				Log:          e.log,
			})
			if draft.Title == "" {
				draft.Title = url
			}

			res, err := e.state.Apply(ctx, state.AddBookmark{Params: draft.Params()})
			if err != nil {
				return describe(err)
			}
			b := res.Bookmark
			if favorite {
				if _, err := e.state.Apply(ctx, state.ToggleFavorite{ID: b.ID}); err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) to %s\n",
				b.Title, shortID(b.ID), e.state.Snapshot().FolderPathString(b.FolderID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "bookmark title")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "folder id, name or path (Dev/Go)")
	cmd.Flags().StringVar(&tags, "tags", "", "comma-separated tags")
	cmd.Flags().StringVarP(&description, "description", "d", "", "description")
	cmd.Flags().StringVar(&color, "color", "", "accent color (default from config)")
	cmd.Flags().BoolVar(&noFetch, "no-fetch", false, "do not fetch the page for title and icon")
	cmd.Flags().BoolVar(&favorite, "fav", false, "mark as favorite")
	return cmd
}

// targetFolder resolves --folder, or finds or creates the quick-add folder.
func targetFolder(cmd *cobra.Command, e *env, ref string) (string, error) {
	store := e.state.Snapshot()
	if ref != "" {
		f, err := resolveFolder(store, ref)
		if err != nil {
			return "", err
		}
		return f.ID, nil
	}

	name := e.cfg.QuickAddFolder
	for _, f := range store.ChildrenOf(nil) {
		if f.Name == name {
			return f.ID, nil
		}
	}

	res, err := e.state.Apply(cmd.Context(), state.AddFolder{Params: model.NewFolderParams{Name: name}})
	if err != nil {
		return "", describe(err)
	}
	return res.Folder.ID, nil
}

func newRmCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a bookmark by id or id prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := resolveBookmark(e.state.Snapshot(), args[0])
			if err != nil {
				return err
			}
			if _, err := e.state.Apply(cmd.Context(), state.DeleteBookmark{ID: b.ID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", b.Title)
			return nil
		},
	}
}

func newFavCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "fav <id>",
		Short: "Toggle a bookmark's favorite flag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			b, err := resolveBookmark(e.state.Snapshot(), args[0])
			if err != nil {
				return err
			}
			res, err := e.state.Apply(cmd.Context(), state.ToggleFavorite{ID: b.ID})
			if err != nil {
				return err
			}

			mark := "☆"
			if res.Bookmark.IsFavorite {
				mark = "★"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", mark, res.Bookmark.Title)
			return nil
		},
	}
}

func newLsCmd(o *options) *cobra.Command {
	var (
		search, folder, tag string
		favorites, asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "ls",
		Short: "List bookmarks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			e, err := o.open(ctx, false)
			if err != nil {
				return err
			}
			defer e.Close()

			// The selection is per process; nothing here is saved.
			actions := []state.Action{state.SetSearch{Query: search}}
			if folder != "" {
				f, err := resolveFolder(e.state.Snapshot(), folder)
				if err != nil {
					return err
				}
				actions = append(actions, state.SelectFolder{ID: &f.ID})
			}
			if tag != "" {
				actions = append(actions, state.SelectTag{Tag: &tag})
			}
			for _, a := range actions {
				if err := e.state.Dispatch(ctx, a); err != nil {
					return err
				}
			}

			bookmarks := e.state.Bookmarks()
			if favorites {
				bookmarks = onlyFavorites(bookmarks)
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(bookmarks)
			}

			w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			for _, b := range bookmarks {
				star := " "
				if b.IsFavorite {
					star = "★"
				}
				fmt.Fprintf(w, "%s\t%s %s\t%s\t%s\n", shortID(b.ID), star, b.Title, b.URL, e.state.FolderLabel(b.FolderID))
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "match title, url, description or tags")
	cmd.Flags().StringVarP(&folder, "folder", "f", "", "only bookmarks directly in this folder")
	cmd.Flags().StringVarP(&tag, "tag", "t", "", "only bookmarks with this tag")
	cmd.Flags().BoolVar(&favorites, "favorites", false, "only favorites")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func onlyFavorites(bookmarks []model.Bookmark) []model.Bookmark {
	out := make([]model.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		if b.IsFavorite {
			out = append(out, b)
		}
	}
	return out
}

func newTagsCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tags",
		Short: "List every tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			for _, t := range e.state.Tags() {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
