package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/tree"
)

func newFolderCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "folder",
		Aliases: []string{"folders"},
		Short:   "Manage the folder tree",
	}
	cmd.AddCommand(
		newFolderAddCmd(o),
		newFolderRmCmd(o),
		newFolderMvCmd(o),
		newFolderTreeCmd(o),
	)
	return cmd
}

func newFolderAddCmd(o *options) *cobra.Command {
	var parent string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			params := model.NewFolderParams{Name: args[0]}
			if parent != "" {
				p, err := resolveFolder(e.state.Snapshot(), parent)
				if err != nil {
					return err
				}
				params.ParentID = &p.ID
			}

			res, err := e.state.Apply(cmd.Context(), state.AddFolder{Params: params})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n",
				e.state.Snapshot().FolderPathString(res.Folder.ID), shortID(res.Folder.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "parent folder id, name or path")
	return cmd
}

func newFolderRmCmd(o *options) *cobra.Command {
	var cascade, keep bool

	cmd := &cobra.Command{
		Use:   "rm <folder>",
		Short: "Delete a folder",
		Long: `Delete a folder. With --keep (the default unless cascadeDelete is set
in the config) only the folder record is removed and its children keep
their records. With --cascade the whole subtree and its bookmarks go too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cascade && keep {
				return fmt.Errorf("--cascade and --keep are mutually exclusive")
			}

			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			f, err := resolveFolder(e.state.Snapshot(), args[0])
			if err != nil {
				return err
			}
			name := f.Name

			action := state.DeleteFolder{ID: f.ID}
			switch {
			case cascade:
				mode := model.DeleteCascade
				action.Mode = &mode
			case keep:
				mode := model.DeleteKeep
				action.Mode = &mode
			}

			res, err := e.state.Apply(cmd.Context(), action)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d folders, %d bookmarks removed)\n",
				name, res.Deleted.Folders, res.Deleted.Bookmarks)
			return nil
		},
	}

	cmd.Flags().BoolVar(&cascade, "cascade", false, "delete child folders and their bookmarks")
	cmd.Flags().BoolVar(&keep, "keep", false, "remove only the folder itself")
	return cmd
}

func newFolderMvCmd(o *options) *cobra.Command {
	var (
		parent string
		root   bool
	)

	cmd := &cobra.Command{
		Use:   "mv <folder>",
		Short: "Move a folder under another folder or to the root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (parent == "") == !root {
				return fmt.Errorf("exactly one of --parent or --root is required")
			}

			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			store := e.state.Snapshot()
			f, err := resolveFolder(store, args[0])
			if err != nil {
				return err
			}

			var parentID *string
			if parent != "" {
				p, err := resolveFolder(store, parent)
				if err != nil {
					return err
				}
				parentID = &p.ID
			}

			if err := e.state.Dispatch(cmd.Context(), state.MoveFolder{ID: f.ID, ParentID: parentID}); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved to %s\n", e.state.Snapshot().FolderPathString(f.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&parent, "parent", "p", "", "new parent folder id, name or path")
	cmd.Flags().BoolVar(&root, "root", false, "move to the root level")
	return cmd
}

func newFolderTreeCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the folder tree with bookmark counts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := o.open(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer e.Close()

			store := e.state.Snapshot()
			counts := e.state.Counts()
			out := cmd.OutOrStdout()
			for n := range tree.Walk(store, nil, 0, nil) {
				fmt.Fprintf(out, "%s%s (%d)  %s\n",
					strings.Repeat("  ", n.Depth), n.Folder.Name, counts[n.Folder.ID], shortID(n.Folder.ID))
			}
			return nil
		},
	}
}
