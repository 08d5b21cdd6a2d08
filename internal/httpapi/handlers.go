package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/nikbrunner/popmark/internal/form"
	"github.com/nikbrunner/popmark/internal/model"
	"github.com/nikbrunner/popmark/internal/query"
	"github.com/nikbrunner/popmark/internal/state"
	"github.com/nikbrunner/popmark/internal/tabinfo"
)

type healthzResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	Version       string  `json:"version,omitempty"`
}

func healthz(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, healthzResponse{
			Status:        "ok",
			UptimeSeconds: time.Since(d.StartTime).Seconds(),
			Version:       d.Version,
		})
	}
}

// listBookmarks returns the container's current selection. Any of q,
// folder, tag or favorites in the URL replaces it for this request only.
func listBookmarks(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := r.URL.Query()

		bookmarks := d.State.Bookmarks()
		if v.Has("q") || v.Has("folder") || v.Has("tag") {
			p := query.Params{SearchQuery: v.Get("q")}
			if v.Has("folder") {
				folder := v.Get("folder")
				p.ActiveFolder = &folder
			}
			if v.Has("tag") {
				tag := v.Get("tag")
				p.ActiveTag = &tag
			}
			bookmarks = query.Filter(d.State.Snapshot().Bookmarks, p)
		}
		if isTrue(v.Get("favorites")) {
			bookmarks = query.Favorites(bookmarks)
		}
		if bookmarks == nil {
			bookmarks = []model.Bookmark{}
		}

		writeJSON(w, d.Logger, http.StatusOK, bookmarks)
	}
}

type bookmarkRequest struct {
	Title       string   `json:"title"`
	URL         string   `json:"url"`
	FolderID    string   `json:"folderId"`
	Favicon     string   `json:"favicon"`
	Color       string   `json:"color"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func createBookmark(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if !decode(w, r, d.Logger, &req) {
			return
		}

		res, err := d.State.Apply(r.Context(), state.AddBookmark{Params: model.NewBookmarkParams(req)})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusCreated, res.Bookmark)
	}
}

type patchRequest struct {
	Title       *string  `json:"title"`
	URL         *string  `json:"url"`
	Description *string  `json:"description"`
	Favicon     *string  `json:"favicon"`
	Color       *string  `json:"color"`
	Tags        []string `json:"tags"`
}

func updateBookmark(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req patchRequest
		if !decode(w, r, d.Logger, &req) {
			return
		}

		res, err := d.State.Apply(r.Context(), state.UpdateBookmark{
			ID:    chi.URLParam(r, "id"),
			Patch: model.BookmarkPatch(req),
		})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, res.Bookmark)
	}
}

func deleteBookmark(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.State.Dispatch(r.Context(), state.DeleteBookmark{ID: chi.URLParam(r, "id")}); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func toggleFavorite(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.State.Apply(r.Context(), state.ToggleFavorite{ID: chi.URLParam(r, "id")})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, res.Bookmark)
	}
}

type folderResponse struct {
	model.Folder
	Expanded bool `json:"expanded"`
}

func listFolders(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folders := d.State.Snapshot().Folders
		resp := make([]folderResponse, len(folders))
		for i, f := range folders {
			resp[i] = folderResponse{Folder: f, Expanded: d.State.IsExpanded(f.ID)}
		}
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}

type nodeResponse struct {
	model.Folder
	Depth       int  `json:"depth"`
	HasChildren bool `json:"hasChildren"`
	Expanded    bool `json:"expanded"`
}

func visibleTree(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		nodes := d.State.Tree()
		resp := make([]nodeResponse, len(nodes))
		for i, n := range nodes {
			resp[i] = nodeResponse{Folder: n.Folder, Depth: n.Depth, HasChildren: n.HasChildren, Expanded: n.Expanded}
		}
		writeJSON(w, d.Logger, http.StatusOK, resp)
	}
}

type folderRequest struct {
	Name     string  `json:"name"`
	ParentID *string `json:"parentId"`
}

func createFolder(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req folderRequest
		if !decode(w, r, d.Logger, &req) {
			return
		}

		res, err := d.State.Apply(r.Context(), state.AddFolder{Params: model.NewFolderParams(req)})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusCreated, res.Folder)
	}
}

type deleteFolderResponse struct {
	Folders   int `json:"folders"`
	Bookmarks int `json:"bookmarks"`
}

// deleteFolder uses the configured mode unless ?cascade= says otherwise.
func deleteFolder(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := state.DeleteFolder{ID: chi.URLParam(r, "id")}
		if v := r.URL.Query(); v.Has("cascade") {
			mode := model.DeleteKeep
			if isTrue(v.Get("cascade")) {
				mode = model.DeleteCascade
			}
			action.Mode = &mode
		}

		res, err := d.State.Apply(r.Context(), action)
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, deleteFolderResponse(res.Deleted))
	}
}

func toggleFolder(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		res, err := d.State.Apply(r.Context(), state.ToggleExpanded{ID: chi.URLParam(r, "id")})
		if err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, map[string]bool{"expanded": res.Expanded})
	}
}

type moveRequest struct {
	ParentID *string `json:"parentId"`
}

func moveFolder(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req moveRequest
		if !decode(w, r, d.Logger, &req) {
			return
		}

		id := chi.URLParam(r, "id")
		if err := d.State.Dispatch(r.Context(), state.MoveFolder{ID: id, ParentID: req.ParentID}); err != nil {
			writeError(w, d.Logger, err)
			return
		}
		writeJSON(w, d.Logger, http.StatusOK, d.State.Snapshot().FolderByID(id))
	}
}

func listTags(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, d.Logger, http.StatusOK, d.State.Tags())
	}
}

type selectionResponse struct {
	Query     query.Params     `json:"query"`
	Bookmarks []model.Bookmark `json:"bookmarks"`
}

func getSelection(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSelection(w, d)
	}
}

// putSelection replaces search text, active folder and active tag at once.
func putSelection(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req query.Params
		if !decode(w, r, d.Logger, &req) {
			return
		}

		for _, a := range []state.Action{
			state.SetSearch{Query: req.SearchQuery},
			state.SelectFolder{ID: req.ActiveFolder},
			state.SelectTag{Tag: req.ActiveTag},
		} {
			if err := d.State.Dispatch(r.Context(), a); err != nil {
				writeError(w, d.Logger, err)
				return
			}
		}
		writeSelection(w, d)
	}
}

func writeSelection(w http.ResponseWriter, d Deps) {
	bookmarks := d.State.Bookmarks()
	if bookmarks == nil {
		bookmarks = []model.Bookmark{}
	}
	writeJSON(w, d.Logger, http.StatusOK, selectionResponse{Query: d.State.Query(), Bookmarks: bookmarks})
}

// putTab records the tab the browser helper is showing.
func putTab(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var info tabinfo.Info
		if !decode(w, r, d.Logger, &info) {
			return
		}
		d.Tabs.Put(info)
		w.WriteHeader(http.StatusNoContent)
	}
}

// getDraft opens a bookmark draft prefilled from the last pushed tab.
// The folder defaults to ?folder, then to the active folder.
func getDraft(d Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		folderID := r.URL.Query().Get("folder")
		if folderID == "" {
			if active := d.State.Query().ActiveFolder; active != nil {
				folderID = *active
			}
		}

		var provider tabinfo.Provider = d.Tabs
		if d.Pages != nil {
			provider = tabinfo.Enriched{Base: d.Tabs, Fetcher: d.Pages}
		}

		draft := form.Open(r.Context(), form.Options{
			Initial:      form.BookmarkDraft{FolderID: folderID},
			Provider:     provider,
			DefaultColor: d.DefaultColor,
			Log:          d.Logger,
		})
		writeJSON(w, d.Logger, http.StatusOK, draft)
	}
}

func isTrue(s string) bool {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
