// Package tree turns the flat folder list into a renderable tree and tracks
// which folders are expanded.
package tree

import (
	"fmt"
	"maps"

	"github.com/nikbrunner/popmark/internal/model"
)

// Policy decides the initial expanded state of a folder.
type Policy int

const (
	// ExpandRoots expands root folders only.
	ExpandRoots Policy = iota
	// ExpandAll expands every folder.
	ExpandAll
	// ExpandNone starts fully collapsed.
	ExpandNone
)

func (p Policy) String() string {
	switch p {
	case ExpandAll:
		return "all"
	case ExpandNone:
		return "none"
	default:
		return "roots"
	}
}

// ParsePolicy parses "roots", "all" or "none". Empty means roots.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "roots":
		return ExpandRoots, nil
	case "all":
		return ExpandAll, nil
	case "none":
		return ExpandNone, nil
	default:
		return ExpandRoots, fmt.Errorf("unknown expand policy %q", s)
	}
}

func (p Policy) initial(f model.Folder) bool {
	switch p {
	case ExpandAll:
		return true
	case ExpandNone:
		return false
	default:
		return f.IsRoot()
	}
}

// Expansion holds one independent expanded flag per folder ID.
// The zero value is not usable; call NewExpansion.
type Expansion struct {
	policy   Policy
	expanded map[string]bool
}

// NewExpansion seeds a flag for every folder according to policy.
func NewExpansion(folders []model.Folder, policy Policy) *Expansion {
	e := &Expansion{
		policy:   policy,
		expanded: make(map[string]bool, len(folders)),
	}
	for _, f := range folders {
		e.expanded[f.ID] = policy.initial(f)
	}
	return e
}

// Policy returns the policy the expansion was created with.
func (e *Expansion) Policy() Policy {
	return e.policy
}

// Toggle flips the flag for id only. Descendants keep their own flags.
func (e *Expansion) Toggle(id string) bool {
	e.expanded[id] = !e.expanded[id]
	return e.expanded[id]
}

// Set stores an explicit flag for id.
func (e *Expansion) Set(id string, expanded bool) {
	e.expanded[id] = expanded
}

// IsExpanded reports the flag for id. Unknown IDs are collapsed.
func (e *Expansion) IsExpanded(id string) bool {
	return e.expanded[id]
}

// Sync seeds flags for folders not seen before and forgets folders that no
// longer exist. Existing flags are kept.
func (e *Expansion) Sync(folders []model.Folder) {
	live := make(map[string]struct{}, len(folders))
	for _, f := range folders {
		live[f.ID] = struct{}{}
		if _, ok := e.expanded[f.ID]; !ok {
			e.expanded[f.ID] = e.policy.initial(f)
		}
	}
	for id := range e.expanded {
		if _, ok := live[id]; !ok {
			delete(e.expanded, id)
		}
	}
}

// Restore overlays persisted flags on top of the current ones. Flags for
// folders the expansion does not track are dropped.
func (e *Expansion) Restore(saved map[string]bool) {
	for id, flag := range saved {
		if _, ok := e.expanded[id]; ok {
			e.expanded[id] = flag
		}
	}
}

// Snapshot returns a copy of all flags.
func (e *Expansion) Snapshot() map[string]bool {
	return maps.Clone(e.expanded)
}

// Clone returns an independent copy.
func (e *Expansion) Clone() *Expansion {
	return &Expansion{policy: e.policy, expanded: maps.Clone(e.expanded)}
}
