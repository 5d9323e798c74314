package store

import (
	"sort"

	"github.com/planloop/planloop/internal/domain"
)

// Selectors: read-only, workspace-filtered views over the current snapshot.

// CurrentWorkspaceID returns the active workspace id.
func (s *Store) CurrentWorkspaceID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data.CurrentWorkspaceID
}

// Workspaces returns all workspaces.
func (s *Store) Workspaces() []domain.Workspace {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Workspace(nil), s.data.Workspaces...)
}

// BinsForCurrentWorkspace returns the active workspace's bins in sort order.
func (s *Store) BinsForCurrentWorkspace() []domain.Bin {
	snapshot := s.Snapshot()
	bins := make([]domain.Bin, 0, len(snapshot.Bins))
	for _, b := range snapshot.Bins {
		if b.WorkspaceID == snapshot.CurrentWorkspaceID {
			bins = append(bins, b)
		}
	}
	sort.SliceStable(bins, func(i, j int) bool { return bins[i].SortOrder < bins[j].SortOrder })
	return bins
}

// IdeasForCurrentWorkspace returns the active workspace's ideas, optionally
// filtered by status ("" returns all).
func (s *Store) IdeasForCurrentWorkspace(status domain.Status) []domain.Idea {
	snapshot := s.Snapshot()
	ideas := make([]domain.Idea, 0, len(snapshot.Ideas))
	for _, idea := range snapshot.Ideas {
		if idea.WorkspaceID != snapshot.CurrentWorkspaceID {
			continue
		}
		if status != "" && idea.Status != status {
			continue
		}
		ideas = append(ideas, idea)
	}
	return ideas
}

// PostsForCurrentWorkspace returns the active workspace's posts.
func (s *Store) PostsForCurrentWorkspace() []domain.Post {
	snapshot := s.Snapshot()
	posts := make([]domain.Post, 0, len(snapshot.Posts))
	for _, p := range snapshot.Posts {
		if p.WorkspaceID == snapshot.CurrentWorkspaceID {
			posts = append(posts, p)
		}
	}
	return posts
}

// ActiveGrid returns the current workspace's grid (a fresh 1x3 when none
// has been created yet; selectors never mutate).
func (s *Store) ActiveGrid() domain.GridState {
	snapshot := s.Snapshot()
	if grid, ok := snapshot.GridsByWorkspace[snapshot.CurrentWorkspaceID]; ok {
		return grid
	}
	return domain.NewGridState(1)
}

// DoneEntry joins a done record with its source idea, when it still exists.
type DoneEntry struct {
	Record domain.DoneRecord `json:"record"`
	Idea   *domain.Idea      `json:"idea,omitempty"`
}

// DoneList returns the active workspace's done records, newest first,
// joined with their source ideas.
func (s *Store) DoneList() []DoneEntry {
	snapshot := s.Snapshot()
	entries := make([]DoneEntry, 0, len(snapshot.Done))
	for _, rec := range snapshot.Done {
		if rec.WorkspaceID != "" && rec.WorkspaceID != snapshot.CurrentWorkspaceID {
			continue
		}
		entry := DoneEntry{Record: rec}
		if idea, ok := snapshot.IdeaByID(rec.ID); ok {
			entry.Idea = &idea
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Record.MovedAt.After(entries[j].Record.MovedAt)
	})
	return entries
}
