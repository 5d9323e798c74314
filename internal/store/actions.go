package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/planloop/planloop/internal/domain"
)

// The action catalog. Every action reads the current state, computes the
// next data and commits it; none has side effects outside the commit path.

// BinUpdate carries optional bin field changes; nil means leave unchanged.
type BinUpdate struct {
	Name      *string
	Color     *string
	SortOrder *int
}

// IdeaUpdate carries optional idea field changes; nil means leave unchanged.
type IdeaUpdate struct {
	Text        *string
	Title       *string
	Description *string
	Script      *string
	Shotlist    *string
	Thumbnail   *string
	Hashtags    *domain.HashtagSet
}

// AddBin creates a bin in the current workspace.
func (s *Store) AddBin(name, color string) (domain.Bin, error) {
	if name == "" {
		return domain.Bin{}, fmt.Errorf("bin name must not be empty")
	}
	var created domain.Bin
	err := s.update(func(data *domain.AppData) error {
		created = domain.Bin{
			ID:              uuid.NewString(),
			WorkspaceID:     data.CurrentWorkspaceID,
			Name:            name,
			Color:           color,
			SortOrder:       len(data.Bins),
			HashtagDefaults: domain.HashtagSet{},
			IdeaIds:         []string{},
			CreatedAt:       time.Now(),
		}
		data.Bins = append(data.Bins, created)
		return nil
	})
	return created, err
}

// UpdateBin applies a partial update to a bin.
func (s *Store) UpdateBin(id string, upd BinUpdate) error {
	return s.update(func(data *domain.AppData) error {
		for i := range data.Bins {
			if data.Bins[i].ID != id {
				continue
			}
			if upd.Name != nil {
				data.Bins[i].Name = *upd.Name
			}
			if upd.Color != nil {
				data.Bins[i].Color = *upd.Color
			}
			if upd.SortOrder != nil {
				data.Bins[i].SortOrder = *upd.SortOrder
			}
			now := time.Now()
			data.Bins[i].UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("bin %q not found", id)
	})
}

// UpdateBinHashtagDefaults replaces a bin's default hashtags.
func (s *Store) UpdateBinHashtagDefaults(id string, defaults domain.HashtagSet) error {
	return s.update(func(data *domain.AppData) error {
		for i := range data.Bins {
			if data.Bins[i].ID != id {
				continue
			}
			data.Bins[i].HashtagDefaults = defaults.Copy()
			now := time.Now()
			data.Bins[i].UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("bin %q not found", id)
	})
}

// DeleteBin removes a bin. Ideas in it are kept and unbinned, never deleted.
func (s *Store) DeleteBin(id string) error {
	return s.update(func(data *domain.AppData) error {
		idx := -1
		for i := range data.Bins {
			if data.Bins[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("bin %q not found", id)
		}
		data.Bins = append(data.Bins[:idx], data.Bins[idx+1:]...)
		for i := range data.Ideas {
			if data.Ideas[i].BinID == id {
				data.Ideas[i].BinID = ""
			}
		}
		return nil
	})
}

// AddIdea captures a new idea in the current workspace, optionally in a bin.
func (s *Store) AddIdea(binID, text string) (domain.Idea, error) {
	if text == "" {
		return domain.Idea{}, fmt.Errorf("idea text must not be empty")
	}
	var created domain.Idea
	err := s.update(func(data *domain.AppData) error {
		if binID != "" {
			if _, ok := data.BinByID(binID); !ok {
				return fmt.Errorf("bin %q not found", binID)
			}
		}
		created = domain.Idea{
			ID:          uuid.NewString(),
			WorkspaceID: data.CurrentWorkspaceID,
			BinID:       binID,
			Text:        text,
			Status:      domain.StatusBrainstorming,
			CreatedAt:   time.Now(),
		}
		data.Ideas = append(data.Ideas, created)
		return nil
	})
	return created, err
}

// UpdateIdeaFields applies a partial update to an idea's working fields.
func (s *Store) UpdateIdeaFields(id string, upd IdeaUpdate) error {
	return s.update(func(data *domain.AppData) error {
		for i := range data.Ideas {
			if data.Ideas[i].ID != id {
				continue
			}
			idea := &data.Ideas[i]
			if upd.Text != nil {
				idea.Text = *upd.Text
			}
			if upd.Title != nil {
				idea.Title = *upd.Title
			}
			if upd.Description != nil {
				idea.Description = *upd.Description
			}
			if upd.Script != nil {
				idea.Script = *upd.Script
			}
			if upd.Shotlist != nil {
				idea.Shotlist = *upd.Shotlist
			}
			if upd.Thumbnail != nil {
				idea.Thumbnail = *upd.Thumbnail
			}
			if upd.Hashtags != nil {
				h := upd.Hashtags.Copy()
				idea.Hashtags = &h
			}
			now := time.Now()
			idea.UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("idea %q not found", id)
	})
}

// MoveIdeaToBin reassigns an idea to another bin ("" unbins it).
func (s *Store) MoveIdeaToBin(ideaID, binID string) error {
	return s.update(func(data *domain.AppData) error {
		if binID != "" {
			if _, ok := data.BinByID(binID); !ok {
				return fmt.Errorf("bin %q not found", binID)
			}
		}
		for i := range data.Ideas {
			if data.Ideas[i].ID == ideaID {
				data.Ideas[i].BinID = binID
				return nil
			}
		}
		return fmt.Errorf("idea %q not found", ideaID)
	})
}

// SetIdeaStatus transitions an idea between lifecycle stages. Moving to
// working copies the bin's hashtag defaults in when the idea has none yet.
func (s *Store) SetIdeaStatus(id string, status domain.Status) error {
	if !status.Valid() {
		return fmt.Errorf("invalid status %q", status)
	}
	return s.update(func(data *domain.AppData) error {
		for i := range data.Ideas {
			if data.Ideas[i].ID != id {
				continue
			}
			idea := &data.Ideas[i]
			if status == domain.StatusWorking && idea.Hashtags == nil && idea.BinID != "" {
				if bin, ok := data.BinByID(idea.BinID); ok {
					h := bin.HashtagDefaults.Copy()
					idea.Hashtags = &h
				}
			}
			idea.Status = status
			now := time.Now()
			idea.UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("idea %q not found", id)
	})
}

// MarkIdeaPosted flips an idea to done and archives a snapshot of its
// working fields. A no-op when the idea is already done.
func (s *Store) MarkIdeaPosted(id string) error {
	return s.update(func(data *domain.AppData) error {
		for i := range data.Ideas {
			if data.Ideas[i].ID != id {
				continue
			}
			idea := &data.Ideas[i]
			if idea.Status == domain.StatusDone {
				return nil
			}
			snap := domain.DoneSnapshot{
				Title:       idea.Title,
				Description: idea.Description,
				Script:      idea.Script,
				Shotlist:    idea.Shotlist,
				Thumbnail:   idea.Thumbnail,
				BinID:       idea.BinID,
				Text:        idea.Text,
			}
			if idea.Hashtags != nil {
				h := idea.Hashtags.Copy()
				snap.Hashtags = &h
			}
			if data.Done == nil {
				data.Done = map[string]domain.DoneRecord{}
			}
			data.Done[idea.ID] = domain.DoneRecord{
				ID:          idea.ID,
				MovedAt:     time.Now(),
				WorkspaceID: idea.WorkspaceID,
				Snapshot:    snap,
			}
			idea.Status = domain.StatusDone
			now := time.Now()
			idea.UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("idea %q not found", id)
	})
}

// UnpostIdea reverts a done idea to working and removes its done record.
// The snapshot is discarded with it unless history retention is on.
func (s *Store) UnpostIdea(id string) error {
	return s.update(func(data *domain.AppData) error {
		for i := range data.Ideas {
			if data.Ideas[i].ID != id {
				continue
			}
			idea := &data.Ideas[i]
			if idea.Status != domain.StatusDone {
				return fmt.Errorf("idea %q is not done", id)
			}
			if rec, ok := data.Done[id]; ok && s.opts.KeepDoneHistory {
				data.DoneHistory = append(data.DoneHistory, rec)
			}
			delete(data.Done, id)
			idea.Status = domain.StatusWorking
			now := time.Now()
			idea.UpdatedAt = &now
			return nil
		}
		return fmt.Errorf("idea %q not found", id)
	})
}

// PromoteIdeaToPost creates a scheduling post from an idea.
func (s *Store) PromoteIdeaToPost(ideaID string) (domain.Post, error) {
	var created domain.Post
	err := s.update(func(data *domain.AppData) error {
		idea, ok := data.IdeaByID(ideaID)
		if !ok {
			return fmt.Errorf("idea %q not found", ideaID)
		}
		title := idea.Title
		if title == "" {
			title = idea.Text
		}
		created = domain.Post{
			ID:          uuid.NewString(),
			WorkspaceID: idea.WorkspaceID,
			IdeaID:      idea.ID,
			BinID:       idea.BinID,
			Title:       title,
			Type:        "short",
			Status:      "planned",
			CreatedAt:   time.Now(),
		}
		data.Posts = append(data.Posts, created)
		return nil
	})
	return created, err
}

// SetWorkspace switches the current workspace.
func (s *Store) SetWorkspace(id string) error {
	return s.update(func(data *domain.AppData) error {
		if _, ok := data.Workspace(id); !ok {
			return fmt.Errorf("workspace %q not found", id)
		}
		data.CurrentWorkspaceID = id
		if _, ok := data.GridsByWorkspace[id]; !ok {
			if data.GridsByWorkspace == nil {
				data.GridsByWorkspace = map[string]domain.GridState{}
			}
			data.GridsByWorkspace[id] = domain.NewGridState(1)
		}
		return nil
	})
}

// ImportState replaces the whole state. The payload must already have been
// run through migration; this is the restore/pull entry point.
func (s *Store) ImportState(data domain.AppData) {
	s.commitMu.Lock()
	defer s.commitMu.Unlock()
	s.commitLocked(data.Clone())
}

// ClearAll resets to the seeded default state, discarding everything.
func (s *Store) ClearAll() {
	s.ImportState(s.opts.Defaults())
}
