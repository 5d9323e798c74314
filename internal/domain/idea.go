package domain

import "time"

// Status is the lifecycle stage of an idea.
type Status string

const (
	StatusBrainstorming Status = "brainstorming"
	StatusWorking       Status = "working"
	StatusDone          Status = "done"
)

// Valid reports whether s is one of the three known stages.
func (s Status) Valid() bool {
	switch s {
	case StatusBrainstorming, StatusWorking, StatusDone:
		return true
	}
	return false
}

// Idea is the central work item: a content concept moving through
// brainstorming -> working -> done.
type Idea struct {
	ID          string      `json:"id"`
	WorkspaceID string      `json:"workspace_id"`
	BinID       string      `json:"bin_id,omitempty"`
	Text        string      `json:"text"`
	Status      Status      `json:"status"`
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Hashtags    *HashtagSet `json:"hashtags,omitempty"`
	Script      string      `json:"script,omitempty"`
	Shotlist    string      `json:"shotlist,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   *time.Time  `json:"updatedAt,omitempty"`
}

// CompletionPercent is the share of an idea's working fields that are filled,
// as an integer 0-100. It is computed on demand, never stored.
func CompletionPercent(idea Idea) int {
	filled := 0
	if idea.Title != "" {
		filled++
	}
	if idea.Description != "" {
		filled++
	}
	if idea.Hashtags != nil && !idea.Hashtags.Empty() {
		filled++
	}
	if idea.Script != "" {
		filled++
	}
	if idea.Shotlist != "" {
		filled++
	}
	if idea.Thumbnail != "" {
		filled++
	}
	return filled * 100 / 6
}
