package domain

import "time"

// Post is a scheduled publication slot promoted from an idea. It carries
// scheduling metadata only; the idea remains the work item.
type Post struct {
	ID           string          `json:"id"`
	WorkspaceID  string          `json:"workspace_id"`
	IdeaID       string          `json:"idea_id,omitempty"`
	BinID        string          `json:"bin_id,omitempty"`
	Title        string          `json:"title"`
	Type         string          `json:"type"`
	Status       string          `json:"status"`
	PostDate     *time.Time      `json:"post_date,omitempty"`
	Platforms    map[string]bool `json:"platforms,omitempty"`
	Caption      string          `json:"caption,omitempty"`
	HashtagsText string          `json:"hashtagsText,omitempty"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// DoneSnapshot is the point-in-time copy of an idea's working fields taken
// when it is marked posted.
type DoneSnapshot struct {
	Title       string      `json:"title,omitempty"`
	Description string      `json:"description,omitempty"`
	Hashtags    *HashtagSet `json:"hashtags,omitempty"`
	Script      string      `json:"script,omitempty"`
	Shotlist    string      `json:"shotlist,omitempty"`
	Thumbnail   string      `json:"thumbnail,omitempty"`
	BinID       string      `json:"binId,omitempty"`
	Text        string      `json:"text,omitempty"`
}

// DoneRecord archives a posted idea. Keyed by the idea's id; exists exactly
// while the idea's status is done.
type DoneRecord struct {
	ID          string       `json:"id"`
	MovedAt     time.Time    `json:"movedAt"`
	WorkspaceID string       `json:"workspaceId,omitempty"`
	Snapshot    DoneSnapshot `json:"snapshot"`
}
