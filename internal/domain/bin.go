package domain

import "time"

// HashtagSet holds per-platform hashtag lists.
type HashtagSet struct {
	YouTube   []string `json:"youtube"`
	TikTok    []string `json:"tiktok"`
	Instagram []string `json:"instagram"`
}

// Copy returns a HashtagSet whose arrays do not alias the receiver's.
func (h HashtagSet) Copy() HashtagSet {
	return HashtagSet{
		YouTube:   append([]string(nil), h.YouTube...),
		TikTok:    append([]string(nil), h.TikTok...),
		Instagram: append([]string(nil), h.Instagram...),
	}
}

// Empty reports whether no platform carries any hashtag.
func (h HashtagSet) Empty() bool {
	return len(h.YouTube) == 0 && len(h.TikTok) == 0 && len(h.Instagram) == 0
}

// Bin is a user-defined category of ideas within a workspace. New ideas
// promoted to working inherit the bin's hashtag defaults.
type Bin struct {
	ID              string     `json:"id"`
	WorkspaceID     string     `json:"workspace_id"`
	Name            string     `json:"name"`
	Color           string     `json:"color,omitempty"`
	SortOrder       int        `json:"sortOrder"`
	HashtagDefaults HashtagSet `json:"hashtagDefaults"`
	// IdeaIds is a legacy placeholder kept for persisted-shape compatibility;
	// membership is derived from Idea.BinID.
	IdeaIds   []string   `json:"ideaIds"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}
