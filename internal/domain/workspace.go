package domain

import "strings"

// Workspace is an isolated content stream (a brand or persona). All bins,
// ideas, posts and grids hang off exactly one workspace.
type Workspace struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color,omitempty"`
	Avatar    string `json:"avatar,omitempty"`
	VibeImage string `json:"vibeImage,omitempty"`
}

// NormalizeWorkspaceKey maps a workspace identifier to its remote row key.
// " Brand ", "brand" and "BRAND" must all resolve to the same row.
func NormalizeWorkspaceKey(id string) string {
	return strings.ToLower(strings.TrimSpace(id))
}
