package seeds

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/planloop/planloop/internal/domain"
)

// Loader reads seed workspace/bin definitions from a yaml file.
type Loader struct {
	filePath string
}

// NewLoader creates a new seeds loader.
func NewLoader(filePath string) *Loader {
	return &Loader{filePath: filePath}
}

// Load reads and parses the seeds file, returning domain entities.
func (l *Loader) Load() ([]domain.Workspace, []domain.Bin, error) {
	data, err := os.ReadFile(l.filePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read seeds file: %w", err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, nil, fmt.Errorf("failed to parse seeds yaml: %w", err)
	}

	if len(file.Workspaces) == 0 {
		return nil, nil, fmt.Errorf("seeds file %s declares no workspaces", l.filePath)
	}

	workspaces := make([]domain.Workspace, 0, len(file.Workspaces))
	for _, w := range file.Workspaces {
		if w.ID == "" || w.Name == "" {
			return nil, nil, fmt.Errorf("seed workspace needs both id and name, got id=%q name=%q", w.ID, w.Name)
		}
		workspaces = append(workspaces, domain.Workspace{
			ID:    w.ID,
			Name:  w.Name,
			Color: w.Color,
		})
	}

	now := time.Now()
	bins := make([]domain.Bin, 0, len(file.Bins))
	for i, b := range file.Bins {
		if b.ID == "" || b.Workspace == "" {
			return nil, nil, fmt.Errorf("seed bin needs both id and workspace, got id=%q workspace=%q", b.ID, b.Workspace)
		}
		sortOrder := b.SortOrder
		if sortOrder == 0 {
			sortOrder = i
		}
		bins = append(bins, domain.Bin{
			ID:          b.ID,
			WorkspaceID: b.Workspace,
			Name:        b.Name,
			Color:       b.Color,
			SortOrder:   sortOrder,
			HashtagDefaults: domain.HashtagSet{
				YouTube:   b.Hashtags.YouTube,
				TikTok:    b.Hashtags.TikTok,
				Instagram: b.Hashtags.Instagram,
			},
			IdeaIds:   []string{},
			CreatedAt: now,
		})
	}

	return workspaces, bins, nil
}

// DefaultWorkspaces returns the two built-in seed workspaces installed when
// no seeds file is configured and nothing was persisted before.
func DefaultWorkspaces() []domain.Workspace {
	return []domain.Workspace{
		{ID: "personal", Name: "Personal", Color: "#7c3aed"},
		{ID: "studio", Name: "Studio", Color: "#0ea5e9"},
	}
}

// DefaultBins returns the built-in seed bins for the default workspaces.
func DefaultBins() []domain.Bin {
	now := time.Now()
	return []domain.Bin{
		{
			ID:          "bin-hooks",
			WorkspaceID: "personal",
			Name:        "Hooks",
			Color:       "#f59e0b",
			SortOrder:   0,
			HashtagDefaults: domain.HashtagSet{
				YouTube:   []string{"#shorts"},
				TikTok:    []string{"#fyp"},
				Instagram: []string{"#reels"},
			},
			IdeaIds:   []string{},
			CreatedAt: now,
		},
		{
			ID:              "bin-tutorials",
			WorkspaceID:     "personal",
			Name:            "Tutorials",
			Color:           "#10b981",
			SortOrder:       1,
			HashtagDefaults: domain.HashtagSet{},
			IdeaIds:         []string{},
			CreatedAt:       now,
		},
		{
			ID:              "bin-bts",
			WorkspaceID:     "studio",
			Name:            "Behind the scenes",
			Color:           "#ef4444",
			SortOrder:       0,
			HashtagDefaults: domain.HashtagSet{},
			IdeaIds:         []string{},
			CreatedAt:       now,
		},
	}
}
