package persist

import (
	"github.com/planloop/planloop/internal/domain"
)

// Migrate upgrades any previously persisted shape (or arbitrary garbage) to
// the current AppData schema. It never fails: any field that cannot be
// trusted is replaced with its default. Running it twice is a no-op.
func (s *Store) Migrate(raw map[string]any) domain.AppData {
	data := domain.AppData{
		Version:          domain.SchemaVersion,
		Workspaces:       migrateWorkspaces(raw["workspaces"]),
		Bins:             migrateBins(raw["bins"]),
		Ideas:            migrateIdeas(raw["ideas"]),
		Posts:            migratePosts(raw["posts"]),
		Done:             migrateDone(raw["done"]),
		GridsByWorkspace: migrateGrids(raw["gridsByWorkspace"]),
		DoneHistory:      migrateDoneHistory(raw["doneHistory"]),
	}

	// Empty collections get the seed set: the app always boots with at least
	// the default workspaces and bins to hang content off.
	if len(data.Workspaces) == 0 {
		data.Workspaces = append([]domain.Workspace(nil), s.seedWorkspaces...)
	}
	if len(data.Bins) == 0 {
		for _, b := range s.seedBins {
			b.HashtagDefaults = b.HashtagDefaults.Copy()
			data.Bins = append(data.Bins, b)
		}
	}

	if len(data.Workspaces) == 0 {
		// No seeds configured at all; a workspace must still exist.
		data.Workspaces = []domain.Workspace{{ID: "default", Name: "Default"}}
	}

	data.CurrentWorkspaceID = asString(raw["currentWorkspaceId"])
	if _, ok := data.Workspace(data.CurrentWorkspaceID); !ok {
		data.CurrentWorkspaceID = data.Workspaces[0].ID
	}

	// Fold the legacy single-grid field into the per-workspace map.
	if legacy, ok := raw["grid"]; ok {
		if _, exists := data.GridsByWorkspace[data.CurrentWorkspaceID]; !exists {
			if g := migrateGrid(legacy); g != nil {
				data.GridsByWorkspace[data.CurrentWorkspaceID] = *g
			}
		}
	}

	// Every known workspace gets a grid.
	for _, w := range data.Workspaces {
		if _, ok := data.GridsByWorkspace[w.ID]; !ok {
			data.GridsByWorkspace[w.ID] = domain.NewGridState(1)
		}
	}

	return data
}

func migrateWorkspaces(v any) []domain.Workspace {
	out := []domain.Workspace{}
	for _, item := range asSlice(v) {
		m := asMap(item)
		id := asString(m["id"])
		if id == "" {
			continue
		}
		name := asString(m["name"])
		if name == "" {
			name = id
		}
		out = append(out, domain.Workspace{
			ID:        id,
			Name:      name,
			Color:     asString(m["color"]),
			Avatar:    asString(m["avatar"]),
			VibeImage: asString(m["vibeImage"]),
		})
	}
	return out
}

func migrateHashtags(v any) domain.HashtagSet {
	m := asMap(v)
	return domain.HashtagSet{
		YouTube:   asStringSlice(m["youtube"]),
		TikTok:    asStringSlice(m["tiktok"]),
		Instagram: asStringSlice(m["instagram"]),
	}
}

func migrateBins(v any) []domain.Bin {
	out := []domain.Bin{}
	for _, item := range asSlice(v) {
		m := asMap(item)
		id := asString(m["id"])
		if id == "" {
			continue
		}
		out = append(out, domain.Bin{
			ID:          id,
			WorkspaceID: asString(m["workspace_id"]),
			Name:        asString(m["name"]),
			Color:       asString(m["color"]),
			SortOrder:   asInt(m["sortOrder"]),
			// hashtagDefaults must always be a full object, never absent.
			HashtagDefaults: migrateHashtags(m["hashtagDefaults"]),
			IdeaIds:         asStringSlice(m["ideaIds"]),
			CreatedAt:       asTime(m["createdAt"]),
			UpdatedAt:       asTimePtr(m["updatedAt"]),
		})
	}
	return out
}

func migrateIdeas(v any) []domain.Idea {
	out := []domain.Idea{}
	for _, item := range asSlice(v) {
		m := asMap(item)
		id := asString(m["id"])
		if id == "" {
			continue
		}
		status := domain.Status(asString(m["status"]))
		if !status.Valid() {
			status = domain.StatusBrainstorming
		}
		idea := domain.Idea{
			ID:          id,
			WorkspaceID: asString(m["workspace_id"]),
			BinID:       asString(m["bin_id"]),
			Text:        asString(m["text"]),
			Status:      status,
			Title:       asString(m["title"]),
			Description: asString(m["description"]),
			Script:      asString(m["script"]),
			Shotlist:    asString(m["shotlist"]),
			Thumbnail:   asString(m["thumbnail"]),
			CreatedAt:   asTime(m["createdAt"]),
			UpdatedAt:   asTimePtr(m["updatedAt"]),
		}
		if _, ok := m["hashtags"]; ok {
			h := migrateHashtags(m["hashtags"])
			idea.Hashtags = &h
		}
		// A working idea always carries a hashtags object with all three
		// platform arrays present, possibly empty.
		if idea.Status == domain.StatusWorking && idea.Hashtags == nil {
			idea.Hashtags = &domain.HashtagSet{YouTube: []string{}, TikTok: []string{}, Instagram: []string{}}
		}
		out = append(out, idea)
	}
	return out
}

func migratePosts(v any) []domain.Post {
	out := []domain.Post{}
	for _, item := range asSlice(v) {
		m := asMap(item)
		id := asString(m["id"])
		if id == "" {
			continue
		}
		post := domain.Post{
			ID:           id,
			WorkspaceID:  asString(m["workspace_id"]),
			IdeaID:       asString(m["idea_id"]),
			BinID:        asString(m["bin_id"]),
			Title:        asString(m["title"]),
			Type:         asString(m["type"]),
			Status:       asString(m["status"]),
			PostDate:     asTimePtr(m["post_date"]),
			Caption:      asString(m["caption"]),
			HashtagsText: asString(m["hashtagsText"]),
			CreatedAt:    asTime(m["createdAt"]),
		}
		if platforms, ok := m["platforms"].(map[string]any); ok {
			post.Platforms = make(map[string]bool, len(platforms))
			for k, val := range platforms {
				post.Platforms[k] = asBool(val)
			}
		}
		out = append(out, post)
	}
	return out
}

func migrateDoneRecord(id string, v any) domain.DoneRecord {
	m := asMap(v)
	snap := asMap(m["snapshot"])
	rec := domain.DoneRecord{
		ID:          id,
		MovedAt:     asTime(m["movedAt"]),
		WorkspaceID: asString(m["workspaceId"]),
		Snapshot: domain.DoneSnapshot{
			Title:       asString(snap["title"]),
			Description: asString(snap["description"]),
			Script:      asString(snap["script"]),
			Shotlist:    asString(snap["shotlist"]),
			Thumbnail:   asString(snap["thumbnail"]),
			BinID:       asString(snap["binId"]),
			Text:        asString(snap["text"]),
		},
	}
	if _, ok := snap["hashtags"]; ok {
		h := migrateHashtags(snap["hashtags"])
		rec.Snapshot.Hashtags = &h
	}
	return rec
}

func migrateDone(v any) map[string]domain.DoneRecord {
	out := map[string]domain.DoneRecord{}
	for id, item := range asMap(v) {
		if id == "" {
			continue
		}
		out[id] = migrateDoneRecord(id, item)
	}
	return out
}

func migrateDoneHistory(v any) []domain.DoneRecord {
	items := asSlice(v)
	if len(items) == 0 {
		return nil
	}
	out := make([]domain.DoneRecord, 0, len(items))
	for _, item := range items {
		m := asMap(item)
		id := asString(m["id"])
		if id == "" {
			continue
		}
		out = append(out, migrateDoneRecord(id, item))
	}
	return out
}

// migrateGrid rebuilds a grid from untrusted cells: ids are recomputed from
// each cell's own row/col, ideaId is normalized to a string, and missing
// cells inside the declared bounds are filled in empty.
func migrateGrid(v any) *domain.GridState {
	m := asMap(v)
	cells := asMap(m["cells"])

	rows := asInt(m["rows"])
	maxRow := -1
	parsed := map[string]domain.GridCell{}
	for _, item := range cells {
		cm := asMap(item)
		row, col := asInt(cm["row"]), asInt(cm["col"])
		if row < 0 || col < 0 || col >= domain.GridColumns {
			continue
		}
		cell := domain.GridCell{
			ID:     domain.CellID(row, col),
			Row:    row,
			Col:    col,
			IdeaID: asString(cm["ideaId"]),
		}
		parsed[cell.ID] = cell
		if row > maxRow {
			maxRow = row
		}
	}
	if maxRow+1 > rows {
		rows = maxRow + 1
	}
	if rows < 1 {
		rows = 1
	}

	grid := domain.NewGridState(rows)
	for id, cell := range parsed {
		grid.Cells[id] = cell
	}
	return &grid
}

func migrateGrids(v any) map[string]domain.GridState {
	out := map[string]domain.GridState{}
	for workspaceID, item := range asMap(v) {
		if workspaceID == "" {
			continue
		}
		if g := migrateGrid(item); g != nil {
			out[workspaceID] = *g
		}
	}
	return out
}
