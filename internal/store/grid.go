package store

import (
	"fmt"

	"github.com/planloop/planloop/internal/domain"
)

// Grid actions operate on the current workspace's planning grid only.

// activeGrid returns the current workspace's grid, creating a 1x3 one in
// data when none exists yet.
func activeGrid(data *domain.AppData) domain.GridState {
	if data.GridsByWorkspace == nil {
		data.GridsByWorkspace = map[string]domain.GridState{}
	}
	grid, ok := data.GridsByWorkspace[data.CurrentWorkspaceID]
	if !ok {
		grid = domain.NewGridState(1)
		data.GridsByWorkspace[data.CurrentWorkspaceID] = grid
	}
	return grid
}

// GridAssign places an idea reference into a cell, replacing whatever it
// held. An empty ideaID clears the cell.
func (s *Store) GridAssign(cellID, ideaID string) error {
	return s.update(func(data *domain.AppData) error {
		grid := activeGrid(data)
		cell, ok := grid.Cells[cellID]
		if !ok {
			return fmt.Errorf("grid cell %q not found", cellID)
		}
		if ideaID != "" {
			if _, found := data.IdeaByID(ideaID); !found {
				return fmt.Errorf("idea %q not found", ideaID)
			}
		}
		cell.IdeaID = ideaID
		grid.Cells[cellID] = cell
		data.GridsByWorkspace[data.CurrentWorkspaceID] = grid
		return nil
	})
}

// GridMoveWithin moves an assignment between two cells of the active grid.
// When the target is occupied the two assignments swap.
func (s *Store) GridMoveWithin(fromCellID, toCellID string) error {
	if fromCellID == toCellID {
		return nil
	}
	return s.update(func(data *domain.AppData) error {
		grid := activeGrid(data)
		from, ok := grid.Cells[fromCellID]
		if !ok {
			return fmt.Errorf("grid cell %q not found", fromCellID)
		}
		to, ok := grid.Cells[toCellID]
		if !ok {
			return fmt.Errorf("grid cell %q not found", toCellID)
		}
		from.IdeaID, to.IdeaID = to.IdeaID, from.IdeaID
		grid.Cells[fromCellID] = from
		grid.Cells[toCellID] = to
		data.GridsByWorkspace[data.CurrentWorkspaceID] = grid
		return nil
	})
}

// GridClear empties a cell.
func (s *Store) GridClear(cellID string) error {
	return s.GridAssign(cellID, "")
}

// AddGridRows grows the active grid by n rows of exactly 3 columns.
func (s *Store) AddGridRows(n int) error {
	if n <= 0 {
		return fmt.Errorf("must add at least one row, got %d", n)
	}
	return s.update(func(data *domain.AppData) error {
		grid := activeGrid(data)
		for r := grid.Rows; r < grid.Rows+n; r++ {
			for c := 0; c < domain.GridColumns; c++ {
				id := domain.CellID(r, c)
				grid.Cells[id] = domain.GridCell{ID: id, Row: r, Col: c}
			}
		}
		grid.Rows += n
		data.GridsByWorkspace[data.CurrentWorkspaceID] = grid
		return nil
	})
}

// GridResetTo1x3 returns the current workspace's grid to the 1x3 origin,
// discarding all of its assignments. Other workspaces are untouched.
func (s *Store) GridResetTo1x3() error {
	return s.update(func(data *domain.AppData) error {
		if data.GridsByWorkspace == nil {
			data.GridsByWorkspace = map[string]domain.GridState{}
		}
		data.GridsByWorkspace[data.CurrentWorkspaceID] = domain.NewGridState(1)
		return nil
	})
}

// DeleteIdea removes an idea along with its done record and any grid cell
// references, across all workspaces.
func (s *Store) DeleteIdea(id string) error {
	return s.update(func(data *domain.AppData) error {
		idx := -1
		for i := range data.Ideas {
			if data.Ideas[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return fmt.Errorf("idea %q not found", id)
		}
		data.Ideas = append(data.Ideas[:idx], data.Ideas[idx+1:]...)
		delete(data.Done, id)
		for wsID, grid := range data.GridsByWorkspace {
			for cellID, cell := range grid.Cells {
				if cell.IdeaID == id {
					cell.IdeaID = ""
					grid.Cells[cellID] = cell
				}
			}
			data.GridsByWorkspace[wsID] = grid
		}
		return nil
	})
}
