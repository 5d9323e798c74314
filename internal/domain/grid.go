package domain

import "fmt"

// GridColumns is fixed: the planning grid is always 3 cells wide.
const GridColumns = 3

// GridCell is one slot in a workspace's planning grid, optionally holding
// one idea reference.
type GridCell struct {
	ID     string `json:"id"`
	Row    int    `json:"row"`
	Col    int    `json:"col"`
	IdeaID string `json:"ideaId,omitempty"`
}

// GridState is one workspace's planning grid.
type GridState struct {
	Columns int                 `json:"columns"`
	Rows    int                 `json:"rows"`
	Cells   map[string]GridCell `json:"cells"`
}

// CellID encodes a grid position as the canonical cell key.
func CellID(row, col int) string {
	return fmt.Sprintf("r%d-c%d", row, col)
}

// NewGridState builds an unassigned grid with the given number of 3-column rows.
func NewGridState(rows int) GridState {
	if rows < 1 {
		rows = 1
	}
	g := GridState{
		Columns: GridColumns,
		Rows:    rows,
		Cells:   make(map[string]GridCell, rows*GridColumns),
	}
	for r := 0; r < rows; r++ {
		for c := 0; c < GridColumns; c++ {
			id := CellID(r, c)
			g.Cells[id] = GridCell{ID: id, Row: r, Col: c}
		}
	}
	return g
}

// Copy returns a GridState whose cell map does not alias the receiver's.
func (g GridState) Copy() GridState {
	out := g
	out.Cells = make(map[string]GridCell, len(g.Cells))
	for k, v := range g.Cells {
		out.Cells[k] = v
	}
	return out
}
