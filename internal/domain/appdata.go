package domain

import "reflect"

// SchemaVersion is the current persisted-shape version. Migration stamps
// every loaded record to this value.
const SchemaVersion = 4

// AppData is the root persisted aggregate: everything the planner knows,
// as plain data with no behavior attached.
type AppData struct {
	Version            int                   `json:"version"`
	Workspaces         []Workspace           `json:"workspaces"`
	Bins               []Bin                 `json:"bins"`
	Ideas              []Idea                `json:"ideas"`
	Posts              []Post                `json:"posts"`
	CurrentWorkspaceID string                `json:"currentWorkspaceId"`
	Done               map[string]DoneRecord `json:"done"`
	GridsByWorkspace   map[string]GridState  `json:"gridsByWorkspace"`
	// DoneHistory receives unposted records when history retention is
	// enabled; empty and unused otherwise.
	DoneHistory []DoneRecord `json:"doneHistory,omitempty"`
}

// Clone returns a deep copy: mutating the copy never aliases the receiver.
// Nil collections stay nil so a clone compares Equal to its source.
func (d AppData) Clone() AppData {
	out := d
	if d.Workspaces != nil {
		out.Workspaces = append([]Workspace(nil), d.Workspaces...)
	}
	if d.Bins != nil {
		out.Bins = make([]Bin, len(d.Bins))
		for i, b := range d.Bins {
			b.HashtagDefaults = b.HashtagDefaults.Copy()
			if b.IdeaIds != nil {
				b.IdeaIds = append([]string(nil), b.IdeaIds...)
			}
			out.Bins[i] = b
		}
	}
	if d.Ideas != nil {
		out.Ideas = make([]Idea, len(d.Ideas))
		for i, idea := range d.Ideas {
			if idea.Hashtags != nil {
				h := idea.Hashtags.Copy()
				idea.Hashtags = &h
			}
			out.Ideas[i] = idea
		}
	}
	if d.Posts != nil {
		out.Posts = make([]Post, len(d.Posts))
		for i, p := range d.Posts {
			if p.Platforms != nil {
				platforms := make(map[string]bool, len(p.Platforms))
				for k, v := range p.Platforms {
					platforms[k] = v
				}
				p.Platforms = platforms
			}
			out.Posts[i] = p
		}
	}
	if d.Done != nil {
		out.Done = make(map[string]DoneRecord, len(d.Done))
		for k, rec := range d.Done {
			out.Done[k] = cloneDoneRecord(rec)
		}
	}
	if d.GridsByWorkspace != nil {
		out.GridsByWorkspace = make(map[string]GridState, len(d.GridsByWorkspace))
		for k, g := range d.GridsByWorkspace {
			out.GridsByWorkspace[k] = g.Copy()
		}
	}
	if d.DoneHistory != nil {
		out.DoneHistory = make([]DoneRecord, len(d.DoneHistory))
		for i, rec := range d.DoneHistory {
			out.DoneHistory[i] = cloneDoneRecord(rec)
		}
	}
	return out
}

func cloneDoneRecord(rec DoneRecord) DoneRecord {
	if rec.Snapshot.Hashtags != nil {
		h := rec.Snapshot.Hashtags.Copy()
		rec.Snapshot.Hashtags = &h
	}
	return rec
}

// Equal reports structural equality. The store's commit path uses this as
// its no-op guard: an update producing equal data notifies nobody.
func (d AppData) Equal(other AppData) bool {
	return reflect.DeepEqual(d, other)
}

// Workspace returns the workspace with the given id, if present.
func (d AppData) Workspace(id string) (Workspace, bool) {
	for _, w := range d.Workspaces {
		if w.ID == id {
			return w, true
		}
	}
	return Workspace{}, false
}

// BinByID returns the bin with the given id, if present.
func (d AppData) BinByID(id string) (Bin, bool) {
	for _, b := range d.Bins {
		if b.ID == id {
			return b, true
		}
	}
	return Bin{}, false
}

// IdeaByID returns the idea with the given id, if present.
func (d AppData) IdeaByID(id string) (Idea, bool) {
	for _, idea := range d.Ideas {
		if idea.ID == id {
			return idea, true
		}
	}
	return Idea{}, false
}
