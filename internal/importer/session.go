package importer

import (
	"fmt"
	"sync"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/imaging"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/match"
)

var (
	ErrRowNotFound  = fmt.Errorf("import row not found")
	ErrRowFinalized = fmt.Errorf("row can no longer be edited")
)

// Session holds the review state of one import batch: the candidate index
// built once per batch plus one row per uploaded file. All row bookkeeping
// runs under a single lock so conflict-group snapshots stay consistent;
// pixel work never happens while the lock is held.
type Session struct {
	ID string

	mu    sync.Mutex
	index *match.Index
	rows  map[string]*Row
	order []string

	deps Deps
}

// PreviewFile is one staged upload entering the session.
type PreviewFile struct {
	Filename string `json:"filename"`
	ImageKey string `json:"image_key"`
}

func NewSession(id string, candidates []match.Candidate, deps Deps) *Session {
	return &Session{
		ID:    id,
		index: match.NewIndex(candidates),
		rows:  make(map[string]*Row),
		deps:  deps,
	}
}

// Preview matches the staged files against the catalog and creates one row
// per file. Matching never fails; a hopeless filename just yields a
// NO_MATCH row. Re-previewing an existing filename replaces its row.
func (s *Session) Preview(files []PreviewFile) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Row, 0, len(files))
	for _, f := range files {
		res := s.index.MatchFilename(f.Filename)
		row := newRow(f.Filename, f.ImageKey, res)
		if _, exists := s.rows[f.Filename]; !exists {
			s.order = append(s.order, f.Filename)
		}
		s.rows[f.Filename] = row
		out = append(out, *row)
	}
	return out
}

// Select assigns a catalog entry by hand and moves the row to MANUAL.
func (s *Session) Select(filename, code string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if !row.editable() {
		return Row{}, fmt.Errorf("%w: %s is %s", ErrRowFinalized, filename, row.Status)
	}
	if code == "" {
		return Row{}, fmt.Errorf("empty catalog code for %s", filename)
	}

	next := *row
	next.SelectedCode = code
	next.Status = StatusManual
	s.rows[filename] = &next
	return next, nil
}

// Discard takes the row out of the running. An apply already in flight for
// this row is not undone; discard only prevents future applies.
func (s *Session) Discard(filename string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if row.Status == StatusApplied {
		return Row{}, fmt.Errorf("%w: %s is %s", ErrRowFinalized, filename, row.Status)
	}

	next := *row
	next.Status = StatusDiscarded
	s.rows[filename] = &next
	return next, nil
}

// Reset returns a discarded or failed row to its original matching status.
// The selection is cleared only when the original status never had one.
func (s *Session) Reset(filename string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if row.Status != StatusDiscarded && row.Status != StatusFailed {
		return Row{}, fmt.Errorf("cannot reset %s from %s", filename, row.Status)
	}

	next := *row
	next.Status = next.OriginalStatus
	next.ApplyError = ""
	if next.OriginalStatus == StatusNoMatch {
		next.SelectedCode = ""
	}
	s.rows[filename] = &next
	return next, nil
}

// Confirm resolves a conflict group in favor of one row: the winner becomes
// READY and every other member of its group is discarded in the same
// critical section.
func (s *Session) Confirm(filename string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if !row.editable() {
		return Row{}, fmt.Errorf("%w: %s is %s", ErrRowFinalized, filename, row.Status)
	}
	if row.SelectedCode == "" {
		return Row{}, fmt.Errorf("%s has no selected catalog entry", filename)
	}

	for _, name := range s.order {
		other := s.rows[name]
		if name == filename || !other.inConflictScope() {
			continue
		}
		if other.SelectedCode == row.SelectedCode {
			loser := *other
			loser.Status = StatusDiscarded
			s.rows[name] = &loser
		}
	}

	next := *row
	next.Status = StatusReady
	s.rows[filename] = &next
	return next, nil
}

// SetManualCrop stages a manual crop box for one derivative aspect. The box
// is validated before it is stored so an invalid crop can never reach the
// pixel pipeline.
func (s *Session) SetManualCrop(filename, aspectTag string, box imaging.CropBox) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if !row.editable() {
		return Row{}, fmt.Errorf("%w: %s is %s", ErrRowFinalized, filename, row.Status)
	}
	if _, ok := imaging.SpecByTag(aspectTag); !ok {
		return Row{}, fmt.Errorf("unknown derivative aspect %q", aspectTag)
	}
	if err := box.Validate(); err != nil {
		return Row{}, err
	}

	next := *row
	next.ManualCrops = make(map[string]imaging.CropBox, len(row.ManualCrops)+1)
	for k, v := range row.ManualCrops {
		next.ManualCrops[k] = v
	}
	next.ManualCrops[aspectTag] = box
	s.rows[filename] = &next
	return next, nil
}

// Rows returns the rows in upload order.
func (s *Session) Rows() []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rowsLocked()
}

func (s *Session) rowsLocked() []Row {
	out := make([]Row, 0, len(s.order))
	for _, name := range s.order {
		out = append(out, *s.rows[name])
	}
	return out
}

// ConflictGroups recomputes, on demand, which in-progress rows currently
// claim the same catalog entry. Groups of one are not conflicts.
func (s *Session) ConflictGroups() map[string][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conflictGroupsLocked()
}

func (s *Session) conflictGroupsLocked() map[string][]string {
	byCode := make(map[string][]string)
	for _, name := range s.order {
		row := s.rows[name]
		if !row.inConflictScope() || row.SelectedCode == "" {
			continue
		}
		byCode[row.SelectedCode] = append(byCode[row.SelectedCode], name)
	}
	for code, files := range byCode {
		if len(files) < 2 {
			delete(byCode, code)
		}
	}
	return byCode
}

// UnresolvedCount counts the rows that still need operator attention before
// a bulk apply can proceed without warning: rows needing review, NO_MATCH
// rows without a selection, and members of conflict groups.
func (s *Session) UnresolvedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	conflicted := make(map[string]bool)
	for _, files := range s.conflictGroupsLocked() {
		for _, f := range files {
			conflicted[f] = true
		}
	}

	n := 0
	for _, name := range s.order {
		row := s.rows[name]
		if row.Status == StatusApplied || row.Status == StatusDiscarded {
			continue
		}
		switch {
		case row.Status == StatusNeedReview:
			n++
		case row.Status == StatusNoMatch && row.SelectedCode == "":
			n++
		case conflicted[name]:
			n++
		}
	}
	return n
}
