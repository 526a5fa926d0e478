package importer

import (
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/imaging"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/match"
)

// RowStatus tracks one uploaded image through review.
type RowStatus string

const (
	StatusAuto       RowStatus = "AUTO"
	StatusNeedReview RowStatus = "NEED_REVIEW"
	StatusNoMatch    RowStatus = "NO_MATCH"
	StatusManual     RowStatus = "MANUAL"
	StatusReady      RowStatus = "READY"
	StatusDiscarded  RowStatus = "DISCARDED"
	StatusApplied    RowStatus = "APPLIED"
	StatusFailed     RowStatus = "FAILED"
)

// Row is the mutable review state for one uploaded file. Rows live in a
// Session keyed by filename; transitions replace the stored value rather
// than patching it in place.
type Row struct {
	Filename string       `json:"filename"`
	ImageKey string       `json:"image_key"`
	Match    match.Result `json:"match"`

	// OriginalStatus is what matching assigned; Reset returns here.
	OriginalStatus RowStatus `json:"original_status"`
	Status         RowStatus `json:"status"`

	SelectedCode string                     `json:"selected_code,omitempty"`
	ManualCrops  map[string]imaging.CropBox `json:"manual_crops,omitempty"`
	ApplyError   string                     `json:"apply_error,omitempty"`
	AppliedKeys  map[string]string          `json:"applied_keys,omitempty"`
}

// editable reports whether user actions (select, crop, confirm) may still
// touch the row.
func (r *Row) editable() bool {
	switch r.Status {
	case StatusDiscarded, StatusApplied, StatusFailed:
		return false
	}
	return true
}

// inConflictScope reports whether the row still competes for a catalog
// entry: discarded and applied rows are out of every conflict group.
func (r *Row) inConflictScope() bool {
	return r.Status != StatusDiscarded && r.Status != StatusApplied
}

func newRow(filename, imageKey string, res match.Result) *Row {
	row := &Row{
		Filename:       filename,
		ImageKey:       imageKey,
		Match:          res,
		OriginalStatus: RowStatus(res.Status),
		Status:         RowStatus(res.Status),
	}
	// NO_MATCH rows need a manual pick; the best guess stays visible in the
	// match result without claiming the catalog entry.
	if res.Status == match.StatusAuto || res.Status == match.StatusNeedReview {
		row.SelectedCode = res.MatchedCode
	}
	return row
}
