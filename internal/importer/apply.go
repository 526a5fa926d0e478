package importer

import (
	"context"
	"fmt"
	"log"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/imaging"
)

// Storage is the object-store surface the apply pipeline needs.
type Storage interface {
	Download(ctx context.Context, key string) ([]byte, error)
	UploadBytes(ctx context.Context, key string, body []byte, contentType string) (string, error)
}

// Catalog is the catalog surface the apply pipeline needs: existence checks
// and publishing the generated derivative keys onto the item.
type Catalog interface {
	CodeExists(ctx context.Context, code string) (bool, error)
	SetItemImages(ctx context.Context, code string, keys map[string]string) error
}

// Deps are the external collaborators of a session's apply pipeline.
type Deps struct {
	Storage Storage
	Catalog Catalog
}

// ApplyResult is the per-row outcome of an apply. Failures are isolated:
// one row failing never blocks its siblings.
type ApplyResult struct {
	Filename string            `json:"filename"`
	Status   RowStatus         `json:"status"`
	Error    string            `json:"error,omitempty"`
	Keys     map[string]string `json:"keys,omitempty"`

	// Redundant marks a row that was discarded while its apply was already
	// in flight; the work completed but the result no longer counts.
	Redundant bool `json:"redundant,omitempty"`
}

// Apply runs the derivative pipeline for one row: both derivative aspects
// are generated independently from the same source bytes, uploaded, and
// published onto the selected catalog item. The row ends APPLIED or FAILED,
// never both.
func (s *Session) Apply(ctx context.Context, filename string) ApplyResult {
	row, err := s.beginApply(filename)
	if err != nil {
		return ApplyResult{Filename: filename, Status: StatusFailed, Error: err.Error()}
	}

	keys, err := s.runPipeline(ctx, row)
	if err != nil {
		log.Printf("import apply failed file=%s code=%s: %v", filename, row.SelectedCode, err)
		return s.finishApply(filename, nil, err)
	}
	return s.finishApply(filename, keys, nil)
}

// beginApply validates and snapshots the row under the lock. The pipeline
// itself runs on the snapshot, outside the critical section.
func (s *Session) beginApply(filename string) (Row, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return Row{}, ErrRowNotFound
	}
	if row.Status == StatusDiscarded || row.Status == StatusApplied {
		return Row{}, fmt.Errorf("cannot apply %s from %s", filename, row.Status)
	}
	if row.SelectedCode == "" {
		return Row{}, fmt.Errorf("%s has no selected catalog entry", filename)
	}
	if row.ImageKey == "" {
		return Row{}, fmt.Errorf("%s has no staged image", filename)
	}
	return *row, nil
}

func (s *Session) runPipeline(ctx context.Context, row Row) (map[string]string, error) {
	exists, err := s.deps.Catalog.CodeExists(ctx, row.SelectedCode)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("catalog entry %s no longer exists", row.SelectedCode)
	}

	src, err := s.deps.Storage.Download(ctx, row.ImageKey)
	if err != nil {
		return nil, fmt.Errorf("fetch source image: %w", err)
	}

	keys := make(map[string]string, len(imaging.AllSpecs))
	for _, spec := range imaging.AllSpecs {
		mode := imaging.ModeAuto
		var crop *imaging.CropBox
		if box, ok := row.ManualCrops[spec.Tag]; ok {
			mode = imaging.ModeManual
			crop = &box
		}

		res, err := imaging.Generate(src, spec, mode, crop)
		if err != nil {
			return nil, fmt.Errorf("derivative processing failed: %w", err)
		}

		key := fmt.Sprintf("items/%s/%s.jpg", row.SelectedCode, spec.Tag)
		if _, err := s.deps.Storage.UploadBytes(ctx, key, res.Bytes, "image/jpeg"); err != nil {
			return nil, fmt.Errorf("upload derivative %s: %w", spec.Tag, err)
		}
		keys[spec.Tag] = key
	}

	if err := s.deps.Catalog.SetItemImages(ctx, row.SelectedCode, keys); err != nil {
		return nil, fmt.Errorf("publish image keys: %w", err)
	}
	return keys, nil
}

// finishApply records the outcome under the lock. A row discarded while the
// pipeline was running keeps DISCARDED and the result is marked redundant.
func (s *Session) finishApply(filename string, keys map[string]string, pipeErr error) ApplyResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[filename]
	if !ok {
		return ApplyResult{Filename: filename, Status: StatusFailed, Error: ErrRowNotFound.Error()}
	}

	if row.Status == StatusDiscarded {
		return ApplyResult{
			Filename:  filename,
			Status:    StatusDiscarded,
			Redundant: true,
		}
	}

	next := *row
	if pipeErr != nil {
		next.Status = StatusFailed
		next.ApplyError = pipeErr.Error()
		s.rows[filename] = &next
		return ApplyResult{Filename: filename, Status: StatusFailed, Error: pipeErr.Error()}
	}

	next.Status = StatusApplied
	next.ApplyError = ""
	next.AppliedKeys = keys
	s.rows[filename] = &next
	return ApplyResult{Filename: filename, Status: StatusApplied, Keys: keys}
}

// ApplyAll applies every eligible row. Unresolved rows block the bulk run
// unless force is set; individual failures are collected per row.
func (s *Session) ApplyAll(ctx context.Context, force bool) ([]ApplyResult, error) {
	if n := s.UnresolvedCount(); n > 0 && !force {
		return nil, fmt.Errorf("%d unresolved rows", n)
	}

	s.mu.Lock()
	var targets []string
	for _, name := range s.order {
		row := s.rows[name]
		if row.Status == StatusDiscarded || row.Status == StatusApplied {
			continue
		}
		if row.SelectedCode == "" {
			continue
		}
		targets = append(targets, name)
	}
	s.mu.Unlock()

	results := make([]ApplyResult, 0, len(targets))
	for _, name := range targets {
		results = append(results, s.Apply(ctx, name))
	}
	return results, nil
}
