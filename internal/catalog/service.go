package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/imaging"
	"github.com/tenzaitech/tenzai-ordering-web-sub000/internal/match"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// --------------------------------------------------
// Categories
// --------------------------------------------------
func (s *Service) ListCategories(ctx context.Context) ([]Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *Service) SaveCategory(ctx context.Context, cat *Category) error {
	if cat.Name == "" {
		return errors.New("category name is required")
	}
	return s.repo.SaveCategory(ctx, cat)
}

func (s *Service) DeleteCategory(ctx context.Context, id int) error {
	return s.repo.DeleteCategory(ctx, id)
}

// --------------------------------------------------
// Menu items
// --------------------------------------------------
func (s *Service) ListItems(ctx context.Context) ([]MenuItem, error) {
	return s.repo.ListItems(ctx)
}

func (s *Service) GetItem(ctx context.Context, code string) (*MenuItem, error) {
	return s.repo.FindItemByCode(ctx, code)
}

func (s *Service) SaveItem(ctx context.Context, item *MenuItem) error {
	if item.Code == "" || item.Name == "" {
		return errors.New("item code and name are required")
	}
	if item.Price < 0 {
		return errors.New("item price cannot be negative")
	}
	return s.repo.SaveItem(ctx, item)
}

func (s *Service) DeleteItem(ctx context.Context, code string) error {
	return s.repo.DeleteItem(ctx, code)
}

// --------------------------------------------------
// Option groups
// --------------------------------------------------
func (s *Service) ListOptionGroups(ctx context.Context, itemCode string) ([]OptionGroup, error) {
	return s.repo.ListOptionGroups(ctx, itemCode)
}

func (s *Service) SaveOptionGroup(ctx context.Context, group *OptionGroup) error {
	if group.ItemCode == "" || group.Name == "" {
		return errors.New("option group item code and name are required")
	}
	if group.MinSelect < 0 || (group.MaxSelect > 0 && group.MaxSelect < group.MinSelect) {
		return errors.New("invalid option group selection bounds")
	}
	if _, err := s.repo.FindItemByCode(ctx, group.ItemCode); err != nil {
		return err
	}
	return s.repo.SaveOptionGroup(ctx, group)
}

func (s *Service) DeleteOptionGroup(ctx context.Context, id int) error {
	return s.repo.DeleteOptionGroup(ctx, id)
}

// --------------------------------------------------
// Import pipeline surface
// --------------------------------------------------

// ListCandidates snapshots the matchable catalog for an import batch.
func (s *Service) ListCandidates(ctx context.Context) ([]match.Candidate, error) {
	items, err := s.repo.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	candidates := make([]match.Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, match.Candidate{
			Code:        item.Code,
			DisplayName: item.Name,
		})
	}
	return candidates, nil
}

// CodeExists reports whether a catalog entry is still present. A missing
// entry is a hard per-row failure for the apply pipeline, never silently
// substituted.
func (s *Service) CodeExists(ctx context.Context, code string) (bool, error) {
	_, err := s.repo.FindItemByCode(ctx, code)
	if errors.Is(err, ErrItemNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetItemImages publishes generated derivative keys onto the item.
func (s *Service) SetItemImages(ctx context.Context, code string, keys map[string]string) error {
	square, ok := keys[imaging.SpecSquare.Tag]
	if !ok {
		return fmt.Errorf("missing %s derivative for %s", imaging.SpecSquare.Tag, code)
	}
	wide, ok := keys[imaging.SpecWide.Tag]
	if !ok {
		return fmt.Errorf("missing %s derivative for %s", imaging.SpecWide.Tag, code)
	}
	return s.repo.UpdateItemImages(ctx, code, square, wide)
}
