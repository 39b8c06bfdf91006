package shop

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/motoshop/directory-api/internal/model"
	"github.com/motoshop/directory-api/internal/repository"
)

// ShopDetail bundles a shop with what it services, for the directory
// detail view.
type ShopDetail struct {
	model.Shop
	Offerings []*model.ShopServiceOffering `json:"offerings"`
}

type Service struct {
	repo repository.ShopRepository
}

func NewService(repo repository.ShopRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) SearchShops(ctx context.Context, filter *model.ShopFilter) ([]*model.Shop, error) {
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, fmt.Errorf("unknown service category: %s", filter.Category)
	}

	shops, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to search shops: %w", err)
	}
	return shops, nil
}

func (s *Service) GetShop(ctx context.Context, id uuid.UUID) (*ShopDetail, error) {
	shop, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get shop: %w", err)
	}

	offerings, err := s.repo.ListOfferings(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop offerings: %w", err)
	}

	return &ShopDetail{Shop: *shop, Offerings: offerings}, nil
}

// Categories returns the closed service category set with labels, for
// the filter UI.
func (s *Service) Categories() []map[string]string {
	cats := model.ServiceCategories()
	out := make([]map[string]string, 0, len(cats))
	for _, c := range cats {
		out = append(out, map[string]string{
			"value":       string(c),
			"label":       c.Label(),
			"description": c.Description(),
		})
	}
	return out
}
