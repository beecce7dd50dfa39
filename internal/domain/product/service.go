package product

import (
	"context"
	"strings"
	"time"

	"kitchenledger/internal/core/apperror"
	"kitchenledger/internal/core/id"
	"kitchenledger/internal/domain/inventory"
	"kitchenledger/pkg/logger"
)

// InventoryReader resolves the stock records a recipe refers to.
type InventoryReader interface {
	GetByID(ctx context.Context, itemID id.ID) (*inventory.Item, error)
}

// Request is the create/update payload of a product.
type Request struct {
	Name        string
	Yield       int
	Ingredients []Ingredient
}

// Service implements the recipe catalog.
type Service struct {
	repo      Repository
	inventory InventoryReader
}

// NewService creates a new product service.
func NewService(repo Repository, inventory InventoryReader) *Service {
	return &Service{repo: repo, inventory: inventory}
}

// Create stores a new active product.
func (s *Service) Create(ctx context.Context, req Request) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		ID:          id.New(),
		Name:        strings.TrimSpace(req.Name),
		Yield:       defaultYield(req.Yield),
		Ingredients: req.Ingredients,
		Lifecycle:   LifecycleActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info(ctx, "product created", "product_id", p.ID, "ingredients", len(p.Ingredients))
	return p, nil
}

// Get returns a product by id, archived ones included.
func (s *Service) Get(ctx context.Context, productID id.ID) (*Product, error) {
	return s.repo.GetByID(ctx, productID)
}

// GetActive returns a product by id; archived products are NotFound.
func (s *Service) GetActive(ctx context.Context, productID id.ID) (*Product, error) {
	p, err := s.repo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, apperror.NewNotFound("product", productID.String())
	}
	return p, nil
}

// ListActive returns active products ordered by name.
func (s *Service) ListActive(ctx context.Context, search string) ([]*Product, error) {
	return s.repo.ListActive(ctx, strings.TrimSpace(search))
}

// Update replaces name, yield and ingredients. Orders already placed keep
// their own snapshot of the recipe.
func (s *Service) Update(ctx context.Context, productID id.ID, req Request) (*Product, error) {
	p, err := s.GetActive(ctx, productID)
	if err != nil {
		return nil, err
	}
	p.Name = strings.TrimSpace(req.Name)
	p.Yield = defaultYield(req.Yield)
	p.Ingredients = req.Ingredients
	if err := s.prepare(ctx, p); err != nil {
		return nil, err
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Archive soft-deletes a product.
func (s *Service) Archive(ctx context.Context, productID id.ID) error {
	if _, err := s.GetActive(ctx, productID); err != nil {
		return err
	}
	if err := s.repo.Archive(ctx, productID); err != nil {
		return err
	}
	logger.Info(ctx, "product archived", "product_id", productID)
	return nil
}

// prepare validates the recipe and fills missing ingredient names from stock.
func (s *Service) prepare(ctx context.Context, p *Product) error {
	if err := p.Validate(); err != nil {
		return err
	}
	for i := range p.Ingredients {
		ing := &p.Ingredients[i]
		item, err := s.inventory.GetByID(ctx, ing.InventoryID)
		if err != nil {
			return err
		}
		if strings.TrimSpace(ing.Name) == "" {
			ing.Name = item.InputName
		}
	}
	return nil
}

func defaultYield(y int) int {
	if y == 0 {
		return 1
	}
	return y
}
