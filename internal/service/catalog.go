package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/godilite/cocina-grades/internal/repository/models"
)

// CatalogService manages products, recipes, menus and purchase orders.
type CatalogService struct {
	store  DocumentStore
	logger *zap.Logger
	now    func() time.Time
}

// RecipeCost is the ingredient cost of a recipe at its stored servings.
type RecipeCost struct {
	RecipeID   string  `json:"recipeId"`
	Total      float64 `json:"total"`
	PerServing float64 `json:"perServing"`
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store DocumentStore, logger *zap.Logger) *CatalogService {
	if store == nil {
		panic("store must not be nil")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{
		store:  store,
		logger: logger.Named("catalog"),
		now:    time.Now,
	}
}

func normalizeAllergens(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, a := range in {
		a = strings.ToLower(strings.TrimSpace(a))
		if a == "" || seen[a] {
			continue
		}
		seen[a] = true
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// PutProduct creates or replaces a product. An empty ID creates a new one.
func (s *CatalogService) PutProduct(ctx context.Context, p models.Product) (models.Product, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := validateStruct(p); err != nil {
		return models.Product{}, err
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.Allergens = normalizeAllergens(p.Allergens)

	if err := putDoc(ctx, s.store, models.CollectionProducts, p.ID, p); err != nil {
		return models.Product{}, err
	}
	s.logger.Info("product saved", zap.String("id", p.ID), zap.String("name", p.Name))
	return p, nil
}

// ListProducts returns products sorted by name.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	products, err := listDocs[models.Product](ctx, s.store, s.logger, models.CollectionProducts)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	return products, nil
}

func (s *CatalogService) productIndex(ctx context.Context) (map[string]models.Product, error) {
	products, err := listDocs[models.Product](ctx, s.store, s.logger, models.CollectionProducts)
	if err != nil {
		return nil, err
	}
	idx := make(map[string]models.Product, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx, nil
}

// RemoveProduct deletes a product that no recipe uses.
func (s *CatalogService) RemoveProduct(ctx context.Context, id string) error {
	var p models.Product
	if err := getDoc(ctx, s.store, models.CollectionProducts, id, &p); err != nil {
		return fmt.Errorf("product %s: %w", id, err)
	}
	recipes, err := listDocs[models.Recipe](ctx, s.store, s.logger, models.CollectionRecipes)
	if err != nil {
		return err
	}
	for _, r := range recipes {
		for _, ing := range r.Ingredients {
			if ing.ProductID == id {
				return invalidf("product %s is used by recipe %q", id, r.Name)
			}
		}
	}
	return removeDoc(ctx, s.store, models.CollectionProducts, id)
}

// PutRecipe creates or replaces a recipe. Every ingredient must reference a
// known product.
func (s *CatalogService) PutRecipe(ctx context.Context, r models.Recipe) (models.Recipe, error) {
	r.Name = strings.TrimSpace(r.Name)
	if err := validateStruct(r); err != nil {
		return models.Recipe{}, err
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return models.Recipe{}, err
	}
	for _, ing := range r.Ingredients {
		if _, ok := products[ing.ProductID]; !ok {
			return models.Recipe{}, invalidf("unknown product %s", ing.ProductID)
		}
	}
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	if err := putDoc(ctx, s.store, models.CollectionRecipes, r.ID, r); err != nil {
		return models.Recipe{}, err
	}
	s.logger.Info("recipe saved", zap.String("id", r.ID), zap.Int("ingredients", len(r.Ingredients)))
	return r, nil
}

func (s *CatalogService) GetRecipe(ctx context.Context, id string) (models.Recipe, error) {
	var r models.Recipe
	if err := getDoc(ctx, s.store, models.CollectionRecipes, id, &r); err != nil {
		return models.Recipe{}, fmt.Errorf("recipe %s: %w", id, err)
	}
	return r, nil
}

func (s *CatalogService) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	recipes, err := listDocs[models.Recipe](ctx, s.store, s.logger, models.CollectionRecipes)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(recipes, func(i, j int) bool { return recipes[i].Name < recipes[j].Name })
	return recipes, nil
}

// RemoveRecipe deletes a recipe that no menu uses.
func (s *CatalogService) RemoveRecipe(ctx context.Context, id string) error {
	if _, err := s.GetRecipe(ctx, id); err != nil {
		return err
	}
	menus, err := listDocs[models.Menu](ctx, s.store, s.logger, models.CollectionMenus)
	if err != nil {
		return err
	}
	for _, m := range menus {
		if contains(m.RecipeIDs, id) {
			return invalidf("recipe %s is used by menu %q", id, m.Name)
		}
	}
	return removeDoc(ctx, s.store, models.CollectionRecipes, id)
}

// RecipeCost prices a recipe with the current product prices. Ingredients
// whose product has since been removed count as zero.
func (s *CatalogService) RecipeCost(ctx context.Context, id string) (RecipeCost, error) {
	r, err := s.GetRecipe(ctx, id)
	if err != nil {
		return RecipeCost{}, err
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return RecipeCost{}, err
	}

	cost := RecipeCost{RecipeID: r.ID}
	for _, ing := range r.Ingredients {
		if p, ok := products[ing.ProductID]; ok {
			cost.Total += ing.Quantity * p.PricePerUnit
		}
	}
	cost.PerServing = cost.Total / float64(r.Servings)
	return cost, nil
}

// RecipeAllergens returns the sorted union of the allergens of its products.
func (s *CatalogService) RecipeAllergens(ctx context.Context, id string) ([]string, error) {
	r, err := s.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}
	var all []string
	for _, ing := range r.Ingredients {
		all = append(all, products[ing.ProductID].Allergens...)
	}
	return normalizeAllergens(all), nil
}

// PutMenu creates or replaces a menu of existing recipes.
func (s *CatalogService) PutMenu(ctx context.Context, m models.Menu) (models.Menu, error) {
	m.Name = strings.TrimSpace(m.Name)
	if err := validateStruct(m); err != nil {
		return models.Menu{}, err
	}
	for _, rid := range m.RecipeIDs {
		if _, err := s.GetRecipe(ctx, rid); err != nil {
			if errors.Is(err, ErrNotFound) {
				return models.Menu{}, invalidf("unknown recipe %s", rid)
			}
			return models.Menu{}, err
		}
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if err := putDoc(ctx, s.store, models.CollectionMenus, m.ID, m); err != nil {
		return models.Menu{}, err
	}
	return m, nil
}

func (s *CatalogService) GetMenu(ctx context.Context, id string) (models.Menu, error) {
	var m models.Menu
	if err := getDoc(ctx, s.store, models.CollectionMenus, id, &m); err != nil {
		return models.Menu{}, fmt.Errorf("menu %s: %w", id, err)
	}
	return m, nil
}

func (s *CatalogService) ListMenus(ctx context.Context) ([]models.Menu, error) {
	menus, err := listDocs[models.Menu](ctx, s.store, s.logger, models.CollectionMenus)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(menus, func(i, j int) bool { return menus[i].Name < menus[j].Name })
	return menus, nil
}

// ScaleMenu computes the shopping list of a menu for pax diners. Pax 0 uses
// the menu's own pax. Quantities of a product shared by several recipes are
// summed into one line.
func (s *CatalogService) ScaleMenu(ctx context.Context, menuID string, pax int) ([]models.OrderLine, error) {
	if pax < 0 {
		return nil, invalidf("pax must not be negative")
	}
	m, err := s.GetMenu(ctx, menuID)
	if err != nil {
		return nil, err
	}
	if pax == 0 {
		pax = m.Pax
	}
	products, err := s.productIndex(ctx)
	if err != nil {
		return nil, err
	}

	lines := make(map[string]*models.OrderLine)
	for _, rid := range m.RecipeIDs {
		r, err := s.GetRecipe(ctx, rid)
		if err != nil {
			return nil, err
		}
		factor := float64(pax) / float64(r.Servings)
		for _, ing := range r.Ingredients {
			p, ok := products[ing.ProductID]
			if !ok {
				s.logger.Warn("recipe references missing product",
					zap.String("recipe", r.ID),
					zap.String("product", ing.ProductID))
				continue
			}
			line, ok := lines[p.ID]
			if !ok {
				line = &models.OrderLine{ProductID: p.ID, Name: p.Name, Unit: p.Unit}
				lines[p.ID] = line
			}
			qty := ing.Quantity * factor
			line.Quantity += qty
			line.Cost += qty * p.PricePerUnit
		}
	}

	out := make([]models.OrderLine, 0, len(lines))
	for _, l := range lines {
		out = append(out, *l)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ProductID < out[j].ProductID
	})
	return out, nil
}

// CreateOrder scales a menu and stores the resulting purchase order.
func (s *CatalogService) CreateOrder(ctx context.Context, menuID string, pax int) (models.Order, error) {
	lines, err := s.ScaleMenu(ctx, menuID, pax)
	if err != nil {
		return models.Order{}, err
	}
	if pax == 0 {
		m, err := s.GetMenu(ctx, menuID)
		if err != nil {
			return models.Order{}, err
		}
		pax = m.Pax
	}

	order := models.Order{
		ID:        uuid.NewString(),
		MenuID:    menuID,
		Pax:       pax,
		CreatedAt: s.now().UTC(),
		Lines:     lines,
	}
	for _, l := range lines {
		order.Total += l.Cost
	}
	if err := putDoc(ctx, s.store, models.CollectionOrders, order.ID, order); err != nil {
		return models.Order{}, err
	}
	s.logger.Info("order created",
		zap.String("id", order.ID),
		zap.String("menu", menuID),
		zap.Int("pax", pax),
		zap.Float64("total", order.Total))
	return order, nil
}

// ListOrders returns orders newest first.
func (s *CatalogService) ListOrders(ctx context.Context) ([]models.Order, error) {
	orders, err := listDocs[models.Order](ctx, s.store, s.logger, models.CollectionOrders)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(orders, func(i, j int) bool { return orders[i].CreatedAt.After(orders[j].CreatedAt) })
	return orders, nil
}
