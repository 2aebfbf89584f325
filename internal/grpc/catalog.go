package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "github.com/godilite/cocina-grades/api/v1"
)

type CatalogHandlers struct {
	catalog CatalogService
	logger  *zap.Logger
}

// NewCatalogHandlers initializes the cocina.v1.Catalog handlers.
func NewCatalogHandlers(catalog CatalogService, logger *zap.Logger) *CatalogHandlers {
	if catalog == nil {
		panic("nil CatalogService provided to NewCatalogHandlers")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandlers{catalog: catalog, logger: logger.Named("grpc-catalog")}
}

func (h *CatalogHandlers) PutProduct(ctx context.Context, req *pb.Product) (*pb.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	p, err := h.catalog.PutProduct(ctx, productFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "PutProduct", err)
	}
	return productToProto(p), nil
}

func (h *CatalogHandlers) ListProducts(ctx context.Context, _ *pb.Empty) (*pb.ListProductsResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	products, err := h.catalog.ListProducts(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListProducts", err)
	}
	out := make([]*pb.Product, len(products))
	for i, p := range products {
		out[i] = productToProto(p)
	}
	return &pb.ListProductsResponse{Products: out}, nil
}

func (h *CatalogHandlers) RemoveProduct(ctx context.Context, req *pb.IDRequest) (*pb.Empty, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.catalog.RemoveProduct(ctx, req.Id); err != nil {
		return nil, handleError(ctx, h.logger, "RemoveProduct", err)
	}
	return &pb.Empty{}, nil
}

func (h *CatalogHandlers) PutRecipe(ctx context.Context, req *pb.Recipe) (*pb.Recipe, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	r, err := h.catalog.PutRecipe(ctx, recipeFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "PutRecipe", err)
	}
	return recipeToProto(r), nil
}

func (h *CatalogHandlers) ListRecipes(ctx context.Context, _ *pb.Empty) (*pb.ListRecipesResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	recipes, err := h.catalog.ListRecipes(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListRecipes", err)
	}
	out := make([]*pb.Recipe, len(recipes))
	for i, r := range recipes {
		out[i] = recipeToProto(r)
	}
	return &pb.ListRecipesResponse{Recipes: out}, nil
}

func (h *CatalogHandlers) RemoveRecipe(ctx context.Context, req *pb.IDRequest) (*pb.Empty, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	if err := h.catalog.RemoveRecipe(ctx, req.Id); err != nil {
		return nil, handleError(ctx, h.logger, "RemoveRecipe", err)
	}
	return &pb.Empty{}, nil
}

func (h *CatalogHandlers) GetRecipeCost(ctx context.Context, req *pb.IDRequest) (*pb.RecipeCost, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	cost, err := h.catalog.RecipeCost(ctx, req.Id)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetRecipeCost", err)
	}
	return &pb.RecipeCost{RecipeId: cost.RecipeID, Total: cost.Total, PerServing: cost.PerServing}, nil
}

func (h *CatalogHandlers) GetRecipeAllergens(ctx context.Context, req *pb.IDRequest) (*pb.AllergensResponse, error) {
	if err := requireField("id", req.Id); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	allergens, err := h.catalog.RecipeAllergens(ctx, req.Id)
	if err != nil {
		return nil, handleError(ctx, h.logger, "GetRecipeAllergens", err)
	}
	return &pb.AllergensResponse{Allergens: allergens}, nil
}

func (h *CatalogHandlers) PutMenu(ctx context.Context, req *pb.Menu) (*pb.Menu, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	m, err := h.catalog.PutMenu(ctx, menuFromProto(req))
	if err != nil {
		return nil, handleError(ctx, h.logger, "PutMenu", err)
	}
	return menuToProto(m), nil
}

func (h *CatalogHandlers) ListMenus(ctx context.Context, _ *pb.Empty) (*pb.ListMenusResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	menus, err := h.catalog.ListMenus(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListMenus", err)
	}
	out := make([]*pb.Menu, len(menus))
	for i, m := range menus {
		out[i] = menuToProto(m)
	}
	return &pb.ListMenusResponse{Menus: out}, nil
}

func validateScaleRequest(req *pb.ScaleMenuRequest) error {
	if err := requireField("menuId", req.MenuId); err != nil {
		return err
	}
	if req.Pax < 0 {
		return status.Error(codes.InvalidArgument, "pax must not be negative")
	}
	return nil
}

func (h *CatalogHandlers) ScaleMenu(ctx context.Context, req *pb.ScaleMenuRequest) (*pb.ScaleMenuResponse, error) {
	if err := validateScaleRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	lines, err := h.catalog.ScaleMenu(ctx, req.MenuId, int(req.Pax))
	if err != nil {
		return nil, handleError(ctx, h.logger, "ScaleMenu", err)
	}
	return &pb.ScaleMenuResponse{Lines: orderLinesToProto(lines)}, nil
}

func (h *CatalogHandlers) CreateOrder(ctx context.Context, req *pb.ScaleMenuRequest) (*pb.Order, error) {
	if err := validateScaleRequest(req); err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	order, err := h.catalog.CreateOrder(ctx, req.MenuId, int(req.Pax))
	if err != nil {
		return nil, handleError(ctx, h.logger, "CreateOrder", err)
	}
	return orderToProto(order), nil
}

func (h *CatalogHandlers) ListOrders(ctx context.Context, _ *pb.Empty) (*pb.ListOrdersResponse, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultGRPCTimeout)
	defer cancel()

	orders, err := h.catalog.ListOrders(ctx)
	if err != nil {
		return nil, handleError(ctx, h.logger, "ListOrders", err)
	}
	out := make([]*pb.Order, len(orders))
	for i, o := range orders {
		out[i] = orderToProto(o)
	}
	return &pb.ListOrdersResponse{Orders: out}, nil
}
