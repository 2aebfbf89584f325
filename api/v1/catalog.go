package v1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/timestamppb"
)

const CatalogServiceName = "cocina.v1.Catalog"

type Product struct {
	Id           string   `json:"id"`
	Name         string   `json:"name"`
	Unit         string   `json:"unit"`
	Category     string   `json:"category,omitempty"`
	PricePerUnit float64  `json:"pricePerUnit"`
	Allergens    []string `json:"allergens,omitempty"`
}

type Ingredient struct {
	ProductId string  `json:"productId"`
	Quantity  float64 `json:"quantity"`
}

type Recipe struct {
	Id          string        `json:"id"`
	Name        string        `json:"name"`
	Servings    int32         `json:"servings"`
	Ingredients []*Ingredient `json:"ingredients"`
	Steps       []string      `json:"steps,omitempty"`
}

type Menu struct {
	Id        string   `json:"id"`
	Name      string   `json:"name"`
	Pax       int32    `json:"pax"`
	RecipeIds []string `json:"recipeIds"`
}

type OrderLine struct {
	ProductId string  `json:"productId"`
	Name      string  `json:"name"`
	Unit      string  `json:"unit"`
	Quantity  float64 `json:"quantity"`
	Cost      float64 `json:"cost"`
}

type Order struct {
	Id        string                 `json:"id"`
	MenuId    string                 `json:"menuId"`
	Pax       int32                  `json:"pax"`
	CreatedAt *timestamppb.Timestamp `json:"createdAt"`
	Lines     []*OrderLine           `json:"lines"`
	Total     float64                `json:"total"`
}

type ListProductsResponse struct {
	Products []*Product `json:"products"`
}

type ListRecipesResponse struct {
	Recipes []*Recipe `json:"recipes"`
}

type ListMenusResponse struct {
	Menus []*Menu `json:"menus"`
}

type ListOrdersResponse struct {
	Orders []*Order `json:"orders"`
}

type RecipeCost struct {
	RecipeId   string  `json:"recipeId"`
	Total      float64 `json:"total"`
	PerServing float64 `json:"perServing"`
}

type AllergensResponse struct {
	Allergens []string `json:"allergens"`
}

// ScaleMenuRequest uses the menu's own pax when Pax is 0.
type ScaleMenuRequest struct {
	MenuId string `json:"menuId"`
	Pax    int32  `json:"pax"`
}

type ScaleMenuResponse struct {
	Lines []*OrderLine `json:"lines"`
}

// CatalogServer is the server API for the cocina.v1.Catalog service.
type CatalogServer interface {
	PutProduct(context.Context, *Product) (*Product, error)
	ListProducts(context.Context, *Empty) (*ListProductsResponse, error)
	RemoveProduct(context.Context, *IDRequest) (*Empty, error)
	PutRecipe(context.Context, *Recipe) (*Recipe, error)
	ListRecipes(context.Context, *Empty) (*ListRecipesResponse, error)
	RemoveRecipe(context.Context, *IDRequest) (*Empty, error)
	GetRecipeCost(context.Context, *IDRequest) (*RecipeCost, error)
	GetRecipeAllergens(context.Context, *IDRequest) (*AllergensResponse, error)
	PutMenu(context.Context, *Menu) (*Menu, error)
	ListMenus(context.Context, *Empty) (*ListMenusResponse, error)
	ScaleMenu(context.Context, *ScaleMenuRequest) (*ScaleMenuResponse, error)
	CreateOrder(context.Context, *ScaleMenuRequest) (*Order, error)
	ListOrders(context.Context, *Empty) (*ListOrdersResponse, error)
}

var Catalog_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CatalogServiceName,
	HandlerType: (*CatalogServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CatalogServiceName, "PutProduct", CatalogServer.PutProduct),
		unary(CatalogServiceName, "ListProducts", CatalogServer.ListProducts),
		unary(CatalogServiceName, "RemoveProduct", CatalogServer.RemoveProduct),
		unary(CatalogServiceName, "PutRecipe", CatalogServer.PutRecipe),
		unary(CatalogServiceName, "ListRecipes", CatalogServer.ListRecipes),
		unary(CatalogServiceName, "RemoveRecipe", CatalogServer.RemoveRecipe),
		unary(CatalogServiceName, "GetRecipeCost", CatalogServer.GetRecipeCost),
		unary(CatalogServiceName, "GetRecipeAllergens", CatalogServer.GetRecipeAllergens),
		unary(CatalogServiceName, "PutMenu", CatalogServer.PutMenu),
		unary(CatalogServiceName, "ListMenus", CatalogServer.ListMenus),
		unary(CatalogServiceName, "ScaleMenu", CatalogServer.ScaleMenu),
		unary(CatalogServiceName, "CreateOrder", CatalogServer.CreateOrder),
		unary(CatalogServiceName, "ListOrders", CatalogServer.ListOrders),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "cocina/v1/catalog",
}

func RegisterCatalogServer(s grpc.ServiceRegistrar, srv CatalogServer) {
	s.RegisterService(&Catalog_ServiceDesc, srv)
}

// CatalogClient is the client API for the cocina.v1.Catalog service.
type CatalogClient struct {
	cc grpc.ClientConnInterface
}

func NewCatalogClient(cc grpc.ClientConnInterface) *CatalogClient {
	return &CatalogClient{cc: cc}
}

func catalogMethod(name string) string { return "/" + CatalogServiceName + "/" + name }

func (c *CatalogClient) PutProduct(ctx context.Context, in *Product, opts ...grpc.CallOption) (*Product, error) {
	return invoke[Product](ctx, c.cc, catalogMethod("PutProduct"), in, opts)
}

func (c *CatalogClient) ListProducts(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListProductsResponse, error) {
	return invoke[ListProductsResponse](ctx, c.cc, catalogMethod("ListProducts"), in, opts)
}

func (c *CatalogClient) RemoveProduct(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, catalogMethod("RemoveProduct"), in, opts)
}

func (c *CatalogClient) PutRecipe(ctx context.Context, in *Recipe, opts ...grpc.CallOption) (*Recipe, error) {
	return invoke[Recipe](ctx, c.cc, catalogMethod("PutRecipe"), in, opts)
}

func (c *CatalogClient) ListRecipes(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListRecipesResponse, error) {
	return invoke[ListRecipesResponse](ctx, c.cc, catalogMethod("ListRecipes"), in, opts)
}

func (c *CatalogClient) RemoveRecipe(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, catalogMethod("RemoveRecipe"), in, opts)
}

func (c *CatalogClient) GetRecipeCost(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*RecipeCost, error) {
	return invoke[RecipeCost](ctx, c.cc, catalogMethod("GetRecipeCost"), in, opts)
}

func (c *CatalogClient) GetRecipeAllergens(ctx context.Context, in *IDRequest, opts ...grpc.CallOption) (*AllergensResponse, error) {
	return invoke[AllergensResponse](ctx, c.cc, catalogMethod("GetRecipeAllergens"), in, opts)
}

func (c *CatalogClient) PutMenu(ctx context.Context, in *Menu, opts ...grpc.CallOption) (*Menu, error) {
	return invoke[Menu](ctx, c.cc, catalogMethod("PutMenu"), in, opts)
}

func (c *CatalogClient) ListMenus(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListMenusResponse, error) {
	return invoke[ListMenusResponse](ctx, c.cc, catalogMethod("ListMenus"), in, opts)
}

func (c *CatalogClient) ScaleMenu(ctx context.Context, in *ScaleMenuRequest, opts ...grpc.CallOption) (*ScaleMenuResponse, error) {
	return invoke[ScaleMenuResponse](ctx, c.cc, catalogMethod("ScaleMenu"), in, opts)
}

func (c *CatalogClient) CreateOrder(ctx context.Context, in *ScaleMenuRequest, opts ...grpc.CallOption) (*Order, error) {
	return invoke[Order](ctx, c.cc, catalogMethod("CreateOrder"), in, opts)
}

func (c *CatalogClient) ListOrders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, catalogMethod("ListOrders"), in, opts)
}
