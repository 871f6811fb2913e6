package httpserver

import (
	"context"
	"log"

	"storefront/internal/domain"
	adminsvc "storefront/internal/service/admin"
	"storefront/internal/service/catalog"
	"storefront/internal/service/checkout"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type catalogService interface {
	ListProducts(ctx context.Context, in catalog.ListInput) (*catalog.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
	CreateProduct(ctx context.Context, in catalog.ProductInput) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in catalog.ProductInput) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	CreateCategory(ctx context.Context, in catalog.CategoryInput) (*domain.Category, error)
	UpdateCategory(ctx context.Context, id string, in catalog.CategoryInput) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id string) error
}

type checkoutService interface {
	PlaceOrder(ctx context.Context, in checkout.PlaceOrderInput) (*domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (*domain.Order, error)
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
}

type adminService interface {
	Login(ctx context.Context, email, password string) (string, *domain.Admin, error)
	Verify(token string) (*adminsvc.Claims, error)
}

// Deps carries everything the router needs.
type Deps struct {
	Catalog  catalogService
	Checkout checkoutService
	Admin    adminService
	Importer importerFactory
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps, corsOrigins []string) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowOrigins = corsOrigins
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")
	{
		api.GET("/products", listProductsHandler(deps.Catalog))
		api.GET("/products/:id", getProductHandler(deps.Catalog))
		api.GET("/categories", listCategoriesHandler(deps.Catalog))
		api.POST("/orders", placeOrderHandler(deps.Checkout, logger))
	}

	adminGroup := router.Group("/admin")
	adminGroup.POST("/login", loginHandler(deps.Admin))

	authed := adminGroup.Group("")
	authed.Use(authMiddleware(deps.Admin))
	{
		authed.POST("/products", createProductHandler(deps.Catalog))
		authed.PUT("/products/:id", updateProductHandler(deps.Catalog))
		authed.DELETE("/products/:id", deleteProductHandler(deps.Catalog))
		authed.POST("/categories", createCategoryHandler(deps.Catalog))
		authed.PUT("/categories/:id", updateCategoryHandler(deps.Catalog))
		authed.DELETE("/categories/:id", deleteCategoryHandler(deps.Catalog))
		authed.GET("/customers", listCustomersHandler(deps.Checkout))
		authed.GET("/orders", listOrdersHandler(deps.Checkout))
		authed.GET("/orders/:id", getOrderHandler(deps.Checkout))
		authed.PUT("/orders/:id/status", updateOrderStatusHandler(deps.Checkout))
		authed.POST("/upload-csv", uploadCSVHandler(deps.Importer, logger))
	}

	return router
}
