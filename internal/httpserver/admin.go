package httpserver

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"storefront/internal/domain"
	"storefront/internal/importer"
	"storefront/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

type importerFactory interface {
	Import(ctx context.Context, r io.Reader) (*importer.Result, error)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func loginHandler(svc adminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}

		token, account, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"admin": gin.H{"id": account.ID, "email": account.Email},
		})
	}
}

func authMiddleware(svc adminService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		claims, err := svc.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set("adminID", claims.AdminID)
		c.Next()
	}
}

func createProductHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		product, err := svc.CreateProduct(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, "failed to create product")
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

func updateProductHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.ProductInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		product, err := svc.UpdateProduct(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err, "failed to update product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func deleteProductHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteProduct(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err, "failed to delete product")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func createCategoryHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := svc.CreateCategory(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, "failed to create category")
			return
		}
		c.JSON(http.StatusCreated, category)
	}
}

func updateCategoryHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in catalog.CategoryInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		category, err := svc.UpdateCategory(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err, "failed to update category")
			return
		}
		c.JSON(http.StatusOK, category)
	}
}

func deleteCategoryHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err, "failed to delete category")
			return
		}
		c.Status(http.StatusNoContent)
	}
}

func listOrdersHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListOrders(c.Request.Context())
		if err != nil {
			writeError(c, err, "failed to list orders")
			return
		}
		if orders == nil {
			orders = []domain.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"orders": orders})
	}
}

func listCustomersHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := svc.ListCustomers(c.Request.Context())
		if err != nil {
			writeError(c, err, "failed to list customers")
			return
		}
		if customers == nil {
			customers = []domain.Customer{}
		}
		c.JSON(http.StatusOK, gin.H{"customers": customers})
	}
}

func getOrderHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		order, err := svc.GetOrder(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err, "failed to load order")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

type statusRequest struct {
	Status string `json:"status" binding:"required"`
}

func updateOrderStatusHandler(svc checkoutService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req statusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
			return
		}
		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
		if err != nil {
			writeError(c, err, "failed to update order status")
			return
		}
		c.JSON(http.StatusOK, order)
	}
}

func uploadCSVHandler(imp importerFactory, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		fileHeader, err := c.FormFile("csvFile")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file uploaded"})
			return
		}
		if !strings.HasSuffix(strings.ToLower(fileHeader.Filename), ".csv") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "file must be a CSV"})
			return
		}

		file, err := fileHeader.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read upload"})
			return
		}
		defer file.Close()

		result, err := imp.Import(c.Request.Context(), file)
		if err != nil {
			logger.Printf("csv import failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": importSummary(result),
			"details": result,
		})
	}
}

func importSummary(r *importer.Result) string {
	return fmt.Sprintf("Processing complete. Created: %d, Updated: %d, Errors: %d", r.Created, r.Updated, len(r.Errors))
}
