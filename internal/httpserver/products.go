package httpserver

import (
	"net/http"
	"strconv"

	"storefront/internal/service/catalog"

	"github.com/gin-gonic/gin"
)

func listProductsHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		in := catalog.ListInput{
			Category: c.Query("category"),
			Search:   c.Query("search"),
			Sort:     c.Query("sort"),
		}
		if v := c.Query("minPriceCents"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid minPriceCents"})
				return
			}
			in.MinPriceCents = &cents
		}
		if v := c.Query("maxPriceCents"); v != "" {
			cents, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid maxPriceCents"})
				return
			}
			in.MaxPriceCents = &cents
		}
		if v := c.Query("page"); v != "" {
			in.Page, _ = strconv.Atoi(v)
		}
		if v := c.Query("limit"); v != "" {
			in.Limit, _ = strconv.Atoi(v)
		}

		page, err := svc.ListProducts(c.Request.Context(), in)
		if err != nil {
			writeError(c, err, "failed to list products")
			return
		}
		c.JSON(http.StatusOK, page)
	}
}

func getProductHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		product, err := svc.GetProduct(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err, "failed to load product")
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

func listCategoriesHandler(svc catalogService) gin.HandlerFunc {
	return func(c *gin.Context) {
		categories, err := svc.ListCategories(c.Request.Context())
		if err != nil {
			writeError(c, err, "failed to list categories")
			return
		}
		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}
