package httpserver

import (
	"errors"
	"log"
	"net/http"

	"storefront/internal/domain"
	"storefront/internal/service/checkout"

	"github.com/gin-gonic/gin"
)

func placeOrderHandler(svc checkoutService, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkout.PlaceOrderInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		order, err := svc.PlaceOrder(c.Request.Context(), in)
		if err != nil {
			logger.Printf("order placement failed: %v", err)
			// An unknown product is a bad submission, not a missing
			// resource; the order itself has no URL yet.
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			writeError(c, err, "failed to create order")
			return
		}
		c.JSON(http.StatusCreated, order)
	}
}
