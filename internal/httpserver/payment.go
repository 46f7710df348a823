package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/payment"
)

func createPaymentHandler(authority payment.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Amount float64 `json:"amount"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid amount"})
			return
		}

		auth, err := authority.Authorize(c.Request.Context(), in.Amount)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "id": auth.Reference})
	}
}

func capturePaymentHandler(authority payment.Authority) gin.HandlerFunc {
	return func(c *gin.Context) {
		capture, err := authority.Capture(c.Request.Context(), c.Param("reference"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "details": capture})
	}
}
