package httpserver

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	checkoutsvc "storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
)

func createOrderHandler(svc *checkoutsvc.Service, logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in checkoutsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		order, err := svc.Create(c.Request.Context(), currentUser(c), in)
		if err != nil {
			logger.Printf("httpserver: checkout failed user_id=%s error=%v", currentUser(c), err)
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}

func userOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := svc.ListByUser(c.Request.Context(), currentUser(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

func allOrdersHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page := intQuery(c, "page", 1)
		limit := intQuery(c, "limit", 10)

		orders, total, err := svc.ListAll(c.Request.Context(), page, limit)
		if err != nil {
			respondError(c, err)
			return
		}
		totalPages := total / limit
		if total%limit != 0 {
			totalPages++
		}
		c.JSON(http.StatusOK, gin.H{
			"success":     true,
			"orders":      orders,
			"page":        page,
			"totalPages":  totalPages,
			"totalOrders": total,
		})
	}
}

func orderStatusHandler(svc *ordersvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in ordersvc.StatusInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		order, err := svc.UpdateStatus(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}
