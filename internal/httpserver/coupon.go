package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	couponsvc "storefront/internal/service/coupon"
)

func applyCouponHandler(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Code string `json:"code"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Code == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "coupon code is required"})
			return
		}

		coupon, err := svc.Validate(c.Request.Context(), in.Code)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"coupon": gin.H{
				"code":     coupon.Code,
				"discount": coupon.Discount,
				"type":     coupon.Type,
			},
		})
	}
}

func createCouponHandler(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in couponsvc.CreateInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		coupon, err := svc.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "coupon": coupon})
	}
}

func listCouponsHandler(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		coupons, err := svc.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "coupons": coupons})
	}
}

func deleteCouponHandler(svc *couponsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.Delete(c.Request.Context(), c.Param("code")); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "coupon deleted"})
	}
}
