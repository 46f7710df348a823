package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	catalogrepo "storefront/internal/repository/catalog"
)

// lowStockThreshold is the stock level below which a combination shows up
// on the admin alerting endpoint.
const lowStockThreshold = 5

func createCombinationHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			ProductID  string   `json:"productId"`
			VariantIDs []string `json:"variantIds"`
			Stock      int      `json:"stock"`
			Price      *float64 `json:"price"`
			Image      *string  `json:"image"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.ProductID == "" || len(in.VariantIDs) == 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "productId and variantIds are required"})
			return
		}

		combo, err := repo.CreateCombination(c.Request.Context(), catalogrepo.CreateCombinationInput{
			ProductID:  in.ProductID,
			VariantIDs: in.VariantIDs,
			Stock:      in.Stock,
			Price:      in.Price,
			Image:      in.Image,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "combination": combo})
	}
}

func listCombinationsHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		combos, err := repo.ListCombinations(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "combinations": combos})
	}
}

func productCombinationsHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		combos, err := repo.ListCombinationsByProduct(c.Request.Context(), c.Param("productId"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "combinations": combos})
	}
}

func lowStockHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		combos, err := repo.ListLowStock(c.Request.Context(), lowStockThreshold)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "lowStock": combos})
	}
}

func setStockHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Stock *int `json:"stock"`
		}
		if err := c.ShouldBindJSON(&in); err != nil || in.Stock == nil || *in.Stock < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "stock must be a non-negative number"})
			return
		}

		combo, err := repo.SetStock(c.Request.Context(), c.Param("id"), *in.Stock)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "variantCombination": combo})
	}
}

func restockHandler(repo catalogrepo.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Quantity int `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid request body"})
			return
		}

		combo, err := repo.Restock(c.Request.Context(), c.Param("id"), in.Quantity)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "variantCombination": combo})
	}
}
