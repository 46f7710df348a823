package httpserver

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"storefront/internal/payment"
	catalogrepo "storefront/internal/repository/catalog"
	cartsvc "storefront/internal/service/cart"
	checkoutsvc "storefront/internal/service/checkout"
	couponsvc "storefront/internal/service/coupon"
	ordersvc "storefront/internal/service/order"
)

// Deps bundles the services the router exposes.
type Deps struct {
	CheckoutSvc *checkoutsvc.Service
	OrderSvc    *ordersvc.Service
	CouponSvc   *couponsvc.Service
	CartSvc     *cartsvc.Service
	CatalogRepo catalogrepo.Repository
	PaymentAuth payment.Authority
}

// buildRouter wires routes for the API. Authentication happens upstream;
// the authenticated user arrives as the X-User-ID header.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", "X-User-ID")
	router.Use(cors.New(corsCfg))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	api := router.Group("/api")

	orders := api.Group("/orders", userMiddleware())
	orders.POST("", createOrderHandler(deps.CheckoutSvc, logger))
	orders.GET("/my-orders", userOrdersHandler(deps.OrderSvc))
	orders.GET("/all", allOrdersHandler(deps.OrderSvc))
	orders.PUT("/status/:id", orderStatusHandler(deps.OrderSvc))

	coupons := api.Group("/coupons")
	coupons.POST("/apply", applyCouponHandler(deps.CouponSvc))
	coupons.POST("", createCouponHandler(deps.CouponSvc))
	coupons.GET("", listCouponsHandler(deps.CouponSvc))
	coupons.DELETE("/:code", deleteCouponHandler(deps.CouponSvc))

	cart := api.Group("/cart", userMiddleware())
	cart.GET("", getCartHandler(deps.CartSvc))
	cart.POST("", addToCartHandler(deps.CartSvc))
	cart.PUT("/:itemId", updateCartItemHandler(deps.CartSvc))
	cart.DELETE("/:itemId", removeCartItemHandler(deps.CartSvc))
	cart.DELETE("", clearCartHandler(deps.CartSvc))

	combos := api.Group("/product-variant-combination")
	combos.POST("", createCombinationHandler(deps.CatalogRepo))
	combos.GET("", listCombinationsHandler(deps.CatalogRepo))
	combos.GET("/low-stock/all", lowStockHandler(deps.CatalogRepo))
	combos.GET("/:productId", productCombinationsHandler(deps.CatalogRepo))
	combos.PUT("/stock/:id", setStockHandler(deps.CatalogRepo))
	combos.PUT("/restock/:id", restockHandler(deps.CatalogRepo))

	payments := api.Group("/payments", userMiddleware())
	payments.POST("/create", createPaymentHandler(deps.PaymentAuth))
	payments.POST("/capture/:reference", capturePaymentHandler(deps.PaymentAuth))

	return router
}
