package router

import (
	"github.com/Payphone-Digital/catalog/internal/constants"
	"github.com/Payphone-Digital/catalog/internal/middleware"
	"github.com/gin-gonic/gin"
)

func (r *Router) productRoutes(rg *gin.RouterGroup) {
	products := rg.Group("/products")
	if r.limiter != nil {
		products.Use(middleware.RateLimit(r.limiter))
	}
	products.Use(middleware.ContextValidation())
	{
		products.GET("", r.productHandler.List)
		products.GET("/filters", r.productHandler.Filters)
		products.GET("/:"+constants.PathParamID, r.productHandler.GetByID)
	}
}
