// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"
)

// RecordRouteHandler defines the interface for event record handlers.
// All record handlers expose the same CRUD surface.
type RecordRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterRecordRoutes registers standard CRUD routes for an event
// record type. This eliminates the need to manually wire up routes for
// each record handler.
//
// Usage:
//
//	repo := record_repo.NewMortalityRepo(cfg.TxManager)
//	handler := handlers.NewMortalityHandler(baseHandler, engine, repo)
//	RegisterRecordRoutes(api.Group("/mortality"), handler)
func RegisterRecordRoutes(group *gin.RouterGroup, handler RecordRouteHandler) {
	group.GET("", handler.List)
	group.POST("", handler.Create)
	group.GET("/:id", handler.Get)
	group.PUT("/:id", handler.Update)
	group.DELETE("/:id", handler.Delete)
}
