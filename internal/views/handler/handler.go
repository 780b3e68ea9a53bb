package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dayboard/dayboard/internal/views/service"
	"github.com/dayboard/dayboard/pkg/logger"
	"github.com/dayboard/dayboard/pkg/respond"
)

type visitRequest struct {
	VisitorID *string `json:"visitorId"`
}

// RegisterViewRoutes mounts the view-counter endpoints on rg:
//
//	GET  /             all counters
//	GET  /:slug        count a view (de-duplicated when ?visitorId= is given)
//	POST /:slug        count a view for {"visitorId": "..."}
//	GET  /:slug/stats  read-only lookup; ?ensure=true creates a zero record
func RegisterViewRoutes(rg gin.IRoutes, svc service.Service) {
	rg.GET("", func(c *gin.Context) {
		items := svc.List(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"totalCount": len(items), "items": items})
	})

	rg.GET("/:slug", func(c *gin.Context) {
		var visitor *string
		if v, ok := c.GetQuery("visitorId"); ok {
			visitor = &v
		}
		v, err := svc.RecordView(c.Request.Context(), c.Param("slug"), visitor)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	rg.POST("/:slug", func(c *gin.Context) {
		var req visitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.BadRequest(c, "Request body must be valid JSON.")
			return
		}
		if req.VisitorID == nil {
			respond.BadRequest(c, "Visitor ID is required.")
			return
		}
		v, err := svc.RecordView(c.Request.Context(), c.Param("slug"), req.VisitorID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})

	rg.GET("/:slug/stats", func(c *gin.Context) {
		slug := c.Param("slug")
		get := svc.Get
		if c.Query("ensure") == "true" {
			get = svc.GetOrCreate
		}
		v, err := get(c.Request.Context(), slug)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	})
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmptySlug):
		respond.BadRequest(c, "Slug is required.")
	case errors.Is(err, service.ErrEmptyVisitor):
		respond.BadRequest(c, "Visitor ID is required.")
	case errors.Is(err, service.ErrNotFound):
		respond.NotFound(c, "No views recorded for "+c.Param("slug")+".")
	default:
		logger.Errorf("views %s %s: %v", c.Request.Method, c.FullPath(), err)
		respond.InternalError(c)
	}
}
