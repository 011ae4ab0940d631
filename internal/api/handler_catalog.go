package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixpoint-backend/internal/store"
)

type nameRequest struct {
	Name string `json:"name"`
}

// catalogHandler serves one soft-deletable registry.
type catalogHandler[T any] struct {
	catalog store.Catalog[T]
}

// registerCatalog mounts list, create, rename, delete and reactivate routes
// for a registry under path.
func registerCatalog[T any](g *gin.RouterGroup, path string, catalog store.Catalog[T]) {
	h := &catalogHandler[T]{catalog: catalog}
	grp := g.Group(path)
	grp.GET("", h.list)
	grp.POST("", h.create)
	grp.PUT("/:id", h.rename)
	grp.DELETE("/:id", h.remove)
	grp.POST("/:id/reactivate", h.reactivate)
}

func (h *catalogHandler[T]) list(c *gin.Context) {
	rows, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *catalogHandler[T]) create(c *gin.Context) {
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.catalog.Create(c.Request.Context(), req.Name)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"id": res.ID, "reactivated": res.Reactivated})
}

func (h *catalogHandler[T]) rename(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.catalog.Rename(c.Request.Context(), id, req.Name); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

func (h *catalogHandler[T]) remove(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	res, err := h.catalog.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"outcome": res.Outcome, "disabled": res.Disabled})
}

func (h *catalogHandler[T]) reactivate(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.catalog.Reactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"reactivated": true})
}
