package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixpoint-backend/internal/store"
)

// GetModels lists the models of ?device_type_id and ?brand_id.
func (h *Handler) GetModels(c *gin.Context) {
	models, err := h.store.Models.List(c.Request.Context(), queryID(c, "device_type_id"), queryID(c, "brand_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models)
}

// CreateModel adds a model under a device type and brand.
func (h *Handler) CreateModel(c *gin.Context) {
	var req store.ModelInput
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.store.Models.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

// RenameModel changes the name of a model.
func (h *Handler) RenameModel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req nameRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.store.Models.Rename(c.Request.Context(), id, req.Name); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// DeleteModel removes a model that is neither priced nor quoted.
func (h *Handler) DeleteModel(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.store.Models.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// GetModelRepairs lists the price list of ?model_id.
func (h *Handler) GetModelRepairs(c *gin.Context) {
	items, err := h.store.PriceList.List(c.Request.Context(), queryID(c, "model_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// UpsertModelRepair sets the price of a repair on a model.
func (h *Handler) UpsertModelRepair(c *gin.Context) {
	var req store.PriceInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.store.PriceList.Upsert(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"id": res.ID, "created": res.Created, "updated": res.Updated})
}

// DeleteModelRepair removes a price-list entry.
func (h *Handler) DeleteModelRepair(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	if err := h.store.PriceList.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}
