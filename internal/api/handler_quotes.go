package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixpoint-backend/internal/store"
)

// CreateQuote stores a customer quote and notifies its fixpoint, if any.
func (h *Handler) CreateQuote(c *gin.Context) {
	var req store.QuoteInput
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.store.Quotes.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	if req.FixpointID != nil && h.notifier != nil {
		h.notifier.NotifyAssignment(id, *req.FixpointID)
	}
	ok(c, gin.H{"quote_id": id})
}

// GetQuotes lists every quote, newest first.
func (h *Handler) GetQuotes(c *gin.Context) {
	quotes, err := h.store.Quotes.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetQuote returns one quote with the fixpoint header a printed quote needs.
func (h *Handler) GetQuote(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	quote, err := h.store.Quotes.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

type assignRequest struct {
	FixpointID int64 `json:"fixpoint_id"`
}

// AssignQuote hands a quote to a fixpoint and pushes a notification to the
// fixpoint's subscribed browsers.
func (h *Handler) AssignQuote(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req assignRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.store.Quotes.AssignFixpoint(c.Request.Context(), id, req.FixpointID); err != nil {
		writeError(c, err)
		return
	}
	if h.notifier != nil {
		h.notifier.NotifyAssignment(id, req.FixpointID)
	}
	ok(c, nil)
}

type statusRequest struct {
	Status string `json:"status"`
}

// SetQuoteStatus moves a quote to another status.
func (h *Handler) SetQuoteStatus(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := h.store.Quotes.SetStatus(c.Request.Context(), id, req.Status); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// GetFixpointQuotes lists the quotes of ?fixpoint_id.
func (h *Handler) GetFixpointQuotes(c *gin.Context) {
	quotes, err := h.store.Quotes.ListForFixpoint(c.Request.Context(), queryID(c, "fixpoint_id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, quotes)
}

// GetStatsOverview returns the quote rollup used for reporting.
func (h *Handler) GetStatsOverview(c *gin.Context) {
	overview, err := h.store.Stats.Overview(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, overview)
}
