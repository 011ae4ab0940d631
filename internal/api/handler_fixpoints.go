package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fixpoint-backend/internal/store"
)

// GetFixpoints lists every fixpoint ordered by city and name.
func (h *Handler) GetFixpoints(c *gin.Context) {
	fixpoints, err := h.store.Fixpoints.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fixpoints)
}

// GetFixpoint returns a single fixpoint.
func (h *Handler) GetFixpoint(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	fp, err := h.store.Fixpoints.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, fp)
}

// CreateFixpoint registers a new repair shop.
func (h *Handler) CreateFixpoint(c *gin.Context) {
	var req store.FixpointInput
	if !bindJSON(c, &req) {
		return
	}
	id, err := h.store.Fixpoints.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"id": id})
}

// UpdateFixpoint replaces the details of a fixpoint.
func (h *Handler) UpdateFixpoint(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req store.FixpointInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.store.Fixpoints.Update(c.Request.Context(), id, req); err != nil {
		writeError(c, err)
		return
	}
	ok(c, nil)
}

// DeleteFixpoint removes a fixpoint with its quotes, users and subscriptions.
func (h *Handler) DeleteFixpoint(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	res, err := h.store.Fixpoints.Delete(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"deleted": res})
}

type createUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetFixpointUsers lists the users of a fixpoint.
func (h *Handler) GetFixpointUsers(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	users, err := h.store.Users.ListForFixpoint(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateFixpointUser adds a user account to a fixpoint.
func (h *Handler) CreateFixpointUser(c *gin.Context) {
	id, valid := pathID(c)
	if !valid {
		return
	}
	var req createUserRequest
	if !bindJSON(c, &req) {
		return
	}
	userID, err := h.store.Users.Create(c.Request.Context(), store.UserInput{
		Email:      req.Email,
		Password:   req.Password,
		FixpointID: &id,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"id": userID})
}
