package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func setupSubscriptionRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handler := NewHandler(nil, nil, nil)
	r.PUT("/api/fixpoints/:id/subscriptions", handler.PutSubscription)
	r.DELETE("/api/fixpoints/:id/subscriptions", handler.DeleteSubscription)
	return r
}

func TestSubscriptionHandlers_RejectBadRequests(t *testing.T) {
	router := setupSubscriptionRouter()

	testCases := []struct {
		name   string
		method string
		path   string
		body   string
		want   string
	}{
		{"put without body", http.MethodPut, "/api/fixpoints/1/subscriptions", "", `{"error":"invalid request"}`},
		{"put missing keys", http.MethodPut, "/api/fixpoints/1/subscriptions", `{"endpoint":"https://push.example/1"}`, `{"error":"invalid request"}`},
		{"put bad fixpoint id", http.MethodPut, "/api/fixpoints/abc/subscriptions", `{"endpoint":"e","p256dh":"k","auth":"a"}`, `{"error":"invalid id"}`},
		{"delete without endpoint", http.MethodDelete, "/api/fixpoints/1/subscriptions", `{}`, `{"error":"invalid request"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(tc.method, tc.path, strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.JSONEq(t, tc.want, w.Body.String())
		})
	}
}
