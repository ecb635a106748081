package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"tenant-exit-portal/internal/model"
	"tenant-exit-portal/internal/store"
)

// subscriptionBody is a browser PushSubscription plus the tenant it listens for.
type subscriptionBody struct {
	Endpoint string `json:"endpoint" binding:"required"`
	P256DH   string `json:"p256dh" binding:"required"`
	Auth     string `json:"auth" binding:"required"`
	TenantID string `json:"tenant_id" binding:"required"`
}

type endpointBody struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

func badSubscription(c *gin.Context) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
}

// PutSubscription registers a browser for status pushes of one tenant, replacing
// the keys and tenant of a known endpoint.
func (h *Handler) PutSubscription(c *gin.Context) {
	var body subscriptionBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badSubscription(c)
		return
	}

	sub := &model.PushSubscription{
		Endpoint: body.Endpoint,
		P256DH:   body.P256DH,
		Auth:     body.Auth,
		TenantID: strings.TrimSpace(body.TenantID),
	}
	if err := h.store.UpsertSubscription(c.Request.Context(), sub); err != nil {
		h.log.Error("failed to save subscription", zap.String("tenant_id", sub.TenantID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save subscription"})
		return
	}
	c.Status(http.StatusCreated)
}

// DeleteSubscription forgets an endpoint. Unknown endpoints are not an error.
func (h *Handler) DeleteSubscription(c *gin.Context) {
	var body endpointBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badSubscription(c)
		return
	}
	if err := h.store.DeleteSubscription(c.Request.Context(), body.Endpoint); err != nil {
		h.log.Error("failed to delete subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete subscription"})
		return
	}
	c.Status(http.StatusNoContent)
}

// endpointParam returns the endpoint query value exactly as sent. Push service
// URLs may carry escapes that must survive the lookup.
func endpointParam(rawQuery string) string {
	const prefix = "endpoint="
	for _, pair := range strings.Split(rawQuery, "&") {
		if v, ok := strings.CutPrefix(pair, prefix); ok {
			return v
		}
	}
	return ""
}

// GetSubscription reports the tenant an endpoint is registered for.
func (h *Handler) GetSubscription(c *gin.Context) {
	endpoint := endpointParam(c.Request.URL.RawQuery)
	if endpoint == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endpoint is required"})
		return
	}

	sub, err := h.store.GetSubscription(c.Request.Context(), endpoint)
	switch {
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
	case err != nil:
		h.log.Error("failed to fetch subscription", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch subscription"})
	default:
		c.JSON(http.StatusOK, gin.H{"tenant_id": sub.TenantID})
	}
}
