package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/callcrm/backend/internal/infrastructure/logger"
	"github.com/callcrm/backend/internal/infrastructure/notify"
)

// NotifyHandler upgrades authenticated connections to the tenant event stream.
type NotifyHandler struct {
	BaseHandler
	hub *notify.Hub
}

// NewNotifyHandler creates a new NotifyHandler
func NewNotifyHandler(hub *notify.Hub) *NotifyHandler {
	return &NotifyHandler{hub: hub}
}

// Subscribe upgrades the request to a WebSocket and streams domain
// events scoped to the caller's tenant until the peer disconnects.
func (h *NotifyHandler) Subscribe(c *gin.Context) {
	tenantID, err := getTenantID(c)
	if err != nil {
		h.Unauthorized(c, "Missing tenant context")
		return
	}

	if err := h.hub.ServeClient(c.Writer, c.Request, tenantID); err != nil {
		logger.GetGinLogger(c).Warn("WebSocket upgrade failed",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
		return
	}
}
