package handlers

import (
	"net/http"

	"concierge/services/inventory"
	"concierge/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RoomsHandler proxies the external inventory room listing.
type RoomsHandler struct {
	Inventory inventory.Client
}

func NewRoomsHandler(client inventory.Client) *RoomsHandler {
	return &RoomsHandler{Inventory: client}
}

// ListRooms returns the available rooms. Unlike the chat dispatcher, the
// direct API surfaces inventory failures instead of degrading.
func (h *RoomsHandler) ListRooms(c *gin.Context) {
	rooms, err := h.Inventory.ListRooms(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("failed to list rooms", zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "inventory service unavailable", "")
		return
	}
	c.JSON(http.StatusOK, gin.H{"rooms": rooms})
}
