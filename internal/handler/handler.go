package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SebaxtriUTP/colombia-explora/internal/client"
)

// Handler обслуживает служебный HTTP-интерфейс бота: проверку живости и
// сквозное чтение каталога через клиент внешнего API.
type Handler struct {
	Destinations *client.DestinationClient
}

// NewHandler создает новый Handler с внедрением клиента каталога.
func NewHandler(destinations *client.DestinationClient) *Handler {
	return &Handler{Destinations: destinations}
}

// Health обработчик для GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListDestinations обработчик для GET /destinations — читает каталог у
// внешнего API без токена (каталог публичный) и отдает как есть.
func (h *Handler) ListDestinations(c *gin.Context) {
	dests, err := h.Destinations.List("")
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "No se pudo obtener el catálogo"})
		return
	}
	c.JSON(http.StatusOK, dests)
}
