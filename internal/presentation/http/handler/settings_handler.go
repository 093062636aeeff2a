package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/superpos/terminal-api/internal/application/service"
	"github.com/superpos/terminal-api/internal/config"
	"github.com/superpos/terminal-api/internal/presentation/http/dto/response"
)

// SettingsHandler exposes terminal capabilities to the frontend
type SettingsHandler struct {
	catalogService *service.CatalogService
	cfg            *config.Config
}

// NewSettingsHandler creates a new settings handler
func NewSettingsHandler(catalogService *service.CatalogService, cfg *config.Config) *SettingsHandler {
	return &SettingsHandler{catalogService: catalogService, cfg: cfg}
}

// Get handles retrieving the terminal settings
func (h *SettingsHandler) Get(c *gin.Context) {
	response.OK(c, "Settings retrieved successfully", gin.H{
		"store_name":        h.cfg.App.Name,
		"ai_search_enabled": h.catalogService.SmartSearchEnabled(),
		"printer_type":      h.cfg.Printer.Type,
		"countdown_seconds": h.cfg.Checkout.CountdownTicks,
	})
}
