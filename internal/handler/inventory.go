package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultLowStockThreshold = 10

type AddStockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

type InventoryHandler struct {
	catalog *service.CatalogService
	log     *slog.Logger
}

func NewInventoryHandler(catalog *service.CatalogService, log *slog.Logger) *InventoryHandler {
	return &InventoryHandler{catalog: catalog, log: log}
}

func (h *InventoryHandler) AddStock(c *gin.Context) {
	id, ok := idParam(c, "id", "Product not found")
	if !ok {
		return
	}
	var req AddStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Quantity must be a positive number")
		return
	}

	product, err := h.catalog.AddStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Stock added successfully", "product": product})
}

// GetLowStockAlerts lists products at or below ?threshold= (default 10).
func (h *InventoryHandler) GetLowStockAlerts(c *gin.Context) {
	threshold := defaultLowStockThreshold
	if raw := c.Query("threshold"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			badRequest(c, "threshold must be a number")
			return
		}
		threshold = n
	}

	products, err := h.catalog.LowStock(c.Request.Context(), threshold)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"threshold": threshold, "products": products})
}
