package handler

import (
	"log/slog"
	"net/http"

	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string           `json:"name" binding:"required"`
	Description string           `json:"description"`
	Price       *decimal.Decimal `json:"price" binding:"required"`
	Unit        string           `json:"unit" binding:"required"`
	Image       string           `json:"image"`
	Available   *bool            `json:"available"`
	Tag         *string          `json:"tag"`
	Stock       *int             `json:"stock"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       *r.Price,
		Unit:        r.Unit,
		Image:       r.Image,
		Available:   r.Available,
		Tag:         r.Tag,
		Stock:       r.Stock,
	}
}

type ProductHandler struct {
	catalog *service.CatalogService
	log     *slog.Logger
}

func NewProductHandler(catalog *service.CatalogService, log *slog.Logger) *ProductHandler {
	return &ProductHandler{catalog: catalog, log: log}
}

func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.catalog.List(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := idParam(c, "id", "Product not found")
	if !ok {
		return
	}
	product, err := h.catalog.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name, price, and unit are required")
		return
	}

	product, err := h.catalog.Create(c.Request.Context(), req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := idParam(c, "id", "Product not found")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Name, price, and unit are required")
		return
	}

	product, err := h.catalog.Update(c.Request.Context(), id, req.input())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := idParam(c, "id", "Product not found")
	if !ok {
		return
	}
	if err := h.catalog.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

// UploadImage expects a multipart form with the file under "image".
func (h *ProductHandler) UploadImage(c *gin.Context) {
	id, ok := idParam(c, "id", "Product not found")
	if !ok {
		return
	}
	fh, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "Image file is required")
		return
	}

	product, err := h.catalog.SetImage(c.Request.Context(), id, fh)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}
