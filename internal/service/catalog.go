package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/upload"

	"github.com/shopspring/decimal"
)

type CatalogService struct {
	store   *store.Store
	uploads *upload.Storage
	log     *slog.Logger
}

func NewCatalogService(st *store.Store, uploads *upload.Storage, log *slog.Logger) *CatalogService {
	return &CatalogService{store: st, uploads: uploads, log: log.With("component", "catalog")}
}

// ProductInput carries the mutable product fields. Nil Available and Stock
// fall back to true and 100.
type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Unit        string
	Image       string
	Available   *bool
	Tag         *string
	Stock       *int
}

func (in ProductInput) toModel() (*models.Product, error) {
	name := strings.TrimSpace(in.Name)
	unit := strings.TrimSpace(in.Unit)
	if name == "" || unit == "" || in.Price.IsZero() {
		return nil, Validation("Name, price, and unit are required")
	}
	if in.Price.IsNegative() {
		return nil, Validation("Price must be positive")
	}

	p := &models.Product{
		Name:        name,
		Description: in.Description,
		Price:       in.Price.Round(2),
		Unit:        unit,
		Image:       in.Image,
		Available:   true,
		Stock:       models.DefaultProductStock,
	}
	if in.Available != nil {
		p.Available = *in.Available
	}
	if in.Tag != nil {
		if tag := strings.TrimSpace(*in.Tag); tag != "" {
			p.Tag = &tag
		}
	}
	if in.Stock != nil {
		if *in.Stock < 0 {
			return nil, Validation("Stock cannot be negative")
		}
		p.Stock = *in.Stock
	}
	return p, nil
}

func (s *CatalogService) List(ctx context.Context) ([]models.Product, error) {
	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (s *CatalogService) Get(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.store.ProductByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Product not found")
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *CatalogService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	s.log.Info("Product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update replaces every mutable field; last write wins.
func (s *CatalogService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := in.toModel()
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	p.ID = id
	if err := s.store.ReplaceProduct(ctx, p); err != nil {
		return nil, fmt.Errorf("update product: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *CatalogService) Delete(ctx context.Context, id uint) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return NotFound("Product not found")
		}
		return fmt.Errorf("delete product: %w", err)
	}
	s.log.Info("Product deleted", "product_id", id)
	return nil
}

// SetImage stores a resized copy of the upload and points the product at it.
func (s *CatalogService) SetImage(ctx context.Context, id uint, fh *multipart.FileHeader) (*models.Product, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}

	public, err := s.uploads.SaveProductImage(fh)
	switch {
	case errors.Is(err, upload.ErrTooLarge):
		return nil, Validation("Image must be 10MB or smaller")
	case errors.Is(err, upload.ErrUnsupported):
		return nil, Validation("Unsupported image format. Only PNG, JPG, JPEG are allowed.")
	case err != nil:
		return nil, err
	}

	if err := s.store.SetProductImage(ctx, id, public); err != nil {
		s.uploads.RemovePublic(public)
		return nil, fmt.Errorf("set product image: %w", err)
	}
	return s.Get(ctx, id)
}

// AddStock records a delivery of qty units.
func (s *CatalogService) AddStock(ctx context.Context, id uint, qty int) (*models.Product, error) {
	if qty <= 0 {
		return nil, Validation("Quantity must be a positive number")
	}
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	if err := s.store.RestoreStock(ctx, id, qty); err != nil {
		return nil, fmt.Errorf("add stock: %w", err)
	}
	s.log.Info("Stock added", "product_id", id, "quantity", qty)
	return s.Get(ctx, id)
}

func (s *CatalogService) LowStock(ctx context.Context, threshold int) ([]models.Product, error) {
	if threshold < 0 {
		return nil, Validation("Threshold cannot be negative")
	}
	products, err := s.store.LowStockProducts(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	return products, nil
}
