package store

import (
	"context"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
)

// ListProducts returns the catalog, newest first.
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	err := s.conn(ctx).Order("created_at DESC").Order("id DESC").Find(&products).Error
	return products, translate(err)
}

func (s *Store) ProductByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := s.conn(ctx).First(&p, id).Error; err != nil {
		return nil, translate(err)
	}
	return &p, nil
}

func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	return translate(s.conn(ctx).Create(p).Error)
}

// ReplaceProduct overwrites every mutable column of the product, zero values
// included.
func (s *Store) ReplaceProduct(ctx context.Context, p *models.Product) error {
	err := s.conn(ctx).Model(p).
		Select("name", "description", "price", "unit", "image", "available", "tag", "stock").
		Updates(p).Error
	return translate(err)
}

func (s *Store) SetProductImage(ctx context.Context, id uint, image string) error {
	err := s.conn(ctx).Model(&models.Product{}).Where("id = ?", id).Update("image", image).Error
	return translate(err)
}

func (s *Store) DeleteProduct(ctx context.Context, id uint) error {
	res := s.conn(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DecrementStock subtracts qty only if enough stock remains. It reports
// whether the row was updated.
func (s *Store) DecrementStock(ctx context.Context, id uint, qty int) (bool, error) {
	res := s.conn(ctx).Exec("UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?", qty, id, qty)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// RestoreStock adds qty back. A product deleted since the order was placed is
// skipped.
func (s *Store) RestoreStock(ctx context.Context, id uint, qty int) error {
	return translate(s.conn(ctx).Exec("UPDATE products SET stock = stock + ? WHERE id = ?", qty, id).Error)
}

// LowStockProducts lists products at or below threshold, emptiest first.
func (s *Store) LowStockProducts(ctx context.Context, threshold int) ([]models.Product, error) {
	var products []models.Product
	err := s.conn(ctx).Where("stock <= ?", threshold).Order("stock ASC").Order("name ASC").Find(&products).Error
	return products, translate(err)
}

func (s *Store) CountProducts(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Product{}).Count(&n).Error
	return n, translate(err)
}
