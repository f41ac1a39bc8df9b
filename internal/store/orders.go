package store

import (
	"context"

	"github.com/Priyanshusingh0818/GORUS/internal/models"

	"gorm.io/gorm"
)

// CreateOrder inserts the order together with its items.
func (s *Store) CreateOrder(ctx context.Context, o *models.Order) error {
	return translate(s.conn(ctx).Create(o).Error)
}

func (s *Store) OrderByID(ctx context.Context, id uint) (*models.Order, error) {
	var o models.Order
	if err := s.conn(ctx).Preload("Items", orderItemsByID).First(&o, id).Error; err != nil {
		return nil, translate(err)
	}
	return &o, nil
}

// OrdersByUser returns the user's orders with items, newest first.
func (s *Store) OrdersByUser(ctx context.Context, userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := s.conn(ctx).Preload("Items", orderItemsByID).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&orders).Error
	return orders, translate(err)
}

// ListOrders returns every order with items, newest first. limit <= 0 means
// no limit.
func (s *Store) ListOrders(ctx context.Context, limit int) ([]models.Order, error) {
	var orders []models.Order
	q := s.conn(ctx).Preload("Items", orderItemsByID).Order("created_at DESC").Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&orders).Error
	return orders, translate(err)
}

// TransitionStatus moves the order to `to` only while it is still in `from`.
// It reports whether the row changed, so two racing cancels cannot both win.
func (s *Store) TransitionStatus(ctx context.Context, id uint, from, to models.OrderStatus) (bool, error) {
	res := s.conn(ctx).Model(&models.Order{}).Where("id = ? AND status = ?", id, from).Update("status", to)
	if res.Error != nil {
		return false, translate(res.Error)
	}
	return res.RowsAffected == 1, nil
}

// UpdatePayment sets the payment status and, when given, the payment id and
// order status.
func (s *Store) UpdatePayment(ctx context.Context, id uint, status models.PaymentStatus, paymentID *string, orderStatus *models.OrderStatus) error {
	updates := map[string]interface{}{"payment_status": status}
	if paymentID != nil {
		updates["payment_id"] = *paymentID
	}
	if orderStatus != nil {
		updates["status"] = *orderStatus
	}
	err := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates).Error
	return translate(err)
}

func (s *Store) SetPaymentProof(ctx context.Context, id uint, filename string) error {
	err := s.conn(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(map[string]interface{}{
		"payment_proof":  filename,
		"payment_status": models.PaymentPendingVerification,
	}).Error
	return translate(err)
}

func (s *Store) CountOrders(ctx context.Context) (int64, error) {
	var n int64
	err := s.conn(ctx).Model(&models.Order{}).Count(&n).Error
	return n, translate(err)
}

func orderItemsByID(db *gorm.DB) *gorm.DB {
	return db.Order("order_items.id ASC")
}
