package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/utils"

	"github.com/shopspring/decimal"
)

// Actor is the authenticated caller, taken from token claims.
type Actor struct {
	UserID  uint
	Email   string
	IsAdmin bool
}

// OrderNotifier queues out-of-band notifications. Implementations must not
// block the caller.
type OrderNotifier interface {
	OrderCreated(order *models.Order, customer *models.User)
	PaymentProofUploaded(order *models.Order, customer *models.User, proofPath string)
}

type OrderService struct {
	store    *store.Store
	notifier OrderNotifier
	log      *slog.Logger
	now      func() time.Time
}

func NewOrderService(st *store.Store, notifier OrderNotifier, log *slog.Logger) *OrderService {
	return &OrderService{store: st, notifier: notifier, log: log.With("component", "orders"), now: time.Now}
}

type OrderItemInput struct {
	ProductID uint
	Name      string
	Quantity  int
}

type ShippingInput struct {
	Name    string
	Address string
	Phone   string
}

// CreateOrderInput is a cart snapshot. Prices always come from the catalog;
// TotalAmount, when present, must match the computed total.
type CreateOrderInput struct {
	Items         []OrderItemInput
	Shipping      ShippingInput
	TotalAmount   *decimal.Decimal
	PaymentMethod models.PaymentMethod
}

func (in *CreateOrderInput) validate() error {
	in.Shipping.Name = strings.TrimSpace(in.Shipping.Name)
	in.Shipping.Address = strings.TrimSpace(in.Shipping.Address)
	in.Shipping.Phone = strings.TrimSpace(in.Shipping.Phone)
	if len(in.Items) == 0 || in.Shipping.Name == "" || in.Shipping.Address == "" || in.Shipping.Phone == "" {
		return Validation("Invalid order data")
	}
	for _, it := range in.Items {
		if it.ProductID == 0 || it.Quantity <= 0 {
			return Validation("Invalid order data")
		}
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = models.PaymentCOD
	}
	if !in.PaymentMethod.Valid() {
		return Validation("Invalid payment method. Only UPI and COD are allowed.")
	}
	return nil
}

func itemLabel(it OrderItemInput) string {
	if it.Name != "" {
		return it.Name
	}
	return fmt.Sprintf("#%d", it.ProductID)
}

// Create validates the cart and, in one transaction, inserts the order with
// its items and decrements stock. Any failure leaves no trace.
func (s *OrderService) Create(ctx context.Context, actor Actor, in CreateOrderInput) (*models.Order, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	paymentStatus := models.PaymentPending
	if in.PaymentMethod == models.PaymentCOD {
		paymentStatus = models.PaymentCashOnDelivery
	}
	order := &models.Order{
		UserID:          actor.UserID,
		OrderNumber:     utils.GenerateOrderNumber(s.now()),
		ShippingName:    in.Shipping.Name,
		ShippingAddress: in.Shipping.Address,
		ShippingPhone:   in.Shipping.Phone,
		PaymentMethod:   in.PaymentMethod,
		PaymentStatus:   paymentStatus,
		Status:          models.StatusPending,
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		total := decimal.Zero
		for _, it := range in.Items {
			product, err := tx.ProductByID(ctx, it.ProductID)
			if errors.Is(err, store.ErrNotFound) {
				return Validation("Product %s not found", itemLabel(it))
			}
			if err != nil {
				return fmt.Errorf("load product %d: %w", it.ProductID, err)
			}
			if product.Stock < it.Quantity {
				return Validation("Insufficient stock for %s. Available: %d, Requested: %d", product.Name, product.Stock, it.Quantity)
			}
			if !product.Available {
				return Validation("Product %s is not available", product.Name)
			}

			ok, err := tx.DecrementStock(ctx, product.ID, it.Quantity)
			if err != nil {
				return fmt.Errorf("decrement stock: %w", err)
			}
			if !ok {
				current, _ := tx.ProductByID(ctx, product.ID)
				available := 0
				if current != nil {
					available = current.Stock
				}
				return Validation("Insufficient stock for %s. Available: %d, Requested: %d", product.Name, available, it.Quantity)
			}

			subtotal := product.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
			total = total.Add(subtotal)
			order.Items = append(order.Items, models.OrderItem{
				ProductID:    product.ID,
				ProductName:  product.Name,
				ProductPrice: product.Price,
				Quantity:     it.Quantity,
				Subtotal:     subtotal,
			})
		}

		if in.TotalAmount != nil && !in.TotalAmount.Round(2).Equal(total.Round(2)) {
			return Validation("Order total %s does not match current prices (%s). Please refresh your cart.",
				in.TotalAmount.StringFixed(2), total.StringFixed(2))
		}
		order.TotalAmount = total

		if err := tx.CreateOrder(ctx, order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("Order created", "order_number", order.OrderNumber, "user_id", actor.UserID,
		"total", order.TotalAmount.StringFixed(2), "payment_method", order.PaymentMethod)

	created, err := s.store.OrderByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	if s.notifier != nil {
		s.notifier.OrderCreated(created, s.customer(ctx, actor, created))
	}
	return created, nil
}

// customer falls back to the shipping name and token email when the user row
// cannot be read.
func (s *OrderService) customer(ctx context.Context, actor Actor, order *models.Order) *models.User {
	if u, err := s.store.UserByID(ctx, order.UserID); err == nil {
		return u
	}
	name := order.ShippingName
	return &models.User{ID: order.UserID, Name: &name, Email: actor.Email}
}

func (s *OrderService) ListMine(ctx context.Context, actor Actor) ([]models.Order, error) {
	orders, err := s.store.OrdersByUser(ctx, actor.UserID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.ListOrders(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// Get returns the order to its owner or to an admin.
func (s *OrderService) Get(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	order, err := s.load(ctx, s.store, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin && order.UserID != actor.UserID {
		return nil, Forbidden("You can only view your own orders")
	}
	return order, nil
}

func (s *OrderService) load(ctx context.Context, st *store.Store, id uint) (*models.Order, error) {
	order, err := st.OrderByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return order, nil
}

func restoreStock(ctx context.Context, tx *store.Store, order *models.Order) error {
	for _, it := range order.Items {
		if err := tx.RestoreStock(ctx, it.ProductID, it.Quantity); err != nil {
			return fmt.Errorf("restore stock for product %d: %w", it.ProductID, err)
		}
	}
	return nil
}

// Cancel lets the owner cancel a pending order. Stock restore and the status
// change commit together.
func (s *OrderService) Cancel(ctx context.Context, actor Actor, id uint) (*models.Order, error) {
	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		order, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if order.UserID != actor.UserID {
			return Forbidden("You can only cancel your own orders")
		}
		if order.Status != models.StatusPending {
			return Conflict("Cannot cancel order with status: %s", order.Status)
		}
		ok, err := tx.TransitionStatus(ctx, id, models.StatusPending, models.StatusCancelled)
		if err != nil {
			return fmt.Errorf("cancel order: %w", err)
		}
		if !ok {
			return Conflict("Cannot cancel order with status: %s", order.Status)
		}
		return restoreStock(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Order cancelled by customer", "order_id", id, "user_id", actor.UserID)
	return s.load(ctx, s.store, id)
}

// SetStatus is the admin transition. Moving into cancelled restores stock
// from any status; nothing leaves cancelled, and a delivered order can only
// be cancelled.
func (s *OrderService) SetStatus(ctx context.Context, id uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Valid() {
		return nil, Validation("Invalid status")
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		order, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if order.Status == status {
			return nil
		}
		if order.Status == models.StatusCancelled {
			return Conflict("Cannot change status of a cancelled order")
		}
		if order.Status == models.StatusDelivered && status != models.StatusCancelled {
			return Conflict("Cannot change status of a delivered order")
		}

		ok, err := tx.TransitionStatus(ctx, id, order.Status, status)
		if err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		if !ok {
			return Conflict("Order status changed concurrently, please retry")
		}
		if status == models.StatusCancelled {
			return restoreStock(ctx, tx, order)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Order status updated", "order_id", id, "status", status)
	return s.load(ctx, s.store, id)
}

// SetPaymentStatus records an admin payment decision. Marking a pending order
// paid also moves it to processing.
func (s *OrderService) SetPaymentStatus(ctx context.Context, id uint, status models.PaymentStatus, paymentID *string) (*models.Order, error) {
	if !status.AdminSettable() {
		return nil, Validation("Invalid payment status")
	}
	if paymentID != nil {
		trimmed := strings.TrimSpace(*paymentID)
		if trimmed == "" {
			paymentID = nil
		} else {
			paymentID = &trimmed
		}
	}

	err := s.store.Transaction(ctx, func(tx *store.Store) error {
		order, err := s.load(ctx, tx, id)
		if err != nil {
			return err
		}
		var next *models.OrderStatus
		if status == models.PaymentPaid && order.Status == models.StatusPending {
			processing := models.StatusProcessing
			next = &processing
		}
		if err := tx.UpdatePayment(ctx, id, status, paymentID, next); err != nil {
			return fmt.Errorf("update payment: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.log.Info("Payment status updated", "order_id", id, "payment_status", status)
	return s.load(ctx, s.store, id)
}
