package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/store"
	"github.com/Priyanshusingh0818/GORUS/internal/upload"
)

type PaymentService struct {
	store    *store.Store
	uploads  *upload.Storage
	notifier OrderNotifier
	log      *slog.Logger
}

func NewPaymentService(st *store.Store, uploads *upload.Storage, notifier OrderNotifier, log *slog.Logger) *PaymentService {
	return &PaymentService{store: st, uploads: uploads, notifier: notifier, log: log.With("component", "payments")}
}

// PaymentState is the read-only view a customer polls after paying.
type PaymentState struct {
	OrderID       uint                 `json:"orderId"`
	PaymentMethod models.PaymentMethod `json:"paymentMethod"`
	PaymentStatus models.PaymentStatus `json:"paymentStatus"`
	OrderStatus   models.OrderStatus   `json:"orderStatus"`
}

// ConfirmUPI stores a payment screenshot for the caller's UPI order and moves
// it to pending_verification. The file is checked before the database is
// touched and removed again if the update fails.
func (s *PaymentService) ConfirmUPI(ctx context.Context, actor Actor, orderID uint, proof *multipart.FileHeader) (*models.Order, error) {
	if orderID == 0 || proof == nil {
		return nil, Validation("Order ID and payment proof are required")
	}
	if err := upload.CheckProof(proof); err != nil {
		return nil, proofError(err)
	}

	order, err := s.ownedOrder(ctx, actor, orderID, "Unauthorized to update this order")
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentUPI {
		return nil, Validation("This order is not a UPI payment")
	}
	if order.Status == models.StatusCancelled {
		return nil, Conflict("Cannot upload payment proof for a cancelled order")
	}

	filename, err := s.uploads.SaveProof(proof)
	if err != nil {
		if errors.Is(err, upload.ErrTooLarge) || errors.Is(err, upload.ErrNotImage) {
			return nil, proofError(err)
		}
		return nil, fmt.Errorf("save payment proof: %w", err)
	}
	if err := s.store.SetPaymentProof(ctx, order.ID, filename); err != nil {
		if rmErr := s.uploads.RemoveProof(filename); rmErr != nil {
			s.log.Warn("Failed to remove orphaned payment proof", "file", filename, "error", rmErr)
		}
		return nil, fmt.Errorf("record payment proof: %w", err)
	}

	updated, err := s.store.OrderByID(ctx, order.ID)
	if err != nil {
		return nil, fmt.Errorf("reload order: %w", err)
	}
	s.log.Info("Payment proof uploaded", "order_number", updated.OrderNumber, "file", filename)

	if s.notifier != nil {
		customer, err := s.store.UserByID(ctx, updated.UserID)
		if err != nil {
			customer = &models.User{ID: updated.UserID, Email: actor.Email}
		}
		s.notifier.PaymentProofUploaded(updated, customer, s.uploads.ProofPath(filename))
	}
	return updated, nil
}

func proofError(err error) error {
	if errors.Is(err, upload.ErrTooLarge) {
		return Validation("Payment proof must be 5MB or smaller")
	}
	return Validation("Only image files are allowed")
}

// Status reports the payment and order status of one of the caller's orders.
func (s *PaymentService) Status(ctx context.Context, actor Actor, orderID uint) (*PaymentState, error) {
	if orderID == 0 {
		return nil, Validation("orderId is required")
	}
	order, err := s.ownedOrder(ctx, actor, orderID, "Unauthorized")
	if err != nil {
		return nil, err
	}
	return &PaymentState{
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		PaymentStatus: order.PaymentStatus,
		OrderStatus:   order.Status,
	}, nil
}

func (s *PaymentService) ownedOrder(ctx context.Context, actor Actor, orderID uint, forbidden string) (*models.Order, error) {
	order, err := s.store.OrderByID(ctx, orderID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, NotFound("Order not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	if order.UserID != actor.UserID {
		return nil, Forbidden(forbidden)
	}
	return order, nil
}
