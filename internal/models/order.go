package models

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPending    OrderStatus = "pending"
	StatusProcessing OrderStatus = "processing"
	StatusShipped    OrderStatus = "shipped"
	StatusDelivered  OrderStatus = "delivered"
	StatusCancelled  OrderStatus = "cancelled"
)

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled}

func (s OrderStatus) Valid() bool {
	return slices.Contains(OrderStatuses, s)
}

type PaymentMethod string

const (
	PaymentUPI PaymentMethod = "upi"
	PaymentCOD PaymentMethod = "cod"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentUPI || m == PaymentCOD
}

type PaymentStatus string

const (
	PaymentPending             PaymentStatus = "pending"
	PaymentPaid                PaymentStatus = "paid"
	PaymentFailed              PaymentStatus = "failed"
	PaymentCashOnDelivery      PaymentStatus = "cod"
	PaymentPendingVerification PaymentStatus = "pending_verification"
)

// AdminSettable reports whether an admin may set this payment status directly.
// pending_verification is only reachable through a proof upload.
func (s PaymentStatus) AdminSettable() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentCashOnDelivery:
		return true
	}
	return false
}

type Order struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	UserID          uint            `gorm:"not null;index" json:"user_id"`
	User            *User           `gorm:"foreignKey:UserID" json:"-"`
	OrderNumber     string          `gorm:"size:40;uniqueIndex;not null" json:"order_number"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	ShippingName    string          `gorm:"size:150;not null" json:"shipping_name"`
	ShippingAddress string          `gorm:"type:text;not null" json:"shipping_address"`
	ShippingPhone   string          `gorm:"size:30;not null" json:"shipping_phone"`
	PaymentMethod   PaymentMethod   `gorm:"size:10;not null" json:"payment_method"`
	PaymentID       *string         `gorm:"size:100" json:"payment_id"`
	PaymentStatus   PaymentStatus   `gorm:"size:30;not null" json:"payment_status"`
	PaymentProof    *string         `gorm:"size:255" json:"payment_proof"`
	Status          OrderStatus     `gorm:"size:20;not null;index" json:"status"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
}

// OrderItem snapshots the product name and price at order time; later catalog
// edits never touch it.
type OrderItem struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	OrderID      uint            `gorm:"not null;index" json:"order_id"`
	ProductID    uint            `gorm:"not null;index" json:"product_id"`
	ProductName  string          `gorm:"size:150;not null" json:"product_name"`
	ProductPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"product_price"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	Subtotal     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
}
