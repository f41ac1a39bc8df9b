package handler

import (
	"log/slog"
	"net/http"

	"github.com/Priyanshusingh0818/GORUS/internal/models"
	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// OrderItemRequest mirrors a cart line. Price is accepted for compatibility
// with the storefront but the catalog price is always used.
type OrderItemRequest struct {
	ID       uint             `json:"id" binding:"required"`
	Name     string           `json:"name"`
	Price    *decimal.Decimal `json:"price"`
	Quantity int              `json:"quantity" binding:"required,gt=0"`
}

type ShippingRequest struct {
	Name    string `json:"name" binding:"required"`
	Address string `json:"address" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
}

type CreateOrderRequest struct {
	Items         []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Shipping      *ShippingRequest   `json:"shipping" binding:"required"`
	TotalAmount   *decimal.Decimal   `json:"totalAmount"`
	PaymentMethod string             `json:"paymentMethod"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}

type UpdatePaymentStatusRequest struct {
	PaymentStatus string  `json:"paymentStatus"`
	PaymentID     *string `json:"paymentId"`
}

type OrderHandler struct {
	orders *service.OrderService
	log    *slog.Logger
}

func NewOrderHandler(orders *service.OrderService, log *slog.Logger) *OrderHandler {
	return &OrderHandler{orders: orders, log: log}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid order data")
		return
	}

	in := service.CreateOrderInput{
		Shipping: service.ShippingInput{
			Name:    req.Shipping.Name,
			Address: req.Shipping.Address,
			Phone:   req.Shipping.Phone,
		},
		TotalAmount:   req.TotalAmount,
		PaymentMethod: models.PaymentMethod(req.PaymentMethod),
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, service.OrderItemInput{ProductID: it.ID, Name: it.Name, Quantity: it.Quantity})
	}

	order, err := h.orders.Create(c.Request.Context(), who, in)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order": order})
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	orders, err := h.orders.ListMine(c.Request.Context(), who)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders})
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := h.orders.Get(c.Request.Context(), who, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) CancelOrder(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "id", "Order not found")
	if !ok {
		return
	}
	order, err := h.orders.Cancel(c.Request.Context(), who, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	id, ok := idParam(c, "id", "Order not found")
	if !ok {
		return
	}
	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid status")
		return
	}

	order, err := h.orders.SetStatus(c.Request.Context(), id, models.OrderStatus(req.Status))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

func (h *OrderHandler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := idParam(c, "id", "Order not found")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid payment status")
		return
	}

	order, err := h.orders.SetPaymentStatus(c.Request.Context(), id, models.PaymentStatus(req.PaymentStatus), req.PaymentID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}
