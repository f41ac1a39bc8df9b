package handler

import (
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/Priyanshusingh0818/GORUS/internal/service"

	"github.com/gin-gonic/gin"
)

type VerifyPaymentRequest struct {
	OrderID uint `json:"orderId"`
}

type PaymentHandler struct {
	payments *service.PaymentService
	log      *slog.Logger
}

func NewPaymentHandler(payments *service.PaymentService, log *slog.Logger) *PaymentHandler {
	return &PaymentHandler{payments: payments, log: log}
}

// ConfirmUPI accepts a multipart form with "orderId" and the screenshot under
// "paymentProof".
func (h *PaymentHandler) ConfirmUPI(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}

	orderID, _ := strconv.ParseUint(strings.TrimSpace(c.PostForm("orderId")), 10, 64)
	var proof *multipart.FileHeader
	if fh, err := c.FormFile("paymentProof"); err == nil {
		proof = fh
	}

	order, err := h.payments.ConfirmUPI(c.Request.Context(), who, uint(orderID), proof)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Payment proof uploaded successfully. Your order will be confirmed after verification.",
		"orderId": order.ID,
		"order":   order,
	})
}

func (h *PaymentHandler) VerifyPayment(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "orderId is required")
		return
	}

	state, err := h.payments.Status(c.Request.Context(), who, req.OrderID)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"order": gin.H{
			"id":             state.OrderID,
			"payment_status": state.PaymentStatus,
			"payment_method": state.PaymentMethod,
			"status":         state.OrderStatus,
		},
	})
}

func (h *PaymentHandler) Status(c *gin.Context) {
	who, ok := actor(c)
	if !ok {
		return
	}
	id, ok := idParam(c, "orderId", "Order not found")
	if !ok {
		return
	}

	state, err := h.payments.Status(c.Request.Context(), who, id)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, state)
}
