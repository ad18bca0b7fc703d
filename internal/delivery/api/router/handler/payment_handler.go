package handler

import (
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createPaymentRequest struct {
	OrderID uint                 `json:"orderId" validate:"required"`
	Method  entity.PaymentMethod `json:"paymentMethod" validate:"required"`
	Amount  *float64             `json:"amount"`
	Status  entity.PaymentStatus `json:"status"`
}

type paymentStatusRequest struct {
	Status entity.PaymentStatus `json:"status" validate:"required"`
}

type paymentResponse struct {
	ID          uint                 `json:"id"`
	OrderID     uint                 `json:"orderId"`
	Method      entity.PaymentMethod `json:"paymentMethod"`
	Amount      float64              `json:"amount"`
	PaymentDate time.Time            `json:"paymentDate"`
	Status      entity.PaymentStatus `json:"status"`
}

func newPaymentResponse(payment *entity.Payment) paymentResponse {
	return paymentResponse{
		ID:          payment.ID,
		OrderID:     payment.OrderID,
		Method:      payment.Method,
		Amount:      payment.Amount,
		PaymentDate: payment.PaymentDate,
		Status:      payment.Status,
	}
}

type paymentBucketResponse struct {
	Key    string  `json:"key"`
	Count  int64   `json:"count"`
	Amount float64 `json:"amount"`
}

type paymentStatsResponse struct {
	TotalPayments    int64                   `json:"totalPayments"`
	TotalAmount      float64                 `json:"totalAmount"`
	PaymentsByStatus []paymentBucketResponse `json:"paymentsByStatus"`
	PaymentsByMethod []paymentBucketResponse `json:"paymentsByMethod"`
}

func newPaymentBuckets(buckets []entity.PaymentBucket) []paymentBucketResponse {
	out := make([]paymentBucketResponse, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, paymentBucketResponse{Key: b.Key, Count: b.Count, Amount: b.Amount})
	}

	return out
}

// PaymentHandler serves order payments.
type PaymentHandler struct {
	uc usecase.PaymentUsecase
}

// NewPaymentHandler is the constructor for PaymentHandler.
func NewPaymentHandler(uc usecase.PaymentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// Create records the payment of an order; the amount defaults to the order total.
func (h *PaymentHandler) Create(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req createPaymentRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.uc.Create(c.Request().Context(), caller, &usecase.CreatePaymentInput{
		OrderID: req.OrderID,
		Method:  req.Method,
		Amount:  req.Amount,
		Status:  req.Status,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newPaymentResponse(payment), "Payment recorded successfully")
}

func (h *PaymentHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	payment, err := h.uc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newPaymentResponse(payment), "Payment retrieved successfully")
}

func (h *PaymentHandler) GetByOrder(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	orderID, err := idParam(c, "orderId")
	if err != nil {
		return err
	}

	payment, err := h.uc.GetByOrder(c.Request().Context(), caller, orderID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newPaymentResponse(payment), "Payment retrieved successfully")
}

func (h *PaymentHandler) List(c echo.Context) error {
	page, err := h.uc.List(c.Request().Context(), entity.PaymentStatus(c.QueryParam("status")), pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newPaymentResponse), "Payments retrieved successfully")
}

func (h *PaymentHandler) UpdateStatus(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req paymentStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	payment, err := h.uc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newPaymentResponse(payment), "Payment status updated successfully")
}

// Mine pages the payments of the caller's own orders.
func (h *PaymentHandler) Mine(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	page, err := h.uc.Mine(c.Request().Context(), caller, pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newPaymentResponse), "Payments retrieved successfully")
}

func (h *PaymentHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, paymentStatsResponse{
		TotalPayments:    stats.TotalPayments,
		TotalAmount:      stats.TotalAmount,
		PaymentsByStatus: newPaymentBuckets(stats.ByStatus),
		PaymentsByMethod: newPaymentBuckets(stats.ByMethod),
	}, "Payment statistics retrieved successfully")
}
