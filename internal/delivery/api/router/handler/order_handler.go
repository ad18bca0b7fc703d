package handler

import (
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type placeOrderRequest struct {
	ShippingAddress string `json:"shippingAddress" validate:"required,max=500"`
}

type updateOrderRequest struct {
	PaymentStatus     entity.PaymentStatus  `json:"paymentStatus"`
	ShippingStatus    entity.ShippingStatus `json:"shippingStatus"`
	ShippingAddress   string                `json:"shippingAddress" validate:"max=500"`
	AssignedShipperID *uint                 `json:"assignedShipperId"`
}

type addOrderItemRequest struct {
	ProductID uint  `json:"productId" validate:"required"`
	VariantID *uint `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type orderItemResponse struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"productId"`
	ProductName  string  `json:"productName"`
	VariantID    *uint   `json:"variantId"`
	VariantName  string  `json:"variantName,omitempty"`
	Quantity     int     `json:"quantity"`
	PriceAtOrder float64 `json:"priceAtOrder"`
	Subtotal     float64 `json:"subtotal"`
}

type orderResponse struct {
	ID                uint                  `json:"id"`
	UserID            uint                  `json:"userId"`
	OrderDate         time.Time             `json:"orderDate"`
	TotalAmount       float64               `json:"totalAmount"`
	ShippingAddress   string                `json:"shippingAddress"`
	PaymentStatus     entity.PaymentStatus  `json:"paymentStatus"`
	ShippingStatus    entity.ShippingStatus `json:"shippingStatus"`
	AssignedShipperID *uint                 `json:"assignedShipperId"`
	Items             []orderItemResponse   `json:"items,omitempty"`
}

func newOrderResponse(order *entity.Order) orderResponse {
	return orderResponse{
		ID:                order.ID,
		UserID:            order.UserID,
		OrderDate:         order.OrderDate,
		TotalAmount:       order.TotalAmount,
		ShippingAddress:   order.ShippingAddress,
		PaymentStatus:     order.PaymentStatus,
		ShippingStatus:    order.ShippingStatus,
		AssignedShipperID: order.AssignedShipperID,
	}
}

func newOrderItemResponses(items []*entity.OrderItem) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, orderItemResponse{
			ID:           item.ID,
			ProductID:    item.ProductID,
			ProductName:  item.ProductName,
			VariantID:    item.VariantID,
			VariantName:  item.VariantName,
			Quantity:     item.Quantity,
			PriceAtOrder: item.PriceAtOrder,
			Subtotal:     item.Subtotal(),
		})
	}

	return out
}

func newOrderDetailResponse(out *usecase.OrderOutput) orderResponse {
	resp := newOrderResponse(out.Order)
	resp.Items = newOrderItemResponses(out.Items)

	return resp
}

// OrderHandler serves order placement and management.
type OrderHandler struct {
	uc usecase.OrderUsecase
}

// NewOrderHandler is the constructor for OrderHandler.
func NewOrderHandler(uc usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

// Place turns the caller's cart into an order.
func (h *OrderHandler) Place(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req placeOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.uc.Place(c.Request().Context(), caller, &usecase.PlaceOrderInput{ShippingAddress: req.ShippingAddress})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newOrderDetailResponse(out), "Order placed successfully")
}

// List pages through orders filtered by paymentStatus and shippingStatus.
func (h *OrderHandler) List(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	filter := entity.OrderFilter{
		PaymentStatus:  entity.PaymentStatus(c.QueryParam("paymentStatus")),
		ShippingStatus: entity.ShippingStatus(c.QueryParam("shippingStatus")),
	}
	if filter.UserID, err = optionalUintQuery(c, "userId"); err != nil {
		return err
	}

	page, err := h.uc.List(c.Request().Context(), caller, filter, pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newOrderResponse), "Orders retrieved successfully")
}

func (h *OrderHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	out, err := h.uc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newOrderDetailResponse(out), "Order retrieved successfully")
}

func (h *OrderHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req updateOrderRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	order, err := h.uc.Update(c.Request().Context(), id, &usecase.UpdateOrderInput{
		PaymentStatus:     req.PaymentStatus,
		ShippingStatus:    req.ShippingStatus,
		ShippingAddress:   req.ShippingAddress,
		AssignedShipperID: req.AssignedShipperID,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newOrderResponse(order), "Order updated successfully")
}

func (h *OrderHandler) ListItems(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListItems(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newOrderItemResponses(items), "Order items retrieved successfully")
}

func (h *OrderHandler) AddItem(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req addOrderItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.uc.AddItem(c.Request().Context(), id, &usecase.AddOrderItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newOrderDetailResponse(out), "Order item added successfully")
}
