package handler

import (
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type createShippingRequest struct {
	OrderID         uint       `json:"orderId" validate:"required"`
	ShipperID       *uint      `json:"shipperId"`
	ShippingAddress string     `json:"shippingAddress" validate:"max=500"`
	ShippingDate    *time.Time `json:"shippingDate"`
}

type shippingStatusRequest struct {
	Status entity.ShippingStatus `json:"status" validate:"required"`
}

type assignShipperRequest struct {
	ShipperID uint `json:"shipperId" validate:"required"`
}

type shippingResponse struct {
	ID              uint                  `json:"id"`
	OrderID         uint                  `json:"orderId"`
	ShipperID       *uint                 `json:"shipperId"`
	ShippingAddress string                `json:"shippingAddress"`
	ShippingDate    *time.Time            `json:"shippingDate"`
	DeliveryDate    *time.Time            `json:"deliveryDate"`
	Status          entity.ShippingStatus `json:"status"`
}

func newShippingResponse(shipping *entity.Shipping) shippingResponse {
	return shippingResponse{
		ID:              shipping.ID,
		OrderID:         shipping.OrderID,
		ShipperID:       shipping.ShipperID,
		ShippingAddress: shipping.ShippingAddress,
		ShippingDate:    shipping.ShippingDate,
		DeliveryDate:    shipping.DeliveryDate,
		Status:          shipping.Status,
	}
}

// ShippingHandler serves delivery tracking.
type ShippingHandler struct {
	uc usecase.ShippingUsecase
}

// NewShippingHandler is the constructor for ShippingHandler.
func NewShippingHandler(uc usecase.ShippingUsecase) *ShippingHandler {
	return &ShippingHandler{uc: uc}
}

func (h *ShippingHandler) Create(c echo.Context) error {
	var req createShippingRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	shipping, err := h.uc.Create(c.Request().Context(), &usecase.CreateShippingInput{
		OrderID:         req.OrderID,
		ShipperID:       req.ShipperID,
		ShippingAddress: req.ShippingAddress,
		ShippingDate:    req.ShippingDate,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newShippingResponse(shipping), "Shipping created successfully")
}

func (h *ShippingHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	shipping, err := h.uc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newShippingResponse(shipping), "Shipping retrieved successfully")
}

func (h *ShippingHandler) List(c echo.Context) error {
	page, err := h.uc.List(c.Request().Context(), pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newShippingResponse), "Shipping retrieved successfully")
}

// Mine lists the shipments assigned to a shipper or belonging to a customer.
func (h *ShippingHandler) Mine(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	shippings, err := h.uc.Mine(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]shippingResponse, 0, len(shippings))
	for _, shipping := range shippings {
		out = append(out, newShippingResponse(shipping))
	}

	return response.OK(c, out, "Shipping retrieved successfully")
}

func (h *ShippingHandler) UpdateStatus(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req shippingStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	shipping, err := h.uc.UpdateStatus(c.Request().Context(), caller, id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newShippingResponse(shipping), "Shipping status updated successfully")
}

func (h *ShippingHandler) AssignShipper(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req assignShipperRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	shipping, err := h.uc.AssignShipper(c.Request().Context(), id, req.ShipperID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newShippingResponse(shipping), "Shipper assigned successfully")
}
