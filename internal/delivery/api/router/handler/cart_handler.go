package handler

import (
	"shoponline/internal/delivery/api/response"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type addCartItemRequest struct {
	ProductID uint  `json:"productId" validate:"required"`
	VariantID *uint `json:"variantId"`
	Quantity  int   `json:"quantity"`
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type cartLineResponse struct {
	ID           uint    `json:"id"`
	ProductID    uint    `json:"productId"`
	ProductName  string  `json:"productName"`
	VariantID    *uint   `json:"variantId"`
	VariantLabel string  `json:"variantLabel,omitempty"`
	Quantity     int     `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Subtotal     float64 `json:"subtotal"`
}

type cartResponse struct {
	CartID        uint               `json:"cartId"`
	Items         []cartLineResponse `json:"items"`
	TotalQuantity int                `json:"totalQuantity"`
	TotalAmount   float64            `json:"totalAmount"`
}

func newCartResponse(out *usecase.CartOutput) cartResponse {
	items := make([]cartLineResponse, 0, len(out.Lines))
	for _, line := range out.Lines {
		items = append(items, cartLineResponse{
			ID:           line.Item.ID,
			ProductID:    line.Item.ProductID,
			ProductName:  line.ProductName,
			VariantID:    line.Item.VariantID,
			VariantLabel: line.VariantLabel,
			Quantity:     line.Item.Quantity,
			UnitPrice:    line.UnitPrice,
			Subtotal:     line.Subtotal,
		})
	}

	return cartResponse{
		CartID:        out.Cart.ID,
		Items:         items,
		TotalQuantity: out.TotalQuantity,
		TotalAmount:   out.TotalAmount,
	}
}

// CartHandler serves the caller's own cart.
type CartHandler struct {
	uc usecase.CartUsecase
}

// NewCartHandler is the constructor for CartHandler.
func NewCartHandler(uc usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

func (h *CartHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	out, err := h.uc.Get(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCartResponse(out), "Cart retrieved successfully")
}

// AddItem merges the quantity into the matching line or opens a new one.
func (h *CartHandler) AddItem(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req addCartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.uc.AddItem(c.Request().Context(), caller, &usecase.AddCartItemInput{
		ProductID: req.ProductID,
		VariantID: req.VariantID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCartResponse(out), "Item added to cart")
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	itemID, err := idParam(c, "itemId")
	if err != nil {
		return err
	}

	var req updateCartItemRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), caller, itemID, req.Quantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCartResponse(out), "Cart item updated")
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	itemID, err := idParam(c, "itemId")
	if err != nil {
		return err
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), caller, itemID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCartResponse(out), "Cart item removed")
}

func (h *CartHandler) Clear(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	if err := h.uc.Clear(c.Request().Context(), caller); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Cart cleared")
}
