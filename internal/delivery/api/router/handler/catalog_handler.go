package handler

import (
	"strconv"
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type categoryRequest struct {
	Name        string `json:"name" validate:"required,max=100"`
	Description string `json:"description"`
}

type productRequest struct {
	CategoryID    *uint    `json:"categoryId"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description"`
	Price         float64  `json:"price"`
	Discount      *float64 `json:"discount"`
	StockQuantity int      `json:"stockQuantity"`
}

type variantRequest struct {
	Size          string `json:"size" validate:"max=50"`
	Color         string `json:"color" validate:"max=50"`
	StockQuantity int    `json:"stockQuantity"`
}

// stockRequest sets an absolute stock level; negatives are rejected downstream.
type stockRequest struct {
	StockQuantity *int `json:"stockQuantity" validate:"required"`
}

type categoryResponse struct {
	ID          uint      `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
}

type productResponse struct {
	ID            uint      `json:"id"`
	CategoryID    *uint     `json:"categoryId"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         float64   `json:"price"`
	Discount      *float64  `json:"discount"`
	FinalPrice    float64   `json:"finalPrice"`
	StockQuantity int       `json:"stockQuantity"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type variantResponse struct {
	ID            uint   `json:"id"`
	ProductID     uint   `json:"productId"`
	Size          string `json:"size"`
	Color         string `json:"color"`
	Label         string `json:"label"`
	StockQuantity int    `json:"stockQuantity"`
}

type variantAvailabilityResponse struct {
	VariantID     uint   `json:"variantId"`
	StockQuantity int    `json:"stockQuantity"`
	IsAvailable   bool   `json:"isAvailable"`
	Size          string `json:"size"`
	Color         string `json:"color"`
}

type productDetailResponse struct {
	productResponse
	Variants      []variantResponse `json:"variants"`
	TotalReviews  int64             `json:"totalReviews"`
	AverageRating float64           `json:"averageRating"`
}

func newCategoryResponse(category *entity.Category) categoryResponse {
	return categoryResponse{
		ID:          category.ID,
		Name:        category.Name,
		Description: category.Description,
		CreatedAt:   category.CreatedAt,
	}
}

func newProductResponse(product *entity.Product) productResponse {
	return productResponse{
		ID:            product.ID,
		CategoryID:    product.CategoryID,
		Name:          product.Name,
		Description:   product.Description,
		Price:         product.Price,
		Discount:      product.Discount,
		FinalPrice:    product.EffectivePrice(),
		StockQuantity: product.StockQuantity,
		CreatedAt:     product.CreatedAt,
		UpdatedAt:     product.UpdatedAt,
	}
}

func newVariantResponse(variant *entity.ProductVariant) variantResponse {
	return variantResponse{
		ID:            variant.ID,
		ProductID:     variant.ProductID,
		Size:          variant.Size,
		Color:         variant.Color,
		Label:         variant.Label(),
		StockQuantity: variant.StockQuantity,
	}
}

func newVariantResponses(variants []*entity.ProductVariant) []variantResponse {
	out := make([]variantResponse, 0, len(variants))
	for _, v := range variants {
		out = append(out, newVariantResponse(v))
	}

	return out
}

func (r productRequest) input() *usecase.ProductInput {
	return &usecase.ProductInput{
		CategoryID:    r.CategoryID,
		Name:          r.Name,
		Description:   r.Description,
		Price:         r.Price,
		Discount:      r.Discount,
		StockQuantity: r.StockQuantity,
	}
}

// CategoryHandler serves categories.
type CategoryHandler struct {
	uc usecase.CategoryUsecase
}

// NewCategoryHandler is the constructor for CategoryHandler.
func NewCategoryHandler(uc usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.uc.List(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]categoryResponse, 0, len(categories))
	for _, category := range categories {
		out = append(out, newCategoryResponse(category))
	}

	return response.OK(c, out, "Categories retrieved successfully")
}

func (h *CategoryHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	category, err := h.uc.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCategoryResponse(category), "Category retrieved successfully")
}

func (h *CategoryHandler) Create(c echo.Context) error {
	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.uc.Create(c.Request().Context(), &usecase.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newCategoryResponse(category), "Category created successfully")
}

func (h *CategoryHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req categoryRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	category, err := h.uc.Update(c.Request().Context(), id, &usecase.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newCategoryResponse(category), "Category updated successfully")
}

func (h *CategoryHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Category deleted successfully")
}

// ProductHandler serves products and their variants.
type ProductHandler struct {
	products usecase.ProductUsecase
	variants usecase.VariantUsecase
}

// NewProductHandler is the constructor for ProductHandler.
func NewProductHandler(products usecase.ProductUsecase, variants usecase.VariantUsecase) *ProductHandler {
	return &ProductHandler{products: products, variants: variants}
}

// List pages through products filtered by categoryId, search, minPrice, maxPrice and inStock.
func (h *ProductHandler) List(c echo.Context) error {
	var (
		filter entity.ProductFilter
		err    error
	)

	if filter.CategoryID, err = optionalUintQuery(c, "categoryId"); err != nil {
		return err
	}
	if filter.MinPrice, err = optionalFloatQuery(c, "minPrice"); err != nil {
		return err
	}
	if filter.MaxPrice, err = optionalFloatQuery(c, "maxPrice"); err != nil {
		return err
	}
	filter.Search = c.QueryParam("search")
	filter.InStock, _ = strconv.ParseBool(c.QueryParam("inStock"))

	page, err := h.products.List(c.Request().Context(), filter, pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newProductResponse), "Products retrieved successfully")
}

// Get returns a product with its variants and rating summary.
func (h *ProductHandler) Get(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.products.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	out := productDetailResponse{
		productResponse: newProductResponse(detail.Product),
		Variants:        newVariantResponses(detail.Variants),
	}
	if detail.Reviews != nil {
		out.TotalReviews = detail.Reviews.TotalReviews
		out.AverageRating = detail.Reviews.AverageRating
	}

	return response.OK(c, out, "Product retrieved successfully")
}

func (h *ProductHandler) Create(c echo.Context) error {
	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.products.Create(c.Request().Context(), req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newProductResponse(product), "Product created successfully")
}

func (h *ProductHandler) Update(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req productRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.products.Update(c.Request().Context(), id, req.input())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newProductResponse(product), "Product updated successfully")
}

func (h *ProductHandler) Delete(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.products.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Product deleted successfully")
}

func (h *ProductHandler) SetStock(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req stockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	product, err := h.products.SetStock(c.Request().Context(), id, *req.StockQuantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newProductResponse(product), "Stock updated successfully")
}

func (h *ProductHandler) ListVariants(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	variants, err := h.variants.ListByProduct(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newVariantResponses(variants), "Variants retrieved successfully")
}

func (h *ProductHandler) CreateVariant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req variantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	variant, err := h.variants.Create(c.Request().Context(), id, &usecase.VariantInput{
		Size:          req.Size,
		Color:         req.Color,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newVariantResponse(variant), "Variant created successfully")
}

func (h *ProductHandler) GetVariant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	variant, err := h.variants.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newVariantResponse(variant), "Variant retrieved successfully")
}

// VariantAvailability reports the current stock of one variant.
func (h *ProductHandler) VariantAvailability(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	variant, err := h.variants.Get(c.Request().Context(), id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, variantAvailabilityResponse{
		VariantID:     variant.ID,
		StockQuantity: variant.StockQuantity,
		IsAvailable:   variant.Available(),
		Size:          variant.Size,
		Color:         variant.Color,
	}, "Availability retrieved successfully")
}

func (h *ProductHandler) UpdateVariant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req variantRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	variant, err := h.variants.Update(c.Request().Context(), id, &usecase.VariantInput{
		Size:          req.Size,
		Color:         req.Color,
		StockQuantity: req.StockQuantity,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newVariantResponse(variant), "Variant updated successfully")
}

func (h *ProductHandler) DeleteVariant(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.variants.Delete(c.Request().Context(), id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Variant deleted successfully")
}

func (h *ProductHandler) SetVariantStock(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req stockRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	variant, err := h.variants.SetStock(c.Request().Context(), id, *req.StockQuantity)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newVariantResponse(variant), "Variant stock updated successfully")
}
