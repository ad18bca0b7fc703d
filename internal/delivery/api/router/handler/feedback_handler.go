package handler

import (
	"time"

	"shoponline/internal/delivery/api/response"
	"shoponline/internal/domain/entity"
	"shoponline/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

type reviewRequest struct {
	Rating  int    `json:"rating" validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

type createReviewRequest struct {
	ProductID uint `json:"productId" validate:"required"`
	reviewRequest
}

type createComplaintRequest struct {
	OrderID     *uint  `json:"orderId"`
	Description string `json:"description" validate:"required,max=2000"`
}

type complaintStatusRequest struct {
	Status entity.ComplaintStatus `json:"status" validate:"required"`
}

type reviewResponse struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"userId"`
	ProductID uint      `json:"productId"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type complaintResponse struct {
	ID          uint                   `json:"id"`
	UserID      uint                   `json:"userId"`
	OrderID     *uint                  `json:"orderId"`
	Description string                 `json:"description"`
	Status      entity.ComplaintStatus `json:"status"`
	CreatedAt   time.Time              `json:"createdAt"`
}

type reviewStatsResponse struct {
	ProductID       uint          `json:"productId"`
	TotalReviews    int64         `json:"totalReviews"`
	AverageRating   float64       `json:"averageRating"`
	RatingBreakdown map[int]int64 `json:"ratingBreakdown"`
}

type complaintStatusCount struct {
	Status entity.ComplaintStatus `json:"status"`
	Count  int64                  `json:"count"`
}

type complaintStatsResponse struct {
	TotalComplaints    int64                  `json:"totalComplaints"`
	RecentComplaints   int64                  `json:"recentComplaints"`
	ResolvedComplaints int64                  `json:"resolvedComplaints"`
	PendingComplaints  int64                  `json:"pendingComplaints"`
	ResolutionRate     float64                `json:"resolutionRate"`
	ComplaintsByStatus []complaintStatusCount `json:"complaintsByStatus"`
}

func newComplaintStatsResponse(stats *entity.ComplaintStats) complaintStatsResponse {
	byStatus := make([]complaintStatusCount, 0, len(entity.ComplaintStatuses()))
	for _, status := range entity.ComplaintStatuses() {
		byStatus = append(byStatus, complaintStatusCount{Status: status, Count: stats.ByStatus[status]})
	}

	return complaintStatsResponse{
		TotalComplaints:    stats.Total,
		RecentComplaints:   stats.Recent,
		ResolvedComplaints: stats.ByStatus[entity.ComplaintStatusResolved],
		PendingComplaints:  stats.ByStatus[entity.ComplaintStatusPending],
		ResolutionRate:     stats.ResolutionRate(),
		ComplaintsByStatus: byStatus,
	}
}

func newReviewResponse(review *entity.Review) reviewResponse {
	return reviewResponse{
		ID:        review.ID,
		UserID:    review.UserID,
		ProductID: review.ProductID,
		Rating:    review.Rating,
		Comment:   review.Comment,
		CreatedAt: review.CreatedAt,
	}
}

func newComplaintResponse(complaint *entity.Complaint) complaintResponse {
	return complaintResponse{
		ID:          complaint.ID,
		UserID:      complaint.UserID,
		OrderID:     complaint.OrderID,
		Description: complaint.Description,
		Status:      complaint.Status,
		CreatedAt:   complaint.CreatedAt,
	}
}

// ReviewHandler serves product reviews.
type ReviewHandler struct {
	uc usecase.ReviewUsecase
}

// NewReviewHandler is the constructor for ReviewHandler.
func NewReviewHandler(uc usecase.ReviewUsecase) *ReviewHandler {
	return &ReviewHandler{uc: uc}
}

func (h *ReviewHandler) ListByProduct(c echo.Context) error {
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}

	page, err := h.uc.ListByProduct(c.Request().Context(), productID, pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newReviewResponse), "Reviews retrieved successfully")
}

// Stats summarises the ratings of a product.
func (h *ReviewHandler) Stats(c echo.Context) error {
	productID, err := idParam(c, "productId")
	if err != nil {
		return err
	}

	stats, err := h.uc.Stats(c.Request().Context(), productID)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, reviewStatsResponse{
		ProductID:       stats.ProductID,
		TotalReviews:    stats.TotalReviews,
		AverageRating:   stats.AverageRating,
		RatingBreakdown: stats.RatingBreakdown,
	}, "Rating statistics retrieved successfully")
}

func (h *ReviewHandler) Create(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req createReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.uc.Create(c.Request().Context(), caller, req.ProductID, &usecase.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newReviewResponse(review), "Review created successfully")
}

func (h *ReviewHandler) Update(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req reviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	review, err := h.uc.Update(c.Request().Context(), caller, id, &usecase.ReviewInput{
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newReviewResponse(review), "Review updated successfully")
}

func (h *ReviewHandler) Delete(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), caller, id); err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, nil, "Review deleted successfully")
}

// ComplaintHandler serves customer complaints.
type ComplaintHandler struct {
	uc usecase.ComplaintUsecase
}

// NewComplaintHandler is the constructor for ComplaintHandler.
func NewComplaintHandler(uc usecase.ComplaintUsecase) *ComplaintHandler {
	return &ComplaintHandler{uc: uc}
}

func (h *ComplaintHandler) Create(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	var req createComplaintRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	complaint, err := h.uc.Create(c.Request().Context(), caller, &usecase.CreateComplaintInput{
		OrderID:     req.OrderID,
		Description: req.Description,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Created(c, newComplaintResponse(complaint), "Complaint submitted successfully")
}

func (h *ComplaintHandler) Mine(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	complaints, err := h.uc.Mine(c.Request().Context(), caller)
	if err != nil {
		return errors.WithStack(err)
	}

	out := make([]complaintResponse, 0, len(complaints))
	for _, complaint := range complaints {
		out = append(out, newComplaintResponse(complaint))
	}

	return response.OK(c, out, "Complaints retrieved successfully")
}

func (h *ComplaintHandler) Get(c echo.Context) error {
	caller, err := principal(c)
	if err != nil {
		return err
	}

	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	complaint, err := h.uc.Get(c.Request().Context(), caller, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newComplaintResponse(complaint), "Complaint retrieved successfully")
}

func (h *ComplaintHandler) List(c echo.Context) error {
	page, err := h.uc.List(c.Request().Context(), entity.ComplaintStatus(c.QueryParam("status")), pageQuery(c))
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, entity.MapPage(page, newComplaintResponse), "Complaints retrieved successfully")
}

func (h *ComplaintHandler) UpdateStatus(c echo.Context) error {
	id, err := idParam(c, "id")
	if err != nil {
		return err
	}

	var req complaintStatusRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	complaint, err := h.uc.UpdateStatus(c.Request().Context(), id, req.Status)
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newComplaintResponse(complaint), "Complaint status updated successfully")
}

func (h *ComplaintHandler) Stats(c echo.Context) error {
	stats, err := h.uc.Stats(c.Request().Context())
	if err != nil {
		return errors.WithStack(err)
	}

	return response.OK(c, newComplaintStatsResponse(stats), "Complaint statistics retrieved successfully")
}
