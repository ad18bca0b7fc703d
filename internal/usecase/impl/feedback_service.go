package impl

import (
	"context"
	"log/slog"
	"strings"
	"time"

	deliverycontext "shoponline/internal/delivery/context"
	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/domain/service"
	"shoponline/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

var permComplaintView = entity.Permission(entity.ResourceComplaints, entity.VerbView)

// FeedbackServiceParams holds the dependencies of the review and complaint services.
type FeedbackServiceParams struct {
	fx.In

	ReviewRepo    repository.ReviewRepository
	ComplaintRepo repository.ComplaintRepository
	ProductRepo   repository.ProductRepository
	OrderRepo     repository.OrderRepository
	Authorizer    service.Authorizer
	Logger        *slog.Logger
}

type feedbackDeps struct {
	reviewRepo    repository.ReviewRepository
	complaintRepo repository.ComplaintRepository
	productRepo   repository.ProductRepository
	orderRepo     repository.OrderRepository
	authz         service.Authorizer
	logger        *slog.Logger
}

func newFeedbackDeps(params FeedbackServiceParams) *feedbackDeps {
	return &feedbackDeps{
		reviewRepo:    params.ReviewRepo,
		complaintRepo: params.ComplaintRepo,
		productRepo:   params.ProductRepo,
		orderRepo:     params.OrderRepo,
		authz:         params.Authorizer,
		logger:        params.Logger,
	}
}

func (srv *feedbackDeps) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, srv.logger)
}

// --- Reviews ---

type reviewService struct{ *feedbackDeps }

// NewReviewService is the constructor for the review usecase.
func NewReviewService(params FeedbackServiceParams) usecase.ReviewUsecase {
	return &reviewService{newFeedbackDeps(params)}
}

func (srv *reviewService) ListByProduct(ctx context.Context, productID uint, page entity.Pagination) (entity.Page[*entity.Review], error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return entity.Page[*entity.Review]{}, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	reviews, total, err := srv.reviewRepo.ListByProduct(ctx, productID, page)
	if err != nil {
		return entity.Page[*entity.Review]{}, errors.Wrap(err, "failed to list reviews")
	}

	return entity.NewPage(reviews, total, page), nil
}

func (srv *reviewService) Stats(ctx context.Context, productID uint) (*entity.ReviewStats, error) {
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	stats, err := srv.reviewRepo.Stats(ctx, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load review statistics")
	}

	return stats, nil
}

// Create allows one review per user and product.
func (srv *reviewService) Create(ctx context.Context, principal entity.Principal, productID uint, input *usecase.ReviewInput) (*entity.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}
	if _, err := srv.productRepo.FindByID(ctx, productID); err != nil {
		return nil, mapNotFound(err, domainerrors.ErrProductNotFound, "failed to find product")
	}

	exists, err := srv.reviewRepo.ExistsForUserProduct(ctx, principal.UserID, productID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to check existing review")
	}
	if exists {
		return nil, domainerrors.ErrReviewExists
	}

	review := &entity.Review{
		UserID:    principal.UserID,
		ProductID: productID,
		Rating:    input.Rating,
		Comment:   strings.TrimSpace(input.Comment),
	}
	if err := srv.reviewRepo.Create(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to create review")
	}

	return review, nil
}

func (srv *reviewService) Update(ctx context.Context, principal entity.Principal, id uint, input *usecase.ReviewInput) (*entity.Review, error) {
	if err := validateRating(input.Rating); err != nil {
		return nil, err
	}

	review, err := srv.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	review.Rating = input.Rating
	review.Comment = strings.TrimSpace(input.Comment)

	if err := srv.reviewRepo.Update(ctx, review); err != nil {
		return nil, errors.Wrap(err, "failed to update review")
	}

	return review, nil
}

func (srv *reviewService) Delete(ctx context.Context, principal entity.Principal, id uint) error {
	if _, err := srv.owned(ctx, principal, id); err != nil {
		return err
	}

	if err := srv.reviewRepo.Delete(ctx, id); err != nil {
		return mapNotFound(err, domainerrors.ErrReviewNotFound, "failed to delete review")
	}

	return nil
}

// owned loads a review editable by the principal: its author, or Admin.
func (srv *reviewService) owned(ctx context.Context, principal entity.Principal, id uint) (*entity.Review, error) {
	review, err := srv.reviewRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrReviewNotFound, "failed to find review")
	}
	if err := service.EnsureOwnership(srv.authz, principal, entity.PermissionAll, review.UserID); err != nil {
		return nil, err
	}

	return review, nil
}

func validateRating(rating int) error {
	if rating < entity.MinRating || rating > entity.MaxRating {
		return domainerrors.NewFieldError("rating", "must be between 1 and 5")
	}

	return nil
}

// --- Complaints ---

type complaintService struct{ *feedbackDeps }

// NewComplaintService is the constructor for the complaint usecase.
func NewComplaintService(params FeedbackServiceParams) usecase.ComplaintUsecase {
	return &complaintService{newFeedbackDeps(params)}
}

// Create files a complaint; a referenced order must belong to the caller.
func (srv *complaintService) Create(ctx context.Context, principal entity.Principal, input *usecase.CreateComplaintInput) (*entity.Complaint, error) {
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, domainerrors.NewFieldError("description", "is required")
	}

	if input.OrderID != nil {
		order, err := srv.orderRepo.FindByID(ctx, *input.OrderID)
		if err != nil {
			return nil, mapNotFound(err, domainerrors.ErrOrderNotFound, "failed to find order")
		}
		if err := service.EnsureOwnership(srv.authz, principal, "", order.UserID); err != nil {
			return nil, err
		}
	}

	complaint := &entity.Complaint{
		UserID:      principal.UserID,
		OrderID:     input.OrderID,
		Description: description,
		Status:      entity.ComplaintStatusPending,
	}
	if err := srv.complaintRepo.Create(ctx, complaint); err != nil {
		return nil, errors.Wrap(err, "failed to create complaint")
	}

	srv.log(ctx).Info("Complaint filed", slog.Uint64("complaintID", uint64(complaint.ID)), slog.Uint64("userID", uint64(principal.UserID)))

	return complaint, nil
}

func (srv *complaintService) Mine(ctx context.Context, principal entity.Principal) ([]*entity.Complaint, error) {
	complaints, err := srv.complaintRepo.ListByUser(ctx, principal.UserID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list complaints")
	}

	return complaints, nil
}

func (srv *complaintService) Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Complaint, error) {
	complaint, err := srv.complaintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrComplaintNotFound, "failed to find complaint")
	}
	if err := service.EnsureOwnership(srv.authz, principal, permComplaintView, complaint.UserID); err != nil {
		return nil, err
	}

	return complaint, nil
}

func (srv *complaintService) List(ctx context.Context, status entity.ComplaintStatus, page entity.Pagination) (entity.Page[*entity.Complaint], error) {
	if status != "" && !status.IsValid() {
		return entity.Page[*entity.Complaint]{}, vocabularyError("status", entity.ComplaintStatuses())
	}

	complaints, total, err := srv.complaintRepo.List(ctx, status, page)
	if err != nil {
		return entity.Page[*entity.Complaint]{}, errors.Wrap(err, "failed to list complaints")
	}

	return entity.NewPage(complaints, total, page), nil
}

func (srv *complaintService) UpdateStatus(ctx context.Context, id uint, status entity.ComplaintStatus) (*entity.Complaint, error) {
	if !status.IsValid() {
		return nil, vocabularyError("status", entity.ComplaintStatuses())
	}

	complaint, err := srv.complaintRepo.FindByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err, domainerrors.ErrComplaintNotFound, "failed to find complaint")
	}
	complaint.Status = status

	if err := srv.complaintRepo.Update(ctx, complaint); err != nil {
		return nil, errors.Wrap(err, "failed to update complaint")
	}

	return complaint, nil
}

func (srv *complaintService) Stats(ctx context.Context) (*entity.ComplaintStats, error) {
	stats, err := srv.complaintRepo.Stats(ctx, time.Now().Add(-entity.ComplaintRecentWindow))
	if err != nil {
		return nil, errors.Wrap(err, "failed to load complaint statistics")
	}

	return stats, nil
}
