package usecase

import (
	"context"

	"shoponline/internal/domain/entity"
)

// ReviewInput carries a rating and an optional comment.
type ReviewInput struct {
	Rating  int
	Comment string
}

// CreateComplaintInput files a complaint, optionally about one of the caller's orders.
type CreateComplaintInput struct {
	OrderID     *uint
	Description string
}

// ReviewUsecase manages product reviews.
type ReviewUsecase interface {
	ListByProduct(ctx context.Context, productID uint, page entity.Pagination) (entity.Page[*entity.Review], error)
	Stats(ctx context.Context, productID uint) (*entity.ReviewStats, error)
	Create(ctx context.Context, principal entity.Principal, productID uint, input *ReviewInput) (*entity.Review, error)
	Update(ctx context.Context, principal entity.Principal, id uint, input *ReviewInput) (*entity.Review, error)
	Delete(ctx context.Context, principal entity.Principal, id uint) error
}

// ComplaintUsecase manages customer complaints.
type ComplaintUsecase interface {
	Create(ctx context.Context, principal entity.Principal, input *CreateComplaintInput) (*entity.Complaint, error)
	Mine(ctx context.Context, principal entity.Principal) ([]*entity.Complaint, error)
	Get(ctx context.Context, principal entity.Principal, id uint) (*entity.Complaint, error)
	List(ctx context.Context, status entity.ComplaintStatus, page entity.Pagination) (entity.Page[*entity.Complaint], error)
	UpdateStatus(ctx context.Context, id uint, status entity.ComplaintStatus) (*entity.Complaint, error)

	// Stats counts complaints per status and those filed within entity.ComplaintRecentWindow.
	Stats(ctx context.Context) (*entity.ComplaintStats, error)
}
