package repository

import (
	"context"
	"time"

	"shoponline/internal/domain/entity"
)

// ReviewRepository persists product reviews.
type ReviewRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Review, error)
	ListByProduct(ctx context.Context, productID uint, page entity.Pagination) ([]*entity.Review, int64, error)
	ExistsForUserProduct(ctx context.Context, userID, productID uint) (bool, error)
	Stats(ctx context.Context, productID uint) (*entity.ReviewStats, error)
	Create(ctx context.Context, review *entity.Review) error
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id uint) error
}

// ComplaintRepository persists complaints.
type ComplaintRepository interface {
	FindByID(ctx context.Context, id uint) (*entity.Complaint, error)
	List(ctx context.Context, status entity.ComplaintStatus, page entity.Pagination) ([]*entity.Complaint, int64, error)
	ListByUser(ctx context.Context, userID uint) ([]*entity.Complaint, error)

	// Stats counts complaints per status; Recent counts those filed at or after since.
	Stats(ctx context.Context, since time.Time) (*entity.ComplaintStats, error)
	Create(ctx context.Context, complaint *entity.Complaint) error
	Update(ctx context.Context, complaint *entity.Complaint) error
}
