package postgres

import (
	"context"
	"math"
	"time"

	"shoponline/internal/domain/entity"
	domainerrors "shoponline/internal/domain/errors"
	"shoponline/internal/domain/repository"
	"shoponline/internal/infra/persistence/model"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type reviewRepository struct {
	db *gorm.DB
}

// NewReviewRepository is the constructor for reviewRepository.
func NewReviewRepository(db *gorm.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (repo *reviewRepository) FindByID(ctx context.Context, id uint) (*entity.Review, error) {
	var reviewM model.ReviewModel
	if err := first(ctx, repo.db, &reviewM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find review")
	}

	return toReviewDomain(&reviewM), nil
}

func (repo *reviewRepository) ListByProduct(ctx context.Context, productID uint, page entity.Pagination) ([]*entity.Review, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ReviewModel{}).Where("product_id = ?", productID)

	var rows []model.ReviewModel
	total, err := findPage(query, page, "created_at DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list reviews")
	}

	reviews := make([]*entity.Review, 0, len(rows))
	for i := range rows {
		reviews = append(reviews, toReviewDomain(&rows[i]))
	}

	return reviews, total, nil
}

func (repo *reviewRepository) ExistsForUserProduct(ctx context.Context, userID, productID uint) (bool, error) {
	found, err := exists(ctx, repo.db, &model.ReviewModel{}, "user_id = ? AND product_id = ?", userID, productID)

	return found, errors.Wrap(err, "failed to check review")
}

func (repo *reviewRepository) Stats(ctx context.Context, productID uint) (*entity.ReviewStats, error) {
	var rows []struct {
		Rating int
		Count  int64
	}
	err := repo.db.WithContext(ctx).Model(&model.ReviewModel{}).
		Select("rating, COUNT(*) AS count").
		Where("product_id = ?", productID).
		Group("rating").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to aggregate reviews")
	}

	stats := entity.NewReviewStats(productID)
	var sum int64
	for _, row := range rows {
		stats.RatingBreakdown[row.Rating] = row.Count
		stats.TotalReviews += row.Count
		sum += int64(row.Rating) * row.Count
	}
	if stats.TotalReviews > 0 {
		stats.AverageRating = math.Round(float64(sum)/float64(stats.TotalReviews)*100) / 100
	}

	return stats, nil
}

func (repo *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	reviewM := fromReviewDomain(review)
	if err := repo.db.WithContext(ctx).Create(reviewM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrReviewExists
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create review")
	}
	review.ID = reviewM.ID
	review.CreatedAt = reviewM.CreatedAt

	return nil
}

func (repo *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	if err := repo.db.WithContext(ctx).Save(fromReviewDomain(review)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update review")
	}

	return nil
}

func (repo *reviewRepository) Delete(ctx context.Context, id uint) error {
	if err := deleteByID(ctx, repo.db, &model.ReviewModel{}, id); err != nil {
		if errors.Is(err, repository.ErrRecordNotFound) {
			return err
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to delete review")
	}

	return nil
}

func toReviewDomain(data *model.ReviewModel) *entity.Review {
	return &entity.Review{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
	}
}

func fromReviewDomain(data *entity.Review) *model.ReviewModel {
	return &model.ReviewModel{
		ID:        data.ID,
		UserID:    data.UserID,
		ProductID: data.ProductID,
		Rating:    data.Rating,
		Comment:   data.Comment,
		CreatedAt: data.CreatedAt,
	}
}

// --- Complaints ---

type complaintRepository struct {
	db *gorm.DB
}

// NewComplaintRepository is the constructor for complaintRepository.
func NewComplaintRepository(db *gorm.DB) repository.ComplaintRepository {
	return &complaintRepository{db: db}
}

func (repo *complaintRepository) FindByID(ctx context.Context, id uint) (*entity.Complaint, error) {
	var complaintM model.ComplaintModel
	if err := first(ctx, repo.db, &complaintM, "id = ?", id); err != nil {
		return nil, errors.Wrap(err, "failed to find complaint")
	}

	return toComplaintDomain(&complaintM), nil
}

func (repo *complaintRepository) List(ctx context.Context, status entity.ComplaintStatus, page entity.Pagination) ([]*entity.Complaint, int64, error) {
	query := repo.db.WithContext(ctx).Model(&model.ComplaintModel{})
	if status != "" {
		query = query.Where("status = ?", string(status))
	}

	var rows []model.ComplaintModel
	total, err := findPage(query, page, "created_at DESC, id DESC", &rows)
	if err != nil {
		return nil, 0, errors.Wrap(err, "failed to list complaints")
	}

	return toComplaintDomains(rows), total, nil
}

func (repo *complaintRepository) ListByUser(ctx context.Context, userID uint) ([]*entity.Complaint, error) {
	var rows []model.ComplaintModel
	if err := repo.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list complaints by user")
	}

	return toComplaintDomains(rows), nil
}

func (repo *complaintRepository) Stats(ctx context.Context, since time.Time) (*entity.ComplaintStats, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	err := repo.db.WithContext(ctx).Model(&model.ComplaintModel{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, errors.Wrap(err, "failed to group complaints")
	}

	stats := &entity.ComplaintStats{ByStatus: make(map[entity.ComplaintStatus]int64, len(rows))}
	for _, row := range rows {
		stats.ByStatus[entity.ComplaintStatus(row.Status)] = row.Count
		stats.Total += row.Count
	}

	if err := repo.db.WithContext(ctx).Model(&model.ComplaintModel{}).
		Where("created_at >= ?", since).
		Count(&stats.Recent).Error; err != nil {
		return nil, errors.Wrap(err, "failed to count recent complaints")
	}

	return stats, nil
}

func (repo *complaintRepository) Create(ctx context.Context, complaint *entity.Complaint) error {
	complaintM := fromComplaintDomain(complaint)
	if err := repo.db.WithContext(ctx).Create(complaintM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create complaint")
	}
	complaint.ID = complaintM.ID
	complaint.CreatedAt = complaintM.CreatedAt

	return nil
}

func (repo *complaintRepository) Update(ctx context.Context, complaint *entity.Complaint) error {
	if err := repo.db.WithContext(ctx).Save(fromComplaintDomain(complaint)).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to update complaint")
	}

	return nil
}

func toComplaintDomains(rows []model.ComplaintModel) []*entity.Complaint {
	out := make([]*entity.Complaint, 0, len(rows))
	for i := range rows {
		out = append(out, toComplaintDomain(&rows[i]))
	}

	return out
}

func toComplaintDomain(data *model.ComplaintModel) *entity.Complaint {
	return &entity.Complaint{
		ID:          data.ID,
		UserID:      data.UserID,
		OrderID:     data.OrderID,
		Description: data.Description,
		Status:      entity.ComplaintStatus(data.Status),
		CreatedAt:   data.CreatedAt,
	}
}

func fromComplaintDomain(data *entity.Complaint) *model.ComplaintModel {
	return &model.ComplaintModel{
		ID:          data.ID,
		UserID:      data.UserID,
		OrderID:     data.OrderID,
		Description: data.Description,
		Status:      string(data.Status),
		CreatedAt:   data.CreatedAt,
	}
}
