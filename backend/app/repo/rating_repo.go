package repo

import (
	"context"

	"store-rating/backend/app/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository struct{ db *gorm.DB }

func NewRatingRepository(db *gorm.DB) *RatingRepository { return &RatingRepository{db: db} }

// Upsert inserts the rating or, when (user_id, store_id) already exists,
// overwrites its value and updated_at in the same statement. The unique
// index is what serializes concurrent submissions for one pair.
func (r *RatingRepository) Upsert(ctx context.Context, rt *models.Rating) error {
	err := r.db.WithContext(ctx).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "store_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
		}).
		Create(rt).Error
	return translate(err, "rating")
}

func (r *RatingRepository) FindByID(ctx context.Context, id uint) (*models.Rating, error) {
	var rt models.Rating
	if err := r.db.WithContext(ctx).First(&rt, id).Error; err != nil {
		return nil, translate(err, "rating")
	}
	return &rt, nil
}

func (r *RatingRepository) FindByUserAndStore(ctx context.Context, userID, storeID uint) (*models.Rating, error) {
	var rt models.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rt).Error
	if err != nil {
		return nil, translate(err, "rating")
	}
	return &rt, nil
}

func (r *RatingRepository) ListByStore(ctx context.Context, storeID uint) ([]models.RatingWithUser, error) {
	var out []models.RatingWithUser
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("r.id, r.user_id, r.store_id, r.rating, r.created_at, r.updated_at, u.name AS user_name, u.email AS user_email").
		Joins("JOIN users u ON u.id = r.user_id").
		Where("r.store_id = ?", storeID).
		Order("r.updated_at DESC, r.id DESC").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "rating")
	}
	return out, nil
}

func (r *RatingRepository) ListByUser(ctx context.Context, userID uint) ([]models.RatingWithStore, error) {
	var out []models.RatingWithStore
	err := r.db.WithContext(ctx).
		Table("ratings AS r").
		Select("r.id, r.user_id, r.store_id, r.rating, r.created_at, r.updated_at, s.name AS store_name").
		Joins("JOIN stores s ON s.id = r.store_id").
		Where("r.user_id = ?", userID).
		Order("r.store_id").
		Scan(&out).Error
	if err != nil {
		return nil, translate(err, "rating")
	}
	return out, nil
}

// Aggregate returns the average and count of a store's ratings. Average is
// nil when the store has none.
func (r *RatingRepository) Aggregate(ctx context.Context, storeID uint) (models.RatingAggregate, error) {
	var agg models.RatingAggregate
	err := r.db.WithContext(ctx).Model(&models.Rating{}).
		Select("AVG(rating) AS average, COUNT(*) AS count").
		Where("store_id = ?", storeID).
		Scan(&agg).Error
	return agg, translate(err, "rating")
}

func (r *RatingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Rating{}).Count(&count).Error
	return count, translate(err, "rating")
}
